package testutil

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const svgOpen = `<svg width="100%" height="100%" xmlns="http://www.w3.org/2000/svg">`

// ReadOutput returns the contents of a file the run produced.
func ReadOutput(t *testing.T, result *HarnessResult, rel string) string {
	t.Helper()

	b, err := os.ReadFile(result.Path(rel))
	require.NoError(t, err, "expected output file %s", rel)
	return string(b)
}

// AssertDocument checks that rel holds a compiled document whose body
// contains every fragment.
func AssertDocument(t *testing.T, result *HarnessResult, rel string, fragments ...string) {
	t.Helper()

	doc := ReadOutput(t, result, rel)
	require.True(t, strings.HasPrefix(doc, svgOpen), "%s is not a compiled document:\n%s", rel, doc)
	for _, f := range fragments {
		require.Contains(t, doc, f, "%s is missing a fragment", rel)
	}
}

// AssertPlacard checks that rel holds an error placard mentioning message.
func AssertPlacard(t *testing.T, result *HarnessResult, rel, message string) {
	t.Helper()

	doc := ReadOutput(t, result, rel)
	require.True(t, strings.HasPrefix(doc, `<?xml version="1.0"?>`), "%s is not a placard:\n%s", rel, doc)
	require.Contains(t, doc, message)
}

// AssertDiagnostic checks that the run reported a diagnostic containing
// detail.
func AssertDiagnostic(t *testing.T, result *HarnessResult, detail string) {
	t.Helper()

	require.Contains(t, result.LogOutput, detail, "expected diagnostic was not reported")
}
