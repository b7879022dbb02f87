package integrationtests

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/shapec/internal/app"
	"github.com/vk/shapec/internal/testutil"
)

func TestSingle_Success(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		source    string
		fragments []string
	}{
		{
			name:      "builtin shapes",
			source:    `shape main() { circle() rect(fill: "navy") }`,
			fragments: []string{"<circle cx='0' cy='0' r='10' fill='hotpink'", "<rect x='0' y='0' width='10' height='10' fill='navy'"},
		},
		{
			name: "user shapes with defaults",
			source: `
shape dot(r=3) { svg(value: "<circle r='" + r + "'/>") }
shape main() { dot() dot(r: 2 * 4) }`,
			fragments: []string{"<circle r='3'/><circle r='8'/>"},
		},
		{
			name:      "arithmetic precedence",
			source:    `shape main() { svg(value: "" + (1 + 2 * 3 - 4 / 2)) }`,
			fragments: []string{">5</svg>"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Arrange ---
			files := map[string]string{"doc.shape": tc.source}

			// --- Act ---
			result := testutil.RunIntegrationTest(t, files, app.Config{
				SourcePath: "doc.shape",
				OutputPath: "out/doc.svg",
			})

			// --- Assert ---
			require.NoError(t, result.Err)
			testutil.AssertDocument(t, result, "out/doc.svg", tc.fragments...)
		})
	}
}

func TestSingle_Failure(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		source string
		detail string
	}{
		{
			name:   "lex error",
			source: `shape main() { # }`,
			detail: "Unexpected character '#'.",
		},
		{
			name:   "missing main",
			source: `shape other() {}`,
			detail: "Missing main shape",
		},
		{
			name:   "undefined variable",
			source: `shape main() { svg(value: nope) }`,
			detail: "Variable `nope` not defined",
		},
		{
			name:   "unbounded recursion",
			source: `shape loop() { loop() } shape main() { loop() }`,
			detail: "Stack overflow",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Arrange ---
			files := map[string]string{"doc.shape": tc.source}

			// --- Act ---
			result := testutil.RunIntegrationTest(t, files, app.Config{
				SourcePath:   "doc.shape",
				OutputPath:   "doc.svg",
				ErrorPlacard: true,
			})

			// --- Assert ---
			require.ErrorIs(t, result.Err, app.ErrCompileFailed)
			testutil.AssertDiagnostic(t, result, tc.detail)
			testutil.AssertPlacard(t, result, "doc.svg", "doc.shape")
		})
	}
}

func TestSingle_StdinToStdout(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	stdin := strings.NewReader(`shape main() { rect() }`)

	// --- Act ---
	result := testutil.RunIntegrationTestWithContext(t.Context(), t, nil, app.Config{SourcePath: app.StdinPath}, stdin)

	// --- Assert ---
	require.NoError(t, result.Err)
	require.True(t, strings.HasPrefix(result.Stdout, "<svg"))
	require.Contains(t, result.Stdout, "<rect ")
}
