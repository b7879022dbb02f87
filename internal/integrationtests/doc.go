// Package integrationtests drives the compiler application end to end
// through testutil's harness.
package integrationtests
