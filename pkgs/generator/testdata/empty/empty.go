// Package empty has no difftag-annotated types, used to test Generate's
// "nothing to generate" error path.
package empty

type Plain struct {
	Value int
}
