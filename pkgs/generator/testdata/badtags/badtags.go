// Package badtags has two independently broken difftag annotations, used
// to test that Discover reports every broken field in one pass.
package badtags

type First struct {
	A int `difftag:"bogus"`
}

type Second struct {
	B int `difftag:"index=not-a-number"`
}
