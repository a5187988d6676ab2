package codec

// CountingEncoder is a minimal Encoder stub that only counts elements. Host
// formats that must know a sequence's length up front (SelfDescribing() ==
// false) run the diff traversal once against a CountingEncoder to obtain
// that length, then run it again against the real encoder passing the
// count to BeginSequence. Both passes must visit values in exactly the
// same order and produce exactly the same count — that determinism is
// Component D's (diffctx.Context) job, not this type's.
type CountingEncoder struct {
	n int
}

// NewCountingEncoder returns a fresh counter.
func NewCountingEncoder() *CountingEncoder {
	return &CountingEncoder{}
}

// Count returns the number of elements written since construction.
func (c *CountingEncoder) Count() int {
	return c.n
}

func (c *CountingEncoder) BeginSequence(knownLen int) error {
	return nil
}

func (c *CountingEncoder) EncodeElement(el Element) error {
	c.n++
	return nil
}

func (c *CountingEncoder) EndSequence() error {
	return nil
}

// SelfDescribing is true so that callers never feel obligated to run a
// second counting pass against the counter itself.
func (c *CountingEncoder) SelfDescribing() bool {
	return true
}
