package diffable

import "errors"

// errZeroNonZero is returned by NewNonZero when asked to wrap 0.
var errZeroNonZero = errors.New("structdiff: NonZero value must not be zero")
