package diffctx

import (
	"github.com/pkg/errors"
)

// ErrMalformedStream indicates the command stream itself is broken: an
// Exit with no matching Enter, a value where the protocol requires a
// structural command, or any other shape the encoder/decoder pair should
// never have produced. Unlike a schema mismatch this is never recoverable
// locally — it means encoder and decoder disagree about the wire format —
// so it's wrapped with errors.WithStack at the one place it's raised,
// giving whoever is debugging an encoder/decoder mismatch a trace to start
// from instead of a bare string.
var ErrMalformedStream = errors.New("structdiff: malformed command stream")

func malformed() error {
	return errors.WithStack(ErrMalformedStream)
}
