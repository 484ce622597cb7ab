package kzg

import (
	"errors"
	"fmt"
)

var (
	// ErrBadArgs reports invalid caller input: malformed scalars or
	// points, wrong lengths, out-of-range indices, or inconsistent
	// batches. Every input validation failure wraps this error.
	ErrBadArgs = errors.New("kzg: invalid arguments")

	// ErrInternal reports a failure that valid inputs should never
	// produce.
	ErrInternal = errors.New("kzg: internal error")
)

// Specific validation failures, all matching ErrBadArgs under
// errors.Is.
var (
	ErrBadScalar      = fmt.Errorf("%w: non-canonical field element", ErrBadArgs)
	ErrBadPoint       = fmt.Errorf("%w: invalid curve point", ErrBadArgs)
	ErrBadCellIndex   = fmt.Errorf("%w: cell index out of range", ErrBadArgs)
	ErrLengthMismatch = fmt.Errorf("%w: input slice lengths differ", ErrBadArgs)
	ErrBadSetup       = fmt.Errorf("%w: invalid trusted setup", ErrBadArgs)
	ErrSetupNotLoaded = fmt.Errorf("%w: trusted setup not loaded", ErrBadArgs)
	ErrTooFewCells    = fmt.Errorf("%w: not enough cells to recover", ErrBadArgs)
	ErrDuplicateCell  = fmt.Errorf("%w: duplicate cell index", ErrBadArgs)
	ErrBadPrecompute  = fmt.Errorf("%w: precompute window out of range", ErrBadArgs)
)
