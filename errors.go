package claspy

import "errors"

// Construction errors. These indicate a programming mistake in the caller's
// model-building code, not a property of the constraint problem itself, and
// are returned rather than panicked so callers can decide how fatal they are.
var (
	// ErrBitWidthLocked is returned by SetBits/SetMaxVal once any variable
	// beyond the boot TRUE/FALSE pair has been allocated.
	ErrBitWidthLocked = errors.New("claspy: bit width cannot change after a variable has been allocated")

	// ErrInvalidRange is returned by IntRange when hi < lo or hi doesn't fit
	// the configured bit width.
	ErrInvalidRange = errors.New("claspy: invalid integer range")

	// ErrLiteralTooWide is returned by IntConst when the value doesn't fit
	// in NumBits bits.
	ErrLiteralTooWide = errors.New("claspy: integer literal exceeds configured bit width")

	// ErrVarInMultiVar is returned when a BoolVar, IntVar, or MultiVar is
	// passed as a value to NewMultiVar; only plain host values are allowed.
	ErrVarInMultiVar = errors.New("claspy: cannot place a variable inside a MultiVar value set")

	// ErrUnsupportedValue is returned by conversions that don't know how to
	// lift the given value into the target variable kind.
	ErrUnsupportedValue = errors.New("claspy: unsupported value for target variable kind")

	// errStreamClosedEarly is not returned to callers (Solve reports this
	// case as ok=false, err=nil, matching ordinary UNSAT), but is logged
	// internally to describe the condition.
	errStreamClosedEarly = errors.New("claspy: solver closed stdin early")
)
