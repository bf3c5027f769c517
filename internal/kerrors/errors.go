// Package kerrors defines the fatal error kinds a Kosmo run can produce.
// All four are sentinel errors checked with errors.Is; every CLI entry
// point wraps the offending input into the message before printing it and
// exiting non-zero.
package kerrors

import "errors"

var (
	// ErrInputMalformed: trace file size not a multiple of 25, or an
	// unknown op byte (neither 0 nor 1).
	ErrInputMalformed = errors.New("kosmo: malformed trace input")

	// ErrArgInvalid: missing required flag, both simulators disabled, or
	// an unknown policy tag.
	ErrArgInvalid = errors.New("kosmo: invalid argument")

	// ErrIO: unreadable path or unwritable output. Callers normally wrap
	// the underlying *fs.PathError with this sentinel via fmt.Errorf.
	ErrIO = errors.New("kosmo: I/O error")

	// ErrDegenerateWSS: WSS == 0, so no size grid can be constructed.
	ErrDegenerateWSS = errors.New("kosmo: working set size is zero, cannot build a grid")
)
