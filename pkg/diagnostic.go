package zeebasic

import "fmt"

// Diagnostic is the single error kind raised by every phase of the compiler. It carries the source range the
// failure was found at and a human-readable message; there is no recovery, so the first Diagnostic raised aborts
// the compile.
type Diagnostic struct {
	Range   Range
	Message string
}

// Error implements the error interface so a Diagnostic can be returned and compared like any other Go error.
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s", d.Range, d.Message)
}

// errorf constructs a Diagnostic with a formatted message at rng.
func errorf(rng Range, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{Range: rng, Message: fmt.Sprintf(format, args...)}
}
