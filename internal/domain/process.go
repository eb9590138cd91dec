package domain

import "fmt"

// ProcessError is a typed failure from an external version-control process.
// Output carries the raw combined stdout/stderr diagnostic text.
type ProcessError struct {
	Err    error
	Cmd    string
	Output string
}

// Error formats the failure with its raw diagnostic.
func (e *ProcessError) Error() string {
	return fmt.Sprintf("%s: %v: %s", e.Cmd, e.Err, e.Output)
}

// Unwrap returns the underlying exec error.
func (e *ProcessError) Unwrap() error {
	return e.Err
}
