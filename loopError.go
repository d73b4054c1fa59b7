package timingtest

import (
	"fmt"
	"runtime/debug"
)

// LoopError is returned when the loop is misconfigured or when
// Simulate or Render return an error.
type LoopError struct {
	Inner       error
	Message     string
	StackTrace  string
	ErrorSource TokenSource
	Misc        map[string]interface{}
}

func wrapLoopError(err error, source TokenSource, messagef string, msgArgs ...interface{}) LoopError {
	return LoopError{
		Inner:       err,
		Message:     fmt.Sprintf(messagef, msgArgs...),
		StackTrace:  string(debug.Stack()),
		ErrorSource: source,
		Misc:        make(map[string]interface{}),
	}
}

func (e LoopError) Error() string {
	if e.Inner == nil {
		return e.Message
	}
	return e.Message + ": " + e.Inner.Error()
}

// Unwrap returns the error reported by Simulate or Render, if any.
func (e LoopError) Unwrap() error {
	return e.Inner
}
