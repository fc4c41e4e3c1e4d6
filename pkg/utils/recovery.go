package utils

import (
	"fmt"
	"log/slog"
	"runtime/debug"
)

// PanicError wraps a panic value as an error
type PanicError struct {
	Value      any
	StackTrace string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// RecoverAsError converts a panic into an error stored in *errPtr. It must
// be deferred directly.
//
//	func doWork() (err error) {
//	    defer RecoverAsError(&err)
//	    // ... code that might panic
//	}
func RecoverAsError(errPtr *error) {
	if r := recover(); r != nil {
		stack := string(debug.Stack())
		*errPtr = &PanicError{Value: r, StackTrace: stack}
		slog.Error("Recovered from panic", "panic", r, "stack", stack)
	}
}

// Go runs fn in a goroutine. The returned channel receives fn's error, or
// a *PanicError if fn panics, and is closed when fn returns.
func Go(fn func() error) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)

		var err error
		func() {
			defer RecoverAsError(&err)
			err = fn()
		}()
		if err != nil {
			errCh <- err
		}
	}()
	return errCh
}
