// internal/transport/failure.go
package transport

import (
	"errors"
	"fmt"
)

// ErrTransport matches every Failure via errors.Is.
var ErrTransport = errors.New("transport failure")

// Failure is a timeout, malformed response or I/O error on the link.
// It never escapes the adapter as a panic.
type Failure struct {
	Op      string // "read" | "write"
	Address uint16
	Err     error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("transport: %s register %d: %v", f.Op, f.Address, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

func (f *Failure) Is(target error) bool { return target == ErrTransport }
