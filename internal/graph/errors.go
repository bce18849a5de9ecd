package graph

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
)

// Error wraps a knowledge-graph failure with its timeout classification.
// Timeouts are recoverable (the caller may continue with an empty node map);
// everything else propagates as a hard failure.
type Error struct {
	Op      string
	Timeout bool
	Err     error
}

func (e *Error) Error() string {
	if e.Timeout {
		return fmt.Sprintf("graph %s: timeout: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("graph %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) {
		return err
	}
	return &Error{Op: op, Timeout: isTimeoutErr(err), Err: err}
}

func isTimeoutErr(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// IsTimeout reports whether err is a graph timeout.
func IsTimeout(err error) bool {
	var ge *Error
	return errors.As(err, &ge) && ge.Timeout
}
