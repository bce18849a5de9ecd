package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
)

// Error wraps a telemetry source failure with its timeout classification.
// Timeouts are recoverable: the caller may continue with an empty review
// history. Every other failure must propagate, since scoring against a
// silently wrong mastery signal is worse than failing loudly.
type Error struct {
	Op      string
	Timeout bool
	Err     error
}

func (e *Error) Error() string {
	if e.Timeout {
		return fmt.Sprintf("telemetry %s: timeout: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("telemetry %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// wrapErr classifies err by whether the context deadline fired or the
// transport reported a timeout, then tags it with the operation name.
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

// IsTimeout reports whether err is a telemetry timeout.
func IsTimeout(err error) bool {
	var te *Error
	return errors.As(err, &te) && te.Timeout
}
