package lifecycle

import (
	"errors"
	"fmt"
)

// Kind classifies a failed attempt.
type Kind string

const (
	SigningError          Kind = "SigningError"
	SubmissionError       Kind = "SubmissionError"
	RejectedError         Kind = "RejectedError"
	NotValidatedError     Kind = "NotValidatedError"
	InsufficientLiquidity Kind = "InsufficientLiquidity"
	NotInitialized        Kind = "NotInitialized"
	OutOfOrder            Kind = "OutOfOrder"
)

// Error is the payload of a failed lifecycle step. Code carries the network
// result code when the ledger reported one.
type Error struct {
	Kind   Kind
	Reason string
	Code   string
	Err    error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Code != "" {
		msg += " (" + e.Code + ")"
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether the whole attempt may be retried by the caller.
func (e *Error) Retryable() bool {
	return e.Kind == SubmissionError || e.Kind == NotValidatedError
}

// KindOf returns the Kind of a lifecycle error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
