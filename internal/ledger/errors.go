package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrTransport marks failures where no response was received from the
	// server. Only these are safe to retry for submissions.
	ErrTransport = errors.New("ledger transport failure")

	// ErrNotFound is matched by server errors naming a missing account,
	// ledger object or transaction.
	ErrNotFound = errors.New("not found")
)

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// TransportError wraps err as a transport failure.
func TransportError(err error) error {
	return fmt.Errorf("%w: %w", ErrTransport, err)
}

// Error is an error returned by the server in a well-formed response.
type Error struct {
	Name    string `json:"error"`
	Code    int    `json:"error_code,omitempty"`
	Message string `json:"error_message,omitempty"`
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Name, e.Message)
	}
	return e.Name
}

// Is matches ErrNotFound for the not-found family of server errors.
func (e *Error) Is(target error) bool {
	if target != ErrNotFound {
		return false
	}
	switch e.Name {
	case "actNotFound", "entryNotFound", "txnNotFound", "lgrNotFound", "objectNotFound":
		return true
	}
	return false
}

// CheckResult inspects the status of a result object and returns the server
// error it carries, if any.
func CheckResult(result json.RawMessage) error {
	var status struct {
		Status string `json:"status"`
		Error
	}
	if err := json.Unmarshal(result, &status); err != nil {
		return fmt.Errorf("unmarshal result status: %w", err)
	}
	if status.Status == "error" || status.Name != "" {
		e := status.Error
		return &e
	}
	return nil
}
