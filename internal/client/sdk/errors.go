package sdk

import (
	"errors"
	"fmt"
)

// Error is a failed backend call. Message is the backend's client-facing
// message when it sent one.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// StatusCode returns the HTTP status of an *Error in err's chain, or 0.
func StatusCode(err error) int {
	var sdkErr *Error
	if errors.As(err, &sdkErr) {
		return sdkErr.StatusCode
	}
	return 0
}

// Message returns the user-facing text for err.
func Message(err error) string {
	var sdkErr *Error
	if errors.As(err, &sdkErr) {
		return sdkErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
