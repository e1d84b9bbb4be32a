package speakerid

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a speaker-verification API error.
type Error struct {
	// Code is the service error code (e.g. "InvalidAudio").
	Code string `json:"code"`

	// Message is the error message.
	Message string `json:"message"`

	// HTTPStatus is the HTTP status code.
	HTTPStatus int `json:"-"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("speakerid: %s (code=%s, http=%d)", e.Message, e.Code, e.HTTPStatus)
}

// IsRateLimit returns true if the request was throttled.
func (e *Error) IsRateLimit() bool {
	return e.HTTPStatus == http.StatusTooManyRequests
}

// IsNotFound returns true if the profile does not exist.
func (e *Error) IsNotFound() bool {
	return e.HTTPStatus == http.StatusNotFound
}

// IsInvalidAudio returns true if the service rejected the audio
// payload (too short, silent, wrong format). Recoverable per sample.
func (e *Error) IsInvalidAudio() bool {
	return e.Code == "InvalidAudio" || e.Code == "AudioTooShort"
}

// IsServerError returns true for server-side failures.
func (e *Error) IsServerError() bool {
	return e.HTTPStatus >= 500
}

// Retryable returns true if the request can be retried.
func (e *Error) Retryable() bool {
	return e.IsRateLimit() || e.IsServerError()
}

// AsError extracts *Error from an error chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
