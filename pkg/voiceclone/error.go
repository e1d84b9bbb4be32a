package voiceclone

import (
	"errors"
	"fmt"
)

// Error represents a voice-cloning API error.
type Error struct {
	// Code is the API error code.
	Code string `json:"code"`

	// Message is the error message.
	Message string `json:"message"`

	// HTTPStatus is the HTTP status code.
	HTTPStatus int `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("voiceclone: %s (code=%s, http=%d)", e.Message, e.Code, e.HTTPStatus)
}

// IsRateLimit returns true if this is a rate limit error.
func (e *Error) IsRateLimit() bool {
	return e.HTTPStatus == 429
}

// IsInvalidAudio returns true if the service rejected the reference
// audio itself.
func (e *Error) IsInvalidAudio() bool {
	return e.Code == "InvalidAudio" || e.Code == "AudioTooShort"
}

// IsServerError returns true if this is a server-side error.
func (e *Error) IsServerError() bool {
	return e.HTTPStatus >= 500
}

// Retryable returns true if the request can be retried.
func (e *Error) Retryable() bool {
	return e.IsRateLimit() || e.IsServerError()
}

// AsError extracts *Error from an error.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
