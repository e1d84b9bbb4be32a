package speakerid

import (
	"context"
	"io"
	"net/http"
)

// EnrollmentStatus is the server-side state of a profile.
type EnrollmentStatus string

const (
	// StatusEnrolling means more speech is needed before the profile
	// can verify.
	StatusEnrolling EnrollmentStatus = "Enrolling"

	// StatusEnrolled means the profile is ready for verification.
	StatusEnrolled EnrollmentStatus = "Enrolled"
)

// Profile is a server-side voice profile.
type Profile struct {
	ID               string           `json:"profileId"`
	Locale           string           `json:"locale"`
	EnrollmentStatus EnrollmentStatus `json:"enrollmentStatus"`
}

// Enrollment is the result of adding one audio sample to a profile.
type Enrollment struct {
	ProfileID        string           `json:"profileId"`
	EnrollmentStatus EnrollmentStatus `json:"enrollmentStatus"`
	SpeechSeconds    float64          `json:"enrollmentsSpeechLength"`
	RemainingSeconds float64          `json:"remainingEnrollmentsSpeechLength"`
}

// Verification is the result of verifying probe audio.
type Verification struct {
	// Recognized reports the service's accept/reject decision.
	Recognized bool `json:"recognized"`

	// Confidence is the service's native score in [0, 1].
	Confidence float64 `json:"confidence"`
}

// CreateProfile creates a new text-independent verification profile.
// An empty locale defaults to DefaultLocale.
func (c *Client) CreateProfile(ctx context.Context, locale string) (*Profile, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	req := struct {
		Locale string `json:"locale"`
	}{Locale: locale}

	var p Profile
	if err := c.http.requestJSON(ctx, http.MethodPost, "/speaker/verification/profiles", req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProfile fetches a profile's current state.
func (c *Client) GetProfile(ctx context.Context, profileID string) (*Profile, error) {
	var p Profile
	if err := c.http.requestJSON(ctx, http.MethodGet, "/speaker/verification/profiles/"+profileID, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Enroll adds one WAV audio sample to a profile's enrollment.
func (c *Client) Enroll(ctx context.Context, profileID string, audio io.Reader) (*Enrollment, error) {
	var e Enrollment
	path := "/speaker/verification/profiles/" + profileID + "/enrollments"
	if err := c.http.requestAudio(ctx, path, audio, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Verify scores WAV probe audio against an enrolled profile.
func (c *Client) Verify(ctx context.Context, profileID string, audio io.Reader) (*Verification, error) {
	var v Verification
	path := "/speaker/verification/profiles/" + profileID + "/verify"
	if err := c.http.requestAudio(ctx, path, audio, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// DeleteProfile removes a profile and its enrollments.
func (c *Client) DeleteProfile(ctx context.Context, profileID string) error {
	return c.http.requestJSON(ctx, http.MethodDelete, "/speaker/verification/profiles/"+profileID, nil, nil)
}
