// Package auth provides the speaker-authentication backends: a local
// variant that computes embeddings and compares them by cosine
// similarity, and a remote variant that delegates the accept/reject
// decision to a profile-based verification service.
//
// Both variants expose the same Backend interface so the decision
// tasks (verification, closed-set and open-set identification) stay
// backend-agnostic.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/haivivi/voiceguard/pkg/audio/pcm"
)

var (
	// ErrEnrollment is returned when zero samples were usable for
	// enrollment. Fatal to that speaker's run.
	ErrEnrollment = errors.New("auth: no usable enrollment samples")

	// ErrEmptyRoster is returned when identification or verification
	// is attempted before any speaker has been enrolled.
	ErrEmptyRoster = errors.New("auth: no speakers enrolled")

	// ErrNoModel is returned when a local backend kind has no
	// registered embedding model.
	ErrNoModel = errors.New("auth: no embedding model registered")
)

// ExtractionError reports that a single sample's embedding could not
// be computed. It is recoverable: callers drop the sample and
// continue.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("auth: extraction failed: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// BackendKind selects a concrete authentication backend.
type BackendKind string

const (
	// BackendECAPA is the local ECAPA-TDNN embedding model.
	BackendECAPA BackendKind = "ecapa"

	// BackendResNet is the local ResNet-based embedding model.
	BackendResNet BackendKind = "resnet"

	// BackendRemote delegates decisions to a remote verification
	// service.
	BackendRemote BackendKind = "remote"
)

// ParseBackendKind maps a configuration string to a BackendKind.
func ParseBackendKind(s string) (BackendKind, error) {
	switch BackendKind(s) {
	case BackendECAPA, BackendResNet, BackendRemote:
		return BackendKind(s), nil
	default:
		return "", fmt.Errorf("auth: unknown backend %q", s)
	}
}

// Decision is the outcome of comparing a probe against a profile.
type Decision struct {
	// Accepted reports whether the probe matched the profile.
	Accepted bool

	// Score is the similarity value: cosine in [-1, 1] for local
	// backends, the service's native confidence for remote ones.
	Score float64
}

// Backend turns audio into enrollment profiles and decisions.
type Backend interface {
	// Kind identifies the backend variant.
	Kind() BackendKind

	// Enroll builds a profile from one or more samples. Samples that
	// fail extraction are dropped; at least one must succeed or
	// ErrEnrollment is returned.
	Enroll(ctx context.Context, samples []*pcm.Buffer) (*Profile, error)

	// Compare scores a probe against a profile and thresholds the
	// result.
	Compare(ctx context.Context, profile *Profile, probe *pcm.Buffer) (Decision, error)

	// Close releases backend resources.
	Close() error
}

// Model extracts speaker embeddings from audio. It is the external
// primitive behind the local backends; typical implementations run a
// pretrained speaker-verification network.
//
// Implementations must be safe for concurrent use: the local backend
// extracts enrollment samples in parallel.
type Model interface {
	// Extract computes an embedding for the buffer. Returns an error
	// if the audio is unusable (too short, silent, corrupt); the
	// caller wraps it in ExtractionError and drops the sample.
	Extract(b *pcm.Buffer) ([]float64, error)

	// Dimension returns the embedding length.
	Dimension() int

	// Close releases model resources.
	Close() error
}
