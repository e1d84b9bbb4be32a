package auth

import (
	"errors"

	"github.com/haivivi/voiceguard/pkg/embedding"
)

// Profile is a speaker's enrolled voice representation. Exactly one
// of Vector (aggregated-local) or RemoteID (remote-handle) is set.
// Profiles are immutable; re-enrollment produces a new Profile.
type Profile struct {
	// Vector is the arithmetic mean of the per-sample embeddings.
	// Set only by local backends.
	Vector embedding.Vector

	// RemoteID is the opaque handle of a profile held by a remote
	// verification service. Set only by the remote backend.
	RemoteID string

	// Samples is the number of enrollment samples that succeeded.
	Samples int
}

// ErrProfileShape is returned when a profile is neither
// aggregated-local nor remote-handle, or both.
var ErrProfileShape = errors.New("auth: profile must be exactly one of local-vector or remote-handle")

// Validate checks the one-of invariant.
func (p *Profile) Validate() error {
	local := len(p.Vector) > 0
	remote := p.RemoteID != ""
	if local == remote {
		return ErrProfileShape
	}
	return nil
}

// IsRemote reports whether the profile is a remote handle.
func (p *Profile) IsRemote() bool { return p.RemoteID != "" }
