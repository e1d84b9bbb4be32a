package auth

import (
	"bytes"
	"context"
	"fmt"

	"github.com/haivivi/voiceguard/pkg/audio/pcm"
	"github.com/haivivi/voiceguard/pkg/speakerid"
)

// Remote delegates enrollment and the accept/reject decision to a
// profile-based verification service. Audio is shipped as WAV; the
// decision and confidence come back in the service's native form.
type Remote struct {
	client *speakerid.Client
	locale string
}

// NewRemote creates a remote backend around a speakerid client.
func NewRemote(client *speakerid.Client) *Remote {
	return &Remote{client: client, locale: speakerid.DefaultLocale}
}

func (r *Remote) Kind() BackendKind { return BackendRemote }

// Enroll creates a server-side profile and streams each sample to it.
// Samples the service rejects are dropped; at least one must be
// accepted or ErrEnrollment is returned (and the dangling profile is
// deleted).
func (r *Remote) Enroll(ctx context.Context, samples []*pcm.Buffer) (*Profile, error) {
	if len(samples) == 0 {
		return nil, ErrEnrollment
	}

	p, err := r.client.CreateProfile(ctx, r.locale)
	if err != nil {
		return nil, fmt.Errorf("auth: create remote profile: %w", err)
	}

	ok := 0
	var lastErr error
	for _, s := range samples {
		wav, err := encodeWAV(s)
		if err != nil {
			lastErr = err
			continue
		}
		if _, err := r.client.Enroll(ctx, p.ID, wav); err != nil {
			// Per-sample rejection is tolerated; anything else that
			// is non-retryable at the profile level still only costs
			// this sample.
			lastErr = err
			continue
		}
		ok++
	}

	if ok == 0 {
		// Best effort: do not leave an empty profile behind.
		_ = r.client.DeleteProfile(ctx, p.ID)
		return nil, fmt.Errorf("%w: remote rejected all %d samples (last: %v)", ErrEnrollment, len(samples), lastErr)
	}
	return &Profile{RemoteID: p.ID, Samples: ok}, nil
}

// Compare forwards the probe to the verification endpoint and maps
// the native decision into the common shape.
func (r *Remote) Compare(ctx context.Context, profile *Profile, probe *pcm.Buffer) (Decision, error) {
	if err := profile.Validate(); err != nil {
		return Decision{}, err
	}
	if !profile.IsRemote() {
		return Decision{}, fmt.Errorf("auth: remote backend cannot compare local profile")
	}

	wav, err := encodeWAV(probe)
	if err != nil {
		return Decision{}, &ExtractionError{Err: err}
	}
	v, err := r.client.Verify(ctx, profile.RemoteID, wav)
	if err != nil {
		if apiErr, ok := speakerid.AsError(err); ok && apiErr.IsInvalidAudio() {
			return Decision{}, &ExtractionError{Err: err}
		}
		return Decision{}, err
	}
	return Decision{Accepted: v.Recognized, Score: v.Confidence}, nil
}

// Close is a no-op; server-side profiles outlive the backend so runs
// can be re-verified.
func (r *Remote) Close() error { return nil }

func encodeWAV(b *pcm.Buffer) (*bytes.Reader, error) {
	var buf bytes.Buffer
	if err := pcm.WriteWAV(&buf, b); err != nil {
		return nil, err
	}
	return bytes.NewReader(buf.Bytes()), nil
}
