package task

import (
	"context"

	"github.com/haivivi/voiceguard/pkg/audio/pcm"
	"github.com/haivivi/voiceguard/pkg/auth"
)

// Verification scores probes against the most recently enrolled
// speaker. The accept decision comes straight from the backend.
type Verification struct {
	base
}

func (v *Verification) Kind() Kind { return KindVerification }

func (v *Verification) Evaluate(ctx context.Context, probe *pcm.Buffer) (Outcome, error) {
	claim := v.roster.Last()
	if claim == nil {
		return Outcome{}, auth.ErrEmptyRoster
	}
	d, err := v.backend.Compare(ctx, claim.Profile, probe)
	if err != nil {
		return Outcome{}, err
	}
	out := Outcome{Accepted: d.Accepted, Score: d.Score}
	if d.Accepted {
		out.SpeakerID = claim.SpeakerID
	}
	return out, nil
}
