package task

import (
	"context"

	"github.com/haivivi/voiceguard/pkg/audio/pcm"
)

// OpenSet identifies the probe as the best-matching enrolled speaker,
// but only if that match clears the backend's acceptance decision.
// Otherwise the probe is rejected as an unknown voice.
type OpenSet struct {
	base
}

func (o *OpenSet) Kind() Kind { return KindOpenSet }

func (o *OpenSet) Evaluate(ctx context.Context, probe *pcm.Buffer) (Outcome, error) {
	id, d, err := o.identify(ctx, probe)
	if err != nil {
		return Outcome{}, err
	}
	out := Outcome{Accepted: d.Accepted, Score: d.Score}
	if d.Accepted {
		out.SpeakerID = id
	}
	return out, nil
}
