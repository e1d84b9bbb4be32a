package task

import (
	"context"

	"github.com/haivivi/voiceguard/pkg/audio/pcm"
)

// ClosedSet identifies the probe as the best-matching enrolled
// speaker. The probe is assumed to belong to someone on the roster,
// so the task always names a speaker and Accepted is always true.
type ClosedSet struct {
	base
}

func (c *ClosedSet) Kind() Kind { return KindClosedSet }

func (c *ClosedSet) Evaluate(ctx context.Context, probe *pcm.Buffer) (Outcome, error) {
	id, d, err := c.identify(ctx, probe)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Accepted: true, SpeakerID: id, Score: d.Score}, nil
}
