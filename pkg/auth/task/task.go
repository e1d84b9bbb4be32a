// Package task layers the three authentication decisions on top of an
// auth.Backend: verification against the most recent enrollee,
// closed-set identification (the probe is assumed to be someone on the
// roster) and open-set identification (it may be nobody).
//
// All three share a speaker roster that records every enrollment
// attempt, failed ones included, so a run can report which speakers
// never made it in.
package task

import (
	"context"
	"fmt"

	"github.com/haivivi/voiceguard/pkg/audio/pcm"
	"github.com/haivivi/voiceguard/pkg/auth"
)

// ErrEmptyRoster mirrors auth.ErrEmptyRoster for callers that only
// import this package.
var ErrEmptyRoster = auth.ErrEmptyRoster

// Kind selects an authentication decision task.
type Kind string

const (
	// KindVerification answers "is this probe the claimed speaker",
	// where the claim is the most recently enrolled speaker.
	KindVerification Kind = "verification"

	// KindClosedSet answers "which enrolled speaker is this", always
	// naming someone.
	KindClosedSet Kind = "csi"

	// KindOpenSet answers "which enrolled speaker is this, if any".
	KindOpenSet Kind = "osi"
)

// ParseKind maps a configuration string to a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindVerification, KindClosedSet, KindOpenSet:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("task: unknown task %q", s)
	}
}

// Outcome is the result of evaluating one probe.
type Outcome struct {
	// Accepted reports whether the probe was attributed to an
	// enrolled speaker. Closed-set identification always accepts.
	Accepted bool

	// SpeakerID names the attributed speaker. Empty when the probe
	// was rejected.
	SpeakerID string

	// Score is the similarity behind the decision, in the backend's
	// native domain.
	Score float64
}

// Task evaluates probes against an enrolled roster.
type Task interface {
	// Kind identifies the decision task.
	Kind() Kind

	// EnrollSpeaker builds a profile for the speaker and records the
	// attempt on the roster. A false return with a non-nil error means
	// the speaker could not be enrolled; the roster keeps the failure
	// and later probes simply cannot match that speaker.
	EnrollSpeaker(ctx context.Context, id string, samples []*pcm.Buffer) (bool, error)

	// Evaluate decides one probe. Returns auth.ErrEmptyRoster if no
	// speaker has been enrolled yet.
	Evaluate(ctx context.Context, probe *pcm.Buffer) (Outcome, error)

	// Roster exposes the enrollment records for reporting.
	Roster() *auth.Roster
}

// New constructs the task for the given kind around a backend.
func New(kind Kind, backend auth.Backend) (Task, error) {
	base := base{backend: backend, roster: auth.NewRoster()}
	switch kind {
	case KindVerification:
		return &Verification{base}, nil
	case KindClosedSet:
		return &ClosedSet{base}, nil
	case KindOpenSet:
		return &OpenSet{base}, nil
	default:
		return nil, fmt.Errorf("task: unknown task %q", kind)
	}
}

// base carries the state shared by all three tasks.
type base struct {
	backend auth.Backend
	roster  *auth.Roster
}

func (b *base) Roster() *auth.Roster { return b.roster }

func (b *base) EnrollSpeaker(ctx context.Context, id string, samples []*pcm.Buffer) (bool, error) {
	profile, err := b.backend.Enroll(ctx, samples)
	b.roster.Record(id, profile, err)
	if err != nil {
		return false, err
	}
	return true, nil
}

// identify compares the probe against every enrolled profile and
// returns the best-scoring entry. When every comparison errors on a
// non-empty roster, it falls back to the first entry in id order with
// a zero score so closed-set identification can still name someone.
func (b *base) identify(ctx context.Context, probe *pcm.Buffer) (string, auth.Decision, error) {
	enrolled := b.roster.Enrolled()
	if len(enrolled) == 0 {
		return "", auth.Decision{}, auth.ErrEmptyRoster
	}

	bestID := ""
	var best auth.Decision
	ok := false
	for _, e := range enrolled {
		d, err := b.backend.Compare(ctx, e.Profile, probe)
		if err != nil {
			continue
		}
		if !ok || d.Score > best.Score {
			bestID, best, ok = e.SpeakerID, d, true
		}
	}
	if !ok {
		return enrolled[0].SpeakerID, auth.Decision{}, nil
	}
	return bestID, best, nil
}
