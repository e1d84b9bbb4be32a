package task

import (
	"context"
	"errors"
	"testing"

	"github.com/haivivi/voiceguard/pkg/audio/pcm"
	"github.com/haivivi/voiceguard/pkg/auth"
)

// scoreBackend scores probes by looking up a fixed table keyed on the
// profile's first vector component; it never touches real audio.
type scoreBackend struct {
	threshold float64
	scores    map[float64]float64 // profile key -> score
	failKeys  map[float64]bool    // comparisons that error
}

func (b *scoreBackend) Kind() auth.BackendKind { return auth.BackendECAPA }

func (b *scoreBackend) Enroll(ctx context.Context, samples []*pcm.Buffer) (*auth.Profile, error) {
	if len(samples) == 0 {
		return nil, auth.ErrEnrollment
	}
	// The profile key is the first sample's first value.
	return &auth.Profile{Vector: []float64{samples[0].Samples[0]}, Samples: len(samples)}, nil
}

func (b *scoreBackend) Compare(ctx context.Context, p *auth.Profile, probe *pcm.Buffer) (auth.Decision, error) {
	key := p.Vector[0]
	if b.failKeys[key] {
		return auth.Decision{}, &auth.ExtractionError{Err: errors.New("bad probe")}
	}
	s := b.scores[key]
	return auth.Decision{Accepted: s > b.threshold, Score: s}, nil
}

func (b *scoreBackend) Close() error { return nil }

func buf(v float64) *pcm.Buffer { return pcm.New([]float64{v}, 16000) }

func enrollThree(t *testing.T, tk Task) {
	t.Helper()
	for _, id := range []string{"spk-b", "spk-a", "spk-c"} {
		key := map[string]float64{"spk-a": 1, "spk-b": 2, "spk-c": 3}[id]
		if ok, err := tk.EnrollSpeaker(context.Background(), id, []*pcm.Buffer{buf(key)}); !ok {
			t.Fatalf("enroll %s: %v", id, err)
		}
	}
}

func TestEmptyRoster(t *testing.T) {
	for _, kind := range []Kind{KindVerification, KindClosedSet, KindOpenSet} {
		tk, err := New(kind, &scoreBackend{})
		if err != nil {
			t.Fatal(err)
		}
		_, err = tk.Evaluate(context.Background(), buf(0))
		if !errors.Is(err, auth.ErrEmptyRoster) {
			t.Errorf("%s on empty roster: got %v, want ErrEmptyRoster", kind, err)
		}
	}
}

func TestVerificationUsesLastEnrolled(t *testing.T) {
	b := &scoreBackend{threshold: 0.5, scores: map[float64]float64{1: 0.9, 2: 0.9, 3: 0.2}}
	tk, _ := New(KindVerification, b)
	enrollThree(t, tk) // spk-c (key 3) enrolled last

	out, err := tk.Evaluate(context.Background(), buf(0))
	if err != nil {
		t.Fatal(err)
	}
	if out.Accepted || out.SpeakerID != "" || out.Score != 0.2 {
		t.Errorf("outcome = %+v, want rejection scored against spk-c", out)
	}

	// Re-enroll spk-a so it becomes the claimed speaker.
	if _, err := tk.EnrollSpeaker(context.Background(), "spk-a", []*pcm.Buffer{buf(1)}); err != nil {
		t.Fatal(err)
	}
	out, err = tk.Evaluate(context.Background(), buf(0))
	if err != nil {
		t.Fatal(err)
	}
	if !out.Accepted || out.SpeakerID != "spk-a" || out.Score != 0.9 {
		t.Errorf("outcome = %+v, want spk-a accepted at 0.9", out)
	}
}

func TestClosedSetArgmax(t *testing.T) {
	b := &scoreBackend{threshold: 0.5, scores: map[float64]float64{1: 0.3, 2: 0.7, 3: 0.4}}
	tk, _ := New(KindClosedSet, b)
	enrollThree(t, tk)

	out, err := tk.Evaluate(context.Background(), buf(0))
	if err != nil {
		t.Fatal(err)
	}
	if !out.Accepted || out.SpeakerID != "spk-b" || out.Score != 0.7 {
		t.Errorf("outcome = %+v, want spk-b at 0.7", out)
	}
}

func TestClosedSetAcceptsEvenBelowThreshold(t *testing.T) {
	b := &scoreBackend{threshold: 0.5, scores: map[float64]float64{1: 0.1, 2: 0.2, 3: 0.15}}
	tk, _ := New(KindClosedSet, b)
	enrollThree(t, tk)

	out, err := tk.Evaluate(context.Background(), buf(0))
	if err != nil {
		t.Fatal(err)
	}
	if !out.Accepted || out.SpeakerID != "spk-b" {
		t.Errorf("outcome = %+v, closed set must still name the best match", out)
	}
}

func TestClosedSetFallbackWhenAllComparisonsFail(t *testing.T) {
	b := &scoreBackend{
		threshold: 0.5,
		scores:    map[float64]float64{},
		failKeys:  map[float64]bool{1: true, 2: true, 3: true},
	}
	tk, _ := New(KindClosedSet, b)
	enrollThree(t, tk)

	out, err := tk.Evaluate(context.Background(), buf(0))
	if err != nil {
		t.Fatal(err)
	}
	// Fallback is the first enrolled id in sorted order, scored zero.
	if out.SpeakerID != "spk-a" || out.Score != 0 {
		t.Errorf("outcome = %+v, want fallback to spk-a with score 0", out)
	}
}

func TestOpenSetRejectsUnknownVoice(t *testing.T) {
	b := &scoreBackend{threshold: 0.5, scores: map[float64]float64{1: 0.3, 2: 0.2, 3: 0.1}}
	tk, _ := New(KindOpenSet, b)
	enrollThree(t, tk)

	out, err := tk.Evaluate(context.Background(), buf(0))
	if err != nil {
		t.Fatal(err)
	}
	if out.Accepted || out.SpeakerID != "" {
		t.Errorf("outcome = %+v, want rejection", out)
	}
	if out.Score != 0.3 {
		t.Errorf("score = %v, want best score 0.3 even on rejection", out.Score)
	}
}

func TestOpenSetAcceptsBestMatch(t *testing.T) {
	b := &scoreBackend{threshold: 0.5, scores: map[float64]float64{1: 0.3, 2: 0.8, 3: 0.6}}
	tk, _ := New(KindOpenSet, b)
	enrollThree(t, tk)

	out, err := tk.Evaluate(context.Background(), buf(0))
	if err != nil {
		t.Fatal(err)
	}
	if !out.Accepted || out.SpeakerID != "spk-b" || out.Score != 0.8 {
		t.Errorf("outcome = %+v, want spk-b at 0.8", out)
	}
}

func TestEnrollFailureRecordedNotFatal(t *testing.T) {
	b := &scoreBackend{threshold: 0.5, scores: map[float64]float64{1: 0.9}}
	tk, _ := New(KindClosedSet, b)

	ok, err := tk.EnrollSpeaker(context.Background(), "spk-bad", nil)
	if ok || !errors.Is(err, auth.ErrEnrollment) {
		t.Errorf("ok=%v err=%v, want recorded failure", ok, err)
	}
	if tk.Roster().Len() != 1 {
		t.Error("failed enrollment must still be recorded")
	}

	if _, err := tk.EnrollSpeaker(context.Background(), "spk-a", []*pcm.Buffer{buf(1)}); err != nil {
		t.Fatal(err)
	}
	out, err := tk.Evaluate(context.Background(), buf(0))
	if err != nil {
		t.Fatal(err)
	}
	if out.SpeakerID != "spk-a" {
		t.Errorf("outcome = %+v, failed enrollee must not be a candidate", out)
	}
}

func TestParseKind(t *testing.T) {
	for _, s := range []string{"verification", "csi", "osi"} {
		if _, err := ParseKind(s); err != nil {
			t.Errorf("ParseKind(%q): %v", s, err)
		}
	}
	if _, err := ParseKind("speaker-diarization"); err == nil {
		t.Error("ParseKind must reject unknown kinds")
	}
}
