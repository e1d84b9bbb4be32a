package auth

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/haivivi/voiceguard/pkg/audio/pcm"
)

// fakeModel derives a deterministic 3-dim embedding from the first
// samples of the buffer, and fails on buffers marked too short.
type fakeModel struct {
	closed bool
}

func (m *fakeModel) Extract(b *pcm.Buffer) ([]float64, error) {
	if b.Len() < 3 {
		return nil, errors.New("audio too short")
	}
	return []float64{b.Samples[0], b.Samples[1], b.Samples[2]}, nil
}

func (m *fakeModel) Dimension() int { return 3 }
func (m *fakeModel) Close() error   { m.closed = true; return nil }

func buf(samples ...float64) *pcm.Buffer {
	return pcm.New(samples, 16000)
}

func TestLocalEnrollAggregatesMean(t *testing.T) {
	b, err := NewLocal(BackendECAPA, &fakeModel{}, LocalConfig{Threshold: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	p, err := b.Enroll(context.Background(), []*pcm.Buffer{
		buf(1, 0, 0, 0),
		buf(0, 1, 0, 0),
		buf(0, 0, 1, 0),
	})
	if err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	if p.Samples != 3 {
		t.Errorf("samples = %d, want 3", p.Samples)
	}
	third := 1.0 / 3.0
	for i, v := range p.Vector {
		if math.Abs(v-third) > 1e-12 {
			t.Errorf("vector[%d] = %v, want %v", i, v, third)
		}
	}
	if err := p.Validate(); err != nil {
		t.Errorf("profile invariant: %v", err)
	}
}

func TestLocalEnrollDropsFailedSamples(t *testing.T) {
	b, _ := NewLocal(BackendECAPA, &fakeModel{}, LocalConfig{Threshold: 0.5})
	p, err := b.Enroll(context.Background(), []*pcm.Buffer{
		buf(1, 0, 0),
		buf(0.1), // too short, dropped
	})
	if err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	if p.Samples != 1 {
		t.Errorf("samples = %d, want 1", p.Samples)
	}
}

func TestLocalEnrollAllFail(t *testing.T) {
	b, _ := NewLocal(BackendECAPA, &fakeModel{}, LocalConfig{Threshold: 0.5})
	_, err := b.Enroll(context.Background(), []*pcm.Buffer{buf(0.1), buf(0.2)})
	if !errors.Is(err, ErrEnrollment) {
		t.Errorf("got %v, want ErrEnrollment", err)
	}
}

func TestLocalEnrollCancelledContext(t *testing.T) {
	b, _ := NewLocal(BackendECAPA, &fakeModel{}, LocalConfig{Threshold: 0.5, MaxParallel: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.Enroll(ctx, []*pcm.Buffer{buf(1, 0, 0), buf(0, 1, 0)})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestLocalCompareThreshold(t *testing.T) {
	probe := buf(1, 0, 0, 0)
	profile := &Profile{Vector: []float64{1, 0, 0}, Samples: 1}

	accept, _ := NewLocal(BackendECAPA, &fakeModel{}, LocalConfig{Threshold: 0.5})
	d, err := accept.Compare(context.Background(), profile, probe)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if !d.Accepted || math.Abs(d.Score-1.0) > 1e-9 {
		t.Errorf("decision = %+v, want accepted with score 1", d)
	}

	// Threshold monotonicity: raising the threshold can only flip
	// accept to reject, never the reverse.
	strict, _ := NewLocal(BackendECAPA, &fakeModel{}, LocalConfig{Threshold: 1.0})
	d2, err := strict.Compare(context.Background(), profile, probe)
	if err != nil {
		t.Fatal(err)
	}
	if d2.Accepted {
		t.Error("score 1.0 must not beat threshold 1.0 (strict greater-than)")
	}
	if d2.Score != d.Score {
		t.Errorf("score changed with threshold: %v vs %v", d2.Score, d.Score)
	}
}

func TestLocalCompareProbeExtractionError(t *testing.T) {
	b, _ := NewLocal(BackendECAPA, &fakeModel{}, LocalConfig{Threshold: 0.5})
	profile := &Profile{Vector: []float64{1, 0, 0}, Samples: 1}
	_, err := b.Compare(context.Background(), profile, buf(0.1))
	var ee *ExtractionError
	if !errors.As(err, &ee) {
		t.Errorf("got %v, want ExtractionError", err)
	}
}

func TestLocalRejectsRemoteProfile(t *testing.T) {
	b, _ := NewLocal(BackendECAPA, &fakeModel{}, LocalConfig{Threshold: 0.5})
	_, err := b.Compare(context.Background(), &Profile{RemoteID: "p-1", Samples: 1}, buf(1, 0, 0))
	if err == nil {
		t.Error("expected error comparing remote profile with local backend")
	}
}

func TestProfileInvariant(t *testing.T) {
	cases := []struct {
		p  Profile
		ok bool
	}{
		{Profile{Vector: []float64{1}}, true},
		{Profile{RemoteID: "x"}, true},
		{Profile{}, false},
		{Profile{Vector: []float64{1}, RemoteID: "x"}, false},
	}
	for i, c := range cases {
		err := c.p.Validate()
		if c.ok && err != nil {
			t.Errorf("case %d: unexpected error %v", i, err)
		}
		if !c.ok && !errors.Is(err, ErrProfileShape) {
			t.Errorf("case %d: got %v, want ErrProfileShape", i, err)
		}
	}
}

func TestNewFactoryRequiresLoader(t *testing.T) {
	_, err := New(context.Background(), BackendResNet, Config{Threshold: 0.5})
	if !errors.Is(err, ErrNoModel) {
		t.Errorf("got %v, want ErrNoModel", err)
	}
}

func TestNewFactoryWithRegisteredModel(t *testing.T) {
	RegisterModel(BackendECAPA, func(ctx context.Context) (Model, error) {
		return &fakeModel{}, nil
	})
	b, err := New(context.Background(), BackendECAPA, Config{Threshold: 0.5})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if b.Kind() != BackendECAPA {
		t.Errorf("kind = %q", b.Kind())
	}
}
