package channel

import (
	"errors"
	"math"
	"testing"

	"github.com/haivivi/voiceguard/pkg/audio/pcm"
)

func tone(freq float64, rate, n int) *pcm.Buffer {
	out := make([]float64, n)
	for i := range out {
		out[i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
	}
	return pcm.New(out, rate)
}

func rms(x []float64) float64 {
	sum := 0.0
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}

func TestOpenAirLengthInvariant(t *testing.T) {
	sim, err := NewOpenAir(DefaultOpenAirConfig())
	if err != nil {
		t.Fatal(err)
	}
	in := tone(440, 16000, 16000)
	out, err := sim.Degrade(in)
	if err != nil {
		t.Fatalf("Degrade: %v", err)
	}
	if out.Len() != in.Len() {
		t.Errorf("len = %d, want %d", out.Len(), in.Len())
	}
	if out.Rate != in.Rate {
		t.Errorf("rate = %d, want %d", out.Rate, in.Rate)
	}
}

func TestOpenAirDoesNotMutateInput(t *testing.T) {
	sim, _ := NewOpenAir(DefaultOpenAirConfig())
	in := tone(440, 16000, 8000)
	before := in.Clone()
	if _, err := sim.Degrade(in); err != nil {
		t.Fatal(err)
	}
	for i := range in.Samples {
		if in.Samples[i] != before.Samples[i] {
			t.Fatalf("input sample %d mutated", i)
		}
	}
}

func TestOpenAirSeedDeterminism(t *testing.T) {
	cfg := DefaultOpenAirConfig()
	cfg.Seed = 42
	in := tone(440, 16000, 8000)

	a, _ := mustOpenAir(t, cfg).Degrade(in)
	b, _ := mustOpenAir(t, cfg).Degrade(in)
	for i := range a.Samples {
		if a.Samples[i] != b.Samples[i] {
			t.Fatalf("seeded runs diverge at sample %d", i)
		}
	}

	cfg.Seed = 43
	c, _ := mustOpenAir(t, cfg).Degrade(in)
	same := true
	for i := range a.Samples {
		if a.Samples[i] != c.Samples[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical noise")
	}
}

func mustOpenAir(t *testing.T, cfg OpenAirConfig) *OpenAir {
	t.Helper()
	sim, err := NewOpenAir(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return sim
}

func TestOpenAirRejectsBadReflection(t *testing.T) {
	cfg := DefaultOpenAirConfig()
	cfg.Reflections = []Reflection{{Delay: 1.5, Gain: 0.5}}
	if _, err := NewOpenAir(cfg); err == nil {
		t.Error("expected error for reflection delay > 1s")
	}
}

func TestLowpassAttenuatesHighFrequencies(t *testing.T) {
	const rate = 16000
	lp, err := lowpass(4, 4000, rate)
	if err != nil {
		t.Fatal(err)
	}

	low := tone(500, rate, rate).Samples
	high := tone(7000, rate, rate).Samples

	// Skip the transient when measuring.
	lowOut := lp.apply(low)[rate/10:]
	highOut := lp.apply(high)[rate/10:]

	lowGain := rms(lowOut) / rms(low)
	highGain := rms(highOut) / rms(high)

	if lowGain < 0.9 {
		t.Errorf("passband gain = %v, want ~1", lowGain)
	}
	if highGain > 0.15 {
		t.Errorf("stopband gain = %v, want near 0", highGain)
	}
}

func TestBandpassShape(t *testing.T) {
	const rate = 16000
	bp, err := bandpass(10, 300, 3400, rate)
	if err != nil {
		t.Fatal(err)
	}

	mid := tone(1000, rate, rate).Samples
	lowF := tone(50, rate, rate).Samples
	highF := tone(6000, rate, rate).Samples

	midGain := rms(bp.apply(mid)[rate/10:]) / rms(mid)
	lowGain := rms(bp.apply(lowF)[rate/10:]) / rms(lowF)
	highGain := rms(bp.apply(highF)[rate/10:]) / rms(highF)

	if midGain < 0.8 {
		t.Errorf("1 kHz gain = %v, want ~1", midGain)
	}
	if lowGain > 0.1 {
		t.Errorf("50 Hz gain = %v, want near 0", lowGain)
	}
	if highGain > 0.1 {
		t.Errorf("6 kHz gain = %v, want near 0", highGain)
	}
}

func TestFilterRejectsOddOrder(t *testing.T) {
	if _, err := lowpass(3, 4000, 16000); err == nil {
		t.Error("expected error for odd order")
	}
}

func TestLineLengthPreserved(t *testing.T) {
	sim, err := NewLine().Simulator(ProfilePhone)
	if err != nil {
		t.Fatal(err)
	}
	in := tone(1000, 16000, 16000)
	out, err := sim.Degrade(in)
	if err != nil {
		t.Fatalf("Degrade: %v", err)
	}
	if out.Len() != in.Len() {
		t.Errorf("len = %d, want %d", out.Len(), in.Len())
	}
}

func TestLineUnknownProfile(t *testing.T) {
	if _, err := NewLine().Simulator("satellite"); !errors.Is(err, ErrUnknownProfile) {
		t.Errorf("got %v, want ErrUnknownProfile", err)
	}
}

func TestLineRegisterProfile(t *testing.T) {
	l := NewLine()
	err := l.Register(Profile{
		Name:           "wideband",
		DownsampleRate: 16000,
		BandLow:        100,
		BandHigh:       7000,
		FilterOrder:    4,
	})
	if err != nil {
		t.Fatal(err)
	}
	sim, err := l.Simulator("wideband")
	if err != nil {
		t.Fatalf("Simulator: %v", err)
	}
	in := tone(1000, 16000, 8000)
	out, err := sim.Degrade(in)
	if err != nil {
		t.Fatalf("Degrade: %v", err)
	}
	if out.Len() != in.Len() {
		t.Errorf("len = %d, want %d", out.Len(), in.Len())
	}
}

func TestLineRegisterValidatesProfile(t *testing.T) {
	l := NewLine()

	if err := l.Register(Profile{Name: "half", BandLow: 300}); err == nil {
		t.Error("single band edge must be rejected")
	}
	if err := l.Register(Profile{Name: "inverted", BandLow: 3400, BandHigh: 300, FilterOrder: 4}); err == nil {
		t.Error("inverted band must be rejected")
	}
	if err := l.Register(Profile{Name: "odd", BandLow: 300, BandHigh: 3400, FilterOrder: 5}); err == nil {
		t.Error("odd filter order must be rejected")
	}

	// A zero order defaults rather than failing later in Degrade.
	if err := l.Register(Profile{Name: "defaulted", BandLow: 300, BandHigh: 3400}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	p, err := l.Profile("defaulted")
	if err != nil {
		t.Fatal(err)
	}
	if p.FilterOrder != 10 {
		t.Errorf("filter order = %d, want defaulted 10", p.FilterOrder)
	}
	sim, err := l.Simulator("defaulted")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sim.Degrade(tone(1000, 16000, 8000)); err != nil {
		t.Errorf("Degrade with defaulted order: %v", err)
	}
}

func TestNewFactory(t *testing.T) {
	if sim, err := New(KindNone); err != nil || sim != nil {
		t.Errorf("KindNone: sim=%v err=%v", sim, err)
	}
	if sim, err := New(KindOpenAir); err != nil || sim == nil {
		t.Errorf("KindOpenAir: sim=%v err=%v", sim, err)
	}
	if sim, err := New(KindLine); err != nil || sim == nil {
		t.Errorf("KindLine: sim=%v err=%v", sim, err)
	}
	if _, err := New(Kind("bogus")); err == nil {
		t.Error("bogus kind: expected error")
	}
}
