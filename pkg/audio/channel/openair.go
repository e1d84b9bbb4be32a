package channel

import (
	"fmt"
	"math/rand/v2"

	"github.com/haivivi/voiceguard/pkg/audio/pcm"
)

// Reflection is one delayed echo in the simulated room response.
type Reflection struct {
	// Delay is the reflection delay in seconds, in (0, 1].
	Delay float64

	// Gain is the reflection amplitude relative to the direct sound.
	Gain float64
}

// OpenAirConfig parameterizes the acoustic channel.
type OpenAirConfig struct {
	// Reflections are the early room reflections added to the direct
	// sound. The impulse response spans at most one second.
	Reflections []Reflection

	// NoiseStdDev is the standard deviation of the additive
	// zero-mean Gaussian microphone noise.
	NoiseStdDev float64

	// CutoffHz is the lowpass cutoff modeling microphone roll-off.
	CutoffHz float64

	// FilterOrder is the lowpass Butterworth order (even).
	FilterOrder int

	// Seed fixes the noise source for reproducible output.
	// Zero selects a non-deterministic seed.
	Seed uint64
}

// DefaultOpenAirConfig returns the standard room model: three early
// reflections, -46 dB noise floor, 4th-order 4 kHz lowpass.
func DefaultOpenAirConfig() OpenAirConfig {
	return OpenAirConfig{
		Reflections: []Reflection{
			{Delay: 0.03, Gain: 0.6},
			{Delay: 0.06, Gain: 0.3},
			{Delay: 0.10, Gain: 0.1},
		},
		NoiseStdDev: 0.005,
		CutoffHz:    4000,
		FilterOrder: 4,
	}
}

// OpenAir simulates playing audio through a speaker and re-capturing
// it with a microphone in a room.
type OpenAir struct {
	cfg OpenAirConfig
}

// NewOpenAir creates an OpenAir simulator.
func NewOpenAir(cfg OpenAirConfig) (*OpenAir, error) {
	for _, r := range cfg.Reflections {
		if r.Delay <= 0 || r.Delay > 1 {
			return nil, fmt.Errorf("channel: reflection delay %g outside (0, 1]", r.Delay)
		}
	}
	if cfg.NoiseStdDev < 0 {
		return nil, fmt.Errorf("channel: negative noise level %g", cfg.NoiseStdDev)
	}
	if cfg.FilterOrder == 0 {
		cfg.FilterOrder = 4
	}
	if cfg.CutoffHz == 0 {
		cfg.CutoffHz = 4000
	}
	return &OpenAir{cfg: cfg}, nil
}

// Degrade applies reverberation, noise, and lowpass filtering.
// The output has exactly the input's length: convolution with the
// room response is truncated, modeling early reflections rather than
// a full reverberant tail.
func (o *OpenAir) Degrade(in *pcm.Buffer) (*pcm.Buffer, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	x := in.Samples
	n := len(x)
	rate := float64(in.Rate)

	// The room response is a unit impulse plus a few sparse taps, so
	// the convolution reduces to shifted, scaled copies of the input.
	y := make([]float64, n)
	copy(y, x)
	for _, r := range o.cfg.Reflections {
		d := int(r.Delay * rate)
		if d >= n {
			continue
		}
		for i := d; i < n; i++ {
			y[i] += r.Gain * x[i-d]
		}
	}

	if o.cfg.NoiseStdDev > 0 {
		rng := o.rng()
		for i := range y {
			y[i] += rng.NormFloat64() * o.cfg.NoiseStdDev
		}
	}

	lp, err := lowpass(o.cfg.FilterOrder, o.cfg.CutoffHz, rate)
	if err != nil {
		return nil, err
	}
	return pcm.New(lp.apply(y), in.Rate), nil
}

func (o *OpenAir) rng() *rand.Rand {
	seed := o.cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
