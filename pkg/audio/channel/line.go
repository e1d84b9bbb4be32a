package channel

import (
	"fmt"
	"sync"

	"github.com/haivivi/voiceguard/pkg/audio/pcm"
)

// Built-in line profile names.
const (
	ProfilePhone = "phone"
	ProfileVoIP  = "voip"
)

// Profile describes one transmission-line environment.
type Profile struct {
	// Name identifies the profile in the registry.
	Name string

	// DownsampleRate is the intermediate rate for the bandwidth
	// reduction round trip. Zero skips resampling.
	DownsampleRate int

	// BandLow and BandHigh bound the bandpass filter in Hz.
	// Both zero skips filtering.
	BandLow  float64
	BandHigh float64

	// FilterOrder is the Butterworth order per bandpass edge (even).
	FilterOrder int
}

func narrowband(name string) Profile {
	return Profile{
		Name:           name,
		DownsampleRate: 8000,
		BandLow:        300,
		BandHigh:       3400,
		FilterOrder:    10,
	}
}

// Line holds the registered transmission profiles. The profile table
// is the only mutable state; the simulators it hands out are pure.
type Line struct {
	mu       sync.RWMutex
	profiles map[string]Profile
}

// NewLine creates a Line registry with the "phone" and "voip"
// profiles predefined.
func NewLine() *Line {
	l := &Line{profiles: make(map[string]Profile)}
	l.Register(narrowband(ProfilePhone))
	l.Register(narrowband(ProfileVoIP))
	return l
}

// Register adds or replaces a named profile. Band edges come as a
// pair; a zero FilterOrder with a band set defaults to 10. Bad shapes
// are rejected here rather than surfacing later in Degrade.
func (l *Line) Register(p Profile) error {
	if p.Name == "" {
		return fmt.Errorf("channel: profile name required")
	}
	if (p.BandLow > 0) != (p.BandHigh > 0) {
		return fmt.Errorf("channel: profile %q sets only one band edge", p.Name)
	}
	if p.BandLow > 0 {
		if p.BandLow >= p.BandHigh {
			return fmt.Errorf("channel: profile %q band %g..%g Hz is empty", p.Name, p.BandLow, p.BandHigh)
		}
		if p.FilterOrder == 0 {
			p.FilterOrder = 10
		}
		if p.FilterOrder < 0 || p.FilterOrder%2 != 0 {
			return fmt.Errorf("channel: profile %q filter order %d must be positive and even", p.Name, p.FilterOrder)
		}
	}
	if p.DownsampleRate < 0 {
		return fmt.Errorf("channel: profile %q has negative downsample rate", p.Name)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.profiles[p.Name] = p
	return nil
}

// Profile returns the named profile or ErrUnknownProfile.
func (l *Line) Profile(name string) (Profile, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
	return p, nil
}

// Names returns the registered profile names.
func (l *Line) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, 0, len(l.profiles))
	for name := range l.profiles {
		out = append(out, name)
	}
	return out
}

// Simulator returns a Simulator bound to the named profile.
func (l *Line) Simulator(name string) (Simulator, error) {
	p, err := l.Profile(name)
	if err != nil {
		return nil, err
	}
	return &lineSim{p: p}, nil
}

type lineSim struct {
	p Profile
}

// Degrade models bandwidth reduction: resample down to the profile
// rate and back up (no dithering), then bandpass. The round trip
// preserves the input length.
func (s *lineSim) Degrade(in *pcm.Buffer) (*pcm.Buffer, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	out := in.Clone()
	if s.p.DownsampleRate > 0 && s.p.DownsampleRate != in.Rate {
		down, err := pcm.Resample(in, s.p.DownsampleRate)
		if err != nil {
			return nil, err
		}
		up, err := pcm.Resample(down, in.Rate)
		if err != nil {
			return nil, err
		}
		// Exact length restore: the resampler rounds independently
		// in each direction.
		if up.Len() > in.Len() {
			up.Samples = up.Samples[:in.Len()]
		}
		for up.Len() < in.Len() {
			up.Samples = append(up.Samples, 0)
		}
		out = up
	}

	if s.p.BandLow > 0 || s.p.BandHigh > 0 {
		bp, err := bandpass(s.p.FilterOrder, s.p.BandLow, s.p.BandHigh, float64(in.Rate))
		if err != nil {
			return nil, err
		}
		out = pcm.New(bp.apply(out.Samples), in.Rate)
	}
	return out, nil
}
