// Package channel simulates audio transmission channels.
//
// Two simulators are provided:
//
//   - OpenAir models acoustic playback and re-capture: early room
//     reflections, additive microphone noise, and lowpass roll-off.
//   - Line models telephony/VoIP transmission: a downsample/upsample
//     round trip plus a bandpass filter, parameterized by named
//     profiles ("phone", "voip", or ones registered at runtime).
//
// Simulators are pure transforms: the input buffer is never mutated
// and the output is always a freshly allocated buffer of the same
// length as the input.
package channel

import (
	"errors"
	"fmt"

	"github.com/haivivi/voiceguard/pkg/audio/pcm"
)

// ErrUnknownProfile is returned when a line profile name has not been
// registered.
var ErrUnknownProfile = errors.New("channel: unknown profile")

// Simulator transforms one audio buffer into a degraded one.
type Simulator interface {
	// Degrade returns a degraded copy of the input. The input is not
	// modified and the output has the same length and sample rate.
	Degrade(in *pcm.Buffer) (*pcm.Buffer, error)
}

// Kind selects a simulator variant.
type Kind string

const (
	// KindNone disables channel simulation.
	KindNone Kind = ""

	// KindOpenAir is the acoustic playback/re-capture simulator.
	KindOpenAir Kind = "air"

	// KindLine is the telephony/VoIP transmission simulator.
	KindLine Kind = "line"
)

// ParseKind maps a configuration string to a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindNone, KindOpenAir, KindLine:
		return Kind(s), nil
	default:
		return KindNone, fmt.Errorf("channel: unknown kind %q", s)
	}
}

// New builds a simulator with default parameters for the given kind.
// KindNone yields a nil simulator (callers skip degradation).
// KindLine uses the "phone" profile.
func New(kind Kind) (Simulator, error) {
	switch kind {
	case KindNone:
		return nil, nil
	case KindOpenAir:
		return NewOpenAir(DefaultOpenAirConfig())
	case KindLine:
		return NewLine().Simulator(ProfilePhone)
	default:
		return nil, fmt.Errorf("channel: unknown kind %q", kind)
	}
}
