// Package pcm provides the audio buffer type shared by the
// authentication and channel-simulation pipelines, plus WAV I/O and
// sample-rate conversion.
//
// A Buffer holds normalized float64 samples in [-1, 1] at a known
// sample rate. Buffers are treated as immutable once produced: every
// pipeline stage that transforms audio allocates a fresh Buffer and
// never aliases the input.
package pcm

import (
	"errors"
	"fmt"
	"time"
)

// ErrEmpty is returned when an operation receives a buffer with no samples.
var ErrEmpty = errors.New("pcm: empty buffer")

// Buffer is a mono audio signal: normalized samples plus a sample rate.
type Buffer struct {
	// Samples are normalized amplitudes in [-1, 1].
	Samples []float64

	// Rate is the sample rate in Hz.
	Rate int
}

// New creates a Buffer that takes ownership of samples.
func New(samples []float64, rate int) *Buffer {
	return &Buffer{Samples: samples, Rate: rate}
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	out := make([]float64, len(b.Samples))
	copy(out, b.Samples)
	return &Buffer{Samples: out, Rate: b.Rate}
}

// Len returns the number of samples.
func (b *Buffer) Len() int { return len(b.Samples) }

// Duration returns the signal duration.
func (b *Buffer) Duration() time.Duration {
	if b.Rate <= 0 {
		return 0
	}
	return time.Duration(float64(len(b.Samples)) / float64(b.Rate) * float64(time.Second))
}

// Validate reports whether the buffer is usable.
func (b *Buffer) Validate() error {
	if b == nil || len(b.Samples) == 0 {
		return ErrEmpty
	}
	if b.Rate <= 0 {
		return fmt.Errorf("pcm: invalid sample rate %d", b.Rate)
	}
	return nil
}

// FromInt16 converts raw int16 samples to a normalized Buffer.
func FromInt16(samples []int16, rate int) *Buffer {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = float64(s) / 32768.0
	}
	return &Buffer{Samples: out, Rate: rate}
}

// ToInt16 converts the buffer to int16 samples, clamping out-of-range
// values.
func (b *Buffer) ToInt16() []int16 {
	out := make([]int16, len(b.Samples))
	for i, s := range b.Samples {
		switch {
		case s >= 1.0:
			out[i] = 32767
		case s <= -1.0:
			out[i] = -32768
		default:
			out[i] = int16(s * 32767.0)
		}
	}
	return out
}
