package pcm

import (
	"fmt"

	resampling "github.com/tphakala/go-audio-resampling"
)

// Resample converts the buffer to the target sample rate and returns
// a fresh Buffer. The input is not modified.
//
// The resampler is a streaming converter with internal latency; the
// input is zero-padded before processing and the output is trimmed
// (or zero-padded) to the exact expected length so that round trips
// preserve duration.
func Resample(b *Buffer, targetRate int) (*Buffer, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if targetRate <= 0 {
		return nil, fmt.Errorf("pcm: invalid target rate %d", targetRate)
	}
	if targetRate == b.Rate {
		return b.Clone(), nil
	}

	rs, err := resampling.New(&resampling.Config{
		InputRate:  float64(b.Rate),
		OutputRate: float64(targetRate),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return nil, fmt.Errorf("pcm: create resampler: %w", err)
	}

	want := int(float64(len(b.Samples)) * float64(targetRate) / float64(b.Rate))
	if want < 1 {
		want = 1
	}

	// Pad with silence to flush the converter's internal delay line.
	pad := b.Rate / 4
	input := make([]float64, len(b.Samples)+pad)
	copy(input, b.Samples)

	out, err := rs.Process(input)
	if err != nil {
		return nil, fmt.Errorf("pcm: resample: %w", err)
	}

	samples := make([]float64, want)
	copy(samples, out)
	return &Buffer{Samples: samples, Rate: targetRate}, nil
}
