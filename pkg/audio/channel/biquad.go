package channel

import (
	"fmt"
	"math"
)

// Butterworth filters realized as cascaded second-order sections
// (RBJ cookbook biquads with Butterworth stage Q values). Only even
// orders are supported; the channel profiles all use even orders.

// biquad is one second-order IIR section in direct form II transposed.
type biquad struct {
	b0, b1, b2 float64
	a1, a2     float64
}

// apply filters x into a new slice.
func (q *biquad) apply(x []float64) []float64 {
	out := make([]float64, len(x))
	var z1, z2 float64
	for i, in := range x {
		y := q.b0*in + z1
		z1 = q.b1*in - q.a1*y + z2
		z2 = q.b2*in - q.a2*y
		out[i] = y
	}
	return out
}

// chain is a cascade of biquad sections.
type chain []*biquad

func (c chain) apply(x []float64) []float64 {
	for _, q := range c {
		x = q.apply(x)
	}
	return x
}

// butterworthQs returns the per-stage Q values for an even-order
// Butterworth cascade: Q_k = 1 / (2 cos((2k+1)π / 2n)).
func butterworthQs(order int) []float64 {
	n := order / 2
	qs := make([]float64, n)
	for k := 0; k < n; k++ {
		qs[k] = 1 / (2 * math.Cos(math.Pi*float64(2*k+1)/float64(2*order)))
	}
	return qs
}

func checkFilterParams(order int, freq, rate float64) error {
	if order < 2 || order%2 != 0 {
		return fmt.Errorf("channel: filter order must be even and >= 2, got %d", order)
	}
	if freq <= 0 || freq >= rate/2 {
		return fmt.Errorf("channel: cutoff %g Hz outside (0, %g)", freq, rate/2)
	}
	return nil
}

// lowpass designs an order-N Butterworth lowpass cascade.
func lowpass(order int, cutoff, rate float64) (chain, error) {
	if err := checkFilterParams(order, cutoff, rate); err != nil {
		return nil, err
	}
	w0 := 2 * math.Pi * cutoff / rate
	cosw, sinw := math.Cos(w0), math.Sin(w0)

	var c chain
	for _, q := range butterworthQs(order) {
		alpha := sinw / (2 * q)
		a0 := 1 + alpha
		c = append(c, &biquad{
			b0: (1 - cosw) / 2 / a0,
			b1: (1 - cosw) / a0,
			b2: (1 - cosw) / 2 / a0,
			a1: -2 * cosw / a0,
			a2: (1 - alpha) / a0,
		})
	}
	return c, nil
}

// highpass designs an order-N Butterworth highpass cascade.
func highpass(order int, cutoff, rate float64) (chain, error) {
	if err := checkFilterParams(order, cutoff, rate); err != nil {
		return nil, err
	}
	w0 := 2 * math.Pi * cutoff / rate
	cosw, sinw := math.Cos(w0), math.Sin(w0)

	var c chain
	for _, q := range butterworthQs(order) {
		alpha := sinw / (2 * q)
		a0 := 1 + alpha
		c = append(c, &biquad{
			b0: (1 + cosw) / 2 / a0,
			b1: -(1 + cosw) / a0,
			b2: (1 + cosw) / 2 / a0,
			a1: -2 * cosw / a0,
			a2: (1 - alpha) / a0,
		})
	}
	return c, nil
}

// bandpass designs an order-N Butterworth bandpass as a highpass at
// low cascaded with a lowpass at high.
func bandpass(order int, low, high, rate float64) (chain, error) {
	if low >= high {
		return nil, fmt.Errorf("channel: bandpass low %g >= high %g", low, high)
	}
	hp, err := highpass(order, low, rate)
	if err != nil {
		return nil, err
	}
	lp, err := lowpass(order, high, rate)
	if err != nil {
		return nil, err
	}
	return append(hp, lp...), nil
}
