package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/haivivi/voiceguard/pkg/audio/pcm"
	"github.com/haivivi/voiceguard/pkg/embedding"
)

// LocalConfig parameterizes a local embedding backend.
type LocalConfig struct {
	// Threshold is the acceptance threshold on cosine similarity.
	Threshold float64

	// MaxParallel bounds concurrent embedding extraction during
	// enrollment. Default: 4.
	MaxParallel int
}

// Local computes embeddings with an external Model and compares them
// by cosine similarity against the profile's aggregated vector.
type Local struct {
	kind        BackendKind
	model       Model
	threshold   float64
	maxParallel int
}

// NewLocal creates a local backend around an embedding model.
func NewLocal(kind BackendKind, model Model, cfg LocalConfig) (*Local, error) {
	if kind == BackendRemote {
		return nil, fmt.Errorf("auth: %q is not a local backend kind", kind)
	}
	if model == nil {
		return nil, ErrNoModel
	}
	if cfg.MaxParallel <= 0 {
		cfg.MaxParallel = 4
	}
	return &Local{
		kind:        kind,
		model:       model,
		threshold:   cfg.Threshold,
		maxParallel: cfg.MaxParallel,
	}, nil
}

func (l *Local) Kind() BackendKind { return l.kind }

// Enroll extracts an embedding per sample, drops failures, and
// aggregates the survivors by arithmetic mean. Extraction runs on a
// bounded worker pool; sample order does not affect the aggregate.
func (l *Local) Enroll(ctx context.Context, samples []*pcm.Buffer) (*Profile, error) {
	if len(samples) == 0 {
		return nil, ErrEnrollment
	}

	vecs := make([]embedding.Vector, len(samples))
	errs := make([]error, len(samples))

	// Cancellation is observed inside the workers so no goroutine is
	// left writing into vecs after Enroll returns.
	sem := make(chan struct{}, l.maxParallel)
	var wg sync.WaitGroup
	for i, s := range samples {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, s *pcm.Buffer) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			v, err := l.model.Extract(s)
			if err != nil {
				errs[i] = &ExtractionError{Err: err}
				return
			}
			vecs[i] = v
		}(i, s)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	usable := vecs[:0:0]
	for _, v := range vecs {
		if v != nil {
			usable = append(usable, v)
		}
	}
	if len(usable) == 0 {
		return nil, fmt.Errorf("%w: %d samples all failed (first: %v)", ErrEnrollment, len(samples), firstErr(errs))
	}

	mean, err := embedding.Mean(usable)
	if err != nil {
		return nil, fmt.Errorf("auth: aggregate embeddings: %w", err)
	}
	return &Profile{Vector: mean, Samples: len(usable)}, nil
}

// Compare extracts the probe's embedding and scores it against the
// profile vector. Accepts iff score > threshold.
func (l *Local) Compare(ctx context.Context, profile *Profile, probe *pcm.Buffer) (Decision, error) {
	if err := ctx.Err(); err != nil {
		return Decision{}, err
	}
	if err := profile.Validate(); err != nil {
		return Decision{}, err
	}
	if profile.IsRemote() {
		return Decision{}, fmt.Errorf("auth: local backend cannot compare remote profile")
	}

	v, err := l.model.Extract(probe)
	if err != nil {
		return Decision{}, &ExtractionError{Err: err}
	}
	score, err := embedding.Cosine(profile.Vector, v)
	if err != nil {
		return Decision{}, err
	}
	return Decision{Accepted: score > l.threshold, Score: score}, nil
}

// Close releases the underlying model.
func (l *Local) Close() error { return l.model.Close() }

func firstErr(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
