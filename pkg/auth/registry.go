package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/haivivi/voiceguard/pkg/speakerid"
)

// Config parameterizes backend construction via New.
type Config struct {
	// Threshold is the acceptance threshold for local backends.
	Threshold float64

	// MaxParallel bounds concurrent extraction for local backends.
	MaxParallel int

	// Remote is the verification-service client, required for
	// BackendRemote.
	Remote *speakerid.Client
}

// ModelLoader constructs the embedding model behind a local backend
// kind. Loaders are registered by the build that links the actual
// inference runtime.
type ModelLoader func(ctx context.Context) (Model, error)

var (
	loaderMu sync.RWMutex
	loaders  = make(map[BackendKind]ModelLoader)
)

// RegisterModel registers the loader for a local backend kind,
// following the database/sql driver pattern: inference runtimes
// self-register from their own package's init.
func RegisterModel(kind BackendKind, loader ModelLoader) {
	loaderMu.Lock()
	defer loaderMu.Unlock()
	loaders[kind] = loader
}

// New constructs a backend for the given kind. Local kinds need a
// registered ModelLoader; BackendRemote needs cfg.Remote.
func New(ctx context.Context, kind BackendKind, cfg Config) (Backend, error) {
	switch kind {
	case BackendRemote:
		if cfg.Remote == nil {
			return nil, fmt.Errorf("auth: remote backend requires a speakerid client")
		}
		return NewRemote(cfg.Remote), nil
	case BackendECAPA, BackendResNet:
		loaderMu.RLock()
		loader := loaders[kind]
		loaderMu.RUnlock()
		if loader == nil {
			return nil, fmt.Errorf("%w for %q", ErrNoModel, kind)
		}
		model, err := loader(ctx)
		if err != nil {
			return nil, fmt.Errorf("auth: load %q model: %w", kind, err)
		}
		return NewLocal(kind, model, LocalConfig{
			Threshold:   cfg.Threshold,
			MaxParallel: cfg.MaxParallel,
		})
	default:
		return nil, fmt.Errorf("auth: unknown backend %q", kind)
	}
}
