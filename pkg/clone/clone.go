// Package clone abstracts voice-cloning engines behind one interface:
// build a voice model from reference recordings of a target speaker,
// then synthesize attack utterances with it. Two engines exist, one
// backed by the voiceclone API and one driving a local conversion
// tool as a subprocess.
package clone

import (
	"context"
	"fmt"
)

// Kind selects a concrete cloning engine.
type Kind string

const (
	// KindAPI clones through the remote voice-cloning service.
	KindAPI Kind = "api"

	// KindLocal clones with a local voice-conversion tool.
	KindLocal Kind = "local"
)

// ParseKind maps a configuration string to a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindAPI, KindLocal:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("clone: unknown engine %q", s)
	}
}

// Engine builds voice models and speaks with them.
type Engine interface {
	// Kind identifies the engine variant.
	Kind() Kind

	// CreateModel builds a voice model from reference recordings on
	// disk and returns an engine-specific model id.
	CreateModel(ctx context.Context, refPaths []string, name string) (string, error)

	// Synthesize speaks text with the model and writes a WAV file to
	// outPath. Returns the path actually written.
	Synthesize(ctx context.Context, text, modelID, outPath string) (string, error)

	// Close releases engine resources. API-backed engines delete the
	// voices created during the run.
	Close() error
}
