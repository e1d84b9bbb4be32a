package clone

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/haivivi/voiceguard/pkg/voiceclone"
)

// APIEngine clones voices through the voiceclone service.
type APIEngine struct {
	client *voiceclone.Client

	// voices created this run, deleted on Close.
	created []string
}

// NewAPIEngine creates an engine around a voiceclone client.
func NewAPIEngine(client *voiceclone.Client) *APIEngine {
	return &APIEngine{client: client}
}

func (e *APIEngine) Kind() Kind { return KindAPI }

// CreateModel uploads each reference recording and builds a cloned
// voice from them. The returned model id is the service's voice id.
func (e *APIEngine) CreateModel(ctx context.Context, refPaths []string, name string) (string, error) {
	if len(refPaths) == 0 {
		return "", fmt.Errorf("clone: no reference recordings")
	}

	fileIDs := make([]string, 0, len(refPaths))
	for _, p := range refPaths {
		f, err := os.Open(p)
		if err != nil {
			return "", fmt.Errorf("clone: open reference %s: %w", p, err)
		}
		resp, err := e.client.UploadReference(ctx, f, filepath.Base(p))
		f.Close()
		if err != nil {
			return "", fmt.Errorf("clone: upload reference %s: %w", p, err)
		}
		fileIDs = append(fileIDs, resp.FileID)
	}

	v, err := e.client.CreateVoice(ctx, name, fileIDs)
	if err != nil {
		return "", fmt.Errorf("clone: create voice %q: %w", name, err)
	}
	e.created = append(e.created, v.VoiceID)
	return v.VoiceID, nil
}

// Synthesize speaks text with the cloned voice and writes the audio
// to outPath.
func (e *APIEngine) Synthesize(ctx context.Context, text, modelID, outPath string) (string, error) {
	audio, err := e.client.Synthesize(ctx, &voiceclone.SynthesizeRequest{
		VoiceID: modelID,
		Text:    text,
	})
	if err != nil {
		return "", fmt.Errorf("clone: synthesize with %s: %w", modelID, err)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(outPath, audio, 0o644); err != nil {
		return "", fmt.Errorf("clone: write %s: %w", outPath, err)
	}
	return outPath, nil
}

// Close deletes the voices created during the run. Deletion failures
// are ignored; stale voices expire on the service side.
func (e *APIEngine) Close() error {
	ctx := context.Background()
	for _, id := range e.created {
		_ = e.client.DeleteVoice(ctx, id)
	}
	e.created = nil
	return nil
}
