package clone

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// LocalEngine drives an external voice-conversion tool. The tool is
// expected to expose two subcommands:
//
//	<bin> embed --out <model.bin> <ref.wav>...
//	<bin> synth --model <model.bin> --text <text> --out <out.wav>
//
// Models are written under WorkDir and identified by their file path.
type LocalEngine struct {
	// Bin is the converter binary. Must be on PATH or absolute.
	Bin string

	// WorkDir holds the generated model files. Defaults to the OS
	// temp dir.
	WorkDir string
}

// NewLocalEngine creates an engine around a converter binary.
func NewLocalEngine(bin, workDir string) (*LocalEngine, error) {
	if bin == "" {
		return nil, fmt.Errorf("clone: converter binary not configured")
	}
	if workDir == "" {
		workDir = os.TempDir()
	}
	return &LocalEngine{Bin: bin, WorkDir: workDir}, nil
}

func (e *LocalEngine) Kind() Kind { return KindLocal }

// CreateModel runs the embed subcommand over the reference
// recordings. The model id is the path of the written model file.
func (e *LocalEngine) CreateModel(ctx context.Context, refPaths []string, name string) (string, error) {
	if len(refPaths) == 0 {
		return "", fmt.Errorf("clone: no reference recordings")
	}
	if err := os.MkdirAll(e.WorkDir, 0o755); err != nil {
		return "", err
	}

	modelPath := filepath.Join(e.WorkDir, name+".model")
	args := append([]string{"embed", "--out", modelPath}, refPaths...)
	if out, err := e.run(ctx, args); err != nil {
		return "", fmt.Errorf("clone: embed %q: %w (%s)", name, err, out)
	}
	return modelPath, nil
}

// Synthesize runs the synth subcommand.
func (e *LocalEngine) Synthesize(ctx context.Context, text, modelID, outPath string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", err
	}
	args := []string{"synth", "--model", modelID, "--text", text, "--out", outPath}
	if out, err := e.run(ctx, args); err != nil {
		return "", fmt.Errorf("clone: synth with %s: %w (%s)", modelID, err, out)
	}
	return outPath, nil
}

func (e *LocalEngine) Close() error { return nil }

func (e *LocalEngine) run(ctx context.Context, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, e.Bin, args...)
	out, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(out)), err
}
