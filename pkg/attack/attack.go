// Package attack orchestrates spoofing-robustness runs: enroll a
// target speaker from real recordings, measure baseline acceptance on
// held-out recordings, then clone the voice and measure whether the
// synthetic speech is accepted too.
package attack

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/haivivi/voiceguard/pkg/audio/channel"
	"github.com/haivivi/voiceguard/pkg/audio/pcm"
	"github.com/haivivi/voiceguard/pkg/auth"
	"github.com/haivivi/voiceguard/pkg/auth/task"
	"github.com/haivivi/voiceguard/pkg/clone"
)

var (
	// ErrSpeakerNotFound is returned when the target speaker does not
	// exist in the dataset.
	ErrSpeakerNotFound = errors.New("attack: speaker not found in dataset")

	// ErrInsufficientSamples is returned when the speaker has fewer
	// files than enrollment plus baseline testing require.
	ErrInsufficientSamples = errors.New("attack: not enough files for speaker")
)

// SampleRate is the rate all audio is normalized to before
// enrollment, testing and cloning.
const SampleRate = 16000

// Config parameterizes a run.
type Config struct {
	// Dataset is the corpus name, recorded in results.
	Dataset string `yaml:"dataset" json:"dataset"`

	// Engine selects the cloning engine kind.
	Engine clone.Kind `yaml:"engine" json:"engine"`

	// Backend selects the authentication backend kind.
	Backend auth.BackendKind `yaml:"backend" json:"backend"`

	// Task selects the decision task kind.
	Task task.Kind `yaml:"task" json:"task"`

	// Channel optionally degrades every probe. Empty means clean
	// audio.
	Channel channel.Kind `yaml:"channel,omitempty" json:"channel,omitempty"`

	// Threshold is the acceptance threshold. Defaults to 0.5.
	Threshold float64 `yaml:"threshold" json:"threshold"`

	// EnrollCount is how many files enroll the speaker. These same
	// files are the cloning references. Defaults to 3.
	EnrollCount int `yaml:"enroll_count" json:"enroll_count"`

	// TestCount is how many held-out files measure the baseline.
	// Defaults to 2.
	TestCount int `yaml:"test_count" json:"test_count"`

	// AttackCount is how many synthetic probes are generated.
	// Defaults to 1.
	AttackCount int `yaml:"attack_count" json:"attack_count"`
}

// Normalize fills defaulted fields in place.
func (c *Config) Normalize() {
	if c.Threshold == 0 {
		c.Threshold = 0.5
	}
	if c.EnrollCount == 0 {
		c.EnrollCount = 3
	}
	if c.TestCount == 0 {
		c.TestCount = 2
	}
	if c.AttackCount == 0 {
		c.AttackCount = 1
	}
}

// Validate reports the first configuration problem.
func (c *Config) Validate() error {
	if c.EnrollCount < 1 || c.TestCount < 1 || c.AttackCount < 1 {
		return fmt.Errorf("attack: enroll, test and attack counts must be positive")
	}
	if c.Threshold < 0 {
		return fmt.Errorf("attack: threshold must not be negative")
	}
	return nil
}

// FileSource lists per-speaker audio files, in stable order.
type FileSource interface {
	Files() (map[string][]string, error)
}

// Loader decodes an audio file into a normalized buffer.
type Loader func(path string) (*pcm.Buffer, error)

// SampleResult is one probe's outcome. A probe that failed along the
// way records the error and carries a zero outcome; nothing is
// fabricated.
type SampleResult struct {
	// Source is the probe's origin: a dataset path for baseline
	// probes, a synthesized file for attack probes.
	Source string `msgpack:"source" json:"source"`

	// Outcome is the task decision, zero when Err is set.
	Outcome task.Outcome `msgpack:"outcome" json:"outcome"`

	// Err is the failure that dropped this probe, empty on success.
	Err string `msgpack:"err,omitempty" json:"err,omitempty"`
}

// RunResult is the persisted record of one run.
type RunResult struct {
	ID        string         `msgpack:"id" json:"id"`
	CreatedAt time.Time      `msgpack:"created_at" json:"created_at"`
	Speaker   string         `msgpack:"speaker" json:"speaker"`
	Text      string         `msgpack:"text" json:"text"`
	Config    Config         `msgpack:"config" json:"config"`
	Enrolled  bool           `msgpack:"enrolled" json:"enrolled"`
	Baseline  []SampleResult `msgpack:"baseline" json:"baseline"`
	Attacks   []SampleResult `msgpack:"attacks" json:"attacks"`
}

// Runner executes attack runs. It only sees interfaces; wiring the
// concrete task, engine and simulator together is the caller's job.
type Runner struct {
	Config    Config
	Source    FileSource
	Task      task.Task
	Engine    clone.Engine
	Simulator channel.Simulator // nil means clean audio
	Artifacts ArtifactStore     // nil means keep nothing

	// Load decodes probe audio. Defaults to WAV at SampleRate.
	Load Loader

	// WorkDir holds synthesized audio before it is archived.
	// Defaults to a fresh temp dir per run.
	WorkDir string
}

// Run enrolls the target speaker, measures the baseline and runs the
// cloning attack. Per-sample failures are recorded in the result;
// only setup problems (unknown speaker, too few files, store errors)
// abort the run.
func (r *Runner) Run(ctx context.Context, speakerID, attackText string) (*RunResult, error) {
	r.Config.Normalize()
	if err := r.Config.Validate(); err != nil {
		return nil, err
	}
	load := r.Load
	if load == nil {
		load = func(path string) (*pcm.Buffer, error) {
			return pcm.ReadWAVFile(path, SampleRate)
		}
	}

	files, err := r.Source.Files()
	if err != nil {
		return nil, fmt.Errorf("attack: list dataset: %w", err)
	}
	speakerFiles, ok := files[speakerID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSpeakerNotFound, speakerID)
	}
	need := r.Config.EnrollCount + r.Config.TestCount
	if len(speakerFiles) < need {
		return nil, fmt.Errorf("%w: %s has %d, need %d", ErrInsufficientSamples, speakerID, len(speakerFiles), need)
	}

	enrollFiles := speakerFiles[:r.Config.EnrollCount]
	testFiles := speakerFiles[r.Config.EnrollCount:need]

	result := &RunResult{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Speaker:   speakerID,
		Text:      attackText,
		Config:    r.Config,
	}

	result.Enrolled = r.enroll(ctx, speakerID, enrollFiles, load)

	for _, f := range testFiles {
		result.Baseline = append(result.Baseline, r.probe(ctx, f, load))
	}

	result.Attacks = r.attack(ctx, speakerID, attackText, enrollFiles, load)
	return result, nil
}

// enroll loads the enrollment files and enrolls them as one speaker.
// Files that fail to load are dropped; the backend tolerates partial
// extraction failures on the rest.
func (r *Runner) enroll(ctx context.Context, speakerID string, paths []string, load Loader) bool {
	samples := make([]*pcm.Buffer, 0, len(paths))
	for _, p := range paths {
		b, err := load(p)
		if err != nil {
			continue
		}
		samples = append(samples, b)
	}
	ok, _ := r.Task.EnrollSpeaker(ctx, speakerID, samples)
	return ok
}

// probe runs one audio file through the channel and the task.
func (r *Runner) probe(ctx context.Context, path string, load Loader) SampleResult {
	res := SampleResult{Source: path}

	b, err := load(path)
	if err != nil {
		res.Err = err.Error()
		return res
	}
	if r.Simulator != nil {
		if b, err = r.Simulator.Degrade(b); err != nil {
			res.Err = err.Error()
			return res
		}
		r.archiveDegraded(ctx, path, b)
	}
	out, err := r.Task.Evaluate(ctx, b)
	if err != nil {
		res.Err = err.Error()
		return res
	}
	res.Outcome = out
	return res
}

// attack builds one voice model from the enrollment files, then
// synthesizes and evaluates AttackCount probes one at a time.
func (r *Runner) attack(ctx context.Context, speakerID, text string, refs []string, load Loader) []SampleResult {
	workDir := r.WorkDir
	if workDir == "" {
		var err error
		workDir, err = os.MkdirTemp("", "voiceguard-attack-*")
		if err != nil {
			return []SampleResult{{Err: err.Error()}}
		}
		defer os.RemoveAll(workDir)
	}

	modelID, err := r.Engine.CreateModel(ctx, refs, "attack_"+speakerID)
	if err != nil {
		// No model means every attack probe fails the same way.
		out := make([]SampleResult, r.Config.AttackCount)
		for i := range out {
			out[i] = SampleResult{Err: err.Error()}
		}
		return out
	}

	results := make([]SampleResult, 0, r.Config.AttackCount)
	for i := 0; i < r.Config.AttackCount; i++ {
		outPath := filepath.Join(workDir, fmt.Sprintf("attack_%s_%d.wav", speakerID, i))
		written, err := r.Engine.Synthesize(ctx, text, modelID, outPath)
		if err != nil {
			results = append(results, SampleResult{Err: err.Error()})
			continue
		}
		res := r.probe(ctx, written, load)
		if r.Artifacts != nil {
			if key, err := r.archive(ctx, written); err == nil {
				res.Source = key
			}
		}
		results = append(results, res)
	}
	return results
}

// archiveDegraded keeps the post-channel audio alongside the clean
// artifacts, under a degraded/ key, so a stored run can be replayed
// as the authenticator heard it. Best effort: a store failure does
// not fail the probe.
func (r *Runner) archiveDegraded(ctx context.Context, path string, b *pcm.Buffer) {
	if r.Artifacts == nil {
		return
	}
	var buf bytes.Buffer
	if err := pcm.WriteWAV(&buf, b); err != nil {
		return
	}
	key := "degraded/" + filepath.Base(path)
	_ = r.Artifacts.Put(ctx, key, &buf)
}

// archive copies a synthesized file into the artifact store and
// returns its stored key.
func (r *Runner) archive(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	key := filepath.Base(path)
	if err := r.Artifacts.Put(ctx, key, f); err != nil {
		return "", err
	}
	return key, nil
}
