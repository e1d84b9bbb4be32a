package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/haivivi/voiceguard/pkg/attack"
	"github.com/haivivi/voiceguard/pkg/audio/channel"
	"github.com/haivivi/voiceguard/pkg/auth"
	"github.com/haivivi/voiceguard/pkg/auth/task"
	"github.com/haivivi/voiceguard/pkg/cli"
	"github.com/haivivi/voiceguard/pkg/clone"
	"github.com/haivivi/voiceguard/pkg/dataset"
	"github.com/haivivi/voiceguard/pkg/speakerid"
	"github.com/haivivi/voiceguard/pkg/voiceclone"
)

// buildRunner wires a Runner from the active context and a run
// configuration.
func buildRunner(ctx context.Context, c *cli.Context, cfg attack.Config) (*attack.Runner, func(), error) {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	name, err := dataset.ParseName(cfg.Dataset)
	if err != nil {
		return nil, nil, err
	}
	if c.DataRoot == "" {
		return nil, nil, fmt.Errorf("context has no data_root configured")
	}
	source, err := dataset.New(name, c.DataRoot)
	if err != nil {
		return nil, nil, err
	}

	backend, err := buildBackend(ctx, c, cfg)
	if err != nil {
		return nil, nil, err
	}

	tk, err := task.New(cfg.Task, backend)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}

	sim, err := channel.New(cfg.Channel)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}

	engine, err := buildEngine(c, cfg)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}

	var artifacts attack.ArtifactStore
	if c.ArtifactDir != "" {
		artifacts = attack.NewDirStore(c.ArtifactDir)
	}

	runner := &attack.Runner{
		Config:    cfg,
		Source:    source,
		Task:      tk,
		Engine:    engine,
		Simulator: sim,
		Artifacts: artifacts,
	}
	cleanup := func() {
		engine.Close()
		backend.Close()
	}
	return runner, cleanup, nil
}

// buildBackend constructs the authentication backend. The remote kind
// needs speakerid credentials from the context; local kinds need a
// linked-in embedding model.
func buildBackend(ctx context.Context, c *cli.Context, cfg attack.Config) (auth.Backend, error) {
	acfg := auth.Config{Threshold: cfg.Threshold}
	if cfg.Backend == auth.BackendRemote {
		if c.SpeakerID == nil {
			return nil, fmt.Errorf("context has no speakerid credentials configured")
		}
		acfg.Remote = speakerid.NewClient(c.SpeakerID.BaseURL, c.SpeakerID.APIKey)
	}
	return auth.New(ctx, cfg.Backend, acfg)
}

// buildEngine constructs the cloning engine.
func buildEngine(c *cli.Context, cfg attack.Config) (clone.Engine, error) {
	switch cfg.Engine {
	case clone.KindAPI:
		if c.VoiceClone == nil {
			return nil, fmt.Errorf("context has no voiceclone credentials configured")
		}
		return clone.NewAPIEngine(voiceclone.NewClient(c.VoiceClone.BaseURL, c.VoiceClone.APIKey)), nil
	case clone.KindLocal:
		return clone.NewLocalEngine(c.ConverterBin, filepath.Join(c.ArtifactDir, "models"))
	default:
		return nil, fmt.Errorf("unknown cloning engine %q", cfg.Engine)
	}
}

// openStore opens the run-result store for the context.
func openStore(c *cli.Context) (*attack.Store, error) {
	if c.StoreDir == "" {
		return nil, fmt.Errorf("context has no store_dir configured")
	}
	return attack.OpenStore(attack.StoreOptions{Dir: c.StoreDir})
}
