package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

const (
	// DefaultBaseDir is the base configuration directory name.
	DefaultBaseDir = ".voiceguard"
	// DefaultConfigFile is the default configuration filename.
	DefaultConfigFile = "config.yaml"
)

// Config is the CLI configuration: named contexts holding service
// credentials and local paths, with one marked current.
type Config struct {
	// CurrentContext is the name of the currently active context.
	CurrentContext string `yaml:"current_context,omitempty"`

	// Contexts maps context name to context configuration.
	Contexts map[string]*Context `yaml:"contexts,omitempty"`

	configPath string
}

// Context is a single named environment.
type Context struct {
	// Name is the context name.
	Name string `yaml:"name"`

	// SpeakerID holds the remote verification service credentials.
	SpeakerID *ServiceCredentials `yaml:"speakerid,omitempty"`

	// VoiceClone holds the voice-cloning service credentials.
	VoiceClone *ServiceCredentials `yaml:"voiceclone,omitempty"`

	// DataRoot is the directory holding the evaluation corpora.
	DataRoot string `yaml:"data_root,omitempty"`

	// ArtifactDir is where synthesized and degraded audio is kept.
	ArtifactDir string `yaml:"artifact_dir,omitempty"`

	// StoreDir is the run-result database directory.
	StoreDir string `yaml:"store_dir,omitempty"`

	// ConverterBin is the local voice-conversion binary for the
	// local cloning engine.
	ConverterBin string `yaml:"converter_bin,omitempty"`
}

// ServiceCredentials locate and authenticate one HTTP service.
type ServiceCredentials struct {
	// BaseURL is the service endpoint.
	BaseURL string `yaml:"base_url"`

	// APIKey authenticates requests.
	APIKey string `yaml:"api_key"`
}

// LoadConfig loads or creates the configuration.
func LoadConfig() (*Config, error) {
	return LoadConfigWithPath("")
}

// LoadConfigWithPath loads configuration from a custom path.
func LoadConfigWithPath(customPath string) (*Config, error) {
	configPath := customPath
	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(home, DefaultBaseDir, DefaultConfigFile)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	cfg := &Config{
		Contexts:   make(map[string]*Context),
		configPath: configPath,
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, cfg.Save()
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Contexts == nil {
		cfg.Contexts = make(map[string]*Context)
	}
	cfg.configPath = configPath
	return cfg, nil
}

// Save writes the configuration to disk.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(c.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Path returns the config file path.
func (c *Config) Path() string {
	return c.configPath
}

// AddContext adds a new context.
func (c *Config) AddContext(name string, ctx *Context) error {
	ctx.Name = name
	c.Contexts[name] = ctx
	return c.Save()
}

// DeleteContext removes a context.
func (c *Config) DeleteContext(name string) error {
	if _, ok := c.Contexts[name]; !ok {
		return fmt.Errorf("context %q not found", name)
	}
	delete(c.Contexts, name)
	if c.CurrentContext == name {
		c.CurrentContext = ""
	}
	return c.Save()
}

// UseContext sets the current context.
func (c *Config) UseContext(name string) error {
	if _, ok := c.Contexts[name]; !ok {
		return fmt.Errorf("context %q not found", name)
	}
	c.CurrentContext = name
	return c.Save()
}

// GetContext returns a specific context.
func (c *Config) GetContext(name string) (*Context, error) {
	ctx, ok := c.Contexts[name]
	if !ok {
		return nil, fmt.Errorf("context %q not found", name)
	}
	return ctx, nil
}

// ResolveContext returns the context by name, or the current context
// if name is empty.
func (c *Config) ResolveContext(name string) (*Context, error) {
	if name == "" {
		if c.CurrentContext == "" {
			return nil, fmt.Errorf("no current context set")
		}
		return c.GetContext(c.CurrentContext)
	}
	return c.GetContext(name)
}

// ListContexts returns all context names.
func (c *Config) ListContexts() []string {
	names := make([]string, 0, len(c.Contexts))
	for name := range c.Contexts {
		names = append(names, name)
	}
	return names
}

// MaskAPIKey masks an API key for display.
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}
