package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config is the on-disk configuration, stored as TOML in the hookdex
// config directory. Missing fields fall back to defaults, so a partial
// or absent file is valid.
type Config struct {
	// DataDir holds the index database and fetched source trees.
	DataDir string `toml:"data_dir,omitempty"`

	GitHub GitHubConfig `toml:"github"`
	Search SearchConfig `toml:"search"`

	path string
}

// GitHubConfig controls how repository sources are fetched.
type GitHubConfig struct {
	// TokenEnv names the environment variable read for the API token.
	TokenEnv string `toml:"token_env,omitempty"`
}

// SearchConfig carries the bm25 column weights for hook ranking.
// Zero or negative values fall back to the built-in defaults.
type SearchConfig struct {
	NameWeight        float64 `toml:"name_weight,omitempty"`
	KindWeight        float64 `toml:"kind_weight,omitempty"`
	DocWeight         float64 `toml:"doc_weight,omitempty"`
	DescriptionWeight float64 `toml:"description_weight,omitempty"`
	ContextWeight     float64 `toml:"context_weight,omitempty"`
}

const defaultTokenEnv = "GITHUB_TOKEN"

// Load reads the configuration from configDir/config.toml. If configDir
// is empty, defaults to ~/.hookdex. A missing file yields the default
// configuration.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, ".hookdex")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	cfg := &Config{path: filepath.Join(configDir, "config.toml")}

	data, err := os.ReadFile(cfg.path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyDefaults()
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", cfg.path, err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.GitHub.TokenEnv == "" {
		c.GitHub.TokenEnv = defaultTokenEnv
	}
}

// Save persists the configuration with restricted permissions.
func (c *Config) Save() error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(c.path, data, 0600)
}

// Path returns the configuration file path.
func (c *Config) Path() string {
	return c.path
}
