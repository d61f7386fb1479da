// Package file provides the TOML configuration file for the sfx CLI.
// Configuration lives at ~/.sfx/config.toml; missing keys fall back to
// defaults, so a partial file is valid.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config holds every user-tunable setting.
type Config struct {
	// DataDir is where the vector database lives. Empty means
	// ~/.sfx/data.
	DataDir string `toml:"data_dir"`

	Ollama OllamaConfig `toml:"ollama"`
	Clip   ClipConfig   `toml:"clip"`
	Watch  WatchConfig  `toml:"watch"`
	Search SearchConfig `toml:"search"`
}

// OllamaConfig configures the text embedding backend. The general and
// Amharic pipelines share one server; the Amharic pipeline overrides
// the model when AmharicModel is set.
type OllamaConfig struct {
	BaseURL      string `toml:"base_url"`
	Model        string `toml:"model"`
	AmharicModel string `toml:"amharic_model"`
	Dimensions   int    `toml:"dimensions"`

	// QueryPrefix and PassagePrefix support asymmetric models such as
	// the E5 family. Empty for symmetric models.
	QueryPrefix   string `toml:"query_prefix"`
	PassagePrefix string `toml:"passage_prefix"`
}

// ClipConfig configures the cross-modal image embedding backend.
type ClipConfig struct {
	// Enabled turns image indexing and image search on.
	Enabled    bool   `toml:"enabled"`
	BaseURL    string `toml:"base_url"`
	Model      string `toml:"model"`
	Dimensions int    `toml:"dimensions"`
}

// WatchConfig configures live filesystem watching.
type WatchConfig struct {
	// Dirs are the directory trees to keep in sync. Empty means the
	// user's Downloads directory.
	Dirs []string `toml:"dirs"`
}

// SearchConfig holds default search parameters.
type SearchConfig struct {
	Limit    int     `toml:"limit"`
	MinScore float64 `toml:"min_score"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Ollama: OllamaConfig{
			BaseURL:      "http://localhost:11434",
			Model:        "all-minilm",
			AmharicModel: "all-minilm",
			Dimensions:   384,
		},
		Clip: ClipConfig{
			BaseURL:    "http://localhost:8000/v1",
			Model:      "nomic-embed-vision-v1.5",
			Dimensions: 768,
		},
		Search: SearchConfig{
			Limit:    20,
			MinScore: 0.6,
		},
	}
}

// DefaultPath returns ~/.sfx/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".sfx", "config.toml"), nil
}

// Load reads the config file at path, layering it over the defaults.
// A missing file yields the defaults without error. If path is empty
// the default location is used.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return cfg, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory if needed. If path
// is empty the default location is used.
func Save(cfg Config, path string) error {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// WatchDirs returns the configured watch directories, defaulting to
// the user's Downloads directory.
func (c Config) WatchDirs() []string {
	if len(c.Watch.Dirs) > 0 {
		return c.Watch.Dirs
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(home, "Downloads")}
}
