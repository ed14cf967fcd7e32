// ABOUTME: Configuration management for private-journal with YAML config loading.
// ABOUTME: Handles .env files, environment overrides, journal root resolution, and ~ expansion.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/2389-research/private-journal/internal/embeddings"
)

// Environment variables consulted by ApplyEnv.
const (
	EnvJournalPath       = "PRIVATE_JOURNAL_PATH"
	EnvEmbeddingProvider = "PRIVATE_JOURNAL_EMBEDDING_PROVIDER"
	EnvOpenAIKey         = "OPENAI_API_KEY"
	EnvOpenAIBaseURL     = "OPENAI_BASE_URL"
)

const (
	appName = "private-journal"

	// JournalDirName is joined onto the fallback base directory.
	JournalDirName = ".private-journal"

	// DefaultAddr is the listen address for the HTTP API.
	DefaultAddr = "127.0.0.1:8787"

	fallbackBase = "/tmp"
)

// Config stores configuration loaded from ~/.config/private-journal/config.yaml.
type Config struct {
	Journal   JournalConfig   `yaml:"journal"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Logging   LoggingConfig   `yaml:"logging,omitempty"`
	Server    ServerConfig    `yaml:"server,omitempty"`
}

// JournalConfig holds an optional override for the journal root.
type JournalConfig struct {
	Path string `yaml:"path,omitempty"`
}

// EmbeddingConfig selects and configures the embedding backend.
type EmbeddingConfig struct {
	Provider   string `yaml:"provider,omitempty"`
	BaseURL    string `yaml:"base_url,omitempty"`
	Model      string `yaml:"model,omitempty"`
	APIKey     string `yaml:"api_key,omitempty"`
	Dimensions int    `yaml:"dimensions,omitempty"`
}

type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

type ServerConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// GetConfigPath returns the config file path.
func GetConfigPath() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, appName, "config.yaml"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return home, nil
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}

// LoadDotEnv loads variables from a .env file without overriding ones already
// set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Load reads config from disk. Returns default config if file doesn't exist.
// Environment overrides are not applied; see ApplyEnv.
func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// ApplyEnv overlays non-empty environment variables onto the loaded config.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvJournalPath); v != "" {
		c.Journal.Path = v
	}
	if v := os.Getenv(EnvEmbeddingProvider); v != "" {
		c.Embedding.Provider = v
	}
	if v := os.Getenv(EnvOpenAIKey); v != "" {
		c.Embedding.APIKey = v
	}
	if v := os.Getenv(EnvOpenAIBaseURL); v != "" {
		c.Embedding.BaseURL = v
	}
}

// JournalPath resolves the journal root. An explicit flag value wins, then the
// configured path, then .private-journal under $HOME, $USERPROFILE, or /tmp.
func (c *Config) JournalPath(flag string) (string, error) {
	if flag != "" {
		return ExpandPath(flag)
	}
	if c.Journal.Path != "" {
		return ExpandPath(c.Journal.Path)
	}
	return filepath.Join(fallbackDir(), JournalDirName), nil
}

func fallbackDir() string {
	for _, env := range []string{"HOME", "USERPROFILE"} {
		if dir := os.Getenv(env); dir != "" {
			return dir
		}
	}
	return fallbackBase
}

// Backend returns the embedding backend settings. Without an explicit
// provider, a configured base URL selects the OpenAI-compatible backend and
// everything else uses the local hash embedder.
func (c *Config) Backend() embeddings.BackendConfig {
	provider := c.Embedding.Provider
	if provider == "" {
		provider = embeddings.ProviderHash
		if c.Embedding.BaseURL != "" {
			provider = embeddings.ProviderOpenAI
		}
	}
	return embeddings.BackendConfig{
		Provider:   provider,
		BaseURL:    c.Embedding.BaseURL,
		Model:      c.Embedding.Model,
		APIKey:     c.Embedding.APIKey,
		Dimensions: c.Embedding.Dimensions,
	}
}

// ServerAddr returns the configured listen address or DefaultAddr.
func (c *Config) ServerAddr() string {
	if c.Server.Addr != "" {
		return c.Server.Addr
	}
	return DefaultAddr
}
