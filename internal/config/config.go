package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	dirName   = ".pipeliner"
	fileName  = "config.yaml"
	envPrefix = "PIPELINER"

	StorageLocal = "local"
	StorageCloud = "cloud"
)

var ErrUnknownKey = errors.New("unknown configuration key")

// Config holds the application configuration
type Config struct {
	AIProvider   string `mapstructure:"ai_provider"` // gemini, openai, anthropic, ollama, lmstudio
	DefaultModel string `mapstructure:"default_model"`
	GeminiKey    string `mapstructure:"gemini_key"`
	OpenAIKey    string `mapstructure:"openai_key"`
	AnthropicKey string `mapstructure:"anthropic_key"`
	OllamaURL    string `mapstructure:"ollama_url"`
	LMStudioURL  string `mapstructure:"lmstudio_url"`

	// Storage
	Storage           string        `mapstructure:"storage"` // local, cloud
	DatabasePath      string        `mapstructure:"database_path"`
	CloudDSN          string        `mapstructure:"cloud_dsn"`
	CloudUserID       string        `mapstructure:"cloud_user_id"`
	CloudPollInterval time.Duration `mapstructure:"cloud_poll_interval"`

	// Gmail
	GoogleCredentialsFile string `mapstructure:"google_credentials_file"`
	GoogleTokenFile       string `mapstructure:"google_token_file"`

	ServerAddr string `mapstructure:"server_addr"`
	LogLevel   string `mapstructure:"log_level"`

	dir string
	v   *viper.Viper
}

// Keys lists every setting accepted by Set
var Keys = []string{
	"ai_provider", "default_model", "gemini_key", "openai_key", "anthropic_key",
	"ollama_url", "lmstudio_url",
	"storage", "database_path", "cloud_dsn", "cloud_user_id", "cloud_poll_interval",
	"google_credentials_file", "google_token_file",
	"server_addr", "log_level",
}

// Secret reports whether a key holds a credential that should not be echoed
func Secret(key string) bool {
	switch key {
	case "gemini_key", "openai_key", "anthropic_key", "cloud_dsn":
		return true
	}
	return false
}

// DefaultDir returns ~/.pipeliner
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, dirName), nil
}

// Load reads dir/config.yaml, creating it with defaults when missing.
// Values from a .env file in the working directory and PIPELINER_*
// environment variables override the file.
func Load(dir string) (*Config, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := filepath.Join(dir, fileName)
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if err := createDefaultConfig(configFile); err != nil {
			return nil, err
		}
	}

	// a missing .env is normal outside development
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(configFile)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	setDefaults(v, dir)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{dir: dir, v: v}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault("ai_provider", "gemini")
	v.SetDefault("default_model", "")
	v.SetDefault("ollama_url", "http://localhost:11434")
	v.SetDefault("lmstudio_url", "http://localhost:1234/v1")
	v.SetDefault("storage", StorageLocal)
	v.SetDefault("database_path", filepath.Join(dir, "pipeliner.db"))
	v.SetDefault("cloud_poll_interval", "15s")
	v.SetDefault("google_credentials_file", filepath.Join(dir, "credentials.json"))
	v.SetDefault("google_token_file", filepath.Join(dir, "token.json"))
	v.SetDefault("server_addr", ":8080")
	v.SetDefault("log_level", "info")
	for _, key := range Keys {
		// Unmarshal only sees env overrides for keys bound explicitly
		_ = v.BindEnv(key)
	}
}

func (c *Config) normalize() {
	c.AIProvider = strings.ToLower(strings.TrimSpace(c.AIProvider))
	c.Storage = strings.ToLower(strings.TrimSpace(c.Storage))
	if c.CloudPollInterval <= 0 {
		c.CloudPollInterval = 15 * time.Second
	}
}

// createDefaultConfig creates a default config file
func createDefaultConfig(path string) error {
	defaultConfig := `# Pipeliner Configuration
# AI Provider: gemini, openai, anthropic, ollama, lmstudio
ai_provider: gemini
default_model: ""

# API Keys (keep this file secure!)
gemini_key: ""
openai_key: ""
anthropic_key: ""

# Storage: local (SQLite) or cloud (Postgres)
storage: local
cloud_dsn: ""
cloud_user_id: ""

# HTTP API
server_addr: ":8080"
log_level: info
`
	return os.WriteFile(path, []byte(defaultConfig), 0600)
}

// Set updates a configuration value and persists it
func (c *Config) Set(key, value string) error {
	if !slices.Contains(Keys, key) {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	c.v.Set(key, value)
	if err := c.v.WriteConfig(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := c.v.Unmarshal(c); err != nil {
		return fmt.Errorf("failed to reload config: %w", err)
	}
	c.normalize()
	return nil
}

// Get retrieves a configuration value as a string
func (c *Config) Get(key string) string {
	return c.v.GetString(key)
}

// Path returns the path to the config file
func (c *Config) Path() string {
	return filepath.Join(c.dir, fileName)
}

func (c *Config) Dir() string {
	return c.dir
}
