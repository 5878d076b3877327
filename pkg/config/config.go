package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rajdefenseye/CMMC-lens3/pkg/logger"
)

const (
	DefaultProvider    = "gemini"
	DefaultModel       = "gemini-2.0-flash-001"
	DefaultAddr        = ":5000"
	DefaultMaxUploadMB = 10
)

type ProviderConfig struct {
	APIKey string `yaml:"api_key"`
}

// ServerConfig controls the upload endpoint
type ServerConfig struct {
	Addr        string `yaml:"addr"`
	UploadDir   string `yaml:"upload_dir"`
	MaxUploadMB int64  `yaml:"max_upload_mb"`
}

type Config struct {
	SelectedProvider string                    `yaml:"selected_provider"`
	SelectedModel    string                    `yaml:"selected_model"`
	Providers        map[string]ProviderConfig `yaml:"providers"`
	Server           ServerConfig              `yaml:"server"`
}

// LoadEnv loads the first .env file found. Variables already set in the
// environment win.
func LoadEnv(paths ...string) string {
	if len(paths) == 0 {
		paths = []string{".env", "../.env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err == nil {
			logger.Debugf("Loaded environment from: %s", path)
			return path
		}
	}
	logger.Debugf("No .env file found, using environment variables")
	return ""
}

func GetConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	configDir := filepath.Join(home, ".cmmc-lens")
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.yaml"), nil
}

func Default() *Config {
	return &Config{
		SelectedProvider: DefaultProvider,
		SelectedModel:    DefaultModel,
		Providers:        make(map[string]ProviderConfig),
		Server: ServerConfig{
			Addr:        DefaultAddr,
			UploadDir:   filepath.Join(os.TempDir(), "cmmc-lens-uploads"),
			MaxUploadMB: DefaultMaxUploadMB,
		},
	}
}

// LoadConfig reads the config file, fills defaults and applies environment
// overrides. A missing file is not an error.
func LoadConfig() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, cfg.Validate()
}

// LoadFile reads a config file without consulting the environment
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultAddr
	}
	if cfg.Server.UploadDir == "" {
		cfg.Server.UploadDir = Default().Server.UploadDir
	}
	if cfg.Server.MaxUploadMB == 0 {
		cfg.Server.MaxUploadMB = DefaultMaxUploadMB
	}
	return cfg, nil
}

func SaveConfig(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	return SaveFile(path, cfg)
}

func SaveFile(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	// 0600 permissions for security (api keys)
	return os.WriteFile(path, data, 0600)
}

func (c *Config) applyEnv() {
	if key := firstEnv("GEMINI_API_KEY", "GOOGLE_API_KEY"); key != "" && c.GetAPIKey(DefaultProvider) == "" {
		c.SetAPIKey(DefaultProvider, key)
	}
	if v := os.Getenv("CMMC_LENS_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("CMMC_LENS_UPLOAD_DIR"); v != "" {
		c.Server.UploadDir = v
	}
	if v := os.Getenv("CMMC_LENS_MAX_UPLOAD_MB"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Server.MaxUploadMB = n
		} else {
			logger.Warnf("Ignoring CMMC_LENS_MAX_UPLOAD_MB=%q: %v", v, err)
		}
	}
}

// Validate checks the server settings
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server addr is required")
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be positive, got %d", c.Server.MaxUploadMB)
	}
	return nil
}

func (c *Config) SetAPIKey(provider, key string) {
	p := c.Providers[provider]
	p.APIKey = key
	c.Providers[provider] = p
}

func (c *Config) GetAPIKey(provider string) string {
	return c.Providers[provider].APIKey
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
