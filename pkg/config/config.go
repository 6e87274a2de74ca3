package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

const (
	xdgAppName = "aledger"
	configFile = "config.json"
	dataFile   = "ledger.bolt"

	DefaultModel       = "gemini-2.0-flash"
	DefaultSheetName   = "myledger"
	defaultStatusDecay = 3 * time.Second
	defaultTimeout     = 30 * time.Second
	defaultRPM         = 15
)

// APIKeyEnvVars are checked in order for the text-generation API key.
var APIKeyEnvVars = []string{"GEMINI_API_KEY", "API_KEY"}

// Duration is a time.Duration that reads and writes as "3s" in JSON.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"3s\": %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Config holds the tool settings. Destination URLs are not here: they are
// user data and live in the ledger store.
type Config struct {
	Model             string   `json:"model"`
	Endpoint          string   `json:"endpoint,omitempty"`
	DataPath          string   `json:"data_path,omitempty"`
	SheetName         string   `json:"sheet_name"`
	StatusDecay       Duration `json:"status_decay"`
	WebhookTimeout    Duration `json:"webhook_timeout"`
	RequestsPerMinute int      `json:"requests_per_minute"`

	// APIKey is never written to disk.
	APIKey string `json:"-"`
}

// Default returns the settings used when no config file exists.
func Default() *Config {
	return &Config{
		Model:             DefaultModel,
		SheetName:         DefaultSheetName,
		StatusDecay:       Duration{defaultStatusDecay},
		WebhookTimeout:    Duration{defaultTimeout},
		RequestsPerMinute: defaultRPM,
	}
}

func GetConfigDir() (string, error) {
	xdgHome, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(xdgHome, ".config", xdgAppName), nil
}

func GetConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// Load reads the config from the default location.
func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads the config at path, filling defaults for missing fields and
// the API key from the environment.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		defer f.Close()
		if err := json.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config: %w", err)
		}
	}

	cfg.applyDefaults()
	if cfg.DataPath == "" {
		cfg.DataPath = filepath.Join(filepath.Dir(path), dataFile)
	}
	cfg.APIKey = apiKeyFromEnv()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.Model == "" {
		c.Model = def.Model
	}
	if c.SheetName == "" {
		c.SheetName = def.SheetName
	}
	if c.StatusDecay.Duration <= 0 {
		c.StatusDecay = def.StatusDecay
	}
	if c.WebhookTimeout.Duration <= 0 {
		c.WebhookTimeout = def.WebhookTimeout
	}
	if c.RequestsPerMinute <= 0 {
		c.RequestsPerMinute = def.RequestsPerMinute
	}
}

// LoadEnv loads a .env file from the working directory, if any. A missing
// file is expected and only logged.
func LoadEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("no .env file found, relying on process environment")
			return
		}
		slog.Warn("could not load .env file", "error", err)
	}
}

func apiKeyFromEnv() string {
	for _, k := range APIKeyEnvVars {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// Save writes cfg to the default location.
func Save(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	return SaveFile(path, cfg)
}

func SaveFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file for writing: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	return encoder.Encode(cfg)
}
