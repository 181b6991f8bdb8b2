package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// defaultSystemPrompt is the canned extraction instruction used when the
// config file does not override it. It asks the AI for the fields the
// ticket backend understands.
const defaultSystemPrompt = "Extract the key information from this document " +
	"and return a JSON object with the fields: name (a short task title), " +
	"description (a summary of the document), priority (1=Urgent, 2=High, " +
	"3=Normal, 4=Low), and status."

// BackendConfig holds the connection settings for one HTTP backend.
type BackendConfig struct {
	// BaseURL is the root URL of the backend service. Required.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// PromptConfig holds the extraction prompt defaults.
type PromptConfig struct {
	// System is the default system prompt pre-filled in the extract form.
	System string `mapstructure:"system" yaml:"system"`
}

// HistoryConfig holds settings for the local submission history database.
type HistoryConfig struct {
	// Path is the SQLite database file location.
	Path string `mapstructure:"path" yaml:"path"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Extraction BackendConfig `mapstructure:"extraction" yaml:"extraction"`
	Ticket     BackendConfig `mapstructure:"ticket" yaml:"ticket"`
	Prompt     PromptConfig  `mapstructure:"prompt" yaml:"prompt"`
	History    HistoryConfig `mapstructure:"history" yaml:"history"`
}

// ConfigurationError reports required configuration that is absent. It is
// fatal: the application refuses to start rather than attempt a request
// against an undefined endpoint.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf(
		"missing required configuration: %s",
		strings.Join(e.Missing, ", "),
	)
}

// Validate checks that both backend base URLs are configured.
func (c *AppConfig) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Extraction.BaseURL) == "" {
		missing = append(missing, "extraction.base_url")
	}
	if strings.TrimSpace(c.Ticket.BaseURL) == "" {
		missing = append(missing, "ticket.base_url")
	}
	if len(missing) > 0 {
		return &ConfigurationError{Missing: missing}
	}
	return nil
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/pdf2ticket/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "pdf2ticket", "config.yaml")
}

// defaultHistoryPath returns the default submission history database path.
func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "history.db")
	}
	return filepath.Join(home, ".config", "pdf2ticket", "history.db")
}

// defaultAppConfig returns the configuration used when no file exists.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Prompt:  PromptConfig{System: defaultSystemPrompt},
		History: HistoryConfig{Path: defaultHistoryPath()},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// Environment variables override file values: PDF2TICKET_EXTRACTION_URL and
// PDF2TICKET_TICKET_URL set the backend base URLs. If the file does not
// exist, defaults plus environment values are returned.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("prompt.system", defaultSystemPrompt)
	v.SetDefault("history.path", defaultHistoryPath())

	if err := v.BindEnv("extraction.base_url", "PDF2TICKET_EXTRACTION_URL"); err != nil {
		return nil, fmt.Errorf("binding extraction env var: %w", err)
	}
	if err := v.BindEnv("ticket.base_url", "PDF2TICKET_TICKET_URL"); err != nil {
		return nil, fmt.Errorf("binding ticket env var: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); !ok {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
		// Missing file is fine; env vars may still provide the URLs.
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("extraction", cfg.Extraction)
	v.Set("ticket", cfg.Ticket)
	v.Set("prompt", cfg.Prompt)
	v.Set("history", cfg.History)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
