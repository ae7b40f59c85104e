// Package config provides YAML-based configuration for the bulk ingestion
// CLI, with environment overrides for deployment-specific values.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/decipher6/greenstoneResume-sub000/internal/ingest"
)

// AppConfig is the root configuration structure.
type AppConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Upload   UploadConfig   `yaml:"upload"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Journal  JournalConfig  `yaml:"journal"`
}

// ServerConfig locates the ATS backend.
type ServerConfig struct {
	URL                   string `yaml:"url"`
	APIToken              string `yaml:"apiToken"`
	RequestTimeoutSeconds int    `yaml:"requestTimeoutSeconds"`
}

// UploadConfig tunes the chunked upload pass.
type UploadConfig struct {
	ChunkSize         int `yaml:"chunkSize"`
	InlineRetries     int `yaml:"inlineRetries"`
	BackoffStepMs     int `yaml:"backoffStepMs"`
	RefreshIntervalMs int `yaml:"refreshIntervalMs"`
}

// AnalysisConfig tunes the trigger-and-poll protocol.
type AnalysisConfig struct {
	AutoAnalyze             bool `yaml:"autoAnalyze"`
	SettleDelayMs           int  `yaml:"settleDelayMs"`
	RetryDelayMs            int  `yaml:"retryDelayMs"`
	PollIntervalSeconds     int  `yaml:"pollIntervalSeconds"`
	AutoPollBudgetSeconds   int  `yaml:"autoPollBudgetSeconds"`
	ManualPollBudgetSeconds int  `yaml:"manualPollBudgetSeconds"`
}

// JournalConfig controls the optional session journal.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			URL:                   "http://localhost:8000",
			RequestTimeoutSeconds: 120,
		},
		Upload: UploadConfig{
			ChunkSize:         ingest.DefaultChunkSize,
			InlineRetries:     ingest.DefaultInlineRetries,
			BackoffStepMs:     500,
			RefreshIntervalMs: 2000,
		},
		Analysis: AnalysisConfig{
			AutoAnalyze:             true,
			SettleDelayMs:           500,
			RetryDelayMs:            2000,
			PollIntervalSeconds:     5,
			AutoPollBudgetSeconds:   120,
			ManualPollBudgetSeconds: 60,
		},
		Journal: JournalConfig{
			Enabled: false,
			Path:    "ingest-journal.bin",
		},
	}
}

// LoadConfig reads a YAML config file. A missing file yields the defaults;
// environment overrides are applied either way.
func LoadConfig(path string) (*AppConfig, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnvironmentOverrides()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *AppConfig) Save(path string) error {
	output, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, output, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// applyEnvironmentOverrides allows environment variables to override config
// values. The API token in particular should live in the environment rather
// than on disk.
func (c *AppConfig) applyEnvironmentOverrides() {
	if url := os.Getenv("ATS_SERVER_URL"); url != "" {
		c.Server.URL = url
	}
	if token := os.Getenv("ATS_API_TOKEN"); token != "" {
		c.Server.APIToken = token
	}
}

func (c *AppConfig) validate() error {
	if c.Server.URL == "" {
		return fmt.Errorf("server.url must be set")
	}
	if c.Upload.ChunkSize <= 0 {
		return fmt.Errorf("upload.chunkSize must be positive")
	}
	if c.Upload.InlineRetries < 0 {
		return fmt.Errorf("upload.inlineRetries must not be negative")
	}
	return nil
}

// RequestTimeout returns the per-request transport timeout.
func (c *AppConfig) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeoutSeconds) * time.Second
}

// SessionOptions maps the configuration onto ingestion session options.
func (c *AppConfig) SessionOptions() ingest.Options {
	return ingest.Options{
		ChunkSize:           c.Upload.ChunkSize,
		InlineRetries:       c.Upload.InlineRetries,
		BackoffStep:         time.Duration(c.Upload.BackoffStepMs) * time.Millisecond,
		RefreshInterval:     time.Duration(c.Upload.RefreshIntervalMs) * time.Millisecond,
		AnalysisSettleDelay: time.Duration(c.Analysis.SettleDelayMs) * time.Millisecond,
		AnalysisRetryDelay:  time.Duration(c.Analysis.RetryDelayMs) * time.Millisecond,
		PollInterval:        time.Duration(c.Analysis.PollIntervalSeconds) * time.Second,
		AutoPollBudget:      time.Duration(c.Analysis.AutoPollBudgetSeconds) * time.Second,
		ManualPollBudget:    time.Duration(c.Analysis.ManualPollBudgetSeconds) * time.Second,
		AutoAnalyze:         c.Analysis.AutoAnalyze,
	}
}
