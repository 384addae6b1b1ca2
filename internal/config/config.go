package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	SourceRecords      = "records"
	SourceConsolidated = "consolidated"
	SourceDatabase     = "database"
)

const (
	defaultConcurrency = 16
	defaultTimeout     = 5 * time.Second
	defaultFile        = "alldata.json"
)

type ProjectConfig struct {
	Project   string          `yaml:"project"`
	Version   int             `yaml:"version"`
	Source    SourceConfig    `yaml:"source"`
	Database  DatabaseConfig  `yaml:"database"`
	Locations LocationsConfig `yaml:"locations"`
	Records   *Layout         `yaml:"records"`
}

type SourceConfig struct {
	Kind        string        `yaml:"kind"`
	Dir         string        `yaml:"dir"`
	BaseURL     string        `yaml:"base_url"`
	File        string        `yaml:"file"`
	Concurrency int           `yaml:"concurrency"`
	Timeout     time.Duration `yaml:"timeout"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type LocationsConfig struct {
	Normalize bool              `yaml:"normalize"`
	Aliases   map[string]string `yaml:"aliases"`
}

func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateProjectConfig(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return &cfg, nil
}

// Layout returns the configured record layout, or the default one.
func (c *ProjectConfig) Layout() Layout {
	if c == nil || c.Records == nil {
		return DefaultLayout()
	}
	return *c.Records
}

func applyDefaults(cfg *ProjectConfig) {
	if strings.TrimSpace(cfg.Source.Kind) == "" {
		cfg.Source.Kind = SourceRecords
	}
	cfg.Source.Kind = strings.ToLower(strings.TrimSpace(cfg.Source.Kind))
	if cfg.Source.Concurrency == 0 {
		cfg.Source.Concurrency = defaultConcurrency
	}
	if cfg.Source.Timeout == 0 {
		cfg.Source.Timeout = defaultTimeout
	}
	if cfg.Source.File == "" {
		cfg.Source.File = defaultFile
	}
	if cfg.Records != nil {
		cfg.Records.fillDefaults()
	}
}

func validateProjectConfig(cfg *ProjectConfig) error {
	if strings.TrimSpace(cfg.Project) == "" {
		return fmt.Errorf("project name is required")
	}
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}

	switch cfg.Source.Kind {
	case SourceRecords:
		if strings.TrimSpace(cfg.Source.Dir) == "" && strings.TrimSpace(cfg.Source.BaseURL) == "" {
			return fmt.Errorf("records source needs dir or base_url")
		}
	case SourceConsolidated:
	case SourceDatabase:
		if strings.TrimSpace(cfg.Database.DSN) == "" {
			return fmt.Errorf("database source needs database dsn")
		}
	default:
		return fmt.Errorf("unknown source kind: %s", cfg.Source.Kind)
	}

	if cfg.Source.Concurrency < 1 {
		return fmt.Errorf("source concurrency must be at least 1")
	}
	if cfg.Source.Timeout < 0 {
		return fmt.Errorf("source timeout must be positive")
	}

	if dsn := strings.TrimSpace(cfg.Database.DSN); dsn != "" {
		if _, err := DatabaseDriver(dsn); err != nil {
			return err
		}
	}

	if cfg.Records != nil {
		if err := validateLayout(cfg.Records); err != nil {
			return err
		}
	}

	for from, to := range cfg.Locations.Aliases {
		if strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
			return fmt.Errorf("location aliases must not be empty")
		}
	}

	return nil
}

// DatabaseDriver names the store backend a DSN selects.
func DatabaseDriver(dsn string) (string, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return "postgres", nil
	case strings.HasPrefix(dsn, "sqlite://"):
		return "sqlite", nil
	default:
		return "", fmt.Errorf("unsupported database dsn scheme: %s", dsn)
	}
}
