package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const configFileName = "block_scheduler_config.yaml"

// EngineConfig holds the knobs surfaced to the roster engine
type EngineConfig struct {
	// BlockStart must be a Monday (the first weekday-block of the block)
	BlockStart string `yaml:"blockStart" validate:"required,datetime=2006-01-02"`
	// BlockEnd is inclusive
	BlockEnd string `yaml:"blockEnd" validate:"required,datetime=2006-01-02"`

	// BlocksPerYear divides annual quotas into per-block fair shares
	BlocksPerYear int `yaml:"blocksPerYear,omitempty" validate:"omitempty,min=1"`

	// Seed selects the schedule variant; identical seed + inputs reproduce
	// the same schedule exactly
	Seed int64 `yaml:"seed,omitempty"`

	// MaxRebalanceIters caps the rebalance and forced-fill sweeps
	MaxRebalanceIters int `yaml:"maxRebalanceIters,omitempty" validate:"omitempty,min=1"`
	// MaxLevelIters caps the gap-leveling and cross-site fill loops
	MaxLevelIters int `yaml:"maxLevelIters,omitempty" validate:"omitempty,min=1"`

	// MaxConsecutiveWeeks is the normal-pass active-week ceiling
	MaxConsecutiveWeeks int `yaml:"maxConsecutiveWeeks,omitempty" validate:"omitempty,min=1"`
	// AbsoluteMaxConsecutiveWeeks is the hard ceiling forced fill may reach
	AbsoluteMaxConsecutiveWeeks int `yaml:"absoluteMaxConsecutiveWeeks,omitempty" validate:"omitempty,min=1"`

	// OverflowSite absorbs residual capacity and is filled last; it is
	// expected to stay under demand
	OverflowSite string `yaml:"overflowSite,omitempty"`
}

// Config represents the application configuration
type Config struct {
	// ProviderSheetID is the spreadsheet holding the Providers, Provider
	// Tags and Sites tabs
	ProviderSheetID string `yaml:"providerSheetID" validate:"required"`
	ProvidersTab    string `yaml:"providersTab" validate:"required"`
	TagsTab         string `yaml:"tagsTab" validate:"required"`
	SitesTab        string `yaml:"sitesTab" validate:"required"`

	// SchedulesDir holds the individual schedule JSON exports used to
	// build per-provider blackout dates
	SchedulesDir string `yaml:"schedulesDir" validate:"required"`

	Engine EngineConfig `yaml:"engine" validate:"required"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from block_scheduler_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct and checks date ordering
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	start, err := time.Parse("2006-01-02", cfg.Engine.BlockStart)
	if err != nil {
		return fmt.Errorf("invalid blockStart: %w", err)
	}
	end, err := time.Parse("2006-01-02", cfg.Engine.BlockEnd)
	if err != nil {
		return fmt.Errorf("invalid blockEnd: %w", err)
	}

	if start.Weekday() != time.Monday {
		return fmt.Errorf("blockStart %s is a %s, must be a Monday", cfg.Engine.BlockStart, start.Weekday())
	}
	if end.Before(start) {
		return fmt.Errorf("blockEnd %s is before blockStart %s", cfg.Engine.BlockEnd, cfg.Engine.BlockStart)
	}
	if cfg.Engine.AbsoluteMaxConsecutiveWeeks < cfg.Engine.MaxConsecutiveWeeks {
		return fmt.Errorf("absoluteMaxConsecutiveWeeks (%d) must be >= maxConsecutiveWeeks (%d)",
			cfg.Engine.AbsoluteMaxConsecutiveWeeks, cfg.Engine.MaxConsecutiveWeeks)
	}

	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Engine.BlocksPerYear == 0 {
		cfg.Engine.BlocksPerYear = 3
	}
	if cfg.Engine.Seed == 0 {
		cfg.Engine.Seed = 42
	}
	if cfg.Engine.MaxRebalanceIters == 0 {
		cfg.Engine.MaxRebalanceIters = 50
	}
	if cfg.Engine.MaxLevelIters == 0 {
		cfg.Engine.MaxLevelIters = 100
	}
	if cfg.Engine.MaxConsecutiveWeeks == 0 {
		cfg.Engine.MaxConsecutiveWeeks = 2
	}
	if cfg.Engine.AbsoluteMaxConsecutiveWeeks == 0 {
		cfg.Engine.AbsoluteMaxConsecutiveWeeks = 3
	}
}

// BlockDates parses the configured block boundary dates
func (e *EngineConfig) BlockDates() (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", e.BlockStart)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid blockStart: %w", err)
	}
	end, err := time.Parse("2006-01-02", e.BlockEnd)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid blockEnd: %w", err)
	}
	return start, end, nil
}

// findConfigFile searches for the config file in current directory and home directory
func findConfigFile() (string, error) {
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
