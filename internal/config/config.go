// ABOUTME: Configuration loading and parsing for scribe
// ABOUTME: Supports YAML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete scribe configuration
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Logging   LoggingConfig   `yaml:"logging"`
	Retention RetentionConfig `yaml:"retention"`
}

// DatabaseConfig holds the location of the SQLite database file.
// Both parts are explicit so nothing in the program carries an implicit
// data path.
type DatabaseConfig struct {
	Dir  string `yaml:"dir"`
	File string `yaml:"file"`
}

// Path returns the full database file path
func (d DatabaseConfig) Path() string {
	return filepath.Join(d.Dir, d.File)
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// RetentionConfig holds scheduled message pruning configuration
type RetentionConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Schedule string        `yaml:"schedule"` // cron expression
	MaxAge   time.Duration `yaml:"-"`

	// Raw string value for YAML unmarshaling
	MaxAgeRaw string `yaml:"max_age"`
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Database.Dir == "" {
		return fmt.Errorf("database.dir is required")
	}
	if c.Database.File == "" {
		return fmt.Errorf("database.file is required")
	}

	if c.Retention.Enabled {
		if c.Retention.MaxAge <= 0 {
			return fmt.Errorf("retention.max_age must be a positive duration when retention is enabled")
		}
		if c.Retention.Schedule == "" {
			return fmt.Errorf("retention.schedule is required when retention is enabled")
		}
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	if cfg.Retention.MaxAgeRaw != "" {
		var err error
		cfg.Retention.MaxAge, err = time.ParseDuration(cfg.Retention.MaxAgeRaw)
		if err != nil {
			return fmt.Errorf("parsing retention.max_age %q: %w", cfg.Retention.MaxAgeRaw, err)
		}
	}

	return nil
}
