package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Synology SynologyConfig `mapstructure:"synology"`
	Search   SearchConfig   `mapstructure:"search"`
	Filters  FilterConfig   `mapstructure:"filters"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// SynologyConfig holds Download Station connection details
type SynologyConfig struct {
	Host               string        `mapstructure:"host"`
	Port               int           `mapstructure:"port"`
	HTTPS              bool          `mapstructure:"https"`
	Username           string        `mapstructure:"username"`
	Password           string        `mapstructure:"password"`
	Session            string        `mapstructure:"session"`
	InsecureSkipVerify bool          `mapstructure:"insecure_skip_verify"`
	Timeout            time.Duration `mapstructure:"timeout"`
	// UserAgent overrides the default "dsctl/<version>" header.
	UserAgent          string        `mapstructure:"user_agent"`
}

// SearchConfig contains BT search defaults
type SearchConfig struct {
	// Wait is how long to let the server collect results before listing them.
	Wait          time.Duration `mapstructure:"wait"`
	Limit         int           `mapstructure:"limit"`
	Show          int           `mapstructure:"show"`
	SortBy        string        `mapstructure:"sort_by"`
	SortDirection string        `mapstructure:"sort_direction"`
	Module        string        `mapstructure:"module"`
}

// FilterConfig contains named filter expressions, usable wherever --filter is accepted
type FilterConfig map[string]string

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
