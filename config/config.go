package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override, e.g. DSCTL_SYNOLOGY_PASSWORD.
	EnvPrefix = "DSCTL"
	// EnvFileVar names the .env file to load; it defaults to .env.
	EnvFileVar = "DSCTL_ENV_FILE"
)

// Binder registers additional value sources, such as command-line flags.
type Binder func(v *viper.Viper) error

// Load reads and validates the configuration
func Load(configPath string, binders ...Binder) (*Config, error) {
	cfg, err := Read(configPath, binders...)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Read loads the configuration from the .env file, the config file, the
// environment and binders, in increasing precedence. It does not validate.
func Read(configPath string, binders ...Binder) (*Config, error) {
	if err := LoadEnvFile(""); err != nil {
		return nil, err
	}

	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// yaml, toml or json
		v.SetConfigName("config")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".dsctl"))
		}

		// Check /etc
		v.AddConfigPath("/etc/dsctl/")
	}

	// A config file is optional when credentials come from the environment.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	for _, bind := range binders {
		if err := bind(v); err != nil {
			return nil, fmt.Errorf("error binding config source: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// LoadEnvFile loads KEY=value pairs from path into the process environment
// without overriding variables that are already set. An empty path means
// $DSCTL_ENV_FILE, then .env; only an explicitly named file must exist.
func LoadEnvFile(path string) error {
	explicit := path != ""
	if path == "" {
		path = os.Getenv(EnvFileVar)
		explicit = path != ""
	}
	if path == "" {
		path = ".env"
	}

	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error loading env file %s: %w", path, err)
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Synology defaults
	v.SetDefault("synology.host", "localhost")
	v.SetDefault("synology.port", 5000)
	v.SetDefault("synology.https", false)
	v.SetDefault("synology.username", "")
	v.SetDefault("synology.password", "")
	v.SetDefault("synology.session", "DownloadStation")
	v.SetDefault("synology.insecure_skip_verify", false)
	v.SetDefault("synology.timeout", "30s")
	v.SetDefault("synology.user_agent", "")

	// Search defaults
	v.SetDefault("search.wait", "3s")
	v.SetDefault("search.limit", 20)
	v.SetDefault("search.show", 10)
	v.SetDefault("search.sort_by", "seeds")
	v.SetDefault("search.sort_direction", "DESC")
	v.SetDefault("search.module", "enabled")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Synology.Host == "" {
		return fmt.Errorf("synology.host is required")
	}

	if c.Synology.Port < 1 || c.Synology.Port > 65535 {
		return fmt.Errorf("invalid synology.port: %d (must be 1-65535)", c.Synology.Port)
	}

	if c.Synology.Username == "" {
		return fmt.Errorf("synology.username is required")
	}

	if c.Synology.Password == "" {
		return fmt.Errorf("synology.password is required (or set %s_SYNOLOGY_PASSWORD)", EnvPrefix)
	}

	if c.Synology.Timeout <= 0 {
		return fmt.Errorf("synology.timeout must be positive")
	}

	if c.Search.Wait < 0 {
		return fmt.Errorf("search.wait must not be negative")
	}

	if c.Search.Limit < 0 || c.Search.Show < 0 {
		return fmt.Errorf("search.limit and search.show must not be negative")
	}

	switch strings.ToUpper(c.Search.SortDirection) {
	case "ASC", "DESC":
	default:
		return fmt.Errorf("invalid search.sort_direction: %s (must be 'ASC' or 'DESC')", c.Search.SortDirection)
	}

	for name, expression := range c.Filters {
		if strings.TrimSpace(expression) == "" {
			return fmt.Errorf("filters.%s has an empty expression", name)
		}
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", c.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", c.Logging.Format)
	}

	return nil
}

// ResolveFilter returns the named filter from the filters table, or the
// argument itself when no filter has that name. Names match case-insensitively.
func (c *Config) ResolveFilter(nameOrExpression string) string {
	if expression, ok := c.Filters[nameOrExpression]; ok {
		return expression
	}
	for name, expression := range c.Filters {
		if strings.EqualFold(name, nameOrExpression) {
			return expression
		}
	}
	return nameOrExpression
}
