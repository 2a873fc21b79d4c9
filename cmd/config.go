package cmd

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/s0up4200/dsctl/config"
)

const redactedPassword = "*****"

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the effective configuration",
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as TOML",
	Long: `Print the configuration after merging defaults, the config file, .env,
DSCTL_* environment variables and command-line flags. The password is redacted.`,
	Args: cobra.NoArgs,
	// Showing an incomplete configuration is the point, so skip validation.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Read(cfgFile, bindFlags(cmd))
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
	RunE: runConfigShow,
}

func init() {
	configCmd.AddCommand(configShowCmd)
}

// configView is the TOML rendering of config.Config.
type configView struct {
	Synology struct {
		Host               string `toml:"host"`
		Port               int    `toml:"port"`
		HTTPS              bool   `toml:"https"`
		Username           string `toml:"username"`
		Password           string `toml:"password"`
		Session            string `toml:"session"`
		InsecureSkipVerify bool   `toml:"insecure_skip_verify"`
		Timeout            string `toml:"timeout"`
		UserAgent          string `toml:"user_agent,omitempty"`
	} `toml:"synology"`
	Search struct {
		Wait          string `toml:"wait"`
		Limit         int    `toml:"limit"`
		Show          int    `toml:"show"`
		SortBy        string `toml:"sort_by"`
		SortDirection string `toml:"sort_direction"`
		Module        string `toml:"module"`
	} `toml:"search"`
	Filters map[string]string `toml:"filters,omitempty"`
	Logging struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
		Color  bool   `toml:"color"`
	} `toml:"logging"`
}

func newConfigView(c *config.Config) configView {
	var v configView

	v.Synology.Host = c.Synology.Host
	v.Synology.Port = c.Synology.Port
	v.Synology.HTTPS = c.Synology.HTTPS
	v.Synology.Username = c.Synology.Username
	if c.Synology.Password != "" {
		v.Synology.Password = redactedPassword
	}
	v.Synology.Session = c.Synology.Session
	v.Synology.InsecureSkipVerify = c.Synology.InsecureSkipVerify
	v.Synology.Timeout = c.Synology.Timeout.String()
	v.Synology.UserAgent = c.Synology.UserAgent

	v.Search.Wait = c.Search.Wait.String()
	v.Search.Limit = c.Search.Limit
	v.Search.Show = c.Search.Show
	v.Search.SortBy = c.Search.SortBy
	v.Search.SortDirection = c.Search.SortDirection
	v.Search.Module = c.Search.Module

	v.Filters = c.Filters

	v.Logging.Level = c.Logging.Level
	v.Logging.Format = c.Logging.Format
	v.Logging.Color = c.Logging.Color

	return v
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out, err := toml.Marshal(newConfigView(cfg))
	if err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
