package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/s0up4200/dsctl/config"
	"github.com/s0up4200/dsctl/console"
	"github.com/s0up4200/dsctl/synology"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *synology.Client
	printer *console.Printer
)

// flagKeys maps persistent flags to the config keys they override.
var flagKeys = map[string]string{
	"host":      "synology.host",
	"port":      "synology.port",
	"https":     "synology.https",
	"insecure":  "synology.insecure_skip_verify",
	"log-level": "logging.level",
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "dsctl",
	Short: "Exercise the Synology Download Station web API",
	Long: `dsctl drives the Synology Download Station web API from the command line.

Each command runs one scripted flow against the NAS: it resolves the API
paths, logs in, performs its calls, prints a step-by-step report and always
logs out again.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml, ~/.dsctl/config.yaml or /etc/dsctl/config.yaml)")
	flags.String("host", "", "Download Station host")
	flags.Int("port", 0, "Download Station port")
	flags.Bool("https", false, "connect over HTTPS")
	flags.Bool("insecure", false, "skip TLS certificate verification")
	flags.String("log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(modulesCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// bindFlags lets explicitly set flags override file and environment values.
func bindFlags(cmd *cobra.Command) config.Binder {
	return func(v *viper.Viper) error {
		for name, key := range flagKeys {
			flag := cmd.Flags().Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return fmt.Errorf("bind --%s: %w", name, err)
			}
		}
		return nil
	}
}

// initializeApp initializes the configuration and client
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile, bindFlags(cmd))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)
	printer = newPrinter(cmd, cfg.Logging.Color)

	client, err = newClient(cfg.Synology, logger)
	if err != nil {
		return fmt.Errorf("failed to create Synology client: %w", err)
	}

	logger.Debug().Str("url", client.BaseURL()).Str("user", cfg.Synology.Username).Msg("Client initialized")
	return nil
}

func newClient(sc config.SynologyConfig, logger zerolog.Logger) (*synology.Client, error) {
	return synology.NewClient(
		synology.BaseURL(sc.Host, sc.Port, sc.HTTPS),
		logger,
		synology.WithTimeout(sc.Timeout),
		synology.WithSessionName(sc.Session),
		synology.WithInsecureSkipVerify(sc.InsecureSkipVerify),
		synology.WithUserAgent(userAgent(sc)),
	)
}

func userAgent(sc config.SynologyConfig) string {
	if sc.UserAgent != "" {
		return sc.UserAgent
	}
	return "dsctl/" + buildVersion
}

func newPrinter(cmd *cobra.Command, color bool) *console.Printer {
	out := cmd.OutOrStdout()
	if f, ok := out.(*os.File); ok {
		return console.New(out, console.ShouldColor(f, color))
	}
	return console.New(out, false)
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}
