package cmd

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

const repositorySlug = "s0up4200/dsctl"

var (
	buildVersion = "dev"
	buildTime    = "unknown"
)

// SetVersion records build information injected through ldflags.
func SetVersion(version, built string) {
	buildVersion = version
	buildTime = built
	rootCmd.Version = version
}

// skipInit replaces initializeApp for commands that need no config or client.
func skipInit(cmd *cobra.Command, args []string) error {
	return nil
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:               "version",
	Short:             "Print build information",
	Args:              cobra.NoArgs,
	PersistentPreRunE: skipInit,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "dsctl %s (built %s, %s %s/%s)\n",
			buildVersion, buildTime, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:               "update",
	Short:             "Update dsctl to the latest GitHub release",
	Args:              cobra.NoArgs,
	PersistentPreRunE: skipInit,
	RunE:              runUpdate,
}

var errDevBuild = errors.New("development builds cannot be updated; install a release build")

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	current, err := parseVersion(buildVersion)
	if err != nil {
		return err
	}

	release, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(repositorySlug))
	if err != nil {
		return fmt.Errorf("failed to detect latest release: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for %s/%s", runtime.GOOS, runtime.GOARCH)
	}

	latest, err := semver.ParseTolerant(release.Version())
	if err != nil {
		return fmt.Errorf("invalid release version %q: %w", release.Version(), err)
	}
	if latest.LTE(current) {
		fmt.Fprintf(out, "✓ dsctl %s is up to date\n", current)
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}

	fmt.Fprintf(out, "Updating dsctl %s → %s...\n", current, latest)
	if err := selfupdate.UpdateTo(ctx, release.AssetURL, release.AssetName, exe); err != nil {
		return fmt.Errorf("failed to update binary: %w", err)
	}
	fmt.Fprintf(out, "✓ Updated to %s\n", latest)
	return nil
}

// parseVersion parses a release version such as "v1.2.3" or "1.2.3".
func parseVersion(v string) (semver.Version, error) {
	if v == "" || v == "dev" {
		return semver.Version{}, errDevBuild
	}
	parsed, err := semver.ParseTolerant(v)
	if err != nil {
		return semver.Version{}, fmt.Errorf("%w: %v", errDevBuild, err)
	}
	return parsed, nil
}
