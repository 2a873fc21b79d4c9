package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/s0up4200/dsctl/console"
	"github.com/s0up4200/dsctl/filter"
	"github.com/s0up4200/dsctl/synology"
)

const (
	defaultTaskID   = "dbid_1"
	moduleShowCount = 5
)

var (
	tasksOffset int
	tasksLimit  int
	tasksFilter string
)

// taskCmd represents the task command
var taskCmd = &cobra.Command{
	Use:   "task [ID...]",
	Short: "Show task details, BT search modules and transfer statistics",
	Long: `Fetch full details (detail, transfer, file, tracker, peer) for the given
task IDs (default dbid_1), list the first BT search modules when the BTSearch
API is available and print the current transfer statistics.`,
	RunE: runTask,
}

// tasksCmd represents the tasks command
var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List download tasks",
	Example: `  dsctl tasks --limit 10
  dsctl tasks --filter 'Status == "downloading" and Progress < 50'`,
	Args: cobra.NoArgs,
	RunE: runTasks,
}

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show current transfer speeds",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

// modulesCmd represents the modules command
var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "List BT search modules and categories",
	Args:  cobra.NoArgs,
	RunE:  runModules,
}

func init() {
	tasksCmd.Flags().IntVar(&tasksOffset, "offset", 0, "index of the first task")
	tasksCmd.Flags().IntVar(&tasksLimit, "limit", 0, "maximum number of tasks (0 for all)")
	tasksCmd.Flags().StringVarP(&tasksFilter, "filter", "f", "", "filter expression or configured filter name")
}

func runTask(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p := printer

	ids := args
	if len(ids) == 0 {
		ids = []string{defaultTaskID}
	}

	p.Banner("Synology Download Station - Task Operations")
	p.Line("Host: %s:%d", cfg.Synology.Host, cfg.Synology.Port)

	if _, err := discover(ctx, p, synology.APIAuth, synology.APITask, synology.APIBTSearch); err != nil {
		return err
	}
	session, err := login(ctx, p)
	if err != nil {
		return err
	}
	defer logout(ctx, p, session)
	p.Success("Logged in successfully")

	p.Step(1, "Getting detailed info for task %s...", strings.Join(ids, ", "))
	tasks, err := session.TaskInfo(ctx, ids,
		synology.AdditionalDetail,
		synology.AdditionalTransfer,
		synology.AdditionalFile,
		synology.AdditionalTracker,
		synology.AdditionalPeer,
	)
	switch {
	case err != nil:
		p.Failure("Failed to get task info: %s", describe(err))
	case len(tasks) == 0:
		p.Failure("No task found")
	default:
		for _, task := range tasks {
			printTaskInfo(p, task)
		}
	}

	p.Step(2, "Testing BT Search API...")
	if !client.HasAPI(synology.APIBTSearch) {
		p.Skip("BT Search API not available")
	} else if modules, err := session.SearchModules(ctx); err != nil {
		p.Failure("Failed to get search modules: %s", describe(err))
	} else {
		p.Success("Found %d BT search modules:", len(modules))
		for _, module := range modules[:min(moduleShowCount, len(modules))] {
			p.Detail("- %s (%s) - %s", module.Title, module.ID, enabledLabel(module.Enabled))
		}
	}

	p.Step(3, "Getting download statistics...")
	if stat, err := session.Statistic(ctx); err != nil {
		p.Failure("Failed to get statistics: %s", describe(err))
	} else {
		printStatistic(p, stat)
	}

	return nil
}

func printTaskInfo(p *console.Printer, task synology.Task) {
	p.Success("Task info retrieved:")
	p.Detail("Title: %s", task.Title)
	p.Detail("Status: %s", task.Status)
	p.Detail("Size: %.2f GB", console.GB(int64(task.Size)))

	add := task.Additional
	if add == nil {
		return
	}
	if add.Detail != nil {
		p.Detail("Destination: %s", add.Detail.Destination)
		p.Detail("Created: %s", formatTime(add.Detail.CreateTime))
	}
	if add.Transfer != nil {
		p.Detail("Downloaded: %.2f MB", console.MB(int64(add.Transfer.SizeDownloaded)))
	}
	if len(add.Files) > 0 {
		p.Detail("Files: %d", len(add.Files))
	}
	if len(add.Trackers) > 0 {
		p.Detail("Trackers: %d", len(add.Trackers))
	}
	if len(add.Peers) > 0 {
		p.Detail("Peers: %d", len(add.Peers))
	}
}

func printStatistic(p *console.Printer, stat *synology.Statistic) {
	p.Success("Download statistics:")
	p.Detail("Download speed: %s", console.KBps(int64(stat.SpeedDownload)))
	p.Detail("Upload speed: %s", console.KBps(int64(stat.SpeedUpload)))
	p.Detail("eMule download: %s", console.KBps(int64(stat.EmuleSpeedDownload)))
	p.Detail("eMule upload: %s", console.KBps(int64(stat.EmuleSpeedUpload)))
}

func runTasks(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if tasksOffset < 0 || tasksLimit < 0 {
		return fmt.Errorf("invalid paging: offset %d, limit %d (must not be negative)", tasksOffset, tasksLimit)
	}

	f, err := compileFilter(tasksFilter)
	if err != nil {
		return err
	}

	session, closeSession, err := openSession(ctx, synology.APITask)
	if err != nil {
		return err
	}
	defer closeSession()

	list, err := session.ListTasks(ctx, synology.TaskListOptions{
		Offset:     tasksOffset,
		Limit:      tasksLimit,
		Additional: []string{synology.AdditionalDetail, synology.AdditionalTransfer},
	})
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := filter.Tasks(f, list.Tasks)
	if len(tasks) == 0 {
		printer.Line("No tasks found")
		return nil
	}

	for _, task := range tasks {
		printer.Line("%-10s %-12s %5.1f%% %10s  %s",
			task.ID, task.Status, task.Progress()*100, console.FormatSize(int64(task.Size)), task.Title)
	}
	printer.Blank()
	printer.Line("%d of %d task(s)", len(tasks), list.Total)
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	session, closeSession, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer closeSession()

	stat, err := session.Statistic(ctx)
	if err != nil {
		return fmt.Errorf("failed to get statistics: %w", err)
	}
	printStatistic(printer, stat)
	return nil
}

func runModules(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	session, closeSession, err := openSession(ctx, synology.APIBTSearch)
	if err != nil {
		return err
	}
	defer closeSession()

	modules, err := session.SearchModules(ctx)
	if err != nil {
		return fmt.Errorf("failed to get search modules: %w", err)
	}
	printer.Success("Found %d BT search modules:", len(modules))
	for _, module := range modules {
		printer.Detail("- %s (%s) - %s", module.Title, module.ID, enabledLabel(module.Enabled))
	}

	categories, err := session.SearchCategories(ctx)
	if err != nil {
		printer.Failure("Failed to get categories: %s", describe(err))
		return nil
	}
	printer.Success("Found %d categories:", len(categories))
	for _, category := range categories {
		printer.Detail("- %s (id: %s)", category.Title, category.ID)
	}
	return nil
}

func enabledLabel(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}

func formatTime(t synology.UnixTime) string {
	if t <= 0 {
		return "unknown"
	}
	return t.Time().Format(time.DateTime)
}
