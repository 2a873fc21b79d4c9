package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/s0up4200/dsctl/console"
	"github.com/s0up4200/dsctl/filter"
	"github.com/s0up4200/dsctl/synology"
)

const (
	categoryShowCount = 5
	uriPreviewLength  = 50
	downloadLimit     = 5
)

var (
	searchWait          time.Duration
	searchVerifyWait    time.Duration
	searchLimit         int
	searchShow          int
	searchSortBy        string
	searchSortDirection string
	searchModule        string
	searchFilter        string
	searchDownload      bool
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search KEYWORD",
	Short: "Run a BT search and print the best results",
	Long: `Start a BT search on the enabled search modules, wait for results to
accumulate, print the top results sorted by seeds and clean the search up.

With --download the first result is queued as a download task when it has a
magnet link, and the new task is looked up in the recent task list.`,
	Example: `  dsctl search "Vera"
  dsctl search "ubuntu 24.04" --download
  dsctl search "Vera" --filter 'Seeds > 20 and SizeGB < 4'`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	flags := searchCmd.Flags()
	flags.DurationVar(&searchWait, "wait", 0, "time to let the search collect results (default from search.wait)")
	flags.DurationVar(&searchVerifyWait, "verify-wait", 2*time.Second, "time to wait before looking up a task created with --download")
	flags.IntVar(&searchLimit, "limit", 0, "number of results to fetch (default from search.limit)")
	flags.IntVar(&searchShow, "show", 0, "number of results to print (default from search.show)")
	flags.StringVar(&searchSortBy, "sort-by", "", "result sort field (default from search.sort_by)")
	flags.StringVar(&searchSortDirection, "sort-direction", "", "ASC or DESC (default from search.sort_direction)")
	flags.StringVar(&searchModule, "module", "", "search module id, or 'enabled' for all enabled modules")
	flags.StringVarP(&searchFilter, "filter", "f", "", "filter expression or configured filter name")
	flags.BoolVar(&searchDownload, "download", false, "create a download task from the first result")
}

// searchSettings are the effective search options: flags override config.
type searchSettings struct {
	wait          time.Duration
	limit         int
	show          int
	sortBy        string
	sortDirection string
	module        string
}

func resolveSearchSettings(cmd *cobra.Command) searchSettings {
	s := searchSettings{
		wait:          cfg.Search.Wait,
		limit:         cfg.Search.Limit,
		show:          cfg.Search.Show,
		sortBy:        cfg.Search.SortBy,
		sortDirection: cfg.Search.SortDirection,
		module:        cfg.Search.Module,
	}

	flags := cmd.Flags()
	if flags.Changed("wait") {
		s.wait = searchWait
	}
	if flags.Changed("limit") {
		s.limit = searchLimit
	}
	if flags.Changed("show") {
		s.show = searchShow
	}
	if flags.Changed("sort-by") {
		s.sortBy = searchSortBy
	}
	if flags.Changed("sort-direction") {
		s.sortDirection = searchSortDirection
	}
	if flags.Changed("module") {
		s.module = searchModule
	}

	if searchDownload && !flags.Changed("limit") {
		s.limit = downloadLimit
	}
	return s
}

// validate rejects flag values that Config.Validate never saw.
func (s searchSettings) validate() error {
	switch strings.ToUpper(s.sortDirection) {
	case "ASC", "DESC":
	default:
		return fmt.Errorf("invalid sort direction: %s (must be 'ASC' or 'DESC')", s.sortDirection)
	}
	if s.wait < 0 {
		return fmt.Errorf("invalid wait: %s (must not be negative)", s.wait)
	}
	if s.limit < 0 {
		return fmt.Errorf("invalid limit: %d (must not be negative)", s.limit)
	}
	if s.show < 0 {
		return fmt.Errorf("invalid show: %d (must not be negative)", s.show)
	}
	if searchVerifyWait < 0 {
		return fmt.Errorf("invalid verify-wait: %s (must not be negative)", searchVerifyWait)
	}
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p := printer
	keyword := args[0]
	settings := resolveSearchSettings(cmd)

	if err := settings.validate(); err != nil {
		return err
	}

	f, err := compileFilter(searchFilter)
	if err != nil {
		return err
	}

	p.Banner("Synology Download Station - BT Search")
	p.Line("Host: %s:%d", cfg.Synology.Host, cfg.Synology.Port)
	p.Line("Search term: '%s'", keyword)

	apis := []string{synology.APIAuth, synology.APIBTSearch}
	if searchDownload {
		apis = append(apis, synology.APITask)
	}
	if _, err := discover(ctx, p, apis...); err != nil {
		return err
	}

	step := 0
	next := func() int {
		step++
		return step
	}

	p.Step(next(), "Logging in...")
	session, err := login(ctx, p)
	if err != nil {
		return err
	}
	defer logout(ctx, p, session)
	p.Success("Logged in successfully")

	if !client.HasAPI(synology.APIBTSearch) {
		p.Failure("BTSearch API not available!")
		return fmt.Errorf("%w: %s", synology.ErrAPINotAvailable, synology.APIBTSearch)
	}

	p.Step(next(), "Getting available search modules...")
	if modules, err := session.SearchModules(ctx); err != nil {
		p.Failure("Failed to get search modules: %s", describe(err))
	} else {
		enabled := enabledModules(modules)
		p.Success("Found %d enabled modules:", len(enabled))
		for _, module := range enabled {
			p.Detail("- %s (%s)", module.Title, module.ID)
		}
	}

	p.Step(next(), "Getting search categories...")
	if categories, err := session.SearchCategories(ctx); err != nil {
		p.Failure("Failed to get categories: %s", describe(err))
	} else {
		p.Success("Found %d categories:", len(categories))
		for _, category := range categories[:min(categoryShowCount, len(categories))] {
			p.Detail("- %s (id: %s)", category.Title, category.ID)
		}
	}

	p.Step(next(), "Starting search for '%s'...", keyword)
	taskID, err := session.StartSearch(ctx, keyword, settings.module)
	if err != nil {
		p.Failure("Failed to start search: %s", describe(err))
		return fmt.Errorf("failed to start search: %w", err)
	}
	p.Success("Search started with task ID: %s", taskID)
	defer cleanSearch(ctx, p, session, taskID, next)

	p.Step(next(), "Waiting for search results...")
	if err := sleepContext(ctx, settings.wait); err != nil {
		return err
	}

	p.Step(next(), "Retrieving search results...")
	results, err := session.SearchResults(ctx, taskID, synology.SearchListOptions{
		Limit:         settings.limit,
		SortBy:        settings.sortBy,
		SortDirection: settings.sortDirection,
	})
	if err != nil {
		p.Failure("Failed to get results: %s", describe(err))
		return nil
	}
	p.Success("Search completed: %t", results.Finished)
	p.Success("Total results: %d", results.Total)

	items := filter.SearchItems(f, results.Items)
	if f != nil {
		p.Success("%d of %d results match the filter", len(items), len(results.Items))
	}

	if searchDownload {
		return downloadFirst(ctx, p, session, items, next)
	}

	printSearchResults(p, items, settings.show)
	return nil
}

// cleanSearch deletes the search task, even after the command was interrupted.
func cleanSearch(ctx context.Context, p *console.Printer, session *synology.Session, taskID string, next func() int) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()

	p.Step(next(), "Cleaning up search task...")
	if err := session.CleanSearch(ctx, taskID); err != nil {
		p.Failure("Failed to clean up search task: %s", describe(err))
		return
	}
	p.Success("Search task cleaned up")
}

func printSearchResults(p *console.Printer, items []synology.SearchItem, show int) {
	if len(items) == 0 {
		p.Line("No results found!")
		return
	}

	top := items[:min(show, len(items))]
	p.Blank()
	p.Line("Top %d results:", len(top))
	for i, item := range top {
		p.Item(i+1, item.Title)
		p.Field("Size: %s", console.FormatSize(int64(item.Size)))
		p.Field("Seeds: %d | Leeches: %d", item.Seeds, item.Leechs)
		p.Field("Date: %s", item.Date)
		p.Field("Module: %s", item.ModuleTitle)
		if item.DownloadURI != "" {
			p.Field("Download: %s", uriPreview(item.DownloadURI))
		}
	}
}

// downloadFirst queues the first result and looks the new task up.
func downloadFirst(ctx context.Context, p *console.Printer, session *synology.Session, items []synology.SearchItem, next func() int) error {
	selected, ok := selectResult(items)
	if !ok {
		p.Line("No results found!")
		return nil
	}
	p.Success("Found %d results", len(items))

	p.Step(next(), "Selected torrent:")
	p.Field("Title: %s", selected.Title)
	p.Field("Size: %.2f GB", console.GB(int64(selected.Size)))
	p.Field("Seeds: %d", selected.Seeds)

	if !selected.IsMagnet() {
		p.Failure("No magnet link available for this result")
		return nil
	}

	p.Step(next(), "Adding to download queue...")
	if err := session.CreateTask(ctx, synology.CreateTaskOptions{URI: selected.DownloadURI}); err != nil {
		p.Failure("Failed to create task: %s", describe(err))
		return fmt.Errorf("failed to create task: %w", err)
	}
	p.Success("Download task created successfully!")

	p.Step(next(), "Verifying download task...")
	if err := sleepContext(ctx, searchVerifyWait); err != nil {
		return err
	}

	list, err := session.ListTasks(ctx, synology.TaskListOptions{
		Limit:      recentTaskCount,
		Additional: []string{synology.AdditionalDetail, synology.AdditionalTransfer},
	})
	if err != nil {
		p.Failure("Failed to list tasks: %s", describe(err))
		return nil
	}

	task, ok := findTaskByTitle(list.Tasks, selected.Title)
	if !ok {
		p.Failure("New task not found among the %d most recent tasks", recentTaskCount)
		return nil
	}
	p.Success("Found new task: %s", task.Title)
	p.Detail("Status: %s", task.Status)
	p.Detail("Type: %s", task.Type)
	return nil
}

func enabledModules(modules []synology.SearchModule) []synology.SearchModule {
	enabled := make([]synology.SearchModule, 0, len(modules))
	for _, module := range modules {
		if module.Enabled {
			enabled = append(enabled, module)
		}
	}
	return enabled
}

// selectResult picks the result to download: the first one, which is the
// best ranked under the requested sort order.
func selectResult(items []synology.SearchItem) (synology.SearchItem, bool) {
	if len(items) == 0 {
		return synology.SearchItem{}, false
	}
	return items[0], true
}

// findTaskByTitle returns the first task whose title contains title.
func findTaskByTitle(tasks []synology.Task, title string) (synology.Task, bool) {
	for _, task := range tasks {
		if strings.Contains(task.Title, title) {
			return task, true
		}
	}
	return synology.Task{}, false
}

// uriPreview shortens a download URI for display.
func uriPreview(uri string) string {
	return console.Truncate(uri, uriPreviewLength) + "..."
}
