package cmd

import (
	"github.com/spf13/cobra"

	"github.com/s0up4200/dsctl/synology"
)

const recentTaskCount = 5

var createDestination string

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:   "create URI",
	Short: "Create a download task and list the most recent tasks",
	Long: `Queue a download task for an HTTP, FTP, magnet or ed2k URI. On failure the
documented Download Station reason is printed. The five most recent tasks are
listed afterwards either way.`,
	Example: `  dsctl create https://example.com/file.pdf
  dsctl create "magnet:?xt=urn:btih:..." --destination home/downloads`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVar(&createDestination, "destination", "", "shared folder path (default: the user's default destination)")
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p := printer
	uri := args[0]

	p.Banner("Synology Download Station - Create Task")
	p.Line("Host: %s:%d", cfg.Synology.Host, cfg.Synology.Port)
	p.Line("URI: %s", uri)

	p.Step(1, "Getting API info...")
	if _, err := discover(ctx, p, synology.APIAuth, synology.APITask); err != nil {
		return err
	}
	p.Success("API info retrieved")

	p.Step(2, "Logging in...")
	session, err := login(ctx, p)
	if err != nil {
		return err
	}
	defer logout(ctx, p, session)
	p.Success("Logged in (Session: %s)", sidPrefix(session.SID()))

	p.Step(3, "Creating download task...")
	createErr := session.CreateTask(ctx, synology.CreateTaskOptions{
		URI:         uri,
		Destination: createDestination,
	})
	if createErr != nil {
		p.Failure("Failed to create task: %s", describe(createErr))
	} else {
		p.Success("Task created successfully!")
	}

	p.Step(4, "Listing recent tasks...")
	list, err := session.ListTasks(ctx, synology.TaskListOptions{
		Limit:      recentTaskCount,
		Additional: []string{synology.AdditionalDetail, synology.AdditionalTransfer},
	})
	if err != nil {
		p.Failure("Failed to list tasks: %s", describe(err))
	} else {
		p.Success("Found %d recent task(s):", len(list.Tasks))
		for _, task := range list.Tasks {
			p.Detail("- %s (%s)", task.Title, task.Status)
		}
	}

	return createErr
}
