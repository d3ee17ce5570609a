// Package cli provides the command-line interface for reklamacije.
package cli

import (
	"fmt"

	"github.com/hotelops/reklamacije/internal/app"
	"github.com/hotelops/reklamacije/internal/domain"
	"github.com/spf13/cobra"
)

// Command group IDs.
const (
	groupSetup = "setup"
	groupTask  = "task"
	groupAdmin = "admin"
)

// Persistent flag names.
const (
	flagDataDir = "data-dir"
	flagAsID    = "as-id"
	flagAsName  = "as-name"
	flagAsRole  = "as-role"
)

// NewRootCommand creates the root command for reklamacije.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "reklamacije",
		Short: "Hotel maintenance task tracker",
		Long: `reklamacije tracks hotel maintenance tasks ("reklamacije") from the
report to the finished repair.

Tasks move through a fixed workflow (new → with_sef → assigned_to_radnik
→ with_operator → completed) and every change is recorded in the task
history. Recurring templates generate one child task per occurrence,
either on demand ('reklamacije process') or on a cron schedule
('reklamacije serve').

The acting user is taken from the [actor] section of config.toml and can
be overridden per call with --as-id, --as-name and --as-role.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "init" || c == nil || c.AppConfig == nil {
				return nil
			}
			for _, w := range c.AppConfig.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}

			// Task commands need a store; setup commands do not.
			if cmd.GroupID == groupTask || cmd.GroupID == groupAdmin {
				if c.StoreInitializer != nil && !c.StoreInitializer.IsInitialized(cmd.Context()) {
					return domain.ErrStoreNotInitialized
				}
			}
			return nil
		},
	}

	// Read by main before the container is built; declared here so cobra accepts it.
	root.PersistentFlags().String(flagDataDir, "", "Data directory (default: ./.reklamacije)")
	root.PersistentFlags().String(flagAsID, "", "Acting user ID (default: [actor] id)")
	root.PersistentFlags().String(flagAsName, "", "Acting user name (default: [actor] name)")
	root.PersistentFlags().String(flagAsRole, "", "Acting user role (default: [actor] role)")

	root.AddGroup(
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
		&cobra.Group{ID: groupTask, Title: "Task Management:"},
		&cobra.Group{ID: groupAdmin, Title: "Recurring Tasks:"},
	)

	// Setup commands
	initCmd := newInitCommand(c)
	initCmd.GroupID = groupSetup

	configCmd := newConfigCommand(c)
	configCmd.GroupID = groupSetup

	// Task management commands
	newCmd := newNewCommand(c)
	newCmd.GroupID = groupTask

	listCmd := newListCommand(c)
	listCmd.GroupID = groupTask

	showCmd := newShowCommand(c)
	showCmd.GroupID = groupTask

	updateCmd := newUpdateCommand(c)
	updateCmd.GroupID = groupTask

	rmCmd := newRmCommand(c)
	rmCmd.GroupID = groupTask

	historyCmd := newHistoryCommand(c)
	historyCmd.GroupID = groupTask

	// Recurring task commands
	processCmd := newProcessCommand(c)
	processCmd.GroupID = groupAdmin

	serveCmd := newServeCommand(c)
	serveCmd.GroupID = groupAdmin

	root.AddCommand(
		initCmd,
		configCmd,
		newCmd,
		listCmd,
		showCmd,
		updateCmd,
		rmCmd,
		historyCmd,
		processCmd,
		serveCmd,
	)

	return root
}
