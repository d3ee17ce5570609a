package cli

import (
	"fmt"

	"github.com/hotelops/reklamacije/internal/app"
	"github.com/hotelops/reklamacije/internal/usecase"
	"github.com/spf13/cobra"
)

// newInitCommand creates the init command.
func newInitCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the task store",
		Long: `Initialize the data directory for reklamacije.

This command creates the .reklamacije/ directory with:
- config.toml: commented configuration template
- tasks.db (or tasks.git with [store] driver = "git"): task store
- logs/: directory for log files

Running init again is safe: an existing config file is left untouched
and a partially created store is repaired.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.InitStoreUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.InitStoreInput{
				DataDir: c.Config.DataDir,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out.AlreadyInitialized {
				_, _ = fmt.Fprintf(w, "Already initialized in %s\n", c.Config.DataDir)
			} else {
				_, _ = fmt.Fprintf(w, "Initialized reklamacije in %s\n", c.Config.DataDir)
			}
			if out.ConfigCreated {
				_, _ = fmt.Fprintf(w, "Wrote config template to %s\n", out.ConfigPath)
			}
			return nil
		},
	}
}
