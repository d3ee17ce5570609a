package cli

import (
	"fmt"

	"github.com/hotelops/reklamacije/internal/app"
	"github.com/hotelops/reklamacije/internal/usecase"
	"github.com/spf13/cobra"
)

// newProcessCommand creates the process command.
func newProcessCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "process",
		Short: "Generate due recurring tasks once",
		Long: `Scan recurring templates and create the tasks that are due. Admins only.

Every due template gets at most one new occurrence per run and its next
occurrence is advanced. Running the command again at the same moment
creates nothing. Templates that fail are reported and skipped; the
others are still processed.

Use 'reklamacije serve' to run this on a schedule.

Examples:
  reklamacije process --as-id admin --as-role admin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			actor, err := resolveActor(cmd, c)
			if err != nil {
				return err
			}

			uc := c.ProcessRecurringUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ProcessRecurringInput{Actor: actor})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Scanned %d template(s), created %d task(s)\n", out.TemplatesScanned, out.ChildrenCreated)
			for _, te := range out.Errors {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s %v\n", urgentStyle.Render("failed:"), te)
			}
			if n := len(out.Errors); n > 0 {
				return fmt.Errorf("%d template(s) failed", n)
			}
			return nil
		},
	}
}
