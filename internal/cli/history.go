package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/hotelops/reklamacije/internal/app"
	"github.com/hotelops/reklamacije/internal/usecase"
	"github.com/spf13/cobra"
)

// newHistoryCommand creates the history command.
func newHistoryCommand(c *app.Container) *cobra.Command {
	var opts struct {
		JSON bool
	}

	cmd := &cobra.Command{
		Use:   "history <id>",
		Short: "Show the audit trail of a task",
		Long: `Show every recorded change of a task, oldest first.

The summary lists the people the task passed through and the reasons
given whenever it was returned.

Examples:
  reklamacije history 6f1c2a9e-0d1b-4a57-9f8e-2b3c4d5e6f70
  reklamacije history 6f1c2a9e-0d1b-4a57-9f8e-2b3c4d5e6f70 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := c.ShowHistoryUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ShowHistoryInput{TaskID: args[0]})
			if err != nil {
				return err
			}

			if opts.JSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			printHistory(cmd.OutOrStdout(), out, c.Config.Location)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output in JSON format")

	return cmd
}

// printHistory prints history rows followed by the derived summary.
func printHistory(w io.Writer, out *usecase.ShowHistoryOutput, loc *time.Location) {
	if len(out.History) == 0 {
		_, _ = fmt.Fprintln(w, "No history")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(tw, "TIME\tUSER\tROLE\tACTION\tSTATUS\tNOTES")
	for _, h := range out.History {
		status := string(h.StatusTo)
		if h.StatusFrom != "" && h.StatusFrom != h.StatusTo {
			status = string(h.StatusFrom) + " → " + status
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			h.Timestamp.In(loc).Format("2006-01-02 15:04"),
			orDash(h.UserName),
			orDash(string(h.UserRole)),
			h.Action,
			orDash(status),
			orDash(firstLine(h.Notes)),
		)
	}
	_ = tw.Flush()

	if out.AssignmentPath != "" {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Path:"), out.AssignmentPath)
	}
	if len(out.ReturnReasons) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, warnStyle.Render("Returned:"))
		for _, r := range out.ReturnReasons {
			_, _ = fmt.Fprintf(w, "  %s  %s: %s\n", r.Timestamp.In(loc).Format("2006-01-02 15:04"), r.UserName, r.Reason)
		}
	}
}

func firstLine(s string) string {
	line, _, cut := strings.Cut(s, "\n")
	if cut {
		return line + " ..."
	}
	return line
}
