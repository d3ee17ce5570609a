package cli

import (
	"fmt"

	"github.com/hotelops/reklamacije/internal/app"
	"github.com/hotelops/reklamacije/internal/domain"
	"github.com/hotelops/reklamacije/internal/usecase"
	"github.com/spf13/cobra"
)

// newUpdateCommand creates the update command for mutating tasks.
func newUpdateCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Status       string
		AssignName   string
		Report       string
		External     string
		Title        string
		Body         string
		Location     string
		Room         string
		Priority     string
		Recurring    string
		Start        string
		At           string
		Assign       []string
		WorkerImages []string
		Images       []string
		YearDates    []string
		WeekDays     []int
		MonthDays    []int
		Unassign     bool
		Confirm      bool
		NoRecurring  bool
	}

	cmd := &cobra.Command{
		Use:     "update <id>",
		Aliases: []string{"edit"},
		Short:   "Change a task",
		Long: `Change the status, assignment or details of a task.

Only the given flags are applied. Every call writes one history row.

Status changes follow the workflow:
  new → with_sef → assigned_to_radnik | with_external → with_operator → completed
returned_to_sef and returned_to_operator send a task back for re-routing.
Supervisors (sef) and admins may also apply corrective transitions,
including reopening completed or cancelled tasks.

Task details (--title, --body, --location, --room, --priority, --image)
and recurrence settings can only be changed by supervisors and admins.
Recurrence is configured on templates, never on generated occurrences.

Examples:
  # Route a task to a technician
  reklamacije update 6f1c2a9e --status assigned_to_radnik --assign w1 --assign-name Marko

  # Technician confirms receipt
  reklamacije update 6f1c2a9e --confirm-receipt --as-id w1 --as-role radnik

  # Technician finishes the work
  reklamacije update 6f1c2a9e --status with_operator --report "Replaced the bulb"

  # Return a task to the supervisor with a reason
  reklamacije update 6f1c2a9e --status returned_to_sef --report "Needs a spare part"

  # Move a template to the 15th of every month
  reklamacije update 6f1c2a9e --month-day 15`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := resolveActor(cmd, c)
			if err != nil {
				return err
			}

			input := usecase.UpdateTaskInput{
				Actor:          actor,
				TaskID:         args[0],
				ConfirmReceipt: opts.Confirm,
			}
			flags := cmd.Flags()

			if flags.Changed("status") {
				status, err := parseStatus(opts.Status)
				if err != nil {
					return err
				}
				input.Status = &status
			}
			if opts.Unassign && flags.Changed("assign") {
				return fmt.Errorf("cannot use --assign and --unassign together")
			}
			if flags.Changed("assign") {
				input.AssignedTo = &opts.Assign
			}
			if opts.Unassign {
				empty := []string{}
				input.AssignedTo = &empty
			}
			if flags.Changed("assign-name") {
				input.AssignedToName = &opts.AssignName
			}
			if flags.Changed("report") {
				input.WorkerReport = &opts.Report
			}
			if flags.Changed("worker-image") {
				input.WorkerImages = &opts.WorkerImages
			}
			if flags.Changed("external") {
				input.ExternalCompanyName = &opts.External
			}

			// Supervisor-only details
			if flags.Changed("title") {
				input.Title = &opts.Title
			}
			if flags.Changed("body") {
				input.Description = &opts.Body
			}
			if flags.Changed("location") {
				input.Location = &opts.Location
			}
			if flags.Changed("room") {
				input.RoomNumber = &opts.Room
			}
			if flags.Changed("priority") {
				p, err := parsePriority(opts.Priority)
				if err != nil {
					return err
				}
				input.Priority = &p
			}
			if flags.Changed("image") {
				input.Images = &opts.Images
			}

			if err := applyRecurrenceFlags(cmd, c, &input, recurrenceFlags{
				pattern:     opts.Recurring,
				start:       opts.Start,
				at:          opts.At,
				yearDates:   opts.YearDates,
				weekDays:    opts.WeekDays,
				monthDays:   opts.MonthDays,
				noRecurring: opts.NoRecurring,
			}); err != nil {
				return err
			}

			uc := c.UpdateTaskUseCase()
			out, err := uc.Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Updated task %s: %s\n", out.Task.ShortID(), renderStatus(out.Task.Status))
			if out.History != nil && out.History.Notes != "" {
				_, _ = fmt.Fprintf(w, "  %s\n", out.History.Notes)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Status, "status", "", "New status")
	cmd.Flags().StringSliceVar(&opts.Assign, "assign", nil, "Assignee user IDs (comma-separated or repeated)")
	cmd.Flags().BoolVar(&opts.Unassign, "unassign", false, "Clear the technician assignment")
	cmd.Flags().StringVar(&opts.AssignName, "assign-name", "", "Display names of the assignees")
	cmd.Flags().StringVar(&opts.Report, "report", "", "Worker report (reason when returning a task)")
	cmd.Flags().StringArrayVar(&opts.WorkerImages, "worker-image", nil, "Image URL attached by the worker (can specify multiple)")
	cmd.Flags().StringVar(&opts.External, "external", "", "External company handling the task")
	cmd.Flags().BoolVar(&opts.Confirm, "confirm-receipt", false, "Confirm the task was received (assigned workers only)")

	cmd.Flags().StringVar(&opts.Title, "title", "", "New title")
	cmd.Flags().StringVar(&opts.Body, "body", "", "New description")
	cmd.Flags().StringVar(&opts.Location, "location", "", "New location")
	cmd.Flags().StringVar(&opts.Room, "room", "", "New room number")
	cmd.Flags().StringVar(&opts.Priority, "priority", "", "New priority: urgent, normal or can_wait")
	cmd.Flags().StringArrayVar(&opts.Images, "image", nil, "Replace task images (can specify multiple)")

	cmd.Flags().StringVar(&opts.Recurring, "recurring", "", "Recurrence pattern (makes the task a template)")
	cmd.Flags().BoolVar(&opts.NoRecurring, "no-recurring", false, "Stop generating occurrences")
	cmd.Flags().StringVar(&opts.Start, "start", "", "Recurrence start date YYYY-MM-DD")
	cmd.Flags().IntSliceVar(&opts.WeekDays, "week-day", nil, "Weekdays to schedule on, 0 = Sunday (replaces the set)")
	cmd.Flags().IntSliceVar(&opts.MonthDays, "month-day", nil, "Days of month to schedule on (replaces the set)")
	cmd.Flags().StringArrayVar(&opts.YearDates, "year-date", nil, "Dates of year MM-DD to schedule on (replaces the set)")
	cmd.Flags().StringVar(&opts.At, "at", "", "Execution time HH:MM for generated tasks")

	return cmd
}

// recurrenceFlags carries the raw recurrence flag values of the update command.
type recurrenceFlags struct {
	pattern     string
	start       string
	at          string
	yearDates   []string
	weekDays    []int
	monthDays   []int
	noRecurring bool
}

// applyRecurrenceFlags copies the recurrence flags that were set onto input.
func applyRecurrenceFlags(cmd *cobra.Command, c *app.Container, input *usecase.UpdateTaskInput, rf recurrenceFlags) error {
	flags := cmd.Flags()

	if rf.noRecurring && flags.Changed("recurring") {
		return fmt.Errorf("cannot use --recurring and --no-recurring together")
	}
	if flags.Changed("recurring") {
		on := true
		input.IsRecurring = &on
		input.RecurrencePattern = &rf.pattern
	}
	if rf.noRecurring {
		off := false
		once := domain.PatternOnce
		input.IsRecurring = &off
		input.RecurrencePattern = &once
	}
	if flags.Changed("start") {
		start, err := parseDate(rf.start, c.Config.Location)
		if err != nil {
			return err
		}
		input.RecurrenceStartDate = &start
	}
	if flags.Changed("week-day") {
		input.WeekDays = &rf.weekDays
	}
	if flags.Changed("month-day") {
		input.MonthDays = &rf.monthDays
	}
	if flags.Changed("year-date") {
		dates, err := parseYearDates(rf.yearDates)
		if err != nil {
			return err
		}
		input.YearDates = &dates
	}
	if flags.Changed("at") {
		hour, minute, err := parseClock(rf.at)
		if err != nil {
			return err
		}
		input.ExecutionHour = &hour
		input.ExecutionMinute = &minute
	}
	return nil
}
