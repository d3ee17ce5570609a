package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/hotelops/reklamacije/internal/app"
	"github.com/hotelops/reklamacije/internal/domain"
	"github.com/hotelops/reklamacije/internal/usecase"
	"github.com/spf13/cobra"
)

// newNewCommand creates the new command for creating tasks.
func newNewCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title      string
		Body       string
		Location   string
		Room       string
		Department string
		Priority   string
		Status     string
		AssignName string
		External   string
		Recurring  string
		Start      string
		At         string
		FromFile   string
		Assign     []string
		Images     []string
		YearDates  []string
		WeekDays   []int
		MonthDays  []int
		DryRun     bool
	}

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Report a new task",
		Long: `Report a new maintenance task.

The task is created with status 'new' unless --status is given. Assignees
in status assigned_to_radnik or with_sef receive a push notification.

With --recurring the task becomes a template. Templates are never worked
on directly; every occurrence creates a child task (assigned_to_radnik when
the template has assignees, otherwise with_sef) scheduled at --at on the
first day matching --week-day, --month-day or --year-date. Patterns are "<n>_<unit>" with unit days, weeks, months or
years (e.g. 1_weeks, 3_months) or the legacy names daily, weekly,
monthly and yearly.

Examples:
  # Report a broken lamp
  reklamacije new --title "Broken lamp" --body "Bedside lamp flickers" \
    --location "Floor 3" --room 305

  # Report an urgent task and assign it straight away
  reklamacije new --title "Water leak" --body "Bathroom ceiling drips" \
    --location "Floor 2" --room 214 --priority urgent \
    --status assigned_to_radnik --assign w1 --assign-name Marko

  # Weekly pool inspection every Monday and Thursday at 09:00
  reklamacije new --title "Pool filters" --body "Check and clean" \
    --location Pool --recurring 1_weeks --week-day 1 --week-day 4 --at 09:00

  # Create tasks from a file (multiple tasks supported)
  reklamacije new --from-file tasks.md

  # Preview tasks from a file without creating
  reklamacije new --from-file tasks.md --dry-run

File format for --from-file:
  ---
  title: Replace AC filters
  location: Floor 2
  priority: urgent
  assigned_to: [w1, w2]
  recurrence: 3_months
  start: 2025-04-01
  at: "08:30"
  ---
  Description here.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			actor, err := resolveActor(cmd, c)
			if err != nil {
				return err
			}

			if opts.FromFile != "" {
				return createTasksFromFile(cmd, c, actor, opts.FromFile, opts.DryRun)
			}
			if opts.DryRun {
				return errors.New("--dry-run requires --from-file")
			}
			if opts.Title == "" {
				return fmt.Errorf("required flag(s) \"title\" not set")
			}

			input := usecase.CreateTaskInput{
				Actor:               actor,
				Title:               opts.Title,
				Description:         opts.Body,
				Location:            opts.Location,
				RoomNumber:          opts.Room,
				Department:          opts.Department,
				AssignedTo:          opts.Assign,
				AssignedToName:      opts.AssignName,
				ExternalCompanyName: opts.External,
				Images:              opts.Images,
				RecurrencePattern:   domain.PatternOnce,
			}
			if opts.Priority != "" {
				if input.Priority, err = parsePriority(opts.Priority); err != nil {
					return err
				}
			}
			if opts.Status != "" {
				if input.Status, err = parseStatus(opts.Status); err != nil {
					return err
				}
			}

			if opts.Recurring != "" {
				input.IsRecurring = true
				input.RecurrencePattern = opts.Recurring
				input.WeekDays = opts.WeekDays
				input.MonthDays = opts.MonthDays
				if input.YearDates, err = parseYearDates(opts.YearDates); err != nil {
					return err
				}
				if opts.Start != "" {
					start, err := parseDate(opts.Start, c.Config.Location)
					if err != nil {
						return err
					}
					input.RecurrenceStartDate = &start
				}
				if opts.At != "" {
					if input.ExecutionHour, input.ExecutionMinute, err = parseClock(opts.At); err != nil {
						return err
					}
				}
			}

			uc := c.CreateTaskUseCase()
			out, err := uc.Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out.Task.IsTemplate() {
				_, _ = fmt.Fprintf(w, "Created recurring template %s (%s)\n", out.Task.ID, out.Task.RecurrencePattern)
				if out.Task.NextOccurrence != nil {
					_, _ = fmt.Fprintf(w, "Next occurrence: %s\n", formatTime(out.Task.NextOccurrence, c.Config.Location))
				}
				if out.ChildCreated {
					_, _ = fmt.Fprintln(w, "First occurrence created")
				}
				return nil
			}
			_, _ = fmt.Fprintf(w, "Created task %s\n", out.Task.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "Task title (required unless --from-file is used)")
	cmd.Flags().StringVar(&opts.Body, "body", "", "Task description")
	cmd.Flags().StringVar(&opts.Location, "location", "", "Where the work is (floor, area)")
	cmd.Flags().StringVar(&opts.Room, "room", "", "Room number")
	cmd.Flags().StringVar(&opts.Department, "department", "", "Reporting department")
	cmd.Flags().StringVar(&opts.Priority, "priority", "", "Priority: urgent, normal or can_wait (default normal)")
	cmd.Flags().StringVar(&opts.Status, "status", "", "Initial status (default new)")
	cmd.Flags().StringSliceVar(&opts.Assign, "assign", nil, "Assignee user IDs (comma-separated or repeated)")
	cmd.Flags().StringVar(&opts.AssignName, "assign-name", "", "Display names of the assignees")
	cmd.Flags().StringVar(&opts.External, "external", "", "External company handling the task")
	cmd.Flags().StringArrayVar(&opts.Images, "image", nil, "Image URL (can specify multiple)")
	cmd.Flags().StringVar(&opts.Recurring, "recurring", "", "Recurrence pattern; makes the task a template")
	cmd.Flags().StringVar(&opts.Start, "start", "", "First occurrence date YYYY-MM-DD (default now)")
	cmd.Flags().IntSliceVar(&opts.WeekDays, "week-day", nil, "Weekday to schedule on, 0 = Sunday (can specify multiple)")
	cmd.Flags().IntSliceVar(&opts.MonthDays, "month-day", nil, "Day of month to schedule on (can specify multiple)")
	cmd.Flags().StringArrayVar(&opts.YearDates, "year-date", nil, "Date of year MM-DD to schedule on (can specify multiple)")
	cmd.Flags().StringVar(&opts.At, "at", "", "Execution time HH:MM for generated tasks (default 00:00)")
	cmd.Flags().StringVar(&opts.FromFile, "from-file", "", "Create tasks from a Markdown file")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Preview tasks without creating (requires --from-file)")

	return cmd
}

// createTasksFromFile creates tasks from a Markdown file.
func createTasksFromFile(cmd *cobra.Command, c *app.Container, actor domain.Actor, filePath string, dryRun bool) error {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	uc := c.CreateTasksFromFileUseCase()
	out, err := uc.Execute(cmd.Context(), usecase.CreateTasksFromFileInput{
		Actor:   actor,
		Content: string(content),
		DryRun:  dryRun,
	})
	if out != nil && !dryRun && err != nil && len(out.Tasks) > 0 {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Created %d task(s) before the error\n", len(out.Tasks))
	}
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if dryRun {
		_, _ = fmt.Fprintln(w, "Dry run - tasks that would be created:")
		_, _ = fmt.Fprintln(w, "")
	}

	for i, task := range out.Tasks {
		if dryRun {
			_, _ = fmt.Fprintf(w, "Task %d:\n", i+1)
		} else {
			_, _ = fmt.Fprintf(w, "Created task %s:\n", task.ID)
		}
		_, _ = fmt.Fprintf(w, "  Title: %s\n", task.Title)
		_, _ = fmt.Fprintf(w, "  Location: %s\n", task.Location)
		if task.IsTemplate() {
			_, _ = fmt.Fprintf(w, "  Recurrence: %s\n", task.RecurrencePattern)
		}
		if len(task.AssignedTo) > 0 {
			_, _ = fmt.Fprintf(w, "  Assigned: [%s]\n", strings.Join(task.AssignedTo, ", "))
		}
		if task.Description != "" {
			lines := strings.Split(task.Description, "\n")
			preview := lines[0]
			if len(preview) > 50 {
				preview = preview[:50] + "..."
			}
			if len(lines) > 1 {
				preview += " ..."
			}
			_, _ = fmt.Fprintf(w, "  Description: %s\n", preview)
		}
		if i < len(out.Tasks)-1 {
			_, _ = fmt.Fprintln(w, "")
		}
	}

	if !dryRun {
		_, _ = fmt.Fprintf(w, "\nCreated %d task(s)\n", len(out.Tasks))
	}
	return nil
}

// newListCommand creates the list command for listing tasks.
func newListCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Status    string
		Parent    string
		Mine      bool
		Templates bool
		All       bool
		JSON      bool
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long: `Display a list of tasks, newest first.

By default, completed and cancelled tasks are hidden.
Use --all to show all tasks including finished ones.

Output columns:
  ID, STATUS, PRIORITY, LOCATION, ASSIGNED, SCHEDULED, TITLE

Recurring templates show their pattern in the SCHEDULED column.

Examples:
  # List open tasks
  reklamacije list

  # List tasks assigned to me
  reklamacije list --mine

  # List everything waiting for a supervisor
  reklamacije list --status with_sef

  # List recurring templates
  reklamacije list --templates

  # List occurrences generated from a template
  reklamacije list --parent 6f1c2a9e --all`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			input := usecase.ListTasksInput{
				Mine:            opts.Mine,
				TemplatesOnly:   opts.Templates,
				IncludeTerminal: opts.All,
			}
			if opts.Status != "" {
				status, err := parseStatus(opts.Status)
				if err != nil {
					return err
				}
				input.Status = status
			}
			if opts.Parent != "" {
				input.ParentID = &opts.Parent
			}
			if opts.Mine {
				actor, err := resolveActor(cmd, c)
				if err != nil {
					return err
				}
				input.Actor = actor
			}

			uc := c.ListTasksUseCase()
			out, err := uc.Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			if opts.JSON {
				return writeJSON(cmd.OutOrStdout(), out.Tasks)
			}
			printTaskList(cmd.OutOrStdout(), out.Tasks, c.Config.Location)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Status, "status", "", "Show only tasks in this status")
	cmd.Flags().StringVar(&opts.Parent, "parent", "", "Show only children of this template")
	cmd.Flags().BoolVar(&opts.Mine, "mine", false, "Show only tasks assigned to the acting user")
	cmd.Flags().BoolVar(&opts.Templates, "templates", false, "Show only recurring templates")
	cmd.Flags().BoolVarP(&opts.All, "all", "a", false, "Show all tasks including completed and cancelled")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output in JSON format")

	return cmd
}

// printTaskList prints tasks as aligned columns.
func printTaskList(w io.Writer, tasks []*domain.Task, loc *time.Location) {
	if len(tasks) == 0 {
		_, _ = fmt.Fprintln(w, "No tasks")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	_, _ = fmt.Fprintln(tw, "ID\tSTATUS\tPRIORITY\tLOCATION\tASSIGNED\tSCHEDULED\tTITLE")
	for _, task := range tasks {
		location := task.Location
		if task.RoomNumber != "" {
			location += " / " + task.RoomNumber
		}

		assigned := task.AssignedToName
		if assigned == "" {
			assigned = domain.JoinRecipients(task.AssignedTo)
		}
		if task.ExternalCompanyName != "" && task.Status == domain.StatusWithExternal {
			assigned = task.ExternalCompanyName
		}

		scheduled := formatTime(task.ScheduledFor, loc)
		if task.IsTemplate() {
			scheduled = "every " + task.RecurrencePattern
		}

		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			task.ShortID(),
			task.Status,
			task.Priority.Normalize(),
			orDash(location),
			orDash(assigned),
			scheduled,
			task.Title,
		)
	}
}

// newShowCommand creates the show command for displaying task details.
func newShowCommand(c *app.Container) *cobra.Command {
	var opts struct {
		JSON bool
	}

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Display task details",
		Long: `Display detailed information about a task.

Templates also list the occurrences generated from them; generated tasks
show the template they came from.

Examples:
  # Show task details
  reklamacije show 6f1c2a9e-0d1b-4a57-9f8e-2b3c4d5e6f70

  # Output in JSON format
  reklamacije show 6f1c2a9e-0d1b-4a57-9f8e-2b3c4d5e6f70 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := c.ShowTaskUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ShowTaskInput{TaskID: args[0]})
			if err != nil {
				return err
			}

			if opts.JSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			printTaskDetails(cmd.OutOrStdout(), out, c.Config.Location)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output in JSON format")

	return cmd
}

// printTaskDetails prints a task with its parent or children.
func printTaskDetails(w io.Writer, out *usecase.ShowTaskOutput, loc *time.Location) {
	task := out.Task
	field := func(label, value string) {
		if value == "" {
			return
		}
		_, _ = fmt.Fprintf(w, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-14s", label+":")), value)
	}

	_, _ = fmt.Fprintln(w, headingStyle.Render(task.Title))
	field("ID", task.ID)
	field("Status", renderStatus(task.Status))
	field("Priority", renderPriority(task.Priority))
	field("Location", task.Location)
	field("Room", task.RoomNumber)
	field("Created by", task.CreatedByName)
	field("Department", task.CreatedByDepartment)
	field("Created", task.Created.In(loc).Format("2006-01-02 15:04"))
	field("Assigned", task.AssignedToName)
	field("Assignee IDs", domain.JoinRecipients(task.AssignedTo))
	field("External", task.ExternalCompanyName)
	if task.ReceiptConfirmedAt != nil {
		field("Receipt", fmt.Sprintf("%s by %s", formatTime(task.ReceiptConfirmedAt, loc), task.ReceiptConfirmedByName))
	}
	if task.CompletedAt != nil {
		field("Completed", okStyle.Render(fmt.Sprintf("%s by %s", formatTime(task.CompletedAt, loc), task.CompletedByName)))
	}
	if task.ScheduledFor != nil {
		field("Scheduled", formatTime(task.ScheduledFor, loc))
	}
	if out.Parent != nil {
		field("Template", fmt.Sprintf("%s (%s)", out.Parent.ID, out.Parent.RecurrencePattern))
	} else if task.ParentTaskID != nil {
		field("Template", *task.ParentTaskID+" (deleted)")
	}

	if task.IsTemplate() {
		field("Recurrence", task.RecurrencePattern)
		field("Next", formatTime(task.NextOccurrence, loc))
		field("At", fmt.Sprintf("%02d:%02d", task.ExecutionHour, task.ExecutionMinute))
		if len(task.RecurrenceWeekDays) > 0 {
			field("Week days", fmt.Sprint(task.RecurrenceWeekDays))
		}
		if len(task.RecurrenceMonthDays) > 0 {
			field("Month days", fmt.Sprint(task.RecurrenceMonthDays))
		}
		if len(task.RecurrenceYearDates) > 0 {
			dates := make([]string, 0, len(task.RecurrenceYearDates))
			for _, d := range task.RecurrenceYearDates {
				dates = append(dates, fmt.Sprintf("%02d-%02d", d.Month, d.Day))
			}
			field("Year dates", strings.Join(dates, ", "))
		}
	}

	if task.Description != "" {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, task.Description)
	}

	if task.WorkerReport != "" {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, headingStyle.Render("Worker report"))
		_, _ = fmt.Fprintln(w, task.WorkerReport)
	}

	images := append(append([]string{}, task.Images...), task.WorkerImages...)
	if len(images) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, headingStyle.Render("Images"))
		for _, img := range images {
			_, _ = fmt.Fprintf(w, "  %s\n", img)
		}
	}

	if task.IsTemplate() {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("Occurrences (%d)", len(out.Children))))
		for _, child := range out.Children {
			_, _ = fmt.Fprintf(w, "  %s  %s  %s\n", child.ShortID(), formatTime(child.ScheduledFor, loc), renderStatus(child.Status))
		}
	}
}

// newRmCommand creates the rm command for deleting tasks.
func newRmCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Long: `Delete a task. Supervisors and admins only.

Deleting a recurring template also deletes its unfinished occurrences;
completed and cancelled occurrences are kept. A "deleted" history row is
written for every removed task.

Examples:
  reklamacije rm 6f1c2a9e-0d1b-4a57-9f8e-2b3c4d5e6f70`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := resolveActor(cmd, c)
			if err != nil {
				return err
			}

			uc := c.DeleteTaskUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.DeleteTaskInput{
				Actor:  actor,
				TaskID: args[0],
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Deleted task %s\n", args[0])
			if n := len(out.DeletedChildIDs); n > 0 {
				_, _ = fmt.Fprintf(w, "Deleted %d pending occurrence(s)\n", n)
			}
			return nil
		},
	}
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
