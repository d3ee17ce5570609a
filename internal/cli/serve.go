package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/hotelops/reklamacije/internal/app"
	"github.com/hotelops/reklamacije/internal/domain"
	"github.com/hotelops/reklamacije/internal/infra/trigger"
	"github.com/hotelops/reklamacije/internal/usecase"
	"github.com/spf13/cobra"
)

// shutdownTimeout bounds how long serve waits for a running pass on exit.
const shutdownTimeout = 30 * time.Second

// sdNotify is a function variable for systemd notifications, allowing it to be mocked in tests.
var sdNotify = func(state string) {
	_, _ = daemon.SdNotify(false, state)
}

// newServeCommand creates the serve command.
func newServeCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Cron   string
		RunNow bool
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Generate recurring tasks on a schedule",
		Long: `Run the recurring task processor on a cron schedule until interrupted.

The schedule comes from [scheduler] cron in config.toml (default every
five minutes). Editing config.toml while serve is running applies the new
schedule without a restart; an invalid expression is logged and the old
schedule is kept. A pass that is still running when the next one is due
is skipped.

Under systemd (Type=notify) the service reports readiness, reloads and
shutdown.

Examples:
  # Run with the configured schedule
  reklamacije serve

  # Run every minute and process immediately on start
  reklamacije serve --cron "* * * * *" --run-now`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			spec := opts.Cron
			if spec == "" {
				spec = c.AppConfig.Scheduler.Cron
			}
			if spec == "" {
				spec = domain.DefaultCron
			}

			run := processRunner(c)
			sched := trigger.NewScheduler(run, c.Logger, c.Config.Location)
			if err := sched.Start(ctx, spec); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Scheduler started (cron %q, next run %s)\n", sched.Spec(),
				sched.Next().In(c.Config.Location).Format("2006-01-02 15:04:05"))

			if opts.RunNow {
				if err := run(ctx); err != nil {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
				}
			}

			// A --cron flag pins the schedule; config edits are not watched.
			if opts.Cron == "" && c.ConfigLoader != nil && c.Config.ConfigPath != "" {
				watcher := &trigger.Watcher{
					Path:     c.Config.ConfigPath,
					Logger:   c.Logger,
					OnChange: func() { reloadSchedule(c, sched) },
				}
				go func() {
					if err := watcher.Run(ctx); err != nil {
						c.Logger.Warn("", "serve", "config watch disabled: "+err.Error())
					}
				}()
			}

			sdNotify(daemon.SdNotifyReady)

			<-ctx.Done()

			sdNotify(daemon.SdNotifyStopping)
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			sched.Stop(shutdownCtx)

			_, _ = fmt.Fprintln(w, "Scheduler stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Cron, "cron", "", "Cron expression overriding [scheduler] cron")
	cmd.Flags().BoolVar(&opts.RunNow, "run-now", false, "Process due templates once before waiting for the schedule")

	return cmd
}

// processRunner returns a trigger.RunFunc running the processor as the system actor.
func processRunner(c *app.Container) trigger.RunFunc {
	uc := c.ProcessRecurringUseCase()
	return func(ctx context.Context) error {
		out, err := uc.Execute(ctx, usecase.ProcessRecurringInput{Actor: domain.SystemActor})
		if err != nil {
			return err
		}
		errs := make([]error, 0, len(out.Errors))
		for _, te := range out.Errors {
			errs = append(errs, te)
		}
		return errors.Join(errs...)
	}
}

// reloadSchedule reloads the config and applies its cron expression.
// A change of [scheduler] timezone needs a restart.
func reloadSchedule(c *app.Container, sched *trigger.Scheduler) {
	sdNotify(daemon.SdNotifyReloading)
	defer sdNotify(daemon.SdNotifyReady)

	cfg, err := c.ConfigLoader.Load()
	if err != nil {
		c.Logger.Warn("", "serve", "config reload failed: "+err.Error())
		return
	}
	for _, w := range cfg.Warnings {
		c.Logger.Warn("", "config", w)
	}

	spec := cfg.Scheduler.Cron
	if spec == "" {
		spec = domain.DefaultCron
	}
	if spec == sched.Spec() {
		return
	}
	if err := sched.Reschedule(spec); err != nil {
		c.Logger.Warn("", "serve", fmt.Sprintf("keeping cron %q: %v", sched.Spec(), err))
		return
	}
	c.Logger.Info("", "serve", "cron changed to "+spec)
}
