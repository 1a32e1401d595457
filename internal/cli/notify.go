package cli

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"tasklist-cli/internal/notify"
)

func newNotifyCmd(app *App) *cobra.Command {
	var once bool
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Watch for due tasks and print one notification per task",
		Long: `Scans every task (completed or not) whose expiry date has been reached and that
has not been notified yet, prints a {"data": notification} envelope for it and flags it
as notified so it is never reported again.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			if interval <= 0 {
				interval = s.cfg.NotifyInterval()
			}
			n := notify.New(s.tasks, notify.NewWriterSink(cmd.OutOrStdout(), app.Format, app.PrettyJSON),
				notify.WithInterval(interval),
				notify.WithLogger(app.logger()),
			)

			if once {
				n.Scan(cmd.Context())
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app.logger().WithField("interval", n.Interval()).Info("notifier started")
			n.Start(ctx)
			<-ctx.Done()
			n.Stop()
			return nil
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "Run a single scan and exit")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Scan interval (default: config notifyIntervalSeconds or 60s)")
	return cmd
}
