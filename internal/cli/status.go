package cli

import (
	"time"

	"github.com/spf13/cobra"
)

func newStatusCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show storage location and task counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			all := s.tasks.Tasks()
			completed := 0
			notified := 0
			for _, t := range all {
				if t.Completed {
					completed++
				}
				if t.Notified {
					notified++
				}
			}

			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"backend":    string(s.backend),
					"dir":        s.dir,
					"tasks":      len(all),
					"completed":  completed,
					"notified":   notified,
					"pendingDue": len(s.tasks.Due(time.Now())),
					"categories": s.tasks.Categories(),
				},
			})
		},
	}
	return cmd
}
