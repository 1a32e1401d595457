package cli

import (
	"github.com/spf13/cobra"

	"tasklist-cli/internal/tasks"
)

func newDoctorCmd(app *App) *cobra.Command {
	var fail bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the stored task payload for problems",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			report := tasks.Doctor(cmd.Context(), s.kv, s.tasks.Categories())

			meta := map[string]any{
				"issues":    len(report.Issues),
				"hasErrors": report.HasErrors(),
			}
			hints := []string{
				"tasklist tasks export --out tasks.json",
				"tasklist tasks import tasks.json",
			}

			if err := writeOut(cmd, app, map[string]any{
				"data":   report,
				"meta":   meta,
				"_hints": hints,
			}); err != nil {
				return err
			}

			if fail && report.HasErrors() {
				return tasks.ErrDoctorIssuesFound
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fail, "fail", false, "Exit with non-zero status if errors are found")
	return cmd
}
