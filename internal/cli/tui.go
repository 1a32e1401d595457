package cli

import (
	"github.com/spf13/cobra"

	"tasklist-cli/internal/tui"
)

func runTUI(cmd *cobra.Command, app *App) error {
	s, err := openSession(cmd, app)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer s.Close()

	return tui.Run(cmd.Context(), s.tasks, tui.Options{
		NotifyInterval: s.cfg.NotifyInterval(),
		Logger:         app.logger(),
	})
}
