package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"tasklist-cli/internal/tasks"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task"},
		Short:   "Task commands",
	}

	cmd.AddCommand(newTasksAddCmd(app))
	cmd.AddCommand(newTasksEditCmd(app))
	cmd.AddCommand(newTasksRmCmd(app))
	cmd.AddCommand(newTasksToggleCmd(app))
	cmd.AddCommand(newTasksShowCmd(app))
	cmd.AddCommand(newTasksListCmd(app))
	cmd.AddCommand(newTasksExportCmd(app))
	cmd.AddCommand(newTasksImportCmd(app))

	return cmd
}

func newTasksAddCmd(app *App) *cobra.Command {
	var title string
	var category string
	var due string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			t, err := s.tasks.Create(cmd.Context(), title, category, due)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": t})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Task title (letters, numbers and spaces)")
	cmd.Flags().StringVar(&category, "category", "", "Task category (see `tasklist categories`)")
	cmd.Flags().StringVar(&due, "due", "", "Expiry date (YYYY-MM-DD, today or later)")
	return cmd
}

func newTasksEditCmd(app *App) *cobra.Command {
	var title string
	var category string
	var due string

	cmd := &cobra.Command{
		Use:   "edit <task-id>",
		Short: "Edit a task's title, category or expiry date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("title") && !cmd.Flags().Changed("category") && !cmd.Flags().Changed("due") {
				return writeErr(cmd, fmt.Errorf("nothing to edit; pass --title, --category and/or --due"))
			}
			s, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			cur, err := s.tasks.Get(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			// Omitted flags keep the current value; the merged triple is validated as a whole.
			if !cmd.Flags().Changed("title") {
				title = cur.Title
			}
			if !cmd.Flags().Changed("category") {
				category = cur.Category
			}
			if !cmd.Flags().Changed("due") {
				due = cur.ExpiryDate
			}

			t, err := s.tasks.Edit(cmd.Context(), cur.ID, title, category, due)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": t})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&category, "category", "", "New category")
	cmd.Flags().StringVar(&due, "due", "", "New expiry date (YYYY-MM-DD)")
	return cmd
}

func newTasksRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <task-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			if err := s.tasks.Delete(cmd.Context(), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": args[0], "deleted": true}})
		},
	}
}

func newTasksToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <task-id>",
		Short: "Flip a task between completed and not completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			t, err := s.tasks.ToggleCompletion(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": t})
		},
	}
}

func newTasksShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "show <task-id>",
		Aliases: []string{"get"},
		Short:   "Show a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			t, err := s.tasks.Get(strings.TrimSpace(args[0]))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": t})
		},
	}
}

func newTasksListCmd(app *App) *cobra.Command {
	var search string
	var category string
	var from string
	var to string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			c, err := s.tasks.NewCriteria(search, category, from, to)
			if err != nil {
				return writeErr(cmd, err)
			}
			visible := s.tasks.Visible(c)
			return writeOut(cmd, app, map[string]any{
				"data": visible,
				"meta": map[string]any{
					"total":   len(s.tasks.Tasks()),
					"visible": len(visible),
				},
			})
		},
	}

	cmd.Flags().StringVar(&search, "search", "", fmt.Sprintf("Case-insensitive title search (at least %d characters)", tasks.MinSearchLength))
	cmd.Flags().StringVar(&category, "category", "", "Only tasks in this category")
	cmd.Flags().StringVar(&from, "from", "", "Range start (YYYY-MM-DD, requires --to)")
	cmd.Flags().StringVar(&to, "to", "", "Range end (YYYY-MM-DD, inclusive)")
	return cmd
}

func newTasksExportCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the stored task collection as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			b, err := s.tasks.Export()
			if err != nil {
				return writeErr(cmd, err)
			}
			out = strings.TrimSpace(out)
			if out == "" {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), string(b))
				return err
			}
			if dir := filepath.Dir(out); dir != "" {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return writeErr(cmd, err)
				}
			}
			if err := os.WriteFile(out, b, 0o644); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"path":  out,
				"count": len(s.tasks.Tasks()),
			}})
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Output file (default: stdout)")
	return cmd
}

func newTasksImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the task collection with a previously exported file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := os.ReadFile(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			ts, err := tasks.DecodeTasks(b)
			if err != nil {
				return writeErr(cmd, fmt.Errorf("import %s: %w", args[0], err))
			}

			s, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			if err := s.tasks.Replace(cmd.Context(), ts); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"imported": len(ts)}})
		},
	}
}

func newCategoriesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the configured task categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigOrDefault()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": cfg.CategoriesOrDefault()})
		},
	}
}
