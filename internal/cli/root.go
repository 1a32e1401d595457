package cli

import (
	"fmt"
	"os"
	"slices"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"tasklist-cli/internal/format"
	"tasklist-cli/internal/store"
	"tasklist-cli/internal/tasks"
)

const defaultRedisAddr = "localhost:6379"

type App struct {
	Dir        string
	Backend    string
	RedisAddr  string
	PrettyJSON bool
	Format     string
	LogLevel   string

	log *log.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "tasklist",
		Short:        "Local task list CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  tasklist

  # Scriptable commands
  tasklist tasks add --title "Buy milk" --category Shopping --due 2030-01-31
  tasklist tasks list --search milk

  # Watch for due tasks
  tasklist notify

  # Direct task lookup (shortcut for: tasklist tasks show <task-id>)
  tasklist 0b7c2f7e-3f7e-4c4e-9a53-2f0f4d0e8a11
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if !slices.Contains(format.Formats, app.Format) {
			return writeErr(cmd, fmt.Errorf("unknown format: %s (expected %s)", app.Format, strings.Join(format.Formats, "|")))
		}
		lvl, err := log.ParseLevel(strings.TrimSpace(app.LogLevel))
		if err != nil {
			return writeErr(cmd, err)
		}
		app.log = log.New()
		app.log.SetOutput(cmd.ErrOrStderr())
		app.log.SetLevel(lvl)
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("TASKLIST_DIR", ""), "Data directory for the sqlite/file backends (default: ~/.tasklist/data)")
	cmd.PersistentFlags().StringVar(&app.Backend, "backend", envOr("TASKLIST_BACKEND", ""), "Storage backend (sqlite|file|redis|memory)")
	cmd.PersistentFlags().StringVar(&app.RedisAddr, "redis-addr", envOr("TASKLIST_REDIS_ADDR", ""), "Redis address for the redis backend (default: "+defaultRedisAddr+")")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON/EDN output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("TASKLIST_FORMAT", "json"), "Output format (json|edn|toml)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("TASKLIST_LOG_LEVEL", "warn"), "Log level (debug|info|warn|error)")

	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newCategoriesCmd(app))
	cmd.AddCommand(newNotifyCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newStatusCmd(app))
	cmd.AddCommand(newDoctorCmd(app))

	return cmd
}

// session is one opened store plus the config it was resolved from.
type session struct {
	cfg     *store.GlobalConfig
	backend store.Backend
	dir     string
	kv      store.KV
	tasks   *tasks.Store
}

func (s *session) Close() error {
	return s.kv.Close()
}

// openSession resolves backend settings (flag > env > config > default), opens the
// KV and loads the task collection.
func openSession(cmd *cobra.Command, app *App) (*session, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}

	backend, err := store.ParseBackend(firstNonEmpty(app.Backend, cfg.Backend))
	if err != nil {
		return nil, err
	}
	dir := firstNonEmpty(app.Dir, cfg.DataDir)
	if dir == "" && (backend == store.BackendSQLite || backend == store.BackendFile) {
		d, err := store.DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}

	kv, err := store.Open(cmd.Context(), store.Options{
		Backend:     backend,
		Dir:         dir,
		RedisAddr:   firstNonEmpty(app.RedisAddr, cfg.RedisAddr, defaultRedisAddr),
		RedisPrefix: cfg.RedisPrefix,
	})
	if err != nil {
		return nil, err
	}
	app.logger().WithFields(log.Fields{"backend": backend, "dir": dir}).Debug("store opened")

	st := tasks.New(kv,
		tasks.WithCategories(cfg.CategoriesOrDefault()),
		tasks.WithLogger(app.logger()),
	)
	st.Load(cmd.Context())
	return &session{cfg: cfg, backend: backend, dir: dir, kv: kv, tasks: st}, nil
}

func (app *App) logger() *log.Logger {
	if app.log == nil {
		return log.StandardLogger()
	}
	return app.log
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), describeErr(err))
	return err
}
