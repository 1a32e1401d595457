package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"tasklist-cli/internal/store"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change ~/.tasklist/config.json",
	}
	cmd.AddCommand(newConfigShowCmd(app))
	cmd.AddCommand(newConfigSetCmd(app))
	return cmd
}

func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the global config and the effective settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigOrDefault()
			if err != nil {
				return writeErr(cmd, err)
			}
			path, err := store.ConfigPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": cfg,
				"meta": map[string]any{
					"path":                  path,
					"categories":            cfg.CategoriesOrDefault(),
					"notifyIntervalSeconds": int(cfg.NotifyInterval().Seconds()),
				},
			})
		},
	}
}

func newConfigSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config key (" + strings.Join(store.ConfigKeys, ", ") + ")",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigOrDefault()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return writeErr(cmd, err)
			}
			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			app.logger().WithField("key", args[0]).Info("config updated")
			return writeOut(cmd, app, map[string]any{"data": cfg})
		},
	}
}

func loadConfigOrDefault() (*store.GlobalConfig, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = &store.GlobalConfig{}
	}
	return cfg, nil
}
