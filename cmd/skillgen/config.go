package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/skill-compiler/skillgen/internal/config"
	"github.com/skill-compiler/skillgen/internal/errors"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage ~/.config/skillgen/config.yaml",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Set a config value",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := config.Set(args[0], args[1]); err != nil {
					return errors.ConfigError("setting config", err)
				}
				logSuccess("%s = %s", args[0], args[1])
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List config values",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				m, err := config.List()
				if err != nil {
					return errors.ConfigError("reading config", err)
				}
				keys := make([]string, 0, len(m))
				for k := range m {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", k, m[k])
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Delete the config file",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := config.Reset(); err != nil {
					return errors.ConfigError("resetting config", err)
				}
				logSuccess("Config reset")
				return nil
			},
		},
	)
	return cmd
}
