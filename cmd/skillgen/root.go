package main

import (
	"github.com/spf13/cobra"

	"github.com/skill-compiler/skillgen/internal/logging"
)

var (
	logInfo    = logging.UserInfo
	logSuccess = logging.UserSuccess
	logWarning = logging.UserWarning
)

func newRootCmd() *cobra.Command {
	var (
		verbose  bool
		jsonLogs bool
	)

	root := &cobra.Command{
		Use:   "skillgen",
		Short: "Scaffold Agent Skills from project-aware templates",
		Long: `skillgen creates Agent Skill directories (SKILL.md, references/, scripts/,
assets/) from templates.

It inspects a project to pick a template and pre-fill its answers:
  - Dependency manifests (package.json, pyproject.toml)
  - Marker files (Dockerfile, tsconfig.json, main.tf, ...)
  - Folder layout (src/, k8s/, e2e/, ...)

Templates come from the built-in set, ~/.config/skillgen/templates and the
project's .skillgen/templates directory, in increasing precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(verbose, jsonLogs, cmd.ErrOrStderr())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logging.Sync()
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	root.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Output logs in JSON format")
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(
		newDetectCmd(),
		newNewCmd(),
		newTemplatesCmd(),
		newConfigCmd(),
	)
	return root
}
