package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/skill-compiler/skillgen/internal/config"
	"github.com/skill-compiler/skillgen/internal/errors"
	"github.com/skill-compiler/skillgen/internal/logging"
	"github.com/skill-compiler/skillgen/internal/template"
)

func newTemplatesCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Inspect and validate skill templates",
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", ".", "Project directory whose templates are included")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List available templates",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := catalogFor(cmd.Context(), dir)
				if err != nil {
					return err
				}
				return printTemplates(cmd, c.List())
			},
		},
		&cobra.Command{
			Use:   "show <id>",
			Short: "Show a template's questions, variables and files",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := catalogFor(cmd.Context(), dir)
				if err != nil {
					return err
				}
				def, ok := c.Get(args[0])
				if !ok {
					return errors.TemplateNotFound(args[0])
				}
				printTemplate(cmd, def)
				return nil
			},
		},
		&cobra.Command{
			Use:   "validate <file>...",
			Short: "Validate template definition files",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runValidate(args)
			},
		},
		&cobra.Command{
			Use:   "watch",
			Short: "Re-validate templates whenever they change",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := config.Resolve(config.Flags{})
				if err != nil {
					return errors.ConfigError("loading configuration", err)
				}
				dirs := []string{cfg.TemplatesDir, projectTemplatesDir(cfg, dir)}
				return watchTemplates(cmd.Context(), dirs, reportLoad)
			},
		},
	)
	return cmd
}

func catalogFor(ctx context.Context, projectDir string) (*template.Catalog, error) {
	cfg, err := config.Resolve(config.Flags{})
	if err != nil {
		return nil, errors.ConfigError("loading configuration", err)
	}
	return loadCatalog(ctx, cfg, projectDir)
}

func projectTemplatesDir(cfg *config.Resolved, projectDir string) string {
	if filepath.IsAbs(cfg.ProjectTemplatesDir) {
		return cfg.ProjectTemplatesDir
	}
	return filepath.Join(projectDir, cfg.ProjectTemplatesDir)
}

func printTemplates(cmd *cobra.Command, defs []*template.Definition) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCOPE\tNAME\tDESCRIPTION")
	fmt.Fprintln(w, "--\t-----\t----\t-----------")
	for _, d := range defs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.ID, d.Scope, d.Name, d.Description)
	}
	return w.Flush()
}

func printTemplate(cmd *cobra.Command, def *template.Definition) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s)\n", def.Name, def.ID)
	fmt.Fprintf(out, "%s\n\n", def.Description)
	fmt.Fprintf(out, "Scope:  %s\n", def.Scope)
	if def.Source != "" {
		fmt.Fprintf(out, "Source: %s\n", def.Source)
	}

	if len(def.Questions) > 0 {
		fmt.Fprintln(out, "\nQuestions:")
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, q := range def.Questions {
			extra := ""
			if q.Default != nil {
				extra = fmt.Sprintf("default=%v", q.Default)
			}
			if q.When != "" {
				extra = strings.TrimSpace(extra + " when=" + q.When)
			}
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", q.Name, q.Type, q.Message, extra)
		}
		w.Flush()
	}

	if len(def.Variables) > 0 {
		fmt.Fprintln(out, "\nVariables:")
		names := make([]string, 0, len(def.Variables))
		for n := range def.Variables {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			fmt.Fprintf(out, "  %s = %s\n", n, def.Variables[n])
		}
	}

	fmt.Fprintln(out, "\nFiles:")
	for _, p := range def.Content.Paths() {
		fmt.Fprintf(out, "  %s\n", p)
	}
}

func runValidate(paths []string) error {
	invalid := 0
	for _, p := range paths {
		_, report := template.LoadFile(p, nil)
		if !reportLoad(report) {
			invalid++
		}
	}
	if invalid > 0 {
		return errors.ValidationError(fmt.Sprintf("%d of %d template(s) invalid", invalid, len(paths)))
	}
	return nil
}

// reportLoad prints the outcome of loading one file and reports whether it
// loaded.
func reportLoad(r template.LoadReport) bool {
	if r.Err != nil {
		logging.UserError("%s: %v", r.Path, r.Err)
		return false
	}
	for _, e := range r.Result.Errors {
		logging.UserError("%s: %s", r.Path, e)
	}
	for _, w := range r.Result.Warnings {
		logWarning("%s: %s", r.Path, w)
	}
	if !r.Result.Valid {
		return false
	}
	logSuccess("%s: valid template %q", r.Path, r.ID)
	return true
}

// watchTemplates validates definition files in dirs as they change until ctx
// is cancelled. Directories that do not exist are skipped.
func watchTemplates(ctx context.Context, dirs []string, report func(template.LoadReport) bool) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	watched := 0
	for _, d := range dirs {
		if info, err := os.Stat(d); err != nil || !info.IsDir() {
			logging.Debug("not watching", zap.String("dir", d))
			continue
		}
		if err := watcher.Add(d); err != nil {
			return fmt.Errorf("watching %s: %w", d, err)
		}
		watched++
		logInfo("Watching %s", d)
	}
	if watched == 0 {
		return errors.ValidationError("no template directories to watch: " + strings.Join(dirs, ", "))
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !template.IsDefinitionFile(ev.Name) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
					logInfo("%s removed", ev.Name)
				}
				continue
			}
			_, r := template.LoadFile(ev.Name, nil)
			logging.Info("reloaded template", zap.String("path", ev.Name), zap.Bool("loaded", r.Loaded()))
			report(r)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Warn("watcher error", zap.Error(err))
		}
	}
}
