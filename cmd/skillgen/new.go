package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/skill-compiler/skillgen/internal/cache"
	"github.com/skill-compiler/skillgen/internal/config"
	"github.com/skill-compiler/skillgen/internal/detect"
	"github.com/skill-compiler/skillgen/internal/errors"
	"github.com/skill-compiler/skillgen/internal/logging"
	"github.com/skill-compiler/skillgen/internal/scaffold"
	"github.com/skill-compiler/skillgen/internal/template"
)

type newOptions struct {
	dir      string
	template string
	sets     []string
	out      string
	force    bool
	dryRun   bool
}

func newNewCmd() *cobra.Command {
	opts := &newOptions{}

	cmd := &cobra.Command{
		Use:   "new <skill-name>",
		Short: "Generate a skill for a project",
		Long: `Generate a skill directory for a project.

The template is chosen by detection unless --template is given. Detected
answers can be overridden with --set key=value; "true" and "false" become
booleans.

Files edited by hand since the last run are left alone and the new render is
saved under .skillgen-pending/ in the skill directory. Use --force to
overwrite them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNew(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.dir, "dir", ".", "Project directory to inspect")
	cmd.Flags().StringVarP(&opts.template, "template", "t", "", "Template id (default: detected type)")
	cmd.Flags().StringArrayVar(&opts.sets, "set", nil, "Override an answer (key=value, repeatable)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Directory that receives the skill (default: <dir>/.claude/skills)")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite hand-edited files")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Show what would be written")
	return cmd
}

func runNew(ctx context.Context, name string, opts *newOptions) error {
	if err := scaffold.ValidateSkillName(name); err != nil {
		return errors.ValidationError(err.Error())
	}
	if err := requireDir(opts.dir); err != nil {
		return err
	}
	overrides, err := parseSets(opts.sets)
	if err != nil {
		return err
	}

	cfg, err := config.Resolve(config.Flags{Out: opts.out, Template: opts.template})
	if err != nil {
		return errors.ConfigError("loading configuration", err)
	}

	catalog, err := loadCatalog(ctx, cfg, opts.dir)
	if err != nil {
		return err
	}

	result := detect.NewDetector(logging.L()).Detect(ctx, opts.dir)
	id := cfg.Template
	if id == "" {
		id = result.Type
		logInfo("Detected %s project (confidence %.2f)", result.Type, result.Confidence)
	}
	for _, w := range result.Warnings {
		logWarning("%s", w)
	}

	def, ok := catalog.Get(id)
	if !ok {
		return errors.TemplateNotFound(id)
	}
	logging.Debug("using template", zap.String("id", def.ID), zap.String("scope", string(def.Scope)))

	answers := scaffold.MergeAnswers(result.Answers, overrides)
	answers["name"] = name
	out := scaffold.Generate(def, answers)

	outDir := cfg.Out
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(opts.dir, outDir)
	}

	w := scaffold.NewWriter(logging.With(zap.String("skill", name)))
	w.Force = opts.force
	w.DryRun = opts.dryRun
	res, err := w.Write(outDir, name, out)
	if err != nil {
		return errors.WriteError("writing skill", err)
	}

	reportWrite(res, def, opts.dryRun)
	return nil
}

func reportWrite(res *scaffold.Result, def *template.Definition, dryRun bool) {
	verb := "wrote"
	if dryRun {
		verb = "would write"
	}
	for _, p := range res.Written {
		logInfo("%s %s", verb, p)
	}
	for _, p := range res.Unchanged {
		logging.Debug("unchanged", zap.String("path", p))
	}
	for _, p := range res.Conflicts {
		logWarning("%s was edited by hand; new version saved to %s",
			p, filepath.Join(cache.PendingDirName, filepath.FromSlash(p)))
	}

	switch {
	case dryRun:
		logInfo("Dry run: %d file(s) would be written to %s", len(res.Written), res.Dir)
	case len(res.Written) == 0 && len(res.Conflicts) == 0:
		logSuccess("Skill at %s is up to date", res.Dir)
	default:
		logSuccess("Skill written to %s (template %s, %s)", res.Dir, def.ID, def.Scope)
	}
}

// parseSets turns repeated key=value flags into answers.
func parseSets(sets []string) (map[string]any, error) {
	out := make(map[string]any, len(sets))
	for _, s := range sets {
		key, value, ok := strings.Cut(s, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errors.UsageError(fmt.Sprintf("invalid --set %q: expected key=value", s))
		}
		switch value {
		case "true":
			out[key] = true
		case "false":
			out[key] = false
		default:
			out[key] = value
		}
	}
	return out, nil
}

// loadCatalog layers the built-in, global and project template stores and
// reports files that failed to load.
func loadCatalog(ctx context.Context, cfg *config.Resolved, projectDir string) (*template.Catalog, error) {
	reg := template.DefaultResolvers()

	projectTemplates := cfg.ProjectTemplatesDir
	if !filepath.IsAbs(projectTemplates) {
		projectTemplates = filepath.Join(projectDir, projectTemplates)
	}

	c, err := template.Layered{
		Builtin: &template.BuiltinStore{Registry: reg},
		Global:  &template.DirStore{Dir: cfg.TemplatesDir, Scope: template.ScopeGlobal, Registry: reg},
		Project: &template.DirStore{Dir: projectTemplates, Scope: template.ScopeProject, Registry: reg},
	}.Catalog(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ExitGeneralError, "loading templates", err)
	}

	for _, r := range c.Reports() {
		switch {
		case r.Err != nil:
			logWarning("skipping %s: %v", r.Path, r.Err)
		case !r.Result.Valid:
			logWarning("skipping %s: %s", r.Path, strings.Join(r.Result.Errors, "; "))
		}
		for _, w := range r.Result.Warnings {
			logging.Debug("template warning", zap.String("path", r.Path), zap.String("warning", w))
		}
	}
	return c, nil
}
