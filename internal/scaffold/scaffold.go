// Package scaffold turns a template definition and a set of answers into a
// rendered skill directory.
package scaffold

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/skill-compiler/skillgen/internal/render"
	"github.com/skill-compiler/skillgen/internal/template"
)

// MaxSkillNameLength is the longest skill name accepted.
const MaxSkillNameLength = 64

var skillNameRe = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ValidateSkillName checks that name is usable as a skill directory and
// frontmatter name.
func ValidateSkillName(name string) error {
	if name == "" {
		return fmt.Errorf("skill name is required")
	}
	if len(name) > MaxSkillNameLength {
		return fmt.Errorf("skill name %q is longer than %d characters", name, MaxSkillNameLength)
	}
	if !skillNameRe.MatchString(name) {
		return fmt.Errorf("skill name %q must use lowercase letters, digits and single hyphens", name)
	}
	return nil
}

// MergeAnswers overlays overrides on detected answers. Neither input is
// modified.
func MergeAnswers(detected, overrides map[string]any) map[string]any {
	out := make(map[string]any, len(detected)+len(overrides))
	for k, v := range detected {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// Values builds the typed answer set a definition renders with: the base
// name fields, the answers, and defaults for visible questions left
// unanswered. Questions are visited in order so a default can make a later
// question visible.
func Values(def *template.Definition, answers map[string]any) map[string]any {
	name, _ := answers["name"].(string)
	values := map[string]any{
		"name":        name,
		"skillName":   name,
		"description": def.Description,
	}
	for k, v := range answers {
		values[k] = v
	}
	for _, q := range def.Questions {
		if _, answered := values[q.Name]; answered {
			continue
		}
		if q.Default == nil || !q.Visible(values) {
			continue
		}
		values[q.Name] = q.Default
	}
	return values
}

// BuildContext resolves the flat render context for def. Declared variables
// are interpolated against the answers; resolver output is applied last and
// wins over everything else.
func BuildContext(def *template.Definition, answers map[string]any) render.Context {
	values := Values(def, answers)
	ctx := render.NewContext(values)

	names := make([]string, 0, len(def.Variables))
	for n := range def.Variables {
		names = append(names, n)
	}
	sort.Strings(names)
	base := ctx.Clone()
	for _, n := range names {
		ctx[n] = render.Interpolate(def.Variables[n], base)
	}

	for _, r := range def.Resolvers {
		for k, v := range r.ResolveVariables(values) {
			ctx[k] = v
		}
	}
	return ctx
}

// Files maps paths relative to the skill root to rendered content.
type Files map[string]string

// Paths returns the file paths in sorted order.
func (f Files) Paths() []string {
	paths := make([]string, 0, len(f))
	for p := range f {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// RenderFiles renders every content body of def. Optional files that render
// to whitespace only are dropped; SKILL.md is always kept.
func RenderFiles(def *template.Definition, ctx render.Context) Files {
	out := make(Files)
	for path, body := range def.Content.Files() {
		rendered := render.Render(body, ctx)
		if path != template.KeySkill && strings.TrimSpace(rendered) == "" {
			continue
		}
		out[path] = rendered
	}
	return out
}

// Output is a rendered skill plus what it was rendered from.
type Output struct {
	TemplateID string
	Context    render.Context
	Sources    map[string]string
	Files      Files
}

// Generate renders def with answers.
func Generate(def *template.Definition, answers map[string]any) *Output {
	ctx := BuildContext(def, answers)
	return &Output{
		TemplateID: def.ID,
		Context:    ctx,
		Sources:    def.Content.Files(),
		Files:      RenderFiles(def, ctx),
	}
}

// contextJSON is the canonical encoding used for input hashes. Map keys are
// sorted by encoding/json.
func (o *Output) contextJSON() string {
	data, err := json.Marshal(o.Context)
	if err != nil {
		return ""
	}
	return string(data)
}
