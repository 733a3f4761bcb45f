package template

import (
	"sort"

	"github.com/skill-compiler/skillgen/internal/expr"
)

// QuestionType is the kind of prompt a question maps to.
type QuestionType string

const (
	QuestionSelect      QuestionType = "select"
	QuestionInput       QuestionType = "input"
	QuestionConfirm     QuestionType = "confirm"
	QuestionMultiselect QuestionType = "multiselect"
)

// QuestionTypes lists the valid question types.
var QuestionTypes = []QuestionType{QuestionSelect, QuestionInput, QuestionConfirm, QuestionMultiselect}

// NeedsChoices reports whether the type requires a choice list.
func (t QuestionType) NeedsChoices() bool {
	return t == QuestionSelect || t == QuestionMultiselect
}

// Valid reports whether t is one of QuestionTypes.
func (t QuestionType) Valid() bool {
	for _, v := range QuestionTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Scope records which store tier a definition came from.
type Scope string

const (
	ScopeBuiltin Scope = "builtin"
	ScopeGlobal  Scope = "global"
	ScopeProject Scope = "project"
)

// Definition is a skill template: its questions, variables and content
// bodies.
type Definition struct {
	ID          string            `mapstructure:"-" json:"id"`
	Name        string            `mapstructure:"name" json:"name"`
	Description string            `mapstructure:"description" json:"description"`
	Questions   []Question        `mapstructure:"questions" json:"questions,omitempty"`
	Variables   map[string]string `mapstructure:"variables" json:"variables,omitempty"`
	Content     Content           `mapstructure:"content" json:"content"`

	// Resolvers supply computed variables; attached from a ResolverRegistry.
	Resolvers []VariableResolver `mapstructure:"-" json:"-"`
	Scope     Scope              `mapstructure:"-" json:"scope"`
	Source    string             `mapstructure:"-" json:"source,omitempty"`
}

// Content holds the bodies a definition renders. Map keys in References,
// Scripts and Assets are file names relative to their directory.
type Content struct {
	Skill      string            `mapstructure:"SKILL.md" json:"SKILL.md"`
	References map[string]string `mapstructure:"references/" json:"references/,omitempty"`
	Scripts    map[string]string `mapstructure:"scripts/" json:"scripts/,omitempty"`
	Assets     map[string]string `mapstructure:"assets/" json:"assets/,omitempty"`
}

// Content directory keys as they appear in definition files.
const (
	KeySkill      = "SKILL.md"
	KeyReferences = "references/"
	KeyScripts    = "scripts/"
	KeyAssets     = "assets/"
)

// Files returns every content body keyed by its path relative to the skill
// root, e.g. "SKILL.md" or "references/api.md".
func (c Content) Files() map[string]string {
	out := map[string]string{KeySkill: c.Skill}
	for dir, m := range map[string]map[string]string{
		KeyReferences: c.References,
		KeyScripts:    c.Scripts,
		KeyAssets:     c.Assets,
	} {
		for name, body := range m {
			out[dir+name] = body
		}
	}
	return out
}

// Paths returns the keys of Files in sorted order.
func (c Content) Paths() []string {
	files := c.Files()
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Question is one answer a template asks for.
type Question struct {
	Name    string       `mapstructure:"name" json:"name"`
	Message string       `mapstructure:"message" json:"message"`
	Type    QuestionType `mapstructure:"type" json:"type"`
	Choices []Choice     `mapstructure:"choices" json:"choices,omitempty"`
	Default any          `mapstructure:"default" json:"default,omitempty"`
	When    string       `mapstructure:"when" json:"when,omitempty"`

	// WhenFunc is a native visibility predicate. It takes precedence over
	// When.
	WhenFunc func(answers map[string]any) bool `mapstructure:"-" json:"-"`
}

// Choice is one option of a select or multiselect question.
type Choice struct {
	Name  string `mapstructure:"name" json:"name"`
	Value any    `mapstructure:"value" json:"value"`
}

// Visible reports whether the question applies given the answers so far.
func (q Question) Visible(answers map[string]any) bool {
	if q.WhenFunc != nil {
		return q.WhenFunc(answers)
	}
	if q.When == "" {
		return true
	}
	return expr.Evaluate(q.When, answers)
}

// Question returns the named question.
func (d *Definition) Question(name string) (Question, bool) {
	for _, q := range d.Questions {
		if q.Name == name {
			return q, true
		}
	}
	return Question{}, false
}
