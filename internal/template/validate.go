package template

import (
	"fmt"
	"sort"
	"strings"

	"github.com/skill-compiler/skillgen/internal/expr"
	"github.com/skill-compiler/skillgen/internal/render"
)

// ValidationResult collects every problem found in a raw definition.
// Errors make a definition unusable; warnings do not.
type ValidationResult struct {
	Valid      bool     `json:"valid"`
	Errors     []string `json:"errors"`
	Warnings   []string `json:"warnings"`
	TemplateID string   `json:"templateId,omitempty"`
}

func (r *ValidationResult) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Validate checks a decoded definition before any of its content is
// trusted. It never panics; every problem is accumulated in the result.
func Validate(raw any, sourceID string) ValidationResult {
	r := ValidationResult{Errors: []string{}, Warnings: []string{}}

	m, ok := asMap(raw)
	if !ok {
		r.errorf("template must be an object, got %s", kindOf(raw))
		return r
	}

	for _, key := range []string{"name", "description"} {
		if s, ok := m[key].(string); !ok || strings.TrimSpace(s) == "" {
			r.errorf("%q must be a non-empty string", key)
		}
	}

	validateContent(&r, m["content"])
	if q, ok := m["questions"]; ok {
		validateQuestions(&r, q)
	}
	if v, ok := m["variables"]; ok {
		validateVariables(&r, v)
	}

	r.Valid = len(r.Errors) == 0
	if r.Valid {
		r.TemplateID = sourceID
	}
	return r
}

func validateContent(r *ValidationResult, raw any) {
	content, ok := asMap(raw)
	if !ok {
		r.errorf(`"content" must be an object with a non-empty "SKILL.md" string`)
		return
	}

	skill, ok := content[KeySkill].(string)
	if !ok || strings.TrimSpace(skill) == "" {
		r.errorf(`content["SKILL.md"] must be a non-empty string`)
	} else {
		checkConditions(r, KeySkill, skill)
	}

	for _, dir := range []string{KeyReferences, KeyScripts, KeyAssets} {
		v, present := content[dir]
		if !present {
			continue
		}
		files, ok := asMap(v)
		if !ok {
			r.errorf("content[%q] must be an object mapping file names to strings", dir)
			continue
		}
		for _, name := range sortedKeys(files) {
			body, ok := files[name].(string)
			if !ok {
				r.errorf("content[%q][%q] must be a string", dir, name)
				continue
			}
			if name == "" || strings.Contains(name, "..") {
				r.errorf("content[%q] has an invalid file name %q", dir, name)
				continue
			}
			checkConditions(r, dir+name, body)
		}
	}
}

// checkConditions warns about conditional blocks whose expression falls
// outside the supported grammar.
func checkConditions(r *ValidationResult, file, body string) {
	for _, cond := range render.Conditions(body) {
		if !expr.Supported(cond) {
			r.warnf("%s: {{#if %s}} uses unsupported syntax and will evaluate as a plain name", file, cond)
		}
	}
}

func validateQuestions(r *ValidationResult, raw any) {
	list, ok := asList(raw)
	if !ok {
		r.errorf(`"questions" must be an array`)
		return
	}

	seen := make(map[string]int)
	for i, item := range list {
		q, ok := asMap(item)
		if !ok {
			r.errorf("questions[%d] must be an object", i)
			continue
		}

		name, ok := q["name"].(string)
		if !ok || name == "" {
			r.errorf("questions[%d].name must be a non-empty string", i)
		} else if first, dup := seen[name]; dup {
			r.warnf("questions[%d]: duplicate question name %q (first used by questions[%d])", i, name, first)
		} else {
			seen[name] = i
		}

		if _, ok := q["message"].(string); !ok {
			r.errorf("questions[%d].message must be a string", i)
		}

		typ, _ := q["type"].(string)
		qt := QuestionType(typ)
		if !qt.Valid() {
			r.errorf("questions[%d].type must be one of %s", i, questionTypeList())
		} else if qt.NeedsChoices() {
			validateChoices(r, i, qt, q["choices"])
		} else if raw, present := q["choices"]; present && raw != nil {
			validateChoiceList(r, i, raw)
		}

		if w, present := q["when"]; present {
			s, ok := w.(string)
			switch {
			case !ok:
				r.errorf("questions[%d].when must be a string", i)
			case !expr.Supported(s):
				r.warnf("questions[%d].when %q uses unsupported syntax and will evaluate as a plain name", i, s)
			}
		}
	}
}

func validateChoices(r *ValidationResult, i int, qt QuestionType, raw any) {
	choices, ok := asList(raw)
	if !ok || len(choices) == 0 {
		r.errorf("questions[%d] is a %s question and needs a non-empty choices array", i, qt)
		return
	}
	validateChoiceList(r, i, choices)
}

// validateChoiceList checks the shape of a choices value on any question type.
func validateChoiceList(r *ValidationResult, i int, raw any) {
	choices, ok := asList(raw)
	if !ok {
		r.errorf("questions[%d].choices must be an array", i)
		return
	}
	for j, c := range choices {
		cm, ok := asMap(c)
		if !ok {
			r.errorf("questions[%d].choices[%d] must be an object with name and value", i, j)
			continue
		}
		if name, ok := cm["name"].(string); !ok || name == "" {
			r.errorf("questions[%d].choices[%d].name must be a non-empty string", i, j)
		}
		if v, ok := cm["value"]; !ok || v == nil || v == "" {
			r.errorf("questions[%d].choices[%d].value is required", i, j)
		}
	}
}

func validateVariables(r *ValidationResult, raw any) {
	vars, ok := asMap(raw)
	if !ok {
		r.errorf(`"variables" must be an object mapping names to strings`)
		return
	}
	for _, name := range sortedKeys(vars) {
		if _, ok := vars[name].(string); !ok {
			r.errorf("variables[%q] must be a string", name)
		}
	}
}

func questionTypeList() string {
	names := make([]string, len(QuestionTypes))
	for i, t := range QuestionTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// asMap accepts the map shapes produced by the YAML and TOML decoders.
func asMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	}
	return nil, false
}

// asList accepts []any and the []map[string]any shape TOML uses for arrays
// of tables.
func asList(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []map[string]any:
		out := make([]any, len(t))
		for i, m := range t {
			out[i] = m
		}
		return out, true
	}
	return nil, false
}

func kindOf(v any) string {
	if v == nil {
		return "nothing"
	}
	return fmt.Sprintf("%T", v)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
