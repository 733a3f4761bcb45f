package template

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/skill-compiler/skillgen/internal/expr"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// BuiltinIDs are the ids of the embedded definitions, one per detected
// project type.
var BuiltinIDs = []string{"api", "basic", "devops", "frontend", "fullstack", "library", "microservice"}

// builtinWhen holds native visibility predicates keyed by template id and
// question name.
var builtinWhen = map[string]map[string]func(map[string]any) bool{
	"microservice": {
		"brokerUrl": func(a map[string]any) bool {
			t, _ := a["transport"].(string)
			return t != "" && t != "tcp"
		},
	},
	"api": {
		"database": func(a map[string]any) bool {
			if _, ok := a["database"]; ok {
				return true
			}
			return expr.Truthy(a["usesDatabase"])
		},
	},
	"fullstack": {
		"orm": func(a map[string]any) bool {
			return a["database"] != "mongodb"
		},
	},
}

// BuiltinStore serves the definitions embedded in the binary.
type BuiltinStore struct {
	Registry *ResolverRegistry
}

// Templates implements Store. An embedded definition that fails validation
// is a build defect and is returned as an error.
func (s *BuiltinStore) Templates(ctx context.Context) ([]*Definition, []LoadReport, error) {
	entries, err := fs.ReadDir(builtinFS, "builtin")
	if err != nil {
		return nil, nil, fmt.Errorf("reading built-in templates: %w", err)
	}

	var (
		defs    []*Definition
		reports []LoadReport
	)
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		name := path.Join("builtin", e.Name())
		def, report := loadBuiltin(name)
		reports = append(reports, report)
		if report.Err != nil {
			return nil, nil, report.Err
		}
		if def == nil {
			return nil, nil, fmt.Errorf("built-in template %s is invalid: %s",
				report.ID, strings.Join(report.Result.Errors, "; "))
		}
		if s.Registry != nil {
			def.Resolvers = s.Registry.Resolvers(def.ID)
		}
		defs = append(defs, def)
	}
	return defs, reports, nil
}

func loadBuiltin(name string) (*Definition, LoadReport) {
	report := LoadReport{Path: name, ID: IDFromPath(name), Scope: ScopeBuiltin}
	data, err := builtinFS.ReadFile(name)
	if err != nil {
		report.Err = fmt.Errorf("reading built-in template: %w", err)
		return nil, report
	}
	raw, err := Decode(data, path.Ext(name))
	if err != nil {
		report.Err = fmt.Errorf("built-in template %s: %w", report.ID, err)
		return nil, report
	}
	def, result, err := Build(raw, report.ID)
	report.Result = result
	if err != nil {
		report.Err = err
		return nil, report
	}
	if def == nil {
		return nil, report
	}

	def.Scope = ScopeBuiltin
	def.Source = "builtin:" + report.ID
	for i, q := range def.Questions {
		if fn, ok := builtinWhen[def.ID][q.Name]; ok {
			def.Questions[i].WhenFunc = fn
		}
	}
	return def, report
}

// DefaultResolvers returns a registry with the resolvers the built-in
// templates rely on. Custom templates that reuse a built-in id get them too.
func DefaultResolvers() *ResolverRegistry {
	reg := NewResolverRegistry()
	for _, id := range BuiltinIDs {
		// Register only fails on an empty id or nil resolver.
		_ = reg.Register(id, ResolverFunc(skillNameVariables))
	}
	return reg
}

// skillNameVariables derives display and environment names from the skill
// name, e.g. "my-app" -> "My App" and "MY_APP".
func skillNameVariables(answers map[string]any) map[string]string {
	name, _ := answers["name"].(string)
	return map[string]string{
		"skillTitle": Title(name),
		"envPrefix":  EnvPrefix(name),
	}
}

// EnvPrefix derives an environment variable prefix from a skill name.
// e.g., "my-app" -> "MY_APP"
func EnvPrefix(name string) string {
	return strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

// Title turns a hyphenated name into space-separated capitalised words.
func Title(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
