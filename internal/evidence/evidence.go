// Package evidence inspects a project directory and reports what it finds as
// a flat list of facts.
//
// Facts come from three independent sources: the dependency manifest,
// marker/config files at the project root, and top-level folder names. Each
// check is a lookup in a static rule table; nothing is walked recursively.
//
// Result order is fixed (dependencies, then config files, then folders) and
// matters: when two facts assign different values to the same field, the
// earlier one wins.
package evidence

import (
	"strings"
)

// Category identifies which sub-scan produced a piece of evidence.
type Category string

const (
	CategoryDependency      Category = "dependency"
	CategoryConfigFile      Category = "config-file"
	CategoryFolderStructure Category = "folder-structure"
)

// Reserved fields steer type inference and are never copied into answers.
const (
	FieldType           = "type"
	FieldTypeHint       = "type-hint"
	FieldDatabaseDriver = "database-driver"
)

// IsReserved reports whether field is one of the meta fields.
func IsReserved(field string) bool {
	switch field {
	case FieldType, FieldTypeHint, FieldDatabaseDriver:
		return true
	}
	return false
}

// Assertion is a single field=value claim. A bare field asserts "true".
type Assertion struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (a Assertion) String() string {
	if a.Value == "true" {
		return a.Field
	}
	return a.Field + "=" + a.Value
}

// Evidence is one observed fact about a project.
type Evidence struct {
	Source   string      `json:"source"`
	Category Category    `json:"category"`
	Implies  []Assertion `json:"implies"`
}

// String renders the assertions in their compact "a=b, c" form.
func (e Evidence) String() string {
	parts := make([]string, len(e.Implies))
	for i, a := range e.Implies {
		parts[i] = a.String()
	}
	return strings.Join(parts, ", ")
}

// ParseImplies parses the compact "field=value, flag" form. Empty segments
// are skipped.
func ParseImplies(s string) []Assertion {
	var out []Assertion
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		field, value, ok := strings.Cut(part, "=")
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		if !ok {
			value = "true"
		}
		out = append(out, Assertion{Field: field, Value: strings.TrimSpace(value)})
	}
	return out
}

// New builds an Evidence from the compact assertion form.
func New(source string, category Category, implies string) Evidence {
	return Evidence{Source: source, Category: category, Implies: ParseImplies(implies)}
}
