// Package expr evaluates the small boolean expressions used by conditional
// template blocks and question visibility rules.
//
// Supported forms, tried in order:
//
//	name === 'literal'
//	name !== 'literal'
//	name === true    (or false)
//	name             (truthiness)
//
// There are no logical operators, parentheses or numeric comparisons. Any
// other text is treated as a bare name, which normally evaluates to false.
package expr

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	strictEqRe  = regexp.MustCompile(`^([A-Za-z_$][\w$]*)\s*===\s*'([^']*)'$`)
	strictNeqRe = regexp.MustCompile(`^([A-Za-z_$][\w$]*)\s*!==\s*'([^']*)'$`)
	boolEqRe    = regexp.MustCompile(`^([A-Za-z_$][\w$]*)\s*===\s*(true|false)$`)
	identRe     = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)
)

// Evaluate reports whether expr holds against ctx. It never panics and never
// fails: malformed expressions degrade to a truthiness check on the whole
// text.
func Evaluate[V any](expr string, ctx map[string]V) bool {
	expr = strings.TrimSpace(expr)

	if m := strictEqRe.FindStringSubmatch(expr); m != nil {
		return stringOf(lookup(ctx, m[1])) == m[2]
	}
	if m := strictNeqRe.FindStringSubmatch(expr); m != nil {
		return stringOf(lookup(ctx, m[1])) != m[2]
	}
	if m := boolEqRe.FindStringSubmatch(expr); m != nil {
		want := m[2] == "true"
		v := lookup(ctx, m[1])
		if b, ok := v.(bool); ok {
			return b == want
		}
		return stringOf(v) == m[2]
	}
	return Truthy(lookup(ctx, expr))
}

// Supported reports whether expr matches one of the grammar's surface forms.
// Unsupported expressions still evaluate, they just rarely mean what the
// author intended.
func Supported(expr string) bool {
	expr = strings.TrimSpace(expr)
	return strictEqRe.MatchString(expr) ||
		strictNeqRe.MatchString(expr) ||
		boolEqRe.MatchString(expr) ||
		identRe.MatchString(expr)
}

// Truthy is false for nil, false, "" and "false", true for everything else.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != "" && t != "false"
	}
	return true
}

func lookup[V any](ctx map[string]V, key string) any {
	v, ok := ctx[key]
	if !ok {
		return nil
	}
	return any(v)
}

func stringOf(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	}
	return fmt.Sprint(v)
}
