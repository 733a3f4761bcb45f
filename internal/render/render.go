// Package render turns a template body and a flat string context into text.
//
// Templates support two constructs:
//
//	{{name}}                 replaced by ctx["name"], or "" when absent
//	{{#if expr}}...{{/if}}   kept when expr holds, removed otherwise
//
// Conditional blocks nest to any depth. Expressions use the grammar in
// package expr. After rendering, runs of three or more newlines collapse to
// a single blank line so removed blocks do not leave gaps.
package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/skill-compiler/skillgen/internal/expr"
)

// Context is the flat map consumed by a render call.
type Context map[string]string

var (
	markerRe   = regexp.MustCompile(`\{\{#if\s+([^}]*?)\s*\}\}|\{\{/if\}\}`)
	tokenRe    = regexp.MustCompile(`\{\{\s*([A-Za-z_][\w]*)\s*\}\}`)
	newlinesRe = regexp.MustCompile(`\n{3,}`)
)

// Render resolves conditional blocks, substitutes tokens and normalises
// blank lines. It is pure: the same inputs always produce the same output.
func Render(template string, ctx Context) string {
	out := renderNodes(parse(template), ctx)
	out = Interpolate(out, ctx)
	return newlinesRe.ReplaceAllString(out, "\n\n")
}

// Interpolate substitutes {{name}} tokens only. Conditional markers are left
// untouched.
func Interpolate(template string, ctx Context) string {
	return tokenRe.ReplaceAllStringFunc(template, func(tok string) string {
		name := tokenRe.FindStringSubmatch(tok)[1]
		return ctx[name]
	})
}

// Conditions returns the expression of every {{#if}} marker in template, in
// order of appearance.
func Conditions(template string) []string {
	var out []string
	for _, m := range markerRe.FindAllStringSubmatch(template, -1) {
		if strings.HasPrefix(m[0], "{{#if") {
			out = append(out, m[1])
		}
	}
	return out
}

// NewContext flattens typed answers into a render context. Booleans become
// "true"/"false", string slices are comma-joined and nil becomes "".
func NewContext(values map[string]any) Context {
	ctx := make(Context, len(values))
	for k, v := range values {
		ctx[k] = Stringify(v)
	}
	return ctx
}

// Stringify converts a single answer value to its context form.
func Stringify(v any) string {
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
	case []string:
		return strings.Join(t, ",")
	case []any:
		parts := make([]string, len(t))
		for i, p := range t {
			parts[i] = Stringify(p)
		}
		return strings.Join(parts, ",")
	}
	return fmt.Sprint(v)
}

// Clone returns a shallow copy.
func (c Context) Clone() Context {
	out := make(Context, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

type nodeKind int

const (
	textNode nodeKind = iota
	ifNode
)

type node struct {
	kind     nodeKind
	text     string // literal text, or the raw opening marker for ifNode
	cond     string
	children []*node
}

// parse builds a block tree with an explicit stack. A closing marker with no
// open block is kept as text; blocks still open at the end are unwrapped so
// their opening marker survives as text.
func parse(template string) []*node {
	root := &node{kind: ifNode}
	stack := []*node{root}
	top := func() *node { return stack[len(stack)-1] }

	pos := 0
	for _, loc := range markerRe.FindAllStringSubmatchIndex(template, -1) {
		if loc[0] > pos {
			top().children = append(top().children, &node{kind: textNode, text: template[pos:loc[0]]})
		}
		marker := template[loc[0]:loc[1]]
		if loc[2] >= 0 {
			n := &node{kind: ifNode, text: marker, cond: template[loc[2]:loc[3]]}
			top().children = append(top().children, n)
			stack = append(stack, n)
		} else if len(stack) > 1 {
			stack = stack[:len(stack)-1]
		} else {
			top().children = append(top().children, &node{kind: textNode, text: marker})
		}
		pos = loc[1]
	}
	if pos < len(template) {
		top().children = append(top().children, &node{kind: textNode, text: template[pos:]})
	}

	for len(stack) > 1 {
		open := top()
		stack = stack[:len(stack)-1]
		unclose(top(), open)
	}
	return root.children
}

// unclose replaces an unterminated block in parent with its marker as text
// followed by its children.
func unclose(parent, open *node) {
	for i, c := range parent.children {
		if c != open {
			continue
		}
		repl := append([]*node{{kind: textNode, text: open.text}}, open.children...)
		rest := append(repl, parent.children[i+1:]...)
		parent.children = append(parent.children[:i], rest...)
		return
	}
}

func renderNodes(nodes []*node, ctx Context) string {
	var b strings.Builder
	for _, n := range nodes {
		switch n.kind {
		case textNode:
			b.WriteString(n.text)
		case ifNode:
			if expr.Evaluate(n.cond, ctx) {
				b.WriteString(renderNodes(n.children, ctx))
			}
		}
	}
	return b.String()
}
