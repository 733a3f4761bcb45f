// Package template defines skill templates and loads them from the embedded
// built-in set and from user directories.
//
// A definition file is YAML, TOML, or Markdown with YAML frontmatter. Raw
// data is checked by Validate before it is decoded into a Definition, so a
// malformed file is reported rather than loaded. Stores are layered into a
// Catalog where project definitions replace global ones, which replace
// built-ins.
package template
