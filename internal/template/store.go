package template

import (
	"context"
	"fmt"
	"sort"
)

// Store is one tier of template definitions.
type Store interface {
	// Templates returns the valid definitions of the tier and a report for
	// every file considered. A missing tier is empty, not an error.
	Templates(ctx context.Context) ([]*Definition, []LoadReport, error)
}

// DirStore loads definitions from a single directory.
type DirStore struct {
	Dir      string
	Scope    Scope
	Registry *ResolverRegistry
}

// Templates implements Store.
func (s *DirStore) Templates(ctx context.Context) ([]*Definition, []LoadReport, error) {
	if s.Dir == "" {
		return nil, nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	defs, reports, err := LoadDir(s.Dir, s.Registry)
	if err != nil {
		return nil, nil, err
	}
	for _, d := range defs {
		d.Scope = s.Scope
	}
	for i := range reports {
		reports[i].Scope = s.Scope
	}
	return defs, reports, nil
}

// MemStore serves a fixed set of definitions.
type MemStore struct {
	Defs  []*Definition
	Scope Scope
}

// Templates implements Store. Definitions without a scope are returned as
// copies carrying the store's scope; s.Defs is never modified.
func (s *MemStore) Templates(context.Context) ([]*Definition, []LoadReport, error) {
	out := make([]*Definition, len(s.Defs))
	for i, d := range s.Defs {
		if d.Scope == "" {
			cp := *d
			cp.Scope = s.Scope
			d = &cp
		}
		out[i] = d
	}
	return out, nil, nil
}

// Catalog is the merged view over several tiers.
type Catalog struct {
	defs    map[string]*Definition
	reports []LoadReport
}

// LoadCatalog loads each tier in order. A definition in a later tier
// replaces any earlier definition with the same id; the two are never
// merged. Nil tiers are skipped.
func LoadCatalog(ctx context.Context, tiers ...Store) (*Catalog, error) {
	c := &Catalog{defs: make(map[string]*Definition)}
	for _, tier := range tiers {
		if tier == nil {
			continue
		}
		defs, reports, err := tier.Templates(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading templates: %w", err)
		}
		c.reports = append(c.reports, reports...)
		for _, d := range defs {
			c.defs[d.ID] = d
		}
	}
	return c, nil
}

// Get returns the effective definition for id.
func (c *Catalog) Get(id string) (*Definition, bool) {
	d, ok := c.defs[id]
	return d, ok
}

// List returns the effective definitions sorted by id.
func (c *Catalog) List() []*Definition {
	out := make([]*Definition, 0, len(c.defs))
	for _, d := range c.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Reports returns the load report of every file across all tiers.
func (c *Catalog) Reports() []LoadReport {
	return c.reports
}

// Layered is the standard three-tier lookup: built-in definitions, then the
// user's global directory, then the project directory.
type Layered struct {
	Builtin Store
	Global  Store
	Project Store
}

// Catalog loads the three tiers with project taking precedence.
func (l Layered) Catalog(ctx context.Context) (*Catalog, error) {
	return LoadCatalog(ctx, l.Builtin, l.Global, l.Project)
}
