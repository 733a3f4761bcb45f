package template

import (
	"fmt"
	"sync"
)

// VariableResolver computes extra render variables from the answers. It is
// the extension point for templates that need more than string
// interpolation.
type VariableResolver interface {
	ResolveVariables(answers map[string]any) map[string]string
}

// ResolverFunc adapts a function to VariableResolver.
type ResolverFunc func(answers map[string]any) map[string]string

// ResolveVariables calls f.
func (f ResolverFunc) ResolveVariables(answers map[string]any) map[string]string {
	return f(answers)
}

// ResolverRegistry maps template ids to their resolvers. Registration is
// explicit; the loader attaches whatever is registered for a definition's
// id when it loads the file.
type ResolverRegistry struct {
	mu        sync.RWMutex
	resolvers map[string][]VariableResolver
}

// NewResolverRegistry returns an empty registry.
func NewResolverRegistry() *ResolverRegistry {
	return &ResolverRegistry{resolvers: make(map[string][]VariableResolver)}
}

// Register adds r for templateID. Resolvers run in registration order.
func (reg *ResolverRegistry) Register(templateID string, r VariableResolver) error {
	if templateID == "" {
		return fmt.Errorf("resolver registration needs a template id")
	}
	if r == nil {
		return fmt.Errorf("resolver for %s is nil", templateID)
	}
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.resolvers[templateID] = append(reg.resolvers[templateID], r)
	return nil
}

// Resolvers returns a copy of the resolvers registered for templateID.
func (reg *ResolverRegistry) Resolvers(templateID string) []VariableResolver {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	rs := reg.resolvers[templateID]
	if len(rs) == 0 {
		return nil
	}
	out := make([]VariableResolver, len(rs))
	copy(out, rs)
	return out
}
