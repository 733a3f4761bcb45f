package template

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuiltinStore_AllValid(t *testing.T) {
	defs, reports, err := (&BuiltinStore{}).Templates(context.Background())
	if err != nil {
		t.Fatalf("Templates() error: %v", err)
	}

	var ids []string
	for _, d := range defs {
		ids = append(ids, d.ID)
		if d.Scope != ScopeBuiltin {
			t.Errorf("%s: Scope = %q, want builtin", d.ID, d.Scope)
		}
		if strings.TrimSpace(d.Content.Skill) == "" {
			t.Errorf("%s: empty SKILL.md", d.ID)
		}
		if !strings.Contains(d.Content.Skill, "name: {{name}}") {
			t.Errorf("%s: SKILL.md lacks name frontmatter", d.ID)
		}
	}
	if diff := cmp.Diff(BuiltinIDs, ids); diff != "" {
		t.Errorf("built-in ids mismatch (-want +got):\n%s", diff)
	}
	for _, r := range reports {
		if len(r.Result.Warnings) != 0 {
			t.Errorf("%s: warnings %v", r.ID, r.Result.Warnings)
		}
	}
}

func TestBuiltinStore_NativePredicates(t *testing.T) {
	c, err := LoadCatalog(context.Background(), &BuiltinStore{})
	if err != nil {
		t.Fatal(err)
	}

	ms, _ := c.Get("microservice")
	broker, ok := ms.Question("brokerUrl")
	if !ok || broker.WhenFunc == nil {
		t.Fatal("microservice brokerUrl should carry a native predicate")
	}
	tests := []struct {
		answers map[string]any
		want    bool
	}{
		{map[string]any{"transport": "kafka"}, true},
		{map[string]any{"transport": "tcp"}, false},
		{map[string]any{}, false},
	}
	for _, tt := range tests {
		if got := broker.Visible(tt.answers); got != tt.want {
			t.Errorf("brokerUrl.Visible(%v) = %v, want %v", tt.answers, got, tt.want)
		}
	}

	api, _ := c.Get("api")
	db, _ := api.Question("database")
	if db.Visible(map[string]any{"usesDatabase": false}) {
		t.Error("api database question visible without a database")
	}
	if !db.Visible(map[string]any{"database": "mongodb"}) {
		t.Error("api database question hidden although detection found one")
	}

	devops, _ := c.Get("devops")
	k8s, _ := devops.Question("kubernetes")
	if k8s.WhenFunc != nil {
		t.Error("devops kubernetes should use its declared when expression")
	}
	if k8s.Visible(map[string]any{"iac": "ansible"}) {
		t.Error("kubernetes question visible for ansible")
	}
}

func TestDefaultResolvers(t *testing.T) {
	reg := DefaultResolvers()
	for _, id := range BuiltinIDs {
		if len(reg.Resolvers(id)) != 1 {
			t.Errorf("Resolvers(%q) = %d, want 1", id, len(reg.Resolvers(id)))
		}
	}

	got := reg.Resolvers("api")[0].ResolveVariables(map[string]any{"name": "payments-api"})
	want := map[string]string{"skillTitle": "Payments Api", "envPrefix": "PAYMENTS_API"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ResolveVariables mismatch (-want +got):\n%s", diff)
	}
}

func TestEnvPrefix(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"my-app", "MY_APP"},
		{"api", "API"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := EnvPrefix(tt.name); got != tt.want {
			t.Errorf("EnvPrefix(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"my-app", "My App"},
		{"a--b", "A B"},
		{"snake_case", "Snake Case"},
		{"é-app", "É App"},
		{"über-app", "Über App"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Title(tt.name); got != tt.want {
			t.Errorf("Title(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
