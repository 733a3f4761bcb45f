package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/skill-compiler/skillgen/internal/detect"
	"github.com/skill-compiler/skillgen/internal/errors"
	"github.com/skill-compiler/skillgen/internal/logging"
	"github.com/skill-compiler/skillgen/internal/template"
)

type testEnv struct {
	home    string
	project string
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	tmp := t.TempDir()
	env := &testEnv{
		home:    filepath.Join(tmp, "home"),
		project: filepath.Join(tmp, "project"),
		stdout:  &bytes.Buffer{},
		stderr:  &bytes.Buffer{},
	}
	for _, d := range []string{env.home, env.project} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatalf("Failed to create %s: %v", d, err)
		}
	}
	t.Setenv("HOME", env.home)
	for _, k := range []string{"SKILLGEN_TEMPLATES_DIR", "SKILLGEN_PROJECT_TEMPLATES_DIR", "SKILLGEN_OUT", "SKILLGEN_TEMPLATE"} {
		t.Setenv(k, "")
	}

	oldOut, oldErr := logging.Stdout, logging.Stderr
	logging.Stdout, logging.Stderr = env.stdout, env.stderr
	t.Cleanup(func() {
		logging.Stdout, logging.Stderr = oldOut, oldErr
		logging.Setup(false, false, nil)
	})
	return env
}

func (e *testEnv) writeProjectFile(t *testing.T, rel, content string) {
	t.Helper()
	path := filepath.Join(e.project, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&out)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

const nextPrismaManifest = `{"dependencies": {"next": "14.0.0", "@prisma/client": "5.0.0"}}`

func TestDetect_JSON(t *testing.T) {
	env := setupTestEnv(t)
	env.writeProjectFile(t, "package.json", nextPrismaManifest)

	out, err := env.run(t, "detect", env.project, "--json")
	if err != nil {
		t.Fatalf("detect error: %v", err)
	}

	var r detect.Result
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if r.Type != detect.TypeFullstack || r.Confidence != detect.ConfidenceFullstack {
		t.Errorf("got %s/%v, want fullstack/0.9", r.Type, r.Confidence)
	}
	if r.Answers["database"] != "postgres" {
		t.Errorf("database = %v, want postgres", r.Answers["database"])
	}
}

func TestDetect_Text(t *testing.T) {
	env := setupTestEnv(t)
	env.writeProjectFile(t, "package.json", nextPrismaManifest)

	out, err := env.run(t, "detect", env.project)
	if err != nil {
		t.Fatalf("detect error: %v", err)
	}
	for _, want := range []string{"Type:       fullstack", "framework", "nextjs", "Evidence:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDetect_MissingDir(t *testing.T) {
	env := setupTestEnv(t)
	_, err := env.run(t, "detect", filepath.Join(env.project, "nope"))
	if got := errors.GetExitCode(err); got != errors.ExitValidationError {
		t.Errorf("exit code = %d, want %d", got, errors.ExitValidationError)
	}
}

func TestNew_WritesDetectedTemplate(t *testing.T) {
	env := setupTestEnv(t)
	env.writeProjectFile(t, "package.json", nextPrismaManifest)

	if _, err := env.run(t, "new", "shop-app", "--dir", env.project, "--set", "testing=vitest"); err != nil {
		t.Fatalf("new error: %v", err)
	}

	skillDir := filepath.Join(env.project, ".claude", "skills", "shop-app")
	data, err := os.ReadFile(filepath.Join(skillDir, "SKILL.md"))
	if err != nil {
		t.Fatalf("SKILL.md not written: %v", err)
	}
	for _, want := range []string{"name: shop-app", "nextjs", "tests with vitest"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("SKILL.md missing %q:\n%s", want, data)
		}
	}
	if _, err := os.Stat(filepath.Join(skillDir, ".skillgen-lock.json")); err != nil {
		t.Errorf("lockfile not written: %v", err)
	}
	if !strings.Contains(env.stdout.String(), "Detected fullstack project") {
		t.Errorf("stdout = %q, want detection message", env.stdout.String())
	}

	env.stdout.Reset()
	if _, err := env.run(t, "new", "shop-app", "--dir", env.project, "--set", "testing=vitest"); err != nil {
		t.Fatalf("second new error: %v", err)
	}
	if !strings.Contains(env.stdout.String(), "up to date") {
		t.Errorf("stdout = %q, want up to date on rerun", env.stdout.String())
	}
}

func TestNew_VerboseJSONLogs(t *testing.T) {
	env := setupTestEnv(t)
	env.writeProjectFile(t, "package.json", nextPrismaManifest)

	out, err := env.run(t, "-v", "--json-logs", "new", "shop-app", "--dir", env.project)
	if err != nil {
		t.Fatalf("new error: %v", err)
	}
	if !logging.Verbose {
		t.Error("Verbose should be set by -v")
	}
	for _, want := range []string{`"msg":"wrote"`, `"skill":"shop-app"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s:\n%s", want, out)
		}
	}
}

func TestNew_ProjectTemplateOverridesBuiltin(t *testing.T) {
	env := setupTestEnv(t)
	env.writeProjectFile(t, ".skillgen/templates/basic.yaml", `name: Team basic
description: Our own basic skill.
questions:
  - name: owner
    message: Owning team
    type: input
    default: platform
content:
  SKILL.md: "Owned by {{owner}} ({{name}})"
`)

	if _, err := env.run(t, "new", "team-skill", "--dir", env.project, "--template", "basic"); err != nil {
		t.Fatalf("new error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(env.project, ".claude", "skills", "team-skill", "SKILL.md"))
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); got != "Owned by platform (team-skill)" {
		t.Errorf("SKILL.md = %q", got)
	}
}

func TestNew_OutFlagAndDryRun(t *testing.T) {
	env := setupTestEnv(t)
	out := filepath.Join(env.home, "skills")

	if _, err := env.run(t, "new", "demo", "--dir", env.project, "--out", out, "--dry-run"); err != nil {
		t.Fatalf("new error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "demo")); !os.IsNotExist(err) {
		t.Error("dry run wrote files")
	}
	if !strings.Contains(env.stdout.String(), "would write SKILL.md") {
		t.Errorf("stdout = %q, want dry-run listing", env.stdout.String())
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"bad skill name", []string{"new", "Bad_Name"}, errors.ExitValidationError},
		{"unknown template", []string{"new", "demo", "--template", "nope"}, errors.ExitTemplateNotFound},
		{"malformed set", []string{"new", "demo", "--set", "novalue"}, errors.ExitUsageError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnv(t)
			args := append(tt.args, "--dir", env.project)
			_, err := env.run(t, args...)
			if got := errors.GetExitCode(err); got != tt.want {
				t.Errorf("exit code = %d (err %v), want %d", got, err, tt.want)
			}
		})
	}
}

func TestTemplatesList(t *testing.T) {
	env := setupTestEnv(t)
	env.writeProjectFile(t, ".skillgen/templates/custom.yaml", "name: Custom\ndescription: Mine\ncontent:\n  SKILL.md: hi\n")

	out, err := env.run(t, "templates", "list", "--dir", env.project)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	for _, id := range append([]string{"custom"}, template.BuiltinIDs...) {
		if !strings.Contains(out, id) {
			t.Errorf("list output missing %q:\n%s", id, out)
		}
	}
	if !strings.Contains(out, "project") {
		t.Errorf("list output missing project scope:\n%s", out)
	}
}

func TestTemplatesShow(t *testing.T) {
	env := setupTestEnv(t)

	out, err := env.run(t, "templates", "show", "microservice")
	if err != nil {
		t.Fatalf("show error: %v", err)
	}
	for _, want := range []string{"Microservice (microservice)", "transport", "SKILL.md", "scripts/health-check.sh"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}

	_, err = env.run(t, "templates", "show", "missing")
	if got := errors.GetExitCode(err); got != errors.ExitTemplateNotFound {
		t.Errorf("exit code = %d, want %d", got, errors.ExitTemplateNotFound)
	}
}

func TestTemplatesValidate(t *testing.T) {
	env := setupTestEnv(t)
	env.writeProjectFile(t, "good.yaml", "name: Good\ndescription: ok\ncontent:\n  SKILL.md: hi\n")
	env.writeProjectFile(t, "bad.yaml", "name: Bad\ncontent: {}\n")

	if _, err := env.run(t, "templates", "validate", filepath.Join(env.project, "good.yaml")); err != nil {
		t.Errorf("validate good error: %v", err)
	}

	_, err := env.run(t, "templates", "validate",
		filepath.Join(env.project, "good.yaml"), filepath.Join(env.project, "bad.yaml"))
	if got := errors.GetExitCode(err); got != errors.ExitValidationError {
		t.Errorf("exit code = %d, want %d", got, errors.ExitValidationError)
	}
	if !strings.Contains(env.stderr.String(), "SKILL.md") {
		t.Errorf("stderr = %q, want SKILL.md error", env.stderr.String())
	}
}

func TestConfigCommands(t *testing.T) {
	env := setupTestEnv(t)

	if _, err := env.run(t, "config", "set", "template", "api"); err != nil {
		t.Fatalf("config set error: %v", err)
	}
	out, err := env.run(t, "config", "list")
	if err != nil {
		t.Fatalf("config list error: %v", err)
	}
	if !strings.Contains(out, "template = api") {
		t.Errorf("config list = %q, want template = api", out)
	}

	_, err = env.run(t, "config", "set", "nope", "x")
	if got := errors.GetExitCode(err); got != errors.ExitConfigError {
		t.Errorf("exit code = %d, want %d", got, errors.ExitConfigError)
	}

	if _, err := env.run(t, "config", "reset"); err != nil {
		t.Fatalf("config reset error: %v", err)
	}
	out, _ = env.run(t, "config", "list")
	if strings.Contains(out, "template = api") {
		t.Errorf("config list after reset = %q", out)
	}
}

func TestParseSets(t *testing.T) {
	got, err := parseSets([]string{"docker=true", "ci=false", "database=postgres", "url=a=b"})
	if err != nil {
		t.Fatal(err)
	}
	if got["docker"] != true || got["ci"] != false || got["database"] != "postgres" || got["url"] != "a=b" {
		t.Errorf("parseSets() = %v", got)
	}
}

func TestWatchTemplates(t *testing.T) {
	setupTestEnv(t)
	dir := t.TempDir()
	var logs bytes.Buffer
	logging.Setup(false, false, &logs)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reports := make(chan template.LoadReport, 16)
	done := make(chan error, 1)
	go func() {
		done <- watchTemplates(ctx, []string{dir, filepath.Join(dir, "missing")}, func(r template.LoadReport) bool {
			select {
			case reports <- r:
			default:
			}
			return r.Loaded()
		})
	}()

	path := filepath.Join(dir, "live.yaml")
	body := []byte("name: Live\ndescription: d\ncontent:\n  SKILL.md: hi\n")
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()

	var got template.LoadReport
wait:
	for {
		select {
		case got = <-reports:
			break wait
		case <-tick.C:
			if err := os.WriteFile(path, body, 0o644); err != nil {
				t.Fatal(err)
			}
		case <-deadline:
			t.Fatal("no report within 5s")
		}
	}
	if got.ID != "live" || !got.Loaded() {
		t.Errorf("report = %+v, want loaded live template", got)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("watchTemplates() error: %v", err)
	}
	if !strings.Contains(logs.String(), "reloaded template") {
		t.Errorf("logs = %q, want reload entry", logs.String())
	}
}

func TestWatchTemplates_NothingToWatch(t *testing.T) {
	setupTestEnv(t)
	err := watchTemplates(context.Background(), []string{filepath.Join(t.TempDir(), "none")}, reportLoad)
	if got := errors.GetExitCode(err); got != errors.ExitValidationError {
		t.Errorf("exit code = %d, want %d", got, errors.ExitValidationError)
	}
}
