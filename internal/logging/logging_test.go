package logging

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestSetup_TextOutput(t *testing.T) {
	var buf bytes.Buffer
	Setup(false, false, &buf)

	Info("test message", zap.String("key", "value"))

	output := buf.String()
	if !strings.Contains(output, "test message") {
		t.Errorf("Expected 'test message' in output, got: %s", output)
	}
	if !strings.Contains(output, "value") {
		t.Errorf("Expected field value in output, got: %s", output)
	}
}

func TestSetup_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	Setup(false, true, &buf)

	Info("test message", zap.String("key", "value"))

	output := buf.String()
	if !strings.Contains(output, `"msg":"test message"`) {
		t.Errorf("Expected JSON message field, got: %s", output)
	}
	if !strings.Contains(output, `"key":"value"`) {
		t.Errorf("Expected JSON key field, got: %s", output)
	}
}

func TestSetup_VerboseMode(t *testing.T) {
	var buf bytes.Buffer
	Setup(true, false, &buf)

	if !Verbose {
		t.Error("Verbose flag should be true after Setup(true, ...)")
	}

	Debug("debug message")

	if !strings.Contains(buf.String(), "debug message") {
		t.Errorf("Debug message should appear in verbose mode, got: %s", buf.String())
	}
}

func TestSetup_NonVerboseMode(t *testing.T) {
	var buf bytes.Buffer
	Setup(false, false, &buf)

	if Verbose {
		t.Error("Verbose flag should be false after Setup(false, ...)")
	}

	Debug("debug message")

	if strings.Contains(buf.String(), "debug message") {
		t.Errorf("Debug message should NOT appear in non-verbose mode, got: %s", buf.String())
	}
}

func TestLevels(t *testing.T) {
	tests := []struct {
		name string
		log  func(string, ...zap.Field)
	}{
		{"info test", Info},
		{"warn test", Warn},
		{"error test", Error},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		Setup(false, false, &buf)
		tt.log(tt.name)
		if !strings.Contains(buf.String(), tt.name) {
			t.Errorf("Expected %q in output, got: %s", tt.name, buf.String())
		}
	}
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	Setup(false, false, &buf)

	logger := With(zap.String("component", "test"))
	logger.Info("with test")

	output := buf.String()
	if !strings.Contains(output, "with test") {
		t.Errorf("Expected 'with test' in output, got: %s", output)
	}
	if !strings.Contains(output, "component") {
		t.Errorf("Expected 'component' in output, got: %s", output)
	}
	if L() != Logger {
		t.Error("L() should return the global logger")
	}
}

func TestSetup_NilWriter(t *testing.T) {
	Setup(false, false, nil)

	if Logger == nil {
		t.Error("Logger should not be nil after Setup with nil writer")
	}
}

func TestUserOutput(t *testing.T) {
	var out, errOut bytes.Buffer
	oldOut, oldErr := Stdout, Stderr
	Stdout, Stderr = &out, &errOut
	t.Cleanup(func() { Stdout, Stderr = oldOut, oldErr })

	UserInfo("loading %s", "api")
	UserSuccess("wrote %d files", 3)
	UserWarning("skipped %s", "SKILL.md")
	UserError("failed: %v", "boom")

	for _, want := range []string{"ℹ", "loading api", "✓", "wrote 3 files"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("stdout missing %q: %s", want, out.String())
		}
	}
	for _, want := range []string{"⚠", "skipped SKILL.md", "✗", "failed: boom"} {
		if !strings.Contains(errOut.String(), want) {
			t.Errorf("stderr missing %q: %s", want, errOut.String())
		}
	}
	if strings.Contains(out.String(), "skipped") {
		t.Error("warnings should go to stderr")
	}
}
