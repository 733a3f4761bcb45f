package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestCLIError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *CLIError
		wantMsg string
	}{
		{
			name:    "without cause",
			err:     New(ExitGeneralError, "something went wrong"),
			wantMsg: "something went wrong",
		},
		{
			name:    "with cause",
			err:     Wrap(ExitGeneralError, "operation failed", fmt.Errorf("underlying error")),
			wantMsg: "operation failed: underlying error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestCLIError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := Wrap(ExitGeneralError, "wrapped", cause)

	if unwrapped := err.Unwrap(); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}
	if unwrapped := New(ExitGeneralError, "no cause").Unwrap(); unwrapped != nil {
		t.Errorf("Unwrap() = %v, want nil", unwrapped)
	}
}

func TestConstructors(t *testing.T) {
	cause := fmt.Errorf("disk full")
	tests := []struct {
		name     string
		err      *CLIError
		wantCode int
		wantMsg  string
	}{
		{"template not found", TemplateNotFound("api"), ExitTemplateNotFound, "template not found: api"},
		{"validation", ValidationError("bad name"), ExitValidationError, "bad name"},
		{"usage", UsageError("expected key=value"), ExitUsageError, "expected key=value"},
		{"config", ConfigError("loading config", cause), ExitConfigError, "loading config: disk full"},
		{"write", WriteError("writing skill", cause), ExitWriteError, "writing skill: disk full"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %d, want %d", tt.err.Code, tt.wantCode)
			}
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"cli error", TemplateNotFound("x"), ExitTemplateNotFound},
		{"wrapped cli error", fmt.Errorf("outer: %w", WriteError("w", nil)), ExitWriteError},
		{"plain error", errors.New("plain"), ExitGeneralError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.want {
				t.Errorf("GetExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
