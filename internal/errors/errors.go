package errors

import (
	"errors"
	"fmt"
)

// Exit codes for skillgen
const (
	ExitSuccess          = 0
	ExitGeneralError     = 1
	ExitUsageError       = 2
	ExitTemplateNotFound = 3
	ExitValidationError  = 4
	ExitConfigError      = 6
	ExitWriteError       = 7
)

// CLIError is the base error type for skillgen commands.
type CLIError struct {
	Code    int
	Message string
	Cause   error
}

func (e *CLIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error
func (e *CLIError) ExitCode() int {
	return e.Code
}

// New creates a new CLIError
func New(code int, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// Wrap wraps an existing error with a CLIError
func Wrap(code int, message string, cause error) *CLIError {
	return &CLIError{Code: code, Message: message, Cause: cause}
}

// TemplateNotFound returns an error for an unknown template id
func TemplateNotFound(id string) *CLIError {
	return New(ExitTemplateNotFound, fmt.Sprintf("template not found: %s", id))
}

// ValidationError returns an error for invalid input or templates
func ValidationError(message string) *CLIError {
	return New(ExitValidationError, message)
}

// UsageError returns an error for malformed command-line input
func UsageError(message string) *CLIError {
	return New(ExitUsageError, message)
}

// ConfigError returns an error for configuration issues
func ConfigError(message string, cause error) *CLIError {
	return Wrap(ExitConfigError, message, cause)
}

// WriteError returns an error for failures writing generated files
func WriteError(message string, cause error) *CLIError {
	return Wrap(ExitWriteError, message, cause)
}

// GetExitCode extracts the exit code from an error
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr.ExitCode()
	}
	return ExitGeneralError
}
