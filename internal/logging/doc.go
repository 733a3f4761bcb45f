// Package logging provides logging utilities for skillgen.
//
// This package provides two categories of output:
//   - Debug logging: Structured logs for debugging (via zap)
//   - User output: Formatted messages for end users
//
// # Debug Logging
//
// Debug logs are written using zap and controlled by verbosity settings:
//
//	logging.Debug("scanning project", zap.String("dir", dir))
//	logging.Warn("template skipped", zap.String("path", path))
//
// Packages that take a *zap.Logger receive logging.L() from the CLI and
// zap.NewNop() in tests.
//
// # User Output
//
// User-facing messages are formatted with styled status indicators:
//
//	logging.UserInfo("Using template %s", id)
//	logging.UserSuccess("Skill %s written to %s", name, dir)
//	logging.UserWarning("%s was edited by hand; not overwritten", path)
//	logging.UserError("Failed to load templates: %v", err)
//
// Output destinations:
//   - UserInfo, UserSuccess: stdout
//   - UserWarning, UserError: stderr
//
// # Status Indicators
//
// User functions prepend status indicators:
//   - ℹ (info)
//   - ✓ (success)
//   - ⚠ (warning)
//   - ✗ (error)
package logging
