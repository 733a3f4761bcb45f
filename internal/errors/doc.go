// Package errors defines the error type returned by skillgen commands and
// the process exit code each kind maps to.
//
//	return errors.TemplateNotFound(id)
//	return errors.WriteError("writing skill", err)
//
// main passes the returned error to GetExitCode.
package errors
