// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown task, rejected input).
	UserError = 1

	// ConfigError indicates an unreadable config file or invalid base URL.
	ConfigError = 2

	// BackendError indicates an API or network error.
	BackendError = 3
)
