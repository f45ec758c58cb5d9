package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"taskcli/internal/exitcode"
	"taskcli/internal/service"
)

// reportRefError prints a task reference parse error.
func reportRefError(errOut io.Writer, err error) int {
	if errors.Is(err, ErrTaskRefRequired) {
		fmt.Fprintln(errOut, "error: task reference required")
	} else {
		fmt.Fprintf(errOut, "error: %v\n", err)
	}
	return exitcode.UserError
}

// reportBackendError classifies a service error for the task named by ref.
// ref may be empty for operations that do not address a single task.
func reportBackendError(errOut io.Writer, err error, ref string) int {
	switch {
	case errors.Is(err, errOutOfRange):
		fmt.Fprintf(errOut, "error: task number out of range: %s\n", ref)
		return exitcode.UserError
	case errors.Is(err, service.ErrNotFound) && ref != "":
		fmt.Fprintf(errOut, "error: task not found: %s\n", ref)
		return exitcode.UserError
	case errors.Is(err, service.ErrInvalidInput):
		fmt.Fprintf(errOut, "error: rejected by server: %v\n", err)
		return exitcode.UserError
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
}

// extraArg reports the first argument past the n accepted ones.
// It prints the error and returns ok false when there is one.
func extraArg(errOut io.Writer, args []string, n int) (code int, ok bool) {
	if len(args) > n {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[n])
		return exitcode.UserError, false
	}
	return exitcode.Success, true
}

// resolveArg parses args[0] as a task reference and resolves it to an ID.
// On failure it prints the error and returns ok false with the exit code.
func resolveArg(ctx context.Context, svc service.Service, args []string, errOut io.Writer) (id string, code int, ok bool) {
	ref, err := ParseTaskRef(args)
	if err != nil {
		return "", reportRefError(errOut, err), false
	}
	id, err = ResolveTaskRef(ctx, svc, ref)
	if err != nil {
		return "", reportBackendError(errOut, err, ref.Raw), false
	}
	return id, exitcode.Success, true
}
