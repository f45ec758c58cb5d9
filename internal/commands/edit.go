package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskcli/internal/config"
	"taskcli/internal/exitcode"
	"taskcli/internal/service"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
// The API replaces every editable field, so the current task is fetched
// first and only the flags given are changed.
type EditCmd struct {
	fields taskFields
}

// SetField sets a field flag by name (for testing).
func (c *EditCmd) SetField(name, value string) {
	setField(&c.fields, name, value)
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return []string{"update"} }
func (c *EditCmd) Synopsis() string  { return "Change fields of a task" }
func (c *EditCmd) Usage() string {
	return "taskcli edit [--summary <text>] [--priority <p>] [--status <s>] [--due <date>] [--description <text>] <ref>"
}
func (c *EditCmd) NeedsService() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.fields = taskFields{}
	fs.Var(&c.fields.summary, "summary", "")
	fs.Var(&c.fields.priority, "priority", "")
	fs.Var(&c.fields.priority, "p", "")
	fs.Var(&c.fields.status, "status", "")
	fs.Var(&c.fields.status, "s", "")
	fs.Var(&c.fields.due, "due", "")
	fs.Var(&c.fields.description, "description", "")
	fs.Var(&c.fields.description, "d", "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if !c.fields.changed() {
		fmt.Fprintln(errOut, "error: nothing to change")
		return exitcode.UserError
	}
	if c.fields.summary.set && strings.TrimSpace(c.fields.summary.value) == "" {
		fmt.Fprintln(errOut, "error: summary required")
		return exitcode.UserError
	}

	return updateTask(ctx, cfg, svc, args, out, errOut, c.fields.apply)
}

// updateTask fetches the task named by args, lets change modify it, and writes it back.
func updateTask(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer, change func(*service.TaskInput) error) int {
	if code, ok := extraArg(errOut, args, 1); !ok {
		return code
	}
	id, code, ok := resolveArg(ctx, svc, args, errOut)
	if !ok {
		return code
	}

	current, err := svc.GetTaskDetails(ctx, id)
	if err != nil {
		return reportBackendError(errOut, err, args[0])
	}

	in := inputFromDetails(current)
	if err := change(&in); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if err := svc.UpdateTask(ctx, id, in); err != nil {
		return reportBackendError(errOut, err, args[0])
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

func inputFromDetails(t service.TaskDetails) service.TaskInput {
	in := service.TaskInput{
		Summary:  t.Summary,
		Priority: t.Priority,
		Status:   t.Status,
		DueDate:  t.DueDate.Time,
	}
	if t.Description != nil {
		desc := *t.Description
		in.Description = &desc
	}
	return in
}
