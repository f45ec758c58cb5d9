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
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	fields taskFields
}

// SetField sets a field flag by name (for testing).
func (c *AddCmd) SetField(name, value string) {
	setField(&c.fields, name, value)
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "taskcli add [--priority <p>] [--status <s>] [--due <date>] [--description <text>] <summary...>"
}
func (c *AddCmd) NeedsService() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	c.fields = taskFields{}
	fs.Var(&c.fields.priority, "priority", "")
	fs.Var(&c.fields.priority, "p", "")
	fs.Var(&c.fields.status, "status", "")
	fs.Var(&c.fields.status, "s", "")
	fs.Var(&c.fields.due, "due", "")
	fs.Var(&c.fields.description, "description", "")
	fs.Var(&c.fields.description, "d", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	summary := strings.Join(args, " ")
	if strings.TrimSpace(summary) == "" {
		fmt.Fprintln(errOut, "error: summary required")
		return exitcode.UserError
	}

	in := service.TaskInput{
		Summary:  summary,
		Priority: service.PriorityNormal,
		Status:   service.StatusReserved,
		DueDate:  defaultDueDate(),
	}
	if err := c.fields.apply(&in); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if err := svc.CreateTask(ctx, in); err != nil {
		return reportBackendError(errOut, err, "")
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// setField assigns a field flag by its long name.
func setField(f *taskFields, name, value string) {
	switch name {
	case "summary":
		f.summary.Set(value)
	case "priority":
		f.priority.Set(value)
	case "status":
		f.status.Set(value)
	case "due":
		f.due.Set(value)
	case "description":
		f.description.Set(value)
	default:
		panic("unknown field: " + name)
	}
}
