package commands

import (
	"context"
	"flag"
	"io"

	"taskcli/internal/config"
	"taskcli/internal/exitcode"
	"taskcli/internal/output"
	"taskcli/internal/service"
)

func init() {
	Register(&ShowCmd{})
}

// ShowCmd implements the show command.
type ShowCmd struct{}

func (c *ShowCmd) Name() string       { return "show" }
func (c *ShowCmd) Aliases() []string  { return nil }
func (c *ShowCmd) Synopsis() string   { return "Print a task with its root and subtasks" }
func (c *ShowCmd) Usage() string      { return "taskcli show <ref>" }
func (c *ShowCmd) NeedsService() bool { return true }

func (c *ShowCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ShowCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if code, ok := extraArg(errOut, args, 1); !ok {
		return code
	}
	id, code, ok := resolveArg(ctx, svc, args, errOut)
	if !ok {
		return code
	}

	task, err := svc.GetTaskDetails(ctx, id)
	if err != nil {
		return reportBackendError(errOut, err, args[0])
	}

	output.FormatTaskDetails(out, task)
	return exitcode.Success
}
