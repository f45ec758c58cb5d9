package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskcli/internal/config"
	"taskcli/internal/exitcode"
	"taskcli/internal/service"
)

func init() {
	Register(&RootCmd{})
}

// RootCmd implements the root command.
type RootCmd struct {
	clear bool
}

// SetClear sets the --clear flag (for testing).
func (c *RootCmd) SetClear(clear bool) {
	c.clear = clear
}

func (c *RootCmd) Name() string       { return "root" }
func (c *RootCmd) Aliases() []string  { return nil }
func (c *RootCmd) Synopsis() string   { return "Move a task under a root task" }
func (c *RootCmd) Usage() string      { return "taskcli root <ref> <root-ref> | taskcli root --clear <ref>" }
func (c *RootCmd) NeedsService() bool { return true }

func (c *RootCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.clear, "clear", false, "")
}

func (c *RootCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	switch {
	case c.clear && len(args) > 1:
		fmt.Fprintln(errOut, "error: cannot use both --clear and a root reference")
		return exitcode.UserError
	case !c.clear && len(args) == 1:
		fmt.Fprintln(errOut, "error: root task reference required")
		return exitcode.UserError
	}
	if code, ok := extraArg(errOut, args, 2); !ok {
		return code
	}

	// Resolve both references before changing anything. Each numeric
	// reference is looked up with its own listing request.
	id, code, ok := resolveArg(ctx, svc, args, errOut)
	if !ok {
		return code
	}

	var rootID *string
	if !c.clear {
		root, code, ok := resolveArg(ctx, svc, args[1:], errOut)
		if !ok {
			return code
		}
		if root == id {
			fmt.Fprintln(errOut, "error: a task cannot be its own root")
			return exitcode.UserError
		}
		rootID = &root
	}

	if err := svc.SetTaskRoot(ctx, id, rootID); err != nil {
		return reportBackendError(errOut, err, args[0])
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
