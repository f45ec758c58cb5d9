package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskcli/internal/config"
	"taskcli/internal/exitcode"
	"taskcli/internal/output"
	"taskcli/internal/service"
)

func init() {
	Register(&LogsCmd{})
}

// LogsCmd implements the logs command.
// Without a reference it lists the log of every task.
type LogsCmd struct {
	take       int
	token      string
	descending bool
}

// SetQuery sets the page selection (for testing).
func (c *LogsCmd) SetQuery(q service.LogQuery) {
	c.take = q.Take
	c.token = q.ContinuationToken
	c.descending = q.Descending
}

func (c *LogsCmd) Name() string       { return "logs" }
func (c *LogsCmd) Aliases() []string  { return nil }
func (c *LogsCmd) Synopsis() string   { return "Print the change log" }
func (c *LogsCmd) Usage() string      { return "taskcli logs [--take <n>] [--token <t>] [--desc] [<ref>]" }
func (c *LogsCmd) NeedsService() bool { return true }

func (c *LogsCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.take, "take", DefaultTake, "")
	fs.StringVar(&c.token, "token", "0", "")
	fs.BoolVar(&c.descending, "desc", false, "")
}

func (c *LogsCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if code, ok := extraArg(errOut, args, 1); !ok {
		return code
	}
	if c.take < 1 {
		fmt.Fprintf(errOut, "error: invalid page size: %d\n", c.take)
		return exitcode.UserError
	}

	q := service.LogQuery{Take: c.take, ContinuationToken: c.token, Descending: c.descending}
	if q.ContinuationToken == "" {
		q.ContinuationToken = "0"
	}

	var (
		page service.Page[service.LogEntry]
		err  error
	)
	if len(args) == 0 {
		page, err = svc.ListLogs(ctx, q)
		if err != nil {
			return reportBackendError(errOut, err, "")
		}
	} else {
		id, code, ok := resolveArg(ctx, svc, args, errOut)
		if !ok {
			return code
		}
		page, err = svc.ListTaskLogs(ctx, id, q)
		if err != nil {
			return reportBackendError(errOut, err, args[0])
		}
	}

	if len(page.Entities) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no logs found")
		}
		return exitcode.Success
	}

	for _, entry := range page.Entities {
		output.FormatLogEntry(out, entry)
	}
	if len(page.Entities) == q.Take && page.ContinuationToken != "" && !cfg.Quiet {
		output.FormatNextToken(out, page.ContinuationToken)
	}
	return exitcode.Success
}
