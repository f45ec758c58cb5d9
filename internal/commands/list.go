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

// DefaultTake is the page size used by list and logs.
const DefaultTake = 20

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
type ListCmd struct {
	take       int
	token      string
	orderBy    string
	descending bool
}

// SetQuery sets the page selection (for testing).
func (c *ListCmd) SetQuery(q service.TaskQuery) {
	c.take = q.Take
	c.token = q.ContinuationToken
	c.orderBy = q.OrderBy
	c.descending = q.Descending
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List root tasks" }
func (c *ListCmd) Usage() string {
	return "taskcli list [--take <n>] [--token <t>] [--order-by <field>] [--desc]"
}
func (c *ListCmd) NeedsService() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.take, "take", DefaultTake, "")
	fs.StringVar(&c.token, "token", "0", "")
	fs.StringVar(&c.orderBy, "order-by", DefaultOrderBy, "")
	fs.BoolVar(&c.descending, "desc", false, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if code, ok := extraArg(errOut, args, 0); !ok {
		return code
	}
	if c.take < 1 {
		fmt.Fprintf(errOut, "error: invalid page size: %d\n", c.take)
		return exitcode.UserError
	}

	q := service.TaskQuery{
		Take:              c.take,
		ContinuationToken: c.token,
		OrderBy:           c.orderBy,
		Descending:        c.descending,
	}
	if q.ContinuationToken == "" {
		q.ContinuationToken = "0"
	}
	if q.OrderBy == "" {
		q.OrderBy = DefaultOrderBy
	}

	page, err := svc.ListTasks(ctx, q)
	if err != nil {
		return reportBackendError(errOut, err, "")
	}

	if len(page.Entities) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}

	// Numbers are only valid references on the listing ResolveTaskRef sees.
	numbered := q.ContinuationToken == "0" && q.OrderBy == DefaultOrderBy && !q.Descending
	for i, task := range page.Entities {
		if numbered {
			output.FormatTask(out, i+1, task)
		} else {
			output.FormatTaskID(out, task)
		}
	}
	if len(page.Entities) == q.Take && page.ContinuationToken != "" && !cfg.Quiet {
		output.FormatNextToken(out, page.ContinuationToken)
	}
	return exitcode.Success
}
