package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskcli/internal/config"
	"taskcli/internal/exitcode"
	"taskcli/internal/output"
	"taskcli/internal/service"
)

func init() {
	Register(&SearchCmd{})
}

// SearchCmd implements the search command.
type SearchCmd struct{}

func (c *SearchCmd) Name() string       { return "search" }
func (c *SearchCmd) Aliases() []string  { return []string{"find"} }
func (c *SearchCmd) Synopsis() string   { return "Search task summaries and descriptions" }
func (c *SearchCmd) Usage() string      { return "taskcli search <phrase...>" }
func (c *SearchCmd) NeedsService() bool { return true }

func (c *SearchCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *SearchCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	phrase := strings.TrimSpace(strings.Join(args, " "))
	if phrase == "" {
		fmt.Fprintln(errOut, "error: search phrase required")
		return exitcode.UserError
	}

	page, err := svc.SearchTasks(ctx, phrase)
	if err != nil {
		return reportBackendError(errOut, err, "")
	}

	if len(page.Entities) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}

	for i, r := range page.Entities {
		output.FormatSearchResult(out, i+1, r)
	}
	return exitcode.Success
}
