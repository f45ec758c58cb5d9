package commands

import (
	"context"
	"flag"
	"io"
	"testing"

	"taskcli/internal/config"
	"taskcli/internal/service"
)

type stubCmd struct {
	name    string
	aliases []string
}

func (c *stubCmd) Name() string                   { return c.name }
func (c *stubCmd) Aliases() []string              { return c.aliases }
func (c *stubCmd) Synopsis() string               { return "" }
func (c *stubCmd) Usage() string                  { return "" }
func (c *stubCmd) NeedsService() bool             { return false }
func (c *stubCmd) RegisterFlags(fs *flag.FlagSet) {}
func (c *stubCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return 0
}

func TestRegistry_FindByAlias(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&stubCmd{name: "rm", aliases: []string{"delete"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cmd, ok := r.Find("delete")
	if !ok || cmd.Name() != "rm" {
		t.Errorf("expected alias to resolve to rm, got %v %v", cmd, ok)
	}
	if len(r.All()) != 1 {
		t.Errorf("expected aliases not to be listed separately, got %d commands", len(r.All()))
	}
}

func TestRegistry_Duplicate(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&stubCmd{name: "list", aliases: []string{"ls"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Register(&stubCmd{name: "ls"}); err == nil {
		t.Error("expected error for name clashing with an alias")
	}
	if err := r.Register(&stubCmd{name: "other", aliases: []string{"list"}}); err == nil {
		t.Error("expected error for alias clashing with a name")
	}
}

func TestDefaultRegistry_HasEveryOperation(t *testing.T) {
	for _, name := range []string{"list", "logs", "show", "search", "root", "add", "create", "edit", "update", "done", "rm", "delete", "help", "version"} {
		if _, ok := DefaultRegistry.Find(name); !ok {
			t.Errorf("expected command %q to be registered", name)
		}
	}
}
