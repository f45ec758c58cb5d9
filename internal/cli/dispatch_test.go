package cli_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"taskcli/internal/backend/taskapi"
	"taskcli/internal/cli"
	"taskcli/internal/commands"
	"taskcli/internal/config"
	"taskcli/internal/exitcode"
	"taskcli/internal/service"
	"taskcli/internal/testutil"
)

// testFactory creates a service factory that returns the given FakeService.
func testFactory(svc *testutil.FakeService) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config, log zerolog.Logger) (service.Service, error) {
		return svc, nil
	}
}

// httpFactory creates a service factory that builds the real HTTP client.
func httpFactory() cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config, log zerolog.Logger) (service.Service, error) {
		return taskapi.New(cfg.BaseURL, taskapi.WithTimeout(cfg.Timeout), taskapi.WithLogger(log))
	}
}

// run dispatches args with an empty config directory inserted after the
// command name, since flags stop at the first positional argument.
func run(t *testing.T, d *cli.Dispatcher, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		withConfig := []string{args[0], "--config", t.TempDir()}
		args = append(withConfig, args[1:]...)
	}
	code = d.Run(context.Background(), args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	_, stderr, code := run(t, dispatcher, "unknowncmd")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	_, stderr, code := run(t, dispatcher, "--quiet")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	stdout, stderr, code := run(t, dispatcher, "help")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	for _, want := range []string{"Usage:", "list", "search", "root", "--url"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected help output to contain %q", want)
		}
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	stdout, stderr, code := run(t, dispatcher, "version")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "taskcli 0.1.0\n" {
		t.Errorf("expected 'taskcli 0.1.0\\n', got %q", stdout)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	_, stderr, code := run(t, dispatcher, "help", "--unknown")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -unknown\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagNeedsArgument(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	var outBuf, errBuf bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"list", "--config", t.TempDir(), "--take"}, &outBuf, &errBuf)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: flag needs an argument: -take\n"
	if errBuf.String() != expected {
		t.Errorf("expected %q, got %q", expected, errBuf.String())
	}
}

func TestDispatcher_NoArgsListsTasks(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(service.TaskInput{Summary: "Only task", Priority: service.PriorityLow, Status: service.StatusReserved})
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	var outBuf, errBuf bytes.Buffer
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	code := dispatcher.Run(context.Background(), nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, errBuf.String())
	}
	if !strings.Contains(outBuf.String(), "Only task") {
		t.Errorf("expected task in output, got %q", outBuf.String())
	}
}

func TestDispatcher_InvalidBaseURL(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, httpFactory())

	_, stderr, code := run(t, dispatcher, "list", "--url", "ftp://nowhere")

	if code != exitcode.ConfigError {
		t.Errorf("expected exit code %d, got %d", exitcode.ConfigError, code)
	}
	if !strings.HasPrefix(stderr, "error: config error: invalid base url") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_EndToEnd(t *testing.T) {
	svc := testutil.NewFakeService()
	srv := testutil.NewFakeServer(svc)
	defer srv.Close()

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, httpFactory())
	url := srv.BaseURL()

	steps := []struct {
		args   []string
		stdout string
	}{
		{[]string{"add", "--url", url, "--priority", "high", "--due", "2024-05-01", "Parent"}, "ok\n"},
		{[]string{"create", "--url", url, "--due", "2024-05-02", "Child"}, "ok\n"},
		{[]string{"root", "--url", url, "2", "1"}, "ok\n"},
		{[]string{"list", "--url", url}, "   1  High    Reserved  2024-05-01  Parent\n"},
		{[]string{"done", "--url", url, "1"}, "ok\n"},
		{[]string{"search", "--url", url, "child"}, ""},
		{[]string{"rm", "--url", url, "--quiet", "1"}, ""},
		{[]string{"list", "--url", url}, ""},
	}

	for i, step := range steps {
		stdout, stderr, code := run(t, dispatcher, step.args...)
		if code != exitcode.Success {
			t.Fatalf("step %d %v: exit code %d, stderr %q", i, step.args, code, stderr)
		}
		if step.stdout != "" && stdout != step.stdout {
			t.Errorf("step %d %v: expected %q, got %q", i, step.args, step.stdout, stdout)
		}
	}

	logs := svc.Logs()
	var actions []service.Action
	for _, l := range logs {
		actions = append(actions, l.Action)
	}
	want := []service.Action{
		service.ActionCreate, service.ActionCreate, service.ActionRootChanged,
		service.ActionUpdate, service.ActionDelete,
	}
	if len(actions) != len(want) {
		t.Fatalf("expected actions %v, got %v", want, actions)
	}
	for i := range want {
		if actions[i] != want[i] {
			t.Errorf("action %d: expected %s, got %s", i, want[i], actions[i])
		}
	}
}

func TestDispatcher_EndToEndNotFound(t *testing.T) {
	srv := testutil.NewFakeServer(testutil.NewFakeService())
	defer srv.Close()

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, httpFactory())
	id := "6f1c2f0e-8a43-4d6b-9c43-2f1f5c4b7a10"

	_, stderr, code := run(t, dispatcher, "show", "--url", srv.BaseURL(), id)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: task not found: " + id + "\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_BackendErrorKeepsMessage(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListTasksErr = context.DeadlineExceeded
	srv := testutil.NewFakeServer(svc)
	defer srv.Close()

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, httpFactory())

	_, stderr, code := run(t, dispatcher, "list", "--url", srv.BaseURL())

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	expected := `error: backend error: Error: 500 - {"message":"context deadline exceeded","status":"error"}` + "\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_DebugLogsRequests(t *testing.T) {
	srv := testutil.NewFakeServer(testutil.NewFakeService())
	defer srv.Close()

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, httpFactory())

	_, stderr, code := run(t, dispatcher, "list", "--url", srv.BaseURL(), "--debug")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.Contains(stderr, "status=200") || !strings.Contains(stderr, "method=GET") {
		t.Errorf("expected request debug log, got %q", stderr)
	}
}
