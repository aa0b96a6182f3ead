package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// stubExec records which commands the REPL dispatched.
type stubExec struct {
	loggedIn bool
	calls    []string
}

func (s *stubExec) isLoggedIn() bool { return s.loggedIn }

func (s *stubExec) call(name string) error {
	s.calls = append(s.calls, name)
	return nil
}

func (s *stubExec) Register(ctx context.Context) error { return s.call("register") }

func (s *stubExec) Login(ctx context.Context) error { return s.call("login") }

func (s *stubExec) Write(ctx context.Context) error { return s.call("write") }

func (s *stubExec) Submit(ctx context.Context) error { return s.call("submit") }

func (s *stubExec) Show(ctx context.Context, args []string) error {
	return s.call("show " + strings.Join(args, " "))
}

func (s *stubExec) Month(ctx context.Context, args []string) error { return s.call("month") }

func (s *stubExec) Delete(ctx context.Context, args []string) error { return s.call("delete") }

func (s *stubExec) Sync(ctx context.Context) error { return s.call("sync") }

func (s *stubExec) Backup(ctx context.Context) error { return s.call("backup") }

func (s *stubExec) Logout(ctx context.Context) error { return s.call("logout") }

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	orig := printlnFn
	t.Cleanup(func() { printlnFn = orig })

	var lines []string
	printlnFn = func(a ...any) (int, error) {
		for _, v := range a {
			if s, ok := v.(string); ok {
				lines = append(lines, s)
			}
		}
		return 0, nil
	}
	return &lines
}

func runWith(t *testing.T, exec *stubExec, input string) []string {
	t.Helper()
	lines := captureOutput(t)
	scanner := bufio.NewScanner(strings.NewReader(input))
	runREPL(context.Background(), exec, func() string { return "(test)" }, scanner)
	return *lines
}

func TestREPL_DispatchesCommands(t *testing.T) {
	exec := &stubExec{loggedIn: true}
	runWith(t, exec, "write\nsubmit\nshow 2026-01-15\nsync\nexit\n")

	assert.Equal(t, []string{"write", "submit", "show 2026-01-15", "sync"}, exec.calls)
}

func TestREPL_UnknownCommand(t *testing.T) {
	exec := &stubExec{}
	out := runWith(t, exec, "frobnicate\nexit\n")

	assert.Empty(t, exec.calls)
	found := false
	for _, line := range out {
		if strings.Contains(line, "Unknown command: frobnicate") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestREPL_HelpDependsOnLoginState(t *testing.T) {
	out := runWith(t, &stubExec{loggedIn: false}, "help\nexit\n")
	joined := strings.Join(out, "\n")
	assert.Contains(t, joined, "register, login")
	assert.NotContains(t, joined, "backup")

	out = runWith(t, &stubExec{loggedIn: true}, "help\nexit\n")
	assert.Contains(t, strings.Join(out, "\n"), "backup")
}

func TestREPL_ExitsOnEOF(t *testing.T) {
	exec := &stubExec{}
	runWith(t, exec, "login\n")
	assert.Equal(t, []string{"login"}, exec.calls)
}

func TestREPL_BlankLinesIgnored(t *testing.T) {
	exec := &stubExec{}
	runWith(t, exec, "\n\n   \nexit\n")
	assert.Empty(t, exec.calls)
}
