package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool

	calls  []string
	args   map[string][]string
	errs   map[string]error
	errOut []error
}

func (f *fakeExec) isLoggedIn() bool     { return f.loggedIn }
func (f *fakeExec) printError(err error) { f.errOut = append(f.errOut, err) }

func (f *fakeExec) rec(name string, args []string) error {
	f.calls = append(f.calls, name)
	if f.args == nil {
		f.args = map[string][]string{}
	}
	f.args[name] = args
	return f.errs[name]
}

func (f *fakeExec) Register(_ context.Context, a []string) error { return f.rec("register", a) }
func (f *fakeExec) Login(_ context.Context, a []string) error {
	f.loggedIn = true
	return f.rec("login", a)
}
func (f *fakeExec) Logout(_ context.Context, a []string) error {
	f.loggedIn = false
	return f.rec("logout", a)
}
func (f *fakeExec) Profile(_ context.Context, a []string) error     { return f.rec("profile", a) }
func (f *fakeExec) Add(_ context.Context, a []string) error         { return f.rec("add", a) }
func (f *fakeExec) List(_ context.Context, a []string) error        { return f.rec("list", a) }
func (f *fakeExec) Search(_ context.Context, a []string) error      { return f.rec("search", a) }
func (f *fakeExec) Filter(_ context.Context, a []string) error      { return f.rec("filter", a) }
func (f *fakeExec) Count(_ context.Context, a []string) error       { return f.rec("count", a) }
func (f *fakeExec) Delete(_ context.Context, a []string) error      { return f.rec("delete", a) }
func (f *fakeExec) Sync(_ context.Context, a []string) error        { return f.rec("sync", a) }
func (f *fakeExec) EditNote(_ context.Context, a []string) error    { return f.rec("edit-note", a) }
func (f *fakeExec) EditMood(_ context.Context, a []string) error    { return f.rec("edit-mood", a) }
func (f *fakeExec) EditStress(_ context.Context, a []string) error  { return f.rec("edit-stress", a) }
func (f *fakeExec) EditPhoto(_ context.Context, a []string) error   { return f.rec("edit-photo", a) }
func (f *fakeExec) RemovePhoto(_ context.Context, a []string) error { return f.rec("remove-photo", a) }
func (f *fakeExec) Pro(_ context.Context, a []string) error         { return f.rec("pro", a) }
func (f *fakeExec) Upgrade(_ context.Context, a []string) error     { return f.rec("upgrade", a) }
func (f *fakeExec) ProReset(_ context.Context, a []string) error    { return f.rec("pro-reset", a) }
func (f *fakeExec) Theme(_ context.Context, a []string) error       { return f.rec("theme", a) }
func (f *fakeExec) ThemeSet(_ context.Context, a []string) error    { return f.rec("theme-set", a) }
func (f *fakeExec) ThemeReset(_ context.Context, a []string) error  { return f.rec("theme-reset", a) }
func (f *fakeExec) Support(_ context.Context, a []string) error     { return f.rec("support", a) }
func (f *fakeExec) Trend(_ context.Context, a []string) error       { return f.rec("trend", a) }
func (f *fakeExec) StressTrend(_ context.Context, a []string) error { return f.rec("stress-trend", a) }
func (f *fakeExec) Breathe(_ context.Context, a []string) error     { return f.rec("breathe", a) }
func (f *fakeExec) Remind(_ context.Context, a []string) error      { return f.rec("remind", a) }
func (f *fakeExec) TestNotify(_ context.Context, a []string) error  { return f.rec("test-notify", a) }
func (f *fakeExec) PendingNotifications(_ context.Context, a []string) error {
	return f.rec("pending", a)
}
func (f *fakeExec) DebugStorage(_ context.Context, a []string) error {
	return f.rec("debug-storage", a)
}
func (f *fakeExec) CancelNotify(_ context.Context, a []string) error { return f.rec("cancel-notify", a) }

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var out []string
	orig := printlnFn
	printlnFn = func(v ...any) (int, error) {
		out = append(out, strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &out
}

func run(exec execIface, lines ...string) {
	r := bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	runREPL(context.Background(), exec, func() string { return "status" }, r)
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	out := captureOutput(t)

	exec := &fakeExec{}
	run(exec,
		"help",
		"add",
		"login",
		"help",
		"add",
		"list",
		"search rainy day",
		"edit-stress e1 7",
		"sync",
		"foobar",
		"exit",
		"list",
	)

	assert.Equal(t, []string{"login", "add", "list", "search", "edit-stress", "sync"}, exec.calls)
	assert.Equal(t, []string{"rainy", "day"}, exec.args["search"])
	assert.Equal(t, []string{"e1", "7"}, exec.args["edit-stress"])

	joined := strings.Join(*out, "\n")
	assert.Contains(t, joined, "Please log in first.")
	assert.Contains(t, joined, "Unknown command: foobar")
	assert.Contains(t, joined, "Bye!")
	assert.Contains(t, joined, "mb status > ")
}

func TestRunREPL_HelpDependsOnLogin(t *testing.T) {
	out := captureOutput(t)

	run(&fakeExec{}, "help")
	require.NotEmpty(t, *out)
	guest := (*out)[1]
	assert.Contains(t, guest, "login")
	assert.Contains(t, guest, "register")
	assert.NotContains(t, guest, "delete")

	*out = nil
	run(&fakeExec{loggedIn: true}, "help")
	user := (*out)[1]
	assert.Contains(t, user, "delete <id>")
	assert.Contains(t, user, "breathe <1|3|5|7>")
	assert.NotContains(t, user, "register")
}

func TestRunREPL_ErrorsAndUsage(t *testing.T) {
	out := captureOutput(t)

	boom := errors.New("boom")
	exec := &fakeExec{loggedIn: true, errs: map[string]error{"delete": errUsage, "count": boom}}
	run(exec, "delete", "count", "quit")

	assert.Contains(t, *out, "Usage: delete <id>")
	assert.Equal(t, []error{boom}, exec.errOut)
}

func TestRunREPL_EOFWithoutNewline(t *testing.T) {
	captureOutput(t)

	exec := &fakeExec{loggedIn: true}
	r := bufio.NewReader(strings.NewReader("list"))
	runREPL(context.Background(), exec, func() string { return "" }, r)
	assert.Equal(t, []string{"list"}, exec.calls)
}

func TestRunREPL_StopsOnCancelledContext(t *testing.T) {
	captureOutput(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	exec := &fakeExec{loggedIn: true}
	runREPL(ctx, exec, func() string { return "" }, bufio.NewReader(strings.NewReader("list\n")))
	assert.Empty(t, exec.calls)
}

func TestCommands_AllHaveUsage(t *testing.T) {
	for name, c := range commands(&fakeExec{}) {
		if name == "l" {
			continue
		}
		assert.True(t, strings.HasPrefix(c.usage, name), name)
	}
}
