package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

// printlnFn is a test seam for REPL output. In tests, replace it with a stub.
var printlnFn = fmt.Println

type handler func(ctx context.Context, args []string) error

// execIface is the command surface the REPL dispatches to. The real App
// satisfies it; tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	printError(err error)

	Register(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	Profile(ctx context.Context, args []string) error

	Add(ctx context.Context, args []string) error
	List(ctx context.Context, args []string) error
	Search(ctx context.Context, args []string) error
	Filter(ctx context.Context, args []string) error
	Count(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Sync(ctx context.Context, args []string) error

	EditNote(ctx context.Context, args []string) error
	EditMood(ctx context.Context, args []string) error
	EditStress(ctx context.Context, args []string) error
	EditPhoto(ctx context.Context, args []string) error
	RemovePhoto(ctx context.Context, args []string) error

	Pro(ctx context.Context, args []string) error
	Upgrade(ctx context.Context, args []string) error
	ProReset(ctx context.Context, args []string) error
	DebugStorage(ctx context.Context, args []string) error
	Theme(ctx context.Context, args []string) error
	ThemeSet(ctx context.Context, args []string) error
	ThemeReset(ctx context.Context, args []string) error
	Support(ctx context.Context, args []string) error
	Trend(ctx context.Context, args []string) error
	StressTrend(ctx context.Context, args []string) error
	Breathe(ctx context.Context, args []string) error

	Remind(ctx context.Context, args []string) error
	TestNotify(ctx context.Context, args []string) error
	PendingNotifications(ctx context.Context, args []string) error
	CancelNotify(ctx context.Context, args []string) error
}

type command struct {
	run    handler
	usage  string
	public bool
}

func commands(a execIface) map[string]command {
	return map[string]command{
		"register": {a.Register, "register", true},
		"login":    {a.Login, "login", true},
		"logout":   {a.Logout, "logout", false},
		"profile":  {a.Profile, "profile", false},

		"add":    {a.Add, "add", false},
		"list":   {a.List, "list", false},
		"l":      {a.List, "", false},
		"search": {a.Search, "search <text>", false},
		"filter": {a.Filter, "filter <mood|All>", false},
		"count":  {a.Count, "count", false},
		"delete": {a.Delete, "delete <id>", false},
		"sync":   {a.Sync, "sync", false},

		"edit-note":    {a.EditNote, "edit-note <id>", false},
		"edit-mood":    {a.EditMood, "edit-mood <id> <mood>", false},
		"edit-stress":  {a.EditStress, "edit-stress <id> <1-10>", false},
		"edit-photo":   {a.EditPhoto, "edit-photo <id> <path>", false},
		"remove-photo": {a.RemovePhoto, "remove-photo <id>", false},

		"pro":           {a.Pro, "pro", false},
		"upgrade":       {a.Upgrade, "upgrade", false},
		"pro-reset":     {a.ProReset, "pro-reset", false},
		"debug-storage": {a.DebugStorage, "debug-storage", false},
		"theme":         {a.Theme, "theme", false},
		"theme-set":     {a.ThemeSet, "theme-set <name>", false},
		"theme-reset":   {a.ThemeReset, "theme-reset", false},
		"support":       {a.Support, "support", false},
		"trend":         {a.Trend, "trend", false},
		"stress-trend":  {a.StressTrend, "stress-trend", false},
		"breathe":       {a.Breathe, "breathe <1|3|5|7>", false},

		"remind":        {a.Remind, "remind", false},
		"test-notify":   {a.TestNotify, "test-notify", false},
		"pending":       {a.PendingNotifications, "pending", false},
		"cancel-notify": {a.CancelNotify, "cancel-notify [id|all]", false},
	}
}

func helpText(cmds map[string]command, loggedIn bool) string {
	var names []string
	for _, c := range cmds {
		// signed-in users get the session commands, others get the public ones
		if c.usage == "" || c.public == loggedIn {
			continue
		}
		names = append(names, c.usage)
	}
	sort.Strings(names)
	names = append(names, "help", "exit")
	return "Available commands: " + strings.Join(names, ", ")
}

// errUsage is returned by handlers called with the wrong arguments.
var errUsage = errors.New("usage")

// runREPL reads a line at a time from r, parses the first token as the
// command and dispatches it. Commands other than register and login need a
// signed-in user. The loop exits on EOF or when the user types "exit" or
// "quit".
//
// Handler errors are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, r *bufio.Reader) {
	cmds := commands(a)

	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("mb %s > ", statusFn()))

		line, err := r.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "help":
			printlnFn(helpText(cmds, a.isLoggedIn()))
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		c, ok := cmds[name]
		if !ok {
			printlnFn("Unknown command:", name)
			continue
		}
		if !c.public && !a.isLoggedIn() {
			printlnFn("Please log in first.")
			continue
		}

		if err := c.run(ctx, args); err != nil {
			if errors.Is(err, errUsage) {
				printlnFn("Usage:", c.usage)
				continue
			}
			a.printError(err)
		}
	}
}
