package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/mindbalance/internal/client/client"
	"github.com/dmitrijs2005/mindbalance/internal/client/models"
	"github.com/dmitrijs2005/mindbalance/internal/client/notifications"
	"github.com/dmitrijs2005/mindbalance/internal/client/services"
	"github.com/dmitrijs2005/mindbalance/internal/common"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
)

var (
	bold   = color.New(color.Bold).SprintFunc()
	faint  = color.New(color.Faint).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
)

var moodColors = map[string]*color.Color{
	common.MoodHappy: color.New(color.FgYellow),
	common.MoodSad:   color.New(color.FgBlue),
	common.MoodAngry: color.New(color.FgRed),
	common.MoodCalm:  color.New(color.FgGreen),
	common.MoodTired: color.New(color.FgMagenta),
}

func moodLabel(m string) string {
	if c, ok := moodColors[m]; ok {
		return c.Sprint(m)
	}
	return m
}

const noteWidth = 40

// syncWriter serializes output from the REPL and background goroutines.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (a *App) println(v ...any) {
	fmt.Fprintln(a.out, v...)
}

func (a *App) printf(format string, v ...any) {
	fmt.Fprintf(a.out, format, v...)
}

func (a *App) success(msg string) { a.println(green(msg)) }
func (a *App) warn(msg string)    { a.println(yellow(msg)) }

// printError turns service errors into messages for the user.
func (a *App) printError(err error) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		a.warn(ve.Message)
	case errors.Is(err, services.ErrProRequired):
		a.warn("Upgrade to Pro to unlock this feature.")
	case errors.Is(err, services.ErrNotSynced):
		a.warn("This mood has not reached the server yet. Try again once it is synced.")
	case errors.Is(err, services.ErrUnknownTheme):
		a.warn("Unknown theme. Choose one of: " + strings.Join(services.Themes, ", "))
	case errors.Is(err, services.ErrSweepRunning):
		a.warn("A sync is already running.")
	case errors.Is(err, client.ErrUnavailable):
		a.warn("The server is unreachable. Try again when you are online.")
	case errors.Is(err, client.ErrLocalDataNotAvailable):
		a.warn("No offline data for this account. Log in once while online.")
	case errors.Is(err, client.ErrUnauthorized):
		a.println(red("Wrong email or password, or your session has expired."))
	case errors.Is(err, common.ErrorNotFound):
		a.println(red("Not found."))
	default:
		a.println(red("Error: " + err.Error()))
	}
}

func shorten(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func entryStatus(e models.MoodEntry) string {
	if e.Pending {
		return yellow("pending")
	}
	return faint("synced")
}

func entriesTable(list []models.MoodEntry) *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold("ID"), bold("DATE"), bold("MOOD"), bold("STRESS"), bold("NOTE"), bold("PHOTO"), bold("STATUS"))
	for _, e := range list {
		photo := ""
		if e.HasPhoto() {
			photo = "yes"
		}
		tbl.AddRow(e.ID, e.CreatedAt.Local().Format("2006-01-02 15:04"), moodLabel(e.Mood), fmt.Sprintf("%d/10", e.Stress), shorten(e.Note, noteWidth), photo, entryStatus(e))
	}
	return tbl
}

func (a *App) printEntries(list []models.MoodEntry) {
	if len(list) == 0 {
		a.println("No moods yet. Use 'add' to log one.")
		return
	}
	a.println(entriesTable(list))
}

func (a *App) printView(v services.View, shown []models.MoodEntry) {
	a.printEntries(shown)
	if v.Limited {
		total := v.Total
		if total < 0 {
			total = int64(len(v.Entries))
		}
		a.println(faint(fmt.Sprintf("%d total, showing first %d. Upgrade to Pro for unlimited history.", total, v.Limit)))
	}
	if v.Pending > 0 {
		a.println(faint(fmt.Sprintf("%d mood(s) waiting to sync.", v.Pending)))
	}
}

func notificationsTable(list []notifications.Notification) *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold("ID"), bold("WHEN"), bold("REPEAT"), bold("TITLE"))
	for _, n := range list {
		repeat := "once"
		if n.Repeat == notifications.RepeatDaily {
			repeat = "daily"
		}
		tbl.AddRow(n.ID, n.At.Local().Format(time.DateTime), repeat, n.Title)
	}
	return tbl
}
