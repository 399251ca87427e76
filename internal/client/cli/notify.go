package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/mindbalance/internal/client/notifications"
	"github.com/fatih/color"
)

// terminalNotifier prints due notifications above the prompt.
type terminalNotifier struct {
	w io.Writer
}

func (t *terminalNotifier) Notify(n notifications.Notification) {
	fmt.Fprintf(t.w, "\n\a%s %s\n", color.New(color.Bold, color.FgCyan).Sprint("🔔 "+n.Title), n.Body)
}

// Remind schedules the daily evening reminder.
func (a *App) Remind(ctx context.Context, _ []string) error {
	n, err := a.scheduler.ScheduleDailyReminder(ctx, a.uid())
	if err != nil {
		return err
	}
	a.success("Daily reminder set, next at " + n.At.Local().Format(time.DateTime) + ".")
	return nil
}

func (a *App) TestNotify(ctx context.Context, _ []string) error {
	if _, err := a.scheduler.ScheduleTest(ctx, a.uid()); err != nil {
		return err
	}
	a.println("Test notification scheduled in 1 second.")
	return nil
}

func (a *App) PendingNotifications(ctx context.Context, _ []string) error {
	list, err := a.scheduler.Pending(ctx, a.uid())
	if err != nil {
		return err
	}
	if len(list) == 0 {
		a.println("No scheduled notifications.")
		return nil
	}
	a.println(notificationsTable(list))
	return nil
}

// CancelNotify cancels one notification by id, or all of them.
func (a *App) CancelNotify(ctx context.Context, args []string) error {
	if len(args) == 0 || strings.EqualFold(args[0], "all") {
		if err := a.scheduler.CancelAll(ctx, a.uid()); err != nil {
			return err
		}
		a.println("All notifications cancelled.")
		return nil
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return errUsage
	}
	if err := a.scheduler.Cancel(ctx, a.uid(), id); err != nil {
		return err
	}
	a.println(fmt.Sprintf("Notification %d cancelled.", id))
	return nil
}
