package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/mindbalance/internal/client/services"
	"github.com/gosuri/uitable"
)

const barWidth = 30

// breathStep is how often the breathing timer redraws.
var breathStep = time.Second

func (a *App) Pro(ctx context.Context, _ []string) error {
	pro, err := a.tier.IsPro(ctx, a.uid())
	if err != nil {
		return err
	}
	if pro {
		a.success("You are on MindBalance Pro: unlimited history, custom themes and priority support.")
		return nil
	}
	a.println(fmt.Sprintf("You are on the free plan (last %d moods). Type 'upgrade' to unlock Pro.", services.FreeHistoryLimit))
	return nil
}

// Upgrade unlocks Pro on this device.
func (a *App) Upgrade(ctx context.Context, _ []string) error {
	pro, err := a.tier.IsPro(ctx, a.uid())
	if err != nil {
		return err
	}
	if pro {
		a.println("You already have Pro.")
		return nil
	}
	if err := a.tier.Upgrade(ctx, a.uid()); err != nil {
		return err
	}
	a.success("Welcome to MindBalance Pro!")
	return nil
}

// ProReset clears the Pro flag of every account on this device.
func (a *App) ProReset(ctx context.Context, _ []string) error {
	n, err := a.tier.ResetAll(ctx)
	if err != nil {
		return err
	}
	a.success(fmt.Sprintf("Cleared %d Pro flag(s).", n))
	return nil
}

// DebugStorage lists the local store keys and the Pro flags found in it.
func (a *App) DebugStorage(ctx context.Context, _ []string) error {
	keys, err := a.store.Keys(ctx, "")
	if err != nil {
		return err
	}
	flags, err := a.tier.ProFlags(ctx)
	if err != nil {
		return err
	}

	a.println(bold(fmt.Sprintf("Storage keys (%d):", len(keys))))
	for _, k := range keys {
		a.println("  " + k)
	}

	tbl := uitable.New()
	tbl.AddRow(bold("USER"), bold("PRO"))
	users := make([]string, 0, len(flags))
	for u := range flags {
		users = append(users, u)
	}
	slices.Sort(users)
	for _, u := range users {
		tbl.AddRow(u, strconv.FormatBool(flags[u]))
	}
	a.println(bold("Pro flags:"))
	a.println(tbl)
	return nil
}

func (a *App) Theme(ctx context.Context, _ []string) error {
	cur, err := a.theme.Current(ctx, a.uid())
	if err != nil {
		return err
	}
	names := make([]string, 0, len(services.Themes))
	for _, t := range services.Themes {
		if t == cur {
			t = bold("[" + t + "]")
		}
		names = append(names, t)
	}
	a.println("Themes: " + strings.Join(names, " "))
	return nil
}

func (a *App) ThemeSet(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	if err := a.theme.Set(ctx, a.uid(), args[0]); err != nil {
		return err
	}
	a.success("Theme set to " + strings.ToLower(args[0]) + ".")
	return nil
}

func (a *App) ThemeReset(ctx context.Context, _ []string) error {
	if err := a.theme.Reset(ctx, a.uid()); err != nil {
		return err
	}
	a.println("Theme reset to " + services.DefaultTheme + ".")
	return nil
}

// Support sends a priority support request. Pro only.
func (a *App) Support(ctx context.Context, _ []string) error {
	pro, err := a.tier.IsPro(ctx, a.uid())
	if err != nil {
		return err
	}
	if !pro {
		return services.ErrProRequired
	}

	subject, err := getSimpleText(a.reader, "Subject", a.out)
	if err != nil {
		return err
	}
	message, err := getMultiline(a.reader, "Describe your issue", a.out)
	if err != nil {
		return err
	}
	ack, err := a.support.Submit(ctx, a.uid(), subject, message)
	if err != nil {
		return err
	}
	a.success(ack)
	return nil
}

func bar(n, max int) string {
	if max == 0 {
		return ""
	}
	return strings.Repeat("█", n*barWidth/max)
}

// Trend draws how often each mood was logged.
func (a *App) Trend(ctx context.Context, _ []string) error {
	v, err := a.currentView(ctx)
	if err != nil {
		return err
	}
	counts := a.insights.MoodTrend(ctx, v.Entries)

	most := 0
	for _, c := range counts {
		most = max(most, c.Count)
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	for _, c := range counts {
		tbl.AddRow(moodLabel(c.Mood), c.Count, bar(c.Count, most))
	}
	a.println(tbl)
	return nil
}

// StressTrend draws the average stress per day. Pro only.
func (a *App) StressTrend(ctx context.Context, _ []string) error {
	v, err := a.currentView(ctx)
	if err != nil {
		return err
	}
	points, err := a.insights.StressTrend(ctx, a.uid(), v.Entries, time.Local)
	if errors.Is(err, services.ErrProRequired) {
		a.warn("Upgrade to Pro to unlock the Stress Trend Chart")
		return nil
	}
	if err != nil {
		return err
	}
	if len(points) == 0 {
		a.println("No moods yet. Use 'add' to log one.")
		return nil
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	for _, p := range points {
		avg := strconv.FormatFloat(p.Average, 'f', 1, 64)
		tbl.AddRow(p.Day.Format(time.DateOnly), avg, bar(int(p.Average*10), 100))
	}
	a.println(tbl)
	return nil
}

// Breathe runs a guided breathing countdown until it completes or ctx
// ends.
func (a *App) Breathe(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	minutes, err := strconv.Atoi(args[0])
	if err != nil {
		return errUsage
	}

	cues := []string{"Breathe in…", "Hold…", "Breathe out…", "Hold…"}
	step := 0
	err = services.Breathe(ctx, minutes, breathStep, func(left time.Duration) {
		cue := cues[(step/4)%len(cues)]
		step++
		fmt.Fprintf(a.out, "\r%s  %s   ", faint(left.Round(time.Second).String()), cue)
	})
	a.println()
	if err != nil {
		return err
	}
	a.success("Session complete. Well done!")
	return nil
}
