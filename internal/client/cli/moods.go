package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/mindbalance/internal/client/services"
	"github.com/dmitrijs2005/mindbalance/internal/common"
	"github.com/dmitrijs2005/mindbalance/internal/filex"
)

const maxPhotoBytes = 10 << 20

// readPhoto is a test seam for filex.ReadPhoto.
var readPhoto = filex.ReadPhoto

// Add asks for a mood, a note, a stress level and an optional photo path and
// saves the entry. The result message tells whether it reached the server.
func (a *App) Add(ctx context.Context, _ []string) error {
	mood, err := getSimpleText(a.reader, "How do you feel? ("+strings.Join(common.Moods, ", ")+")", a.out)
	if err != nil {
		return err
	}
	d := services.Draft{Mood: normalizeMood(mood)}
	if err := services.ValidateMood(d.Mood); err != nil {
		return err
	}

	if d.Note, err = getMultiline(a.reader, "What's on your mind?", a.out); err != nil {
		return err
	}
	if err := services.ValidateNote(d.Note); err != nil {
		return err
	}

	if d.Stress, err = getInt(a.reader, "Stress level (1-10)", a.out); err != nil {
		return err
	}
	if err := services.ValidateStress(d.Stress); err != nil {
		return err
	}

	path, err := getSimpleText(a.reader, "Photo path (Enter to skip)", a.out)
	if err != nil {
		return err
	}
	if path != "" {
		if d.Photo, err = readPhoto(path, maxPhotoBytes); err != nil {
			a.warn("Photo skipped: " + err.Error())
		}
	}

	res, err := a.writer.Save(ctx, a.uid(), d)
	if err != nil {
		return err
	}

	switch res.Status {
	case services.StatusSaved, services.StatusSavedWithPhoto:
		a.success(res.Message)
	case services.StatusQueued:
		a.warn(res.Message)
	default:
		a.println(red(res.Message))
	}
	return nil
}

// normalizeMood maps "happy" or "HAPPY" to the canonical label.
func normalizeMood(s string) string {
	s = strings.TrimSpace(s)
	for _, m := range common.Moods {
		if strings.EqualFold(m, s) {
			return m
		}
	}
	return s
}

func (a *App) currentView(ctx context.Context) (services.View, error) {
	return a.feed.Seed(ctx, a.uid())
}

// List prints the visible history, newest first.
func (a *App) List(ctx context.Context, _ []string) error {
	v, err := a.currentView(ctx)
	if err != nil {
		return err
	}
	a.printView(v, v.Entries)
	return nil
}

// Search lists entries whose note or mood contains the given text.
func (a *App) Search(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	v, err := a.currentView(ctx)
	if err != nil {
		return err
	}
	a.printEntries(services.Filter(v.Entries, strings.Join(args, " "), services.CategoryAll))
	return nil
}

// Filter lists entries of one mood, or all of them.
func (a *App) Filter(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	category := args[0]
	if !strings.EqualFold(category, services.CategoryAll) {
		category = normalizeMood(category)
		if err := services.ValidateMood(category); err != nil {
			return err
		}
	}
	v, err := a.currentView(ctx)
	if err != nil {
		return err
	}
	a.printEntries(services.Filter(v.Entries, "", category))
	return nil
}

// Count prints the total number of moods on the server.
func (a *App) Count(ctx context.Context, _ []string) error {
	n, err := a.client.CountEntries(ctx)
	if err != nil {
		return err
	}
	v := a.feed.Current()
	a.printf("%d mood(s) on the server, %d shown", n, len(v.Entries))
	if v.Pending > 0 {
		a.printf(", %d waiting to sync", v.Pending)
	}
	a.println()
	return nil
}

// Delete removes an entry. If the server refuses, the history is put back.
func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	if err := a.feed.Delete(ctx, a.uid(), args[0]); err != nil {
		return fmt.Errorf("delete failed, history restored: %w", err)
	}
	a.success("Mood deleted.")
	return nil
}

// Sync sends moods that are still pending.
func (a *App) Sync(ctx context.Context, _ []string) error {
	rep, err := a.reconcile.Sweep(ctx, a.uid())
	if rep.Attempted == 0 && err == nil {
		a.println("Nothing to sync.")
		return nil
	}
	a.printf("Synced %d of %d pending mood(s).\n", rep.Synced, rep.Attempted)
	return err
}
