package cli

import (
	"context"
	"strconv"

	"github.com/dmitrijs2005/mindbalance/internal/client/models"
)

func (a *App) edited(e *models.MoodEntry) {
	a.success("Mood updated.")
	a.logger.Debug(context.Background(), "entry updated", "id", e.ID)
}

func (a *App) EditNote(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	note, err := getMultiline(a.reader, "New note", a.out)
	if err != nil {
		return err
	}
	e, err := a.editor.UpdateNote(ctx, args[0], note)
	if err != nil {
		return err
	}
	a.edited(e)
	return nil
}

func (a *App) EditMood(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	e, err := a.editor.UpdateMood(ctx, args[0], normalizeMood(args[1]))
	if err != nil {
		return err
	}
	a.edited(e)
	return nil
}

func (a *App) EditStress(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	stress, err := strconv.Atoi(args[1])
	if err != nil {
		return errUsage
	}
	e, err := a.editor.UpdateStress(ctx, args[0], stress)
	if err != nil {
		return err
	}
	a.edited(e)
	return nil
}

func (a *App) EditPhoto(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	photo, err := readPhoto(args[1], maxPhotoBytes)
	if err != nil {
		return err
	}
	e, err := a.editor.UpdatePhoto(ctx, args[0], photo)
	if err != nil {
		return err
	}
	a.edited(e)
	return nil
}

func (a *App) RemovePhoto(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	e, err := a.editor.RemovePhoto(ctx, args[0])
	if err != nil {
		return err
	}
	a.edited(e)
	return nil
}
