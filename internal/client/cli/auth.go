package cli

import (
	"context"
	"time"

	"github.com/dmitrijs2005/mindbalance/internal/common"
	"github.com/gosuri/uitable"
)

// getSimpleText, getPassword, getMultiline and getInt are indirections
// used to facilitate testing. They point to interactive input helpers and
// can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
	getInt        = GetInt
)

// Register prompts for an email and password and creates the account on
// the server. The password is wiped before returning.
func (a *App) Register(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.auth.Register(ctx, email, password); err != nil {
		return err
	}

	a.success("Account created! You can now log in.")
	return nil
}

// Login prompts for credentials. The server is tried first; when it cannot
// be reached the offline credentials from the last online login are used.
func (a *App) Login(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	a.stopSession()

	id, err := a.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}

	if id.Offline {
		a.setMode(ModeOffline)
		a.warn("Signed in offline. Changes will sync when the server is back.")
	} else {
		a.setMode(ModeOnline)
		a.success("Login successful")
	}
	a.logger.Info(ctx, "signed in", "user_id", id.UserID, "offline", id.Offline)

	a.startSession(ctx)
	return nil
}

// Logout ends the session. Cached moods stay on the device.
func (a *App) Logout(ctx context.Context, _ []string) error {
	a.stopSession()
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	a.println("Logged out.")
	return nil
}

// Profile shows the server-side profile plus local tier and theme.
func (a *App) Profile(ctx context.Context, _ []string) error {
	p, err := a.auth.Profile(ctx)
	if err != nil {
		return err
	}
	pro, err := a.tier.IsPro(ctx, a.uid())
	if err != nil {
		return err
	}
	theme, err := a.theme.Current(ctx, a.uid())
	if err != nil {
		return err
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold("Email:"), p.Email)
	tbl.AddRow(bold("User ID:"), p.UserID)
	tbl.AddRow(bold("Member since:"), p.CreatedAt.Local().Format(time.DateOnly))
	if p.LastLogin != nil {
		tbl.AddRow(bold("Last login:"), p.LastLogin.Local().Format(time.DateTime))
	}
	tbl.AddRow(bold("Plan:"), planName(pro))
	tbl.AddRow(bold("Theme:"), theme)
	a.println(tbl)
	return nil
}

func planName(pro bool) string {
	if pro {
		return "Pro"
	}
	return "Free"
}
