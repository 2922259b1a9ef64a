package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/client/session"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// Register prompts for name, email and password, creates the account and
// signs in with the returned token.
func (a *App) Register(ctx context.Context) error {
	if a.alreadySignedIn() {
		return nil
	}

	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, token, err := a.api.Register(ctx, name, email, string(password))
	if err != nil {
		return a.report(ctx, "Registration", err)
	}

	return a.signIn(ctx, user, token)
}

// Login prompts for credentials and signs in. Every credential failure gets
// the same message from the server.
func (a *App) Login(ctx context.Context) error {
	if a.alreadySignedIn() {
		return nil
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, token, err := a.api.Login(ctx, email, string(password))
	if err != nil {
		return a.report(ctx, "Login", err)
	}

	return a.signIn(ctx, user, token)
}

// Logout forgets the session and the last printed list.
func (a *App) Logout(ctx context.Context) error {
	if err := a.requireAuth(); err != nil {
		return err
	}

	a.shown = nil
	if err := a.state.SignOut(ctx); err != nil {
		return a.report(ctx, "Logout", err)
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) Profile(ctx context.Context) error {
	if err := a.requireAuth(); err != nil {
		return err
	}

	user, err := a.api.Profile(ctx)
	if err != nil {
		return a.report(ctx, "Profile", err)
	}

	fmt.Fprintf(a.out, "Name:    %s\nEmail:   %s\nID:      %s\nJoined:  %s\n",
		user.Name, user.Email, user.ID, user.CreatedAt.Format(dateTimeLayout))
	return nil
}

func (a *App) signIn(ctx context.Context, user *models.User, token string) error {
	if err := a.state.SignIn(ctx, session.Session{User: *user, Token: token}); err != nil {
		return a.report(ctx, "Saving session", err)
	}
	a.shown = nil
	fmt.Fprintf(a.out, "Welcome, %s!\n", user.Name)
	return nil
}

func (a *App) alreadySignedIn() bool {
	if cur := a.state.Current(); cur != nil {
		fmt.Fprintf(a.out, "Already logged in as %s, logout first.\n", cur.User.Email)
		return true
	}
	return false
}
