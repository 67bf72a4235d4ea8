package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/visionaq/internal/client/client"
	"github.com/dmitrijs2005/visionaq/internal/client/services"
	"github.com/dmitrijs2005/visionaq/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for email and password and signs in.
//
// Server rejections are reported by the session manager as notifications;
// only local validation problems are printed here. The password is wiped
// before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	return a.report(a.session.Login(ctx, email, string(password)), "Login failed")
}

// Signup prompts for a display name, email and password and creates an
// account. The password is wiped before returning.
func (a *App) Signup(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter your name", a.out)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Choose a password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	return a.report(a.session.Signup(ctx, name, email, string(password)), "Signup failed")
}

// Logout always succeeds locally.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	return nil
}

// report prints errors that produce no notification of their own.
func (a *App) report(err error, fallback string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, client.ErrValidation):
		fmt.Fprintln(a.out, client.Message(err, fallback))
	case errors.Is(err, services.ErrSuperseded):
		a.log.Debug(context.Background(), "stale auth response dropped")
	}
	return err
}
