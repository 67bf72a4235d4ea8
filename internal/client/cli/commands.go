package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/visionaq/internal/client/client"
	"github.com/dmitrijs2005/visionaq/internal/client/export"
	"github.com/dmitrijs2005/visionaq/internal/client/router"
	"github.com/dmitrijs2005/visionaq/internal/client/services"
	"github.com/dmitrijs2005/visionaq/internal/common"
	"github.com/dmitrijs2005/visionaq/internal/filex"
)

// ErrNotLoggedIn is returned by commands that need a confirmed session.
var ErrNotLoggedIn = errors.New("not logged in")

// Goto navigates to path; the guard decides what is actually shown.
func (a *App) Goto(_ context.Context, path string) error {
	a.router.Navigate(path)
	return nil
}

// Analyze submits the image at path. The result view is opened by the
// analyze flow itself.
func (a *App) Analyze(ctx context.Context, path string) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Please log in first.")
		return ErrNotLoggedIn
	}

	fmt.Fprintln(a.out, mutedStyle.Render("Analyzing "+filepath.Base(path)+"..."))
	_, err := a.analyzer.Analyze(ctx, path)
	if errors.Is(err, client.ErrValidation) {
		fmt.Fprintln(a.out, client.Message(err, "Analysis failed"))
	}
	return err
}

// History prints every stored result, newest first.
func (a *App) History(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Please log in first.")
		return ErrNotLoggedIn
	}

	results, err := a.history.All(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "History is unreadable.")
		return err
	}
	fmt.Fprintln(a.out, historyList(results))
	return nil
}

// Health pings the analysis service and opens the health guide.
func (a *App) Health(ctx context.Context) error {
	a.checkOnline(ctx)
	fmt.Fprintf(a.out, "Analysis service: %s\n", a.currentMode())
	a.router.Navigate(router.PathHealth)
	return nil
}

// Whoami prints the signed-in profile and what the stored token says about
// itself. The token is never printed.
func (a *App) Whoami(ctx context.Context) error {
	st := a.session.State()
	if !st.Authenticated() {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}

	fmt.Fprintf(a.out, "%s <%s>\n", st.User.DisplayName, common.MaskEmail(st.User.Email))
	fmt.Fprintln(a.out, idStyle.Render("id "+st.User.ID))

	token, ok, err := a.session.Token(ctx)
	if err != nil || !ok {
		return err
	}
	if claims, isJWT := services.InspectToken(token); isJWT && !claims.ExpiresAt.IsZero() {
		fmt.Fprintf(a.out, "Session expires %s (in %s)\n",
			claims.ExpiresAt.Local().Format(time.RFC1123),
			time.Until(claims.ExpiresAt).Round(time.Minute))
	}
	return nil
}

// ExportHistory writes the stored history in format to w, or to output when
// it is not empty. A missing extension is added to output.
func (a *App) ExportHistory(ctx context.Context, format, output string, w io.Writer) error {
	exp, err := export.NewExporter(format)
	if err != nil {
		return err
	}

	results, err := a.history.All(ctx)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}

	owner := ""
	if cred, ok, err := a.creds.Load(ctx); err == nil && ok && cred.Profile != nil {
		owner = cred.Profile.Email
	}
	doc := export.NewDocument(owner, results, time.Now())

	if output == "" {
		return exp.Export(doc, w)
	}

	if filepath.Ext(output) == "" {
		output += "." + exp.Extension()
	}
	var buf bytes.Buffer
	if err := exp.Export(doc, &buf); err != nil {
		return fmt.Errorf("export history: %w", err)
	}
	if err := filex.WriteFileAtomic(output, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Fprintf(w, "Exported %d result(s) to %s\n", doc.Count, output)
	return nil
}
