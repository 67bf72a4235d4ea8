package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/visionaq/internal/client/config"
	"github.com/dmitrijs2005/visionaq/internal/client/models"
	"github.com/dmitrijs2005/visionaq/internal/logging"
)

// Set through -ldflags "-X".
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// openApp is a test seam for NewApp.
var openApp = NewApp

// NewRootCommand builds the command tree. Without a subcommand the
// interactive REPL starts.
func NewRootCommand(cfg *config.Config, log logging.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "visionaq",
		Short: "Estimate air quality from photos of the sky",
		Long: `VisionAQ sends a photo of the sky to the analysis service and keeps
a local history of the air quality estimates it gets back.

Run without arguments for the interactive shell.

Quick Start:
  visionaq                             # interactive shell (login, analyze, ...)
  visionaq analyze sky.jpg             # one-shot analysis for the stored session
  visionaq history export --format md  # export the result history`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			return app.Run(cmd.Context())
		},
	}
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	root.AddCommand(
		newWhoamiCommand(cfg, log),
		newAnalyzeCommand(cfg, log),
		newLogoutCommand(cfg, log),
		newHistoryCommand(cfg, log),
		newVersionCommand(),
	)
	return root
}

// oneShot runs fn against a fresh App and prints the notifications it
// produced. With views, navigation performed by fn is rendered too.
func oneShot(ctx context.Context, cfg *config.Config, log logging.Logger, verify, views bool, fn func(*App) error) error {
	app, err := openApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.Close()

	toasts, stop := app.bus.Subscribe(32)
	defer stop()

	if views {
		cancel := app.router.OnChange(app.render)
		defer cancel()
	}
	if verify {
		if v := app.session.Initialize(ctx); v.Outcome == models.OutcomeInvalid {
			fmt.Fprintln(app.out, "Your session has expired, please log in again.")
		}
	}

	runErr := fn(app)

	for {
		select {
		case n, ok := <-toasts:
			if !ok {
				return runErr
			}
			fmt.Fprintln(app.out, renderToast(n))
		default:
			return runErr
		}
	}
}

func newWhoamiCommand(cfg *config.Config, log logging.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return oneShot(cmd.Context(), cfg, log, true, false, func(a *App) error {
				return a.Whoami(cmd.Context())
			})
		},
	}
}

func newAnalyzeCommand(cfg *config.Config, log logging.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <image>",
		Short: "Estimate the AQI of a sky photo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return oneShot(cmd.Context(), cfg, log, true, true, func(a *App) error {
				return a.Analyze(cmd.Context(), args[0])
			})
		},
	}
}

func newLogoutCommand(cfg *config.Config, log logging.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return oneShot(cmd.Context(), cfg, log, false, false, func(a *App) error {
				return a.Logout(cmd.Context())
			})
		},
	}
}

func newHistoryCommand(cfg *config.Config, log logging.Logger) *cobra.Command {
	history := &cobra.Command{
		Use:   "history",
		Short: "Work with the local result history",
	}

	var format, output string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export the result history to a file",
		Long: `Export every stored analysis result, newest first, as json, yaml or md.

Without --output the export is written to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return oneShot(cmd.Context(), cfg, log, false, false, func(a *App) error {
				return a.ExportHistory(cmd.Context(), format, output, cmd.OutOrStdout())
			})
		},
	}
	exportCmd.Flags().StringVarP(&format, "format", "f", "json", "Export format: json, yaml, md")
	exportCmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")

	history.AddCommand(exportCmd)
	return history
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Build version: %s\nBuild date: %s\nBuild commit: %s\n", version, date, commit)
		},
	}
}
