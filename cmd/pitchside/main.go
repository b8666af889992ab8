package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pharaohs/pitchside/internal/tui"
	"github.com/pharaohs/pitchside/internal/tui/styles"
	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pitchside",
		Short: "Terminal client for the football recruiting network",
		Long: `pitchside connects players, scouts, and admins to the recruiting backend.
Run without arguments to open the interactive browser.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context())
		},
	}
	cmd.SetVersionTemplate("pitchside {{.Version}}\n")
	cmd.AddCommand(
		newLoginCmd(),
		newRegisterCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newUploadCmd(),
		newSearchCmd(),
		newRatingCmd(),
		newNotificationsCmd(),
		newTryoutsCmd(),
		newConfigCmd(),
	)
	return cmd
}

// errReported marks a failure already shown to the user as a notice
var errReported = errors.New("reported")

// withApp builds the client for one subcommand and tears it down after
func withApp(fn func(a *app) error) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	stop, reported := a.printNotices(os.Stderr)
	err = fn(a)
	stop()
	if err != nil && reported.Load() {
		a.logger.Debug("command failed", "error", err)
		return errReported
	}
	return err
}

func runTUI(ctx context.Context) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			a.logger.Warn("shutdown", "error", cerr)
		}
	}()

	a.logger.Info("starting pitchside", "version", Version, "server", a.cfg.Server.URL)
	styles.Apply(a.cfg.UI.Theme)

	stopPolling := a.svc.Notifications.StartPolling(ctx, a.cfg.Notifications.PollInterval)
	defer stopPolling()

	model := tui.NewModel(ctx, a.svc, tui.Options{
		PageSize: a.cfg.UI.PageSize,
		Logger:   a.logger,
	})
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	a.logger.Info("starting TUI")
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		a.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	a.logger.Info("shutting down")
	return nil
}
