// Package cli wires configuration, storage and the session into cobra
// commands. Running streakr with no subcommand opens the TUI.
package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sadopc/streakr/internal/notify"
	"github.com/sadopc/streakr/internal/tui"
)

type options struct {
	configPath string
	dbPath     string
	verbose    bool
}

func newRootCmd(version string) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "streakr",
		Short: "Daily and monthly tasks with an N-day challenge",
		Long: `streakr tracks daily and monthly tasks and an N-day challenge.

Completing every daily task completes the current challenge day. A challenge
must be finished within its window (24h by default) or it resets.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	// Global flags
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/streakr/config.yaml)")
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "database path (overrides db_path)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose output")

	root.AddCommand(
		newAddCmd(opts),
		newListCmd(opts),
		newToggleCmd(opts),
		newRmCmd(opts),
		newChallengeCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
		newWatchCmd(opts),
	)
	return root
}

// Execute runs the root command
func Execute(version string) error {
	if err := newRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func runTUI(opts *options) error {
	events := &notify.Recorder{}
	e, err := openEnv(opts, events)
	if err != nil {
		return err
	}
	defer e.close()

	// Failures here are already in the recorder and show on the first frame.
	e.sess.Resume()

	p := tea.NewProgram(tui.NewApp(e.sess, e.db, events, e.cfg.ExportDir), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
