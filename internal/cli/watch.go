package cli

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sadopc/streakr/internal/scheduler"
)

func newWatchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Expire the challenge in the background until interrupted",
		Long: `Check the challenge every watch_interval and reset it once its window has
passed. The challenge is reloaded before each check so the deadline follows
the latest start. This is for when no TUI is open: the TUI checks expiry on
its own, and writers sharing one database are not reconciled.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.New(cmd.ErrOrStderr(), "streakr: ", log.LstdFlags)
			e, err := openEnv(opts, printer(cmd.OutOrStdout()))
			if err != nil {
				return err
			}
			defer e.close()

			checker, err := startWatch(e, logger, opts.verbose)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()

			checker.Stop()
			return nil
		},
	}
}

// startWatch runs one check up front, since the schedule's first tick is a
// full interval away, then starts the schedule.
func startWatch(e *env, logger *log.Logger, verbose bool) (*scheduler.ExpiryChecker, error) {
	checker := scheduler.NewExpiryChecker(e.sess, e.cfg.WatchInterval, logger, verbose)
	if _, err := checker.Run(); err != nil {
		return nil, fmt.Errorf("first expiry check: %w", err)
	}
	if err := checker.Start(); err != nil {
		return nil, err
	}
	return checker, nil
}
