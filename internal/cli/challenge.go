package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/sadopc/streakr/internal/challenge"
)

func newChallengeCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "challenge",
		Short: "Start and inspect the N-day challenge",
	}
	cmd.AddCommand(
		newChallengeStartCmd(opts),
		newChallengeStatusCmd(opts),
		newChallengeCheckCmd(opts),
	)
	return cmd
}

func newChallengeStartCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "start [days]",
		Short: "Start a challenge, replacing any running one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(opts, printer(cmd.OutOrStdout()))
			if err != nil {
				return err
			}
			defer e.close()

			raw := strconv.Itoa(e.db.GetIntSetting("default_days", 7))
			if len(args) == 1 {
				raw = args[0]
			}
			return e.sess.StartChallengeInput(raw)
		},
	}
}

func newChallengeStatusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show challenge progress and deadline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(opts, nil)
			if err != nil {
				return err
			}
			defer e.close()

			tr := e.sess.Challenge()
			now := time.Now()
			done, total := tr.Progress()
			w := cmd.OutOrStdout()

			fmt.Fprintf(w, "status:   %s\n", tr.Status())
			fmt.Fprintf(w, "progress: %d/%d days\n", done, total)
			if st := tr.State(); st.StartTime != nil {
				fmt.Fprintf(w, "started:  %s\n", humanize.RelTime(*st.StartTime, now, "ago", "from now"))
			}
			saved, err := e.lastSaved(challenge.SnapshotKey, now)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "saved:    %s\n", saved)
			if tr.Status() == challenge.Active {
				deadline, _ := tr.Deadline()
				fmt.Fprintf(w, "deadline: %s (%s)\n",
					deadline.Format("2006-01-02 15:04"),
					humanize.RelTime(deadline, now, "ago", "from now"))
			}
			return nil
		},
	}
}

func newChallengeCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Reset the challenge if its window has passed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(opts, printer(cmd.OutOrStdout()))
			if err != nil {
				return err
			}
			defer e.close()

			res, err := e.sess.CheckExpiry()
			if err != nil {
				return err
			}
			if !res.Expired && opts.verbose {
				fmt.Fprintln(cmd.OutOrStdout(), "challenge within its window")
			}
			return nil
		},
	}
}
