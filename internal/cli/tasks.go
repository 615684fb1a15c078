package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/sadopc/streakr/internal/tasks"
)

func newAddCmd(opts *options) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "add <text...>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := tasks.ParseCategory(category)
			if err != nil {
				return err
			}
			e, err := openEnv(opts, printer(cmd.OutOrStdout()))
			if err != nil {
				return err
			}
			defer e.close()

			task, err := e.sess.AddTask(strings.Join(args, " "), cat)
			if err != nil {
				return err
			}
			if opts.verbose {
				fmt.Fprintf(cmd.OutOrStdout(), "id %s\n", task.ID)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", string(tasks.Daily), "daily or monthly")
	return cmd
}

func newListCmd(opts *options) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks and the challenge",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cats := tasks.Categories
			if category != "" {
				c, err := tasks.ParseCategory(category)
				if err != nil {
					return err
				}
				cats = []tasks.Category{c}
			}
			e, err := openEnv(opts, nil)
			if err != nil {
				return err
			}
			defer e.close()

			w := cmd.OutOrStdout()
			for _, c := range cats {
				done, total := e.sess.Tasks().Counts(c)
				fmt.Fprintf(w, "%s (%d/%d)\n", c, done, total)
				for _, t := range e.sess.Tasks().AllInCategory(c) {
					mark := " "
					if t.IsCompleted {
						mark = "x"
					}
					fmt.Fprintf(w, "  %s [%s] %s\n", shortID(t.ID), mark, t.Text)
				}
			}
			done, total := e.sess.Challenge().Progress()
			fmt.Fprintf(w, "challenge: %s %d/%d\n", e.sess.Challenge().Status(), done, total)
			if opts.verbose {
				saved, err := e.lastSaved(tasks.SnapshotKey, time.Now())
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "tasks saved %s\n", saved)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "only list this category")
	return cmd
}

func newToggleCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Toggle a task's completion",
		Long:  "Toggle a task's completion. Any unique id prefix works.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(opts, printer(cmd.OutOrStdout()))
			if err != nil {
				return err
			}
			defer e.close()

			t, err := e.sess.Tasks().Lookup(args[0])
			if err != nil {
				return err
			}
			t, err = e.sess.ToggleTask(t.ID)
			if err != nil {
				return err
			}
			if opts.verbose {
				fmt.Fprintf(cmd.OutOrStdout(), "%s completed=%t\n", shortID(t.ID), t.IsCompleted)
			}
			return nil
		},
	}
}

func newRmCmd(opts *options) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(opts, printer(cmd.OutOrStdout()))
			if err != nil {
				return err
			}
			defer e.close()

			t, err := e.sess.Tasks().Lookup(args[0])
			if err != nil {
				return err
			}
			if !yes && e.db.GetBoolSetting("confirm_delete", true) {
				confirmed := false
				err := huh.NewConfirm().
					Title(fmt.Sprintf("Delete %q?", t.Text)).
					Affirmative("Yes").
					Negative("No").
					Value(&confirmed).
					Run()
				if err != nil {
					return err
				}
				if !confirmed {
					return nil
				}
			}
			return e.sess.RemoveTask(t.ID)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
