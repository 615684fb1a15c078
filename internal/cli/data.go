package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/streakr/internal/export"
	"github.com/sadopc/streakr/internal/importer"
)

func newExportCmd(opts *options) *cobra.Command {
	var (
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export tasks and challenge days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			var write func(path string) error

			e, err := openEnv(opts, nil)
			if err != nil {
				return err
			}
			defer e.close()

			ts := e.sess.Tasks().All()
			state := e.sess.Challenge().State()
			switch format {
			case "csv":
				write = func(p string) error { return export.ToCSV(ts, state, p) }
			case "json":
				write = func(p string) error { return export.ToJSON(ts, state, p) }
			case "md", "markdown":
				format = "md"
				write = func(p string) error { return export.ToMarkdown(ts, state, p) }
			default:
				return fmt.Errorf("unknown format %q (want csv, json or md)", format)
			}

			if out == "" {
				name := fmt.Sprintf("streakr-export-%s.%s", time.Now().Format("2006-01-02"), format)
				out = filepath.Join(e.cfg.ExportDir, name)
			}
			if err := write(out); err != nil {
				return fmt.Errorf("export %s: %w", format, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Exported to", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "csv, json or md")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default <export_dir>/streakr-export-DATE.<format>)")
	return cmd
}

func newImportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Add tasks from a YAML file",
		Long: `Add tasks from a YAML file, or stdin when the file is "-".

  tasks:
    - text: Drink water
    - text: Pay rent
      category: monthly
      completed: true`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			e, err := openEnv(opts, printer(cmd.OutOrStdout()))
			if err != nil {
				return err
			}
			defer e.close()

			n, err := importer.Import(e.sess, string(data))
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d task(s)\n", n)
			return err
		},
	}
}
