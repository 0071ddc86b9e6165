package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/NomadCrew/feedback-service/pkg/feedbackclient"
	"github.com/spf13/cobra"
)

type ExportOptions struct {
	ViewOptions
	Out string
}

func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{ViewOptions: ViewOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export feedback as CSV",
		Long: `Export the filtered and sorted feedback rows as CSV.

Without --out the file is named feedback_<date>.csv. Use --out - for stdout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, opts)
		},
	}
	opts.bind(cmd)
	cmd.Flags().StringVar(&opts.Out, "out", "", "output file")

	return cmd
}

func runExport(cmd *cobra.Command, opts *ExportOptions) error {
	rows, err := opts.rows(context.Background())
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("nothing to export")
	}

	out := opts.Out
	if out == "" {
		out = fmt.Sprintf("feedback_%s.csv", time.Now().UTC().Format(time.DateOnly))
	}

	if out == "-" {
		if err := feedbackclient.WriteCSV(cmd.OutOrStdout(), rows); err != nil {
			return fmt.Errorf("failed to write CSV: %w", err)
		}
		return nil
	}

	err = writeFile(out, func(w io.Writer) error {
		return feedbackclient.WriteCSV(w, rows)
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d rows to %s\n", len(rows), out)
	return nil
}

// writeFile creates path and fills it with write. The file is removed again
// if writing or closing fails.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if err := write(f); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}
