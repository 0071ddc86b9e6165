// Package cli implements the feedbackctl and feedback-migrate commands.
package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/NomadCrew/feedback-service/pkg/feedbackclient"
	"github.com/NomadCrew/feedback-service/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	APIBase string
	Format  string // "json" | "text"

	// newClient is swapped in tests.
	newClient func(baseURL string) feedbackclient.ClientInterface
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for feedbackctl.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{
		newClient: func(baseURL string) feedbackclient.ClientInterface {
			return feedbackclient.New(baseURL)
		},
	})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:           "feedbackctl",
		Short:         "Submit, list and export feedback",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.APIBase = v.GetString("api_base")
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().String("api-base", "", "feedback API base URL (env FEEDBACK_API_BASE)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	_ = v.BindPFlag("api_base", cmd.PersistentFlags().Lookup("api-base"))
	_ = v.BindEnv("api_base", "FEEDBACK_API_BASE")

	cmd.AddCommand(NewSubmitCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewHealthCommand(opts))

	return cmd
}

func (o *RootOptions) client() feedbackclient.ClientInterface {
	return o.newClient(o.APIBase)
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func writeTable(w io.Writer, rows []types.Feedback) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tCREATED\tMESSAGE")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			r.ID, r.Name, r.Email, r.CreatedAt.Local().Format(time.DateTime), preview(r.Message, 60))
	}
	return tw.Flush()
}

// preview flattens msg to one line of at most n runes.
func preview(msg string, n int) string {
	msg = strings.Join(strings.Fields(msg), " ")
	runes := []rune(msg)
	if len(runes) <= n {
		return msg
	}
	return string(runes[:n-1]) + "…"
}
