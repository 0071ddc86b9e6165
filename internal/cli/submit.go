package cli

import (
	"context"
	"fmt"

	"github.com/NomadCrew/feedback-service/pkg/feedbackclient"
	"github.com/NomadCrew/feedback-service/types"
	"github.com/spf13/cobra"
)

type SubmitOptions struct {
	*RootOptions
	Name    string
	Email   string
	Message string
}

func NewSubmitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SubmitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a feedback entry",
		Example: `  feedbackctl submit --name Ada --email ada@example.com --message "Hello"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmit(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "your name")
	cmd.Flags().StringVar(&opts.Email, "email", "", "your email address")
	cmd.Flags().StringVar(&opts.Message, "message", "", "feedback text")

	return cmd
}

func runSubmit(cmd *cobra.Command, opts *SubmitOptions) error {
	in := types.FeedbackCreate{Name: opts.Name, Email: opts.Email, Message: opts.Message}
	if err := feedbackclient.ValidateSubmission(in); err != nil {
		return err
	}

	created, err := opts.client().CreateFeedback(context.Background(), in)
	if err != nil {
		return fmt.Errorf("failed to submit feedback: %w", err)
	}

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), created)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Thanks! Feedback #%d was submitted.\n", created.ID)
	return nil
}
