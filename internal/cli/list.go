package cli

import (
	"context"
	"fmt"

	"github.com/NomadCrew/feedback-service/pkg/feedbackclient"
	"github.com/NomadCrew/feedback-service/types"
	"github.com/spf13/cobra"
)

// ViewOptions are the flags shared by list and export.
type ViewOptions struct {
	*RootOptions
	Limit  int
	Offset int
	All    bool
	Search string
	Sort   string
	Asc    bool
}

func (o *ViewOptions) bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&o.Limit, "limit", 50, "page size (1-200)")
	cmd.Flags().IntVar(&o.Offset, "offset", 0, "records to skip")
	cmd.Flags().BoolVar(&o.All, "all", false, "fetch every page")
	cmd.Flags().StringVar(&o.Search, "search", "", "case-insensitive filter over id, name, email and message")
	cmd.Flags().StringVar(&o.Sort, "sort", "created_at", "sort column (id|name|email|created_at)")
	cmd.Flags().BoolVar(&o.Asc, "asc", false, "sort ascending")
}

// rows fetches and then filters and sorts locally.
func (o *ViewOptions) rows(ctx context.Context) ([]types.Feedback, error) {
	field, err := feedbackclient.ParseSortField(o.Sort)
	if err != nil {
		return nil, err
	}
	dir := feedbackclient.Desc
	if o.Asc {
		dir = feedbackclient.Asc
	}

	client := o.client()
	var rows []types.Feedback
	if o.All {
		rows, err = feedbackclient.ListAll(ctx, client, o.Limit)
	} else {
		var page *types.FeedbackListResponse
		page, err = client.ListFeedback(ctx, o.Limit, o.Offset)
		if page != nil {
			rows = page.Items
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load feedback: %w", err)
	}

	return feedbackclient.Sort(feedbackclient.Search(rows, o.Search), field, dir), nil
}

func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ViewOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List feedback",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := opts.rows(context.Background())
			if err != nil {
				return err
			}
			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), rows)
			}
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No feedback yet.")
				return nil
			}
			return writeTable(cmd.OutOrStdout(), rows)
		},
	}
	opts.bind(cmd)

	return cmd
}
