package store

import (
	"context"

	"github.com/NomadCrew/feedback-service/types"
)

// FeedbackStore persists feedback submissions. Records are append-only:
// there is no update or delete.
type FeedbackStore interface {
	// CreateFeedback inserts fb with a server-assigned created_at and returns
	// the stored record including its generated id.
	CreateFeedback(ctx context.Context, fb *types.Feedback) (*types.Feedback, error)
	// ListFeedback returns one window of records in the requested order.
	ListFeedback(ctx context.Context, page types.FeedbackPage, sort types.FeedbackSort) ([]types.Feedback, error)
	// CountFeedback returns the number of stored records.
	CountFeedback(ctx context.Context) (int64, error)
}
