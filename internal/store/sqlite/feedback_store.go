package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/NomadCrew/feedback-service/db"
	"github.com/NomadCrew/feedback-service/internal/store"
	"github.com/NomadCrew/feedback-service/types"
)

// Ensure feedbackStore implements store.FeedbackStore
var _ store.FeedbackStore = (*feedbackStore)(nil)

const feedbackTable = "feedback"

var feedbackColumns = []string{"id", "name", "email", "message", "created_at"}

// sortColumns maps the closed set of sort fields to column names.
var sortColumns = map[types.SortField]string{
	types.SortByID:        "id",
	types.SortByName:      "name",
	types.SortByEmail:     "email",
	types.SortByCreatedAt: "created_at",
}

type feedbackStore struct {
	db  *db.Manager
	now func() time.Time
}

// NewFeedbackStore creates a feedback store backed by the given manager.
// now supplies created_at; nil means time.Now.
func NewFeedbackStore(m *db.Manager, now func() time.Time) store.FeedbackStore {
	if now == nil {
		now = time.Now
	}
	return &feedbackStore{db: m, now: now}
}

// CreateFeedback inserts a new feedback entry and returns the stored record.
func (s *feedbackStore) CreateFeedback(ctx context.Context, fb *types.Feedback) (*types.Feedback, error) {
	res, err := s.db.Execute(ctx,
		`INSERT INTO feedback (name, email, message, created_at) VALUES (@name, @email, @message, @created_at)`,
		db.Params{
			"name":       fb.Name,
			"email":      fb.Email,
			"message":    fb.Message,
			"created_at": FormatTimestamp(s.now()),
		})
	if err != nil {
		return nil, fmt.Errorf("failed to create feedback: %w", err)
	}

	row, ok, err := s.db.FetchOne(ctx,
		`SELECT id, name, email, message, created_at FROM feedback WHERE id = @id`,
		db.Params{"id": res.LastInsertID})
	if err != nil {
		return nil, fmt.Errorf("failed to read back feedback %d: %w", res.LastInsertID, err)
	}
	if !ok {
		return nil, fmt.Errorf("feedback %d: %w", res.LastInsertID, store.ErrNotFound)
	}

	created, err := rowToFeedback(row)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// ListFeedback returns one page of feedback in the requested order.
func (s *feedbackStore) ListFeedback(ctx context.Context, page types.FeedbackPage, sort types.FeedbackSort) ([]types.Feedback, error) {
	column, ok := sortColumns[sort.Field]
	if !ok {
		return nil, fmt.Errorf("%w: %q", store.ErrInvalidSort, sort.Field)
	}

	opts := []db.ListOption{
		db.Columns(feedbackColumns...),
		db.OrderBy(column, sort.Desc),
	}
	if column != "id" {
		opts = append(opts, db.OrderBy("id", sort.Desc))
	}
	opts = append(opts, db.Limit(page.Limit), db.Offset(page.Offset))

	rows, err := s.db.List(ctx, feedbackTable, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}

	items := make([]types.Feedback, 0, len(rows))
	for _, row := range rows {
		fb, err := rowToFeedback(row)
		if err != nil {
			return nil, err
		}
		items = append(items, fb)
	}
	return items, nil
}

// CountFeedback returns the total number of stored records.
func (s *feedbackStore) CountFeedback(ctx context.Context) (int64, error) {
	row, ok, err := s.db.FetchOne(ctx, `SELECT COUNT(*) AS total FROM feedback`, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count feedback: %w", err)
	}
	if !ok {
		return 0, nil
	}
	total, _ := row["total"].(int64)
	return total, nil
}
