package types

import "time"

// Feedback represents a feedback entry stored in the database.
type Feedback struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedbackCreate represents the request body for submitting feedback.
// Fields are checked by the feedback service, not by gin binding, so that
// every rejection carries the documented message.
type FeedbackCreate struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,feedback_email"`
	Message string `json:"message" validate:"required"`
}

// SortField is the closed set of columns feedback can be ordered by.
type SortField string

const (
	SortByID        SortField = "id"
	SortByName      SortField = "name"
	SortByEmail     SortField = "email"
	SortByCreatedAt SortField = "created_at"
)

// Valid reports whether f is one of the known sort fields.
func (f SortField) Valid() bool {
	switch f {
	case SortByID, SortByName, SortByEmail, SortByCreatedAt:
		return true
	}
	return false
}

// FeedbackPage is a normalized pagination window.
type FeedbackPage struct {
	Limit  int
	Offset int
}

// FeedbackListResponse is the body of GET /api/feedback.
type FeedbackListResponse struct {
	Items      []Feedback `json:"items"`
	Limit      int        `json:"limit"`
	Offset     int        `json:"offset"`
	Count      int        `json:"count"`
	NextOffset int        `json:"next_offset"`
}

// FeedbackSort orders a listing. Ties are always broken by id in the same direction.
type FeedbackSort struct {
	Field SortField
	Desc  bool
}

// NewestFirst is the ordering used by the list endpoint.
var NewestFirst = FeedbackSort{Field: SortByCreatedAt, Desc: true}
