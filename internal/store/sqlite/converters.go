// Package sqlite implements the store interfaces on top of the db package's
// SQLite helpers.
package sqlite

import (
	"fmt"
	"time"

	"github.com/NomadCrew/feedback-service/db"
	"github.com/NomadCrew/feedback-service/types"
)

// TimestampLayout is the stored form of created_at. Fixed width and UTC, so
// text ordering matches chronological ordering.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// FormatTimestamp renders t in the stored layout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp reads a stored created_at. RFC 3339 and SQLite's
// datetime() output are accepted for rows written by other tools.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{TimestampLayout, time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// rowToFeedback converts a feedback row into the domain type.
func rowToFeedback(row db.Row) (types.Feedback, error) {
	var fb types.Feedback

	id, ok := row["id"].(int64)
	if !ok {
		return fb, fmt.Errorf("unexpected id value %v (%T)", row["id"], row["id"])
	}
	fb.ID = id
	fb.Name, _ = row["name"].(string)
	fb.Email, _ = row["email"].(string)
	fb.Message, _ = row["message"].(string)

	raw, _ := row["created_at"].(string)
	createdAt, err := ParseTimestamp(raw)
	if err != nil {
		return fb, fmt.Errorf("feedback %d: %w", id, err)
	}
	fb.CreatedAt = createdAt
	return fb, nil
}
