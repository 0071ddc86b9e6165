package feedbackclient

import (
	"bytes"
	"testing"
	"time"

	"github.com/NomadCrew/feedback-service/types"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV_Golden(t *testing.T) {
	rows := []types.Feedback{
		{
			ID:        2,
			Name:      `Grace "Amazing" Hopper`,
			Email:     "grace@example.com",
			Message:   "Found a bug,\nliterally.",
			CreatedAt: time.Date(2024, 3, 9, 14, 5, 0, 123000000, time.UTC),
		},
		{
			ID:        1,
			Name:      "Ada",
			Email:     "ada@example.com",
			Message:   "Hello",
			CreatedAt: time.Date(2024, 3, 8, 9, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "feedback_export", buf.Bytes())
}

func TestWriteCSV_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "\"id\",\"name\",\"email\",\"message\",\"created_at\"\r\n", buf.String())
}
