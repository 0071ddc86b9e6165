package feedbackclient

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/NomadCrew/feedback-service/types"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseSortField maps a column name to a sort field.
func ParseSortField(s string) (types.SortField, error) {
	f := types.SortField(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", fmt.Errorf("unknown sort column %q", s)
	}
	return f, nil
}

// Search keeps rows whose id, name, email or message contains query,
// ignoring case. A blank query keeps everything.
func Search(rows []types.Feedback, query string) []types.Feedback {
	fold := cases.Fold()
	q := fold.String(strings.TrimSpace(query))
	out := make([]types.Feedback, 0, len(rows))
	for _, r := range rows {
		if q == "" || matches(fold, r, q) {
			out = append(out, r)
		}
	}
	return out
}

func matches(fold cases.Caser, r types.Feedback, q string) bool {
	for _, v := range []string{strconv.FormatInt(r.ID, 10), r.Name, r.Email, r.Message} {
		if strings.Contains(fold.String(v), q) {
			return true
		}
	}
	return false
}

// Sort returns a stably sorted copy of rows. Text columns use locale-aware
// collation, id is numeric and created_at chronological.
func Sort(rows []types.Feedback, field types.SortField, dir Direction) []types.Feedback {
	out := make([]types.Feedback, len(rows))
	copy(out, rows)

	col := collate.New(language.Und)
	cmp := func(a, b types.Feedback) int {
		switch field {
		case types.SortByID:
			return compareInt(a.ID, b.ID)
		case types.SortByCreatedAt:
			return a.CreatedAt.Compare(b.CreatedAt)
		case types.SortByName:
			return col.CompareString(a.Name, b.Name)
		case types.SortByEmail:
			return col.CompareString(a.Email, b.Email)
		}
		return 0
	}

	sort.SliceStable(out, func(i, j int) bool {
		c := cmp(out[i], out[j])
		if dir == Desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// View holds the rows an admin is looking at.
type View struct {
	client ClientInterface
	Limit  int
	Rows   []types.Feedback
	Err    error
}

func NewView(client ClientInterface, limit int) *View {
	return &View{client: client, Limit: limit, Rows: []types.Feedback{}}
}

// Refresh reloads the first page. On failure Err is set and the previously
// loaded rows are kept.
func (v *View) Refresh(ctx context.Context) error {
	page, err := v.client.ListFeedback(ctx, v.Limit, 0)
	if err != nil {
		v.Err = err
		return err
	}
	v.Err = nil
	v.Rows = page.Items
	return nil
}

// Visible applies search and sort to the loaded rows.
func (v *View) Visible(query string, field types.SortField, dir Direction) []types.Feedback {
	return Sort(Search(v.Rows, query), field, dir)
}
