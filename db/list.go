package db

import (
	"context"
	"fmt"
	"regexp"

	"gorm.io/gorm/clause"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type order struct {
	column string
	desc   bool
}

type listQuery struct {
	columns []string
	where   string
	params  Params
	orders  []order
	limit   int
	offset  int
}

// ListOption configures a List query.
type ListOption func(*listQuery)

// Columns restricts the selected columns. Without it every column is returned.
func Columns(columns ...string) ListOption {
	return func(q *listQuery) {
		q.columns = append(q.columns, columns...)
	}
}

// Where adds a filter clause. Values must be referenced as @name and supplied
// in params; they are always bound, never spliced into the SQL text.
func Where(clause string, params Params) ListOption {
	return func(q *listQuery) {
		q.where = clause
		q.params = params
	}
}

// OrderBy appends a sort key. Calls accumulate in priority order.
func OrderBy(column string, desc bool) ListOption {
	return func(q *listQuery) {
		q.orders = append(q.orders, order{column: column, desc: desc})
	}
}

// Limit caps the number of rows. Negative values leave the query unbounded.
func Limit(n int) ListOption {
	return func(q *listQuery) {
		q.limit = n
	}
}

// Offset skips rows. Negative values are ignored.
func Offset(n int) ListOption {
	return func(q *listQuery) {
		q.offset = n
	}
}

// List builds and runs a SELECT against table. Table, column and order
// names must be plain identifiers.
func (m *Manager) List(ctx context.Context, table string, opts ...ListOption) ([]Row, error) {
	q := listQuery{limit: -1, offset: -1}
	for _, opt := range opts {
		opt(&q)
	}

	if err := q.validate(table); err != nil {
		return nil, err
	}

	_, gormDB, err := m.handles(ctx)
	if err != nil {
		return nil, err
	}

	tx := gormDB.WithContext(ctx).Table(table)
	if len(q.columns) > 0 {
		tx = tx.Select(q.columns)
	}
	if q.where != "" {
		if len(q.params) > 0 {
			tx = tx.Where(q.where, map[string]interface{}(q.params))
		} else {
			tx = tx.Where(q.where)
		}
	}
	for _, o := range q.orders {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: o.column}, Desc: o.desc})
	}
	if q.limit >= 0 {
		tx = tx.Limit(q.limit)
	}
	if q.offset >= 0 {
		tx = tx.Offset(q.offset)
	}

	var found []map[string]interface{}
	if err := tx.Find(&found).Error; err != nil {
		return nil, fmt.Errorf("list %s failed: %w", table, err)
	}

	rows := make([]Row, 0, len(found))
	for _, f := range found {
		row := make(Row, len(f))
		for k, v := range f {
			row[k] = normalize(v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (q *listQuery) validate(table string) error {
	if !identifierPattern.MatchString(table) {
		return fmt.Errorf("invalid table name %q", table)
	}
	for _, c := range q.columns {
		if !identifierPattern.MatchString(c) {
			return fmt.Errorf("invalid column name %q", c)
		}
	}
	for _, o := range q.orders {
		if !identifierPattern.MatchString(o.column) {
			return fmt.Errorf("invalid order column %q", o.column)
		}
	}
	return nil
}
