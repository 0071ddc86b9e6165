package db

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
)

// Params are bound as named parameters. A statement refers to a key as @key
// (":key" and "$key" also work). Every key must appear in the statement.
type Params map[string]any

// Row is one result row keyed by column name. TEXT columns come back as
// string and INTEGER columns as int64.
type Row map[string]any

// Result reports the effect of a mutating statement.
type Result struct {
	Changes      int64
	LastInsertID int64
}

// namedArgs converts params to sql.NamedArg values in a stable order.
func (p Params) namedArgs() []any {
	if len(p) == 0 {
		return nil
	}
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]any, 0, len(keys))
	for _, k := range keys {
		args = append(args, sql.Named(k, p[k]))
	}
	return args
}

// Execute runs an INSERT/UPDATE/DELETE and reports rows affected and, for
// inserts, the generated row id.
func (m *Manager) Execute(ctx context.Context, stmt string, params Params) (Result, error) {
	sqlDB, _, err := m.handles(ctx)
	if err != nil {
		return Result{}, err
	}
	return execute(ctx, sqlDB, stmt, params)
}

// FetchOne returns the first row of a query. The bool is false when the
// query matched nothing.
func (m *Manager) FetchOne(ctx context.Context, stmt string, params Params) (Row, bool, error) {
	rows, err := m.FetchMany(ctx, stmt, params)
	if err != nil {
		return nil, false, err
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	return rows[0], true, nil
}

// FetchMany returns every row of a query, fully materialized.
func (m *Manager) FetchMany(ctx context.Context, stmt string, params Params) ([]Row, error) {
	sqlDB, _, err := m.handles(ctx)
	if err != nil {
		return nil, err
	}
	return fetchMany(ctx, sqlDB, stmt, params)
}

// Tx runs fn inside a transaction, committing when fn returns nil.
func (m *Manager) Tx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	sqlDB, _, err := m.handles(ctx)
	if err != nil {
		return err
	}

	tx, err := sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func execute(ctx context.Context, db execer, stmt string, params Params) (Result, error) {
	res, err := db.ExecContext(ctx, stmt, params.namedArgs()...)
	if err != nil {
		return Result{}, fmt.Errorf("exec failed: %w", err)
	}
	changes, err := res.RowsAffected()
	if err != nil {
		return Result{}, fmt.Errorf("rows affected: %w", err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return Result{}, fmt.Errorf("last insert id: %w", err)
	}
	return Result{Changes: changes, LastInsertID: lastID}, nil
}

func fetchMany(ctx context.Context, db querier, stmt string, params Params) ([]Row, error) {
	rows, err := db.QueryContext(ctx, stmt, params.namedArgs()...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	result := make([]Row, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			row[col] = normalize(values[i])
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return result, nil
}

// normalize maps driver byte slices to strings so callers see TEXT uniformly.
func normalize(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
