package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/lib/pq"
)

// SQLExecutor is satisfied by both *sql.DB and *sql.Tx, so repository methods
// can take part in a caller's transaction.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError
	}
	return nil
}

// pqErrorCode returns the SQLSTATE and constraint name of a postgres error, if any.
func pqErrorCode(err error) (code, constraint string) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint
	}
	return "", ""
}

// queryBuilder collects WHERE conditions and positional arguments.
type queryBuilder struct {
	conds []string
	args  []interface{}
}

// arg registers a value and returns its placeholder.
func (b *queryBuilder) arg(v interface{}) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *queryBuilder) where(cond string) {
	b.conds = append(b.conds, cond)
}

// search adds a case-insensitive substring match over the given columns.
func (b *queryBuilder) search(term string, columns ...string) {
	if term == "" || len(columns) == 0 {
		return
	}
	p := b.arg("%" + escapeLike(term) + "%")
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = c + " ILIKE " + p
	}
	b.where("(" + strings.Join(parts, " OR ") + ")")
}

func (b *queryBuilder) clause() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

// page appends LIMIT/OFFSET for a 1-based page.
func (b *queryBuilder) page(page, limit int) string {
	if limit <= 0 {
		return ""
	}
	if page < 1 {
		page = 1
	}
	if page-1 > math.MaxInt/limit {
		page = math.MaxInt/limit + 1
	}
	return " LIMIT " + b.arg(limit) + " OFFSET " + b.arg((page-1)*limit)
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func countQuery(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) (int, error) {
	var n int
	if err := exec.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
