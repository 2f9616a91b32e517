// Package repository implements persistence over MySQL using
// database/sql.  The Store type satisfies the allocation engine's
// service.Store contract; transactions started by WithTx are carried in
// the context so that every store call inside the closure shares them.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/expofair/stall-reservation/internal/model"
	"github.com/expofair/stall-reservation/internal/service"
)

// Store bundles all engine-facing queries over one *sql.DB.
type Store struct {
	db *sql.DB
}

// NewStore returns a Store bound to the given database.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// DB exposes the underlying handle for wiring auth repositories that
// live outside the engine's contract.
func (s *Store) DB() *sql.DB { return s.db }

type txKey struct{}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// q returns the transaction stored in ctx when present, otherwise the
// plain connection pool.
func (s *Store) q(ctx context.Context) queryer {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return s.db
}

// WithTx runs fn inside a single transaction.  A WithTx call nested in
// an existing transaction joins it rather than opening a second one.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	committed = true
	return nil
}

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (1062).  The unique index on active (event, stall) links surfaces
// lost races as this error.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

// placeholders returns "?,?,..." for n arguments.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func idArgs(ids []uint64) []any {
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	return args
}

// GetUser fetches a user by id.
func (s *Store) GetUser(ctx context.Context, id uint64) (model.User, error) {
	const q = `SELECT id, email, password_hash, role, is_active, created_at, updated_at
	           FROM users WHERE id = ?`
	var u model.User
	var role string
	err := s.q(ctx).QueryRowContext(ctx, q, id).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return model.User{}, fmt.Errorf("%w: user %d", service.ErrNotFound, id)
	}
	if err != nil {
		return model.User{}, err
	}
	u.Role = model.Role(role)
	return u, nil
}

// GetEvent fetches an event by id.
func (s *Store) GetEvent(ctx context.Context, id uint64) (model.Event, error) {
	const q = `SELECT id, name, year, status, start_date, end_date, created_at
	           FROM events WHERE id = ?`
	var ev model.Event
	var status string
	var start, end sql.NullTime
	err := s.q(ctx).QueryRowContext(ctx, q, id).Scan(
		&ev.ID, &ev.Name, &ev.Year, &status, &start, &end, &ev.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return model.Event{}, fmt.Errorf("%w: event %d", service.ErrNotFound, id)
	}
	if err != nil {
		return model.Event{}, err
	}
	ev.Status = model.EventStatus(status)
	if start.Valid {
		t := start.Time
		ev.StartDate = &t
	}
	if end.Valid {
		t := end.Time
		ev.EndDate = &t
	}
	return ev, nil
}

// ListStalls returns the full stall catalog.
func (s *Store) ListStalls(ctx context.Context) ([]model.Stall, error) {
	const q = `SELECT id, stall_code, size, x_position, y_position FROM stalls`
	rows, err := s.q(ctx).QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStalls(rows)
}

// GetStallsByIDs returns the stalls matching ids.  Unknown ids are
// simply absent from the result; the caller compares lengths.
func (s *Store) GetStallsByIDs(ctx context.Context, ids []uint64) ([]model.Stall, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := `SELECT id, stall_code, size, x_position, y_position FROM stalls WHERE id IN (` + placeholders(len(ids)) + `)`
	rows, err := s.q(ctx).QueryContext(ctx, q, idArgs(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStalls(rows)
}

func scanStalls(rows *sql.Rows) ([]model.Stall, error) {
	stalls := make([]model.Stall, 0)
	for rows.Next() {
		var st model.Stall
		var size string
		if err := rows.Scan(&st.ID, &st.StallCode, &size, &st.XPosition, &st.YPosition); err != nil {
			return nil, err
		}
		st.Size = model.StallSize(size)
		stalls = append(stalls, st)
	}
	return stalls, rows.Err()
}

// GetGenresByIDs returns the genres matching ids.
func (s *Store) GetGenresByIDs(ctx context.Context, ids []uint64) ([]model.Genre, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := `SELECT id, name FROM genres WHERE id IN (` + placeholders(len(ids)) + `)`
	rows, err := s.q(ctx).QueryContext(ctx, q, idArgs(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	genres := make([]model.Genre, 0, len(ids))
	for rows.Next() {
		var g model.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}
