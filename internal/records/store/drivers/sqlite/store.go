package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/aussiebroadwan/records/internal/records/store"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type Store struct {
	db  *sql.DB
	dsn string
	now func() time.Time
}

// NewStore opens the sqlite database at dsn. ":memory:" databases are pinned
// to a single connection so every query sees the same schema.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if dsn == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.ExecContext(context.Background(), `PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		db:  db,
		dsn: dsn,
		now: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Clients() store.Clients   { return &clientsRepo{db: s.db, now: s.now} }
func (s *Store) Accounts() store.Accounts { return &accountsRepo{db: s.db, now: s.now} }

type rowScanner interface {
	Scan(dest ...any) error
}

// where accumulates AND-ed conditions. Empty values do not constrain.
type where struct {
	conds []string
	args  []any
}

func (w *where) eq(col, v string) { w.cmp(col, "=", v) }

func (w *where) cmp(col, op, v string) {
	if v == "" {
		return
	}
	w.conds = append(w.conds, col+" "+op+" ?")
	w.args = append(w.args, v)
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// setter accumulates the SET clause of a partial update.
type setter struct {
	sets []string
	args []any
}

func (s *setter) set(col string, v *string) {
	if v == nil {
		return
	}
	s.sets = append(s.sets, col+" = ?")
	s.args = append(s.args, mapStringNull(*v))
}

func limitClause(limit int, args []any) (string, []any) {
	if limit <= 0 {
		return "", args
	}
	return " LIMIT ?", append(args, limit)
}

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func mapConstraint(err error) error {
	var se *msqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return store.ErrAlreadyExists
		}
	}
	return err
}

func mapNullString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func mapStringNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

func toMillis(t time.Time) int64    { return t.UnixMilli() }
func fromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }
