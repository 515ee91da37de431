package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS ytwatch_kv (
	kv_key     TEXT PRIMARY KEY,
	kv_value   TEXT NOT NULL,
	expires_at BIGINT
)`

const (
	qGet = `SELECT kv_value FROM ytwatch_kv
		WHERE kv_key = ? AND (expires_at IS NULL OR expires_at > ?)`
	qSet = `INSERT INTO ytwatch_kv (kv_key, kv_value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT (kv_key) DO UPDATE SET kv_value = excluded.kv_value, expires_at = excluded.expires_at`
	qSetNX = `INSERT INTO ytwatch_kv (kv_key, kv_value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT (kv_key) DO UPDATE SET kv_value = excluded.kv_value, expires_at = excluded.expires_at
		WHERE ytwatch_kv.expires_at IS NOT NULL AND ytwatch_kv.expires_at <= ?`
	qDeleteIfEqual = `DELETE FROM ytwatch_kv WHERE kv_key = ? AND kv_value = ?`
)

// SQL keeps entries in one table. Expiry is stored as unix milliseconds.
type SQL struct {
	db       *sql.DB
	postgres bool
	now      func() time.Time
}

// NewSQLite opens a modernc sqlite database, e.g. "file:data/ytwatch.db".
func NewSQLite(ctx context.Context, dsn string) (*SQL, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// sqlite allows a single writer.
	db.SetMaxOpenConns(1)
	return newSQL(ctx, db, false)
}

// NewPostgres opens a database through the pgx stdlib driver.
func NewPostgres(ctx context.Context, dsn string) (*SQL, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return newSQL(ctx, db, true)
}

func newSQL(ctx context.Context, db *sql.DB, postgres bool) (*SQL, error) {
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create kv table: %w", err)
	}
	return &SQL{db: db, postgres: postgres, now: time.Now}, nil
}

func (s *SQL) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, s.rebind(qGet), key, s.now().UnixMilli()).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return v, err
}

func (s *SQL) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	_, err := s.db.ExecContext(ctx, s.rebind(qSet), key, value, s.expiresAt(ttl))
	return err
}

func (s *SQL) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	res, err := s.db.ExecContext(ctx, s.rebind(qSetNX), key, value, s.expiresAt(ttl), s.now().UnixMilli())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *SQL) DeleteIfEqual(ctx context.Context, key, value string) (bool, error) {
	res, err := s.db.ExecContext(ctx, s.rebind(qDeleteIfEqual), key, value)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *SQL) Close() error {
	return s.db.Close()
}

func (s *SQL) expiresAt(ttl time.Duration) any {
	if ttl <= 0 {
		return nil
	}
	return s.now().Add(ttl).UnixMilli()
}

// rebind turns ? placeholders into $n for postgres.
func (s *SQL) rebind(q string) string {
	if !s.postgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
