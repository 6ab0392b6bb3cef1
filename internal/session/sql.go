package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// SQLStorage keeps sessions in a MySQL table:
//
//	CREATE TABLE client_storage (
//	  sid        CHAR(36)     NOT NULL,
//	  k          VARCHAR(32)  NOT NULL,
//	  v          TEXT         NOT NULL,
//	  expires_at DATETIME     NULL,
//	  PRIMARY KEY (sid, k)
//	);
type SQLStorage struct {
	DB  *sql.DB
	TTL time.Duration
	now func() time.Time
}

// NewSQLStorage returns a SQLStorage whose rows expire after ttl.
func NewSQLStorage(db *sql.DB, ttl time.Duration) *SQLStorage {
	return &SQLStorage{DB: db, TTL: ttl, now: func() time.Time { return time.Now().UTC() }}
}

func (s *SQLStorage) Name() string { return "mysql" }

func (s *SQLStorage) expiry() sql.NullTime {
	if s.TTL <= 0 {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: s.now().Add(s.TTL), Valid: true}
}

// Put upserts all values in one transaction.
func (s *SQLStorage) Put(ctx context.Context, sid string, values map[string]string) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("session: begin: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	exp := s.expiry()
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, err := tx.ExecContext(ctx,
			"REPLACE INTO client_storage (sid, k, v, expires_at) VALUES (?,?,?,?)",
			sid, k, values[k], exp); err != nil {
			return fmt.Errorf("session: write %s: %w", k, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("session: commit: %w", err)
	}
	committed = true
	return nil
}

func (s *SQLStorage) Get(ctx context.Context, sid, key string) (string, error) {
	var (
		v   string
		exp sql.NullTime
	)
	err := s.DB.QueryRowContext(ctx,
		"SELECT v, expires_at FROM client_storage WHERE sid=? AND k=? LIMIT 1",
		sid, key).Scan(&v, &exp)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("session: read %s: %w", key, err)
	}
	if exp.Valid && s.now().After(exp.Time) {
		return "", ErrNotFound
	}
	return v, nil
}

// Take reads and deletes the row inside one transaction, locking it with
// SELECT ... FOR UPDATE so two readers cannot both consume it.
func (s *SQLStorage) Take(ctx context.Context, sid, key string) (string, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("session: begin: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	var (
		v   string
		exp sql.NullTime
	)
	err = tx.QueryRowContext(ctx,
		"SELECT v, expires_at FROM client_storage WHERE sid=? AND k=? FOR UPDATE",
		sid, key).Scan(&v, &exp)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("session: read %s: %w", key, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM client_storage WHERE sid=? AND k=?", sid, key); err != nil {
		return "", fmt.Errorf("session: delete %s: %w", key, err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("session: commit: %w", err)
	}
	committed = true
	if exp.Valid && s.now().After(exp.Time) {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *SQLStorage) Delete(ctx context.Context, sid string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	query := "DELETE FROM client_storage WHERE sid=? AND k IN (?" + strings.Repeat(",?", len(keys)-1) + ")"
	args := make([]any, 0, len(keys)+1)
	args = append(args, sid)
	for _, k := range keys {
		args = append(args, k)
	}
	if _, err := s.DB.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("session: delete: %w", err)
	}
	return nil
}

// PurgeExpired removes rows whose TTL has passed.
func (s *SQLStorage) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := s.DB.ExecContext(ctx,
		"DELETE FROM client_storage WHERE expires_at IS NOT NULL AND expires_at < ?", s.now())
	if err != nil {
		return 0, fmt.Errorf("session: purge: %w", err)
	}
	return res.RowsAffected()
}
