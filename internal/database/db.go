// Package database opens the MySQL pool backing durable session storage.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Schema creates the session table when it does not exist yet.
const Schema = `CREATE TABLE IF NOT EXISTS client_storage (
	sid        VARCHAR(64)  NOT NULL,
	k          VARCHAR(32)  NOT NULL,
	v          TEXT         NOT NULL,
	expires_at DATETIME     NULL,
	PRIMARY KEY (sid, k),
	KEY idx_client_storage_expires (expires_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// Open connects to MySQL using dsn, verifies the connection and ensures the
// session table exists.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create session table: %w", err)
	}
	return db, nil
}
