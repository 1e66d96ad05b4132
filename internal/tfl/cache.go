// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tfl

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure-Go sqlite driver
)

// =============================================================================
// LAST-KNOWN STATUS CACHE
// =============================================================================

// cacheSchema holds one row per line, overwritten on every refresh.
const cacheSchema = `
CREATE TABLE IF NOT EXISTS line_status (
    line_id    TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    status     TEXT NOT NULL,
    severity   INTEGER NOT NULL,
    reason     TEXT NOT NULL DEFAULT '',
    fetched_at INTEGER NOT NULL
);
`

// Cache persists the last successfully fetched line statuses so the status
// view can show a stale-but-dated snapshot when the TfL API is unreachable.
type Cache struct {
	db *sql.DB
}

// NewCache opens (or creates) the status cache at path.
func NewCache(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open status cache: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(cacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Put replaces the cached snapshot with the given statuses, all stamped
// with the same fetch time.
func (c *Cache) Put(statuses []LineStatus, fetchedAt time.Time) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin cache write: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO line_status (line_id, name, status, severity, reason, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(line_id) DO UPDATE SET
			name = excluded.name,
			status = excluded.status,
			severity = excluded.severity,
			reason = excluded.reason,
			fetched_at = excluded.fetched_at`)
	if err != nil {
		return fmt.Errorf("failed to prepare cache write: %w", err)
	}
	defer stmt.Close()

	ts := fetchedAt.Unix()
	for _, s := range statuses {
		if _, err := stmt.Exec(s.ID, s.Name, s.Status, s.Severity, s.Reason, ts); err != nil {
			return fmt.Errorf("failed to cache status for %s: %w", s.ID, err)
		}
	}

	return tx.Commit()
}

// Get returns the cached snapshot and its fetch time. The bool reports
// whether any snapshot exists.
func (c *Cache) Get() ([]LineStatus, time.Time, bool, error) {
	rows, err := c.db.Query(`
		SELECT line_id, name, status, severity, reason, fetched_at
		FROM line_status
		ORDER BY name`)
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("failed to read status cache: %w", err)
	}
	defer rows.Close()

	var statuses []LineStatus
	var latest int64
	for rows.Next() {
		var s LineStatus
		var fetchedAt int64
		if err := rows.Scan(&s.ID, &s.Name, &s.Status, &s.Severity, &s.Reason, &fetchedAt); err != nil {
			return nil, time.Time{}, false, fmt.Errorf("failed to scan cached status: %w", err)
		}
		if fetchedAt > latest {
			latest = fetchedAt
		}
		statuses = append(statuses, s)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, false, fmt.Errorf("failed to iterate status cache: %w", err)
	}

	if len(statuses) == 0 {
		return nil, time.Time{}, false, nil
	}
	return statuses, time.Unix(latest, 0), true, nil
}
