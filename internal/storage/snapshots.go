// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/morganforge/tubechat/internal/model"
	"github.com/morganforge/tubechat/internal/util"
)

// snapshotPrefix keys one storage entry per conversation thread, mirroring
// the backend correlation ID.
const snapshotPrefix = "conversation_"

// DefaultFreshness is how recent a snapshot must be to be restored at startup.
const DefaultFreshness = time.Hour

// =============================================================================
// SNAPSHOT STORE
// =============================================================================

// SnapshotStore persists conversation snapshots, one JSON file per thread.
type SnapshotStore struct {
	// BaseDir is the directory holding snapshot files.
	BaseDir string
}

// NewSnapshotStore creates a store rooted at the user's data directory
// (~/.tubechat/conversations).
func NewSnapshotStore() (*SnapshotStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewSnapshotStoreWithDir(filepath.Join(homeDir, ".tubechat", "conversations"))
}

// NewSnapshotStoreWithDir creates a store with a custom directory.
func NewSnapshotStoreWithDir(baseDir string) (*SnapshotStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &SnapshotStore{BaseDir: baseDir}, nil
}

// =============================================================================
// SAVE
// =============================================================================

// Save persists a snapshot under its thread ID, stamping the write time.
func (s *SnapshotStore) Save(snap model.Snapshot) error {
	if snap.ThreadID == "" {
		return ErrNoThreadID
	}
	if snap.Timestamp.IsZero() {
		snap.Timestamp = time.Now()
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	// RELIABILITY: Atomic write with fsync prevents data loss on crash
	return util.AtomicWriteFile(s.filePath(snap.ThreadID), data, 0644)
}

// =============================================================================
// LOAD
// =============================================================================

// Load retrieves the snapshot for one thread.
func (s *SnapshotStore) Load(threadID string) (model.Snapshot, error) {
	data, err := os.ReadFile(s.filePath(threadID))
	if err != nil {
		if os.IsNotExist(err) {
			return model.Snapshot{}, ErrSnapshotNotFound
		}
		return model.Snapshot{}, err
	}

	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return model.Snapshot{}, err
	}
	return snap, nil
}

// LoadLatest returns the most recent snapshot (by its stored timestamp)
// across all threads, but only if it is younger than maxAge. The second
// return value reports whether a fresh snapshot was found. Corrupt entries
// are logged and skipped.
func (s *SnapshotStore) LoadLatest(maxAge time.Duration) (model.Snapshot, bool, error) {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return model.Snapshot{}, false, nil
		}
		return model.Snapshot{}, false, err
	}

	var latest model.Snapshot
	var found bool

	for _, entry := range entries {
		if entry.IsDir() || !isSnapshotFile(entry.Name()) {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.BaseDir, entry.Name()))
		if err != nil {
			slog.Warn("unreadable snapshot skipped", "file", entry.Name(), "err", err)
			continue
		}

		var snap model.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			slog.Warn("corrupt snapshot skipped", "file", entry.Name(), "err", err)
			continue
		}

		if !found || snap.Timestamp.After(latest.Timestamp) {
			latest = snap
			found = true
		}
	}

	if !found {
		return model.Snapshot{}, false, nil
	}
	if time.Since(latest.Timestamp) > maxAge {
		// Stale snapshots are ignored but not deleted; only an explicit
		// clear removes them.
		return model.Snapshot{}, false, nil
	}
	return latest, true, nil
}

// =============================================================================
// LIST
// =============================================================================

// Meta is lightweight snapshot metadata for listing.
type Meta struct {
	ThreadID     string    `json:"threadId"`
	ActiveAgent  string    `json:"activeAgent,omitempty"`
	MessageCount int       `json:"messageCount"`
	Timestamp    time.Time `json:"timestamp"`
	Preview      string    `json:"preview"`
}

// List returns metadata for all stored snapshots, most recent first.
func (s *SnapshotStore) List() ([]Meta, error) {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Meta{}, nil
		}
		return nil, err
	}

	var metas []Meta
	for _, entry := range entries {
		if entry.IsDir() || !isSnapshotFile(entry.Name()) {
			continue
		}

		threadID := strings.TrimSuffix(strings.TrimPrefix(entry.Name(), snapshotPrefix), ".json")
		snap, err := s.Load(threadID)
		if err != nil {
			continue // skip corrupt files
		}

		preview := ""
		for _, msg := range snap.Messages {
			if msg.Role == model.RoleUser {
				preview = util.TruncateRunes(msg.Content, 80)
				break
			}
		}

		metas = append(metas, Meta{
			ThreadID:     snap.ThreadID,
			ActiveAgent:  snap.ActiveAgent,
			MessageCount: len(snap.Messages),
			Timestamp:    snap.Timestamp,
			Preview:      preview,
		})
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].Timestamp.After(metas[j].Timestamp)
	})
	return metas, nil
}

// =============================================================================
// DELETE
// =============================================================================

// Delete removes one thread's snapshot.
func (s *SnapshotStore) Delete(threadID string) error {
	if err := os.Remove(s.filePath(threadID)); err != nil {
		if os.IsNotExist(err) {
			return ErrSnapshotNotFound
		}
		return err
	}
	return nil
}

// Clear removes every stored snapshot.
func (s *SnapshotStore) Clear() error {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() && isSnapshotFile(entry.Name()) {
			os.Remove(filepath.Join(s.BaseDir, entry.Name()))
		}
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *SnapshotStore) filePath(threadID string) string {
	return filepath.Join(s.BaseDir, snapshotPrefix+threadID+".json")
}

func isSnapshotFile(name string) bool {
	return strings.HasPrefix(name, snapshotPrefix) && strings.HasSuffix(name, ".json")
}

// =============================================================================
// ERRORS
// =============================================================================

// SnapshotError represents a storage-related error.
type SnapshotError struct {
	Message string
}

func (e *SnapshotError) Error() string {
	return e.Message
}

// Is implements errors.Is support.
func (e *SnapshotError) Is(target error) bool {
	t, ok := target.(*SnapshotError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

// ErrSnapshotNotFound is returned when a thread has no stored snapshot.
var ErrSnapshotNotFound = &SnapshotError{Message: "snapshot not found"}

// ErrNoThreadID is returned when saving a snapshot without a thread ID.
var ErrNoThreadID = &SnapshotError{Message: "snapshot has no thread id"}
