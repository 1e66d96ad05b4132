// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides conversation snapshot persistence for tubechat.
//
// Snapshots are written after every message-list mutation and restored once
// at startup, subject to a freshness window. One JSON file exists per
// conversation thread.
//
// # Key Types
//
//   - SnapshotStore: saves, lists, and restores snapshots
//   - storage layout: <dir>/conversation_<threadId>.json
//
// # Usage
//
// Create a store and persist the latest state:
//
//	store, err := storage.NewSnapshotStore(dir)
//	err = store.Save(snap)
//
// Restore the freshest snapshot at startup:
//
//	snap, ok, err := store.LoadLatest(time.Hour)
//
// Corrupt snapshot files are skipped, never fatal.
package storage
