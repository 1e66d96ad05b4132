// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the conversation state.
//
// This package defines the core domain types used throughout the application
// for representing the chat conversation, its messages, and the transient UI
// flags that drive rendering.
//
// # Key Types
//
//   - Store: the single source of truth for the visible conversation
//   - Message: one chat message with role, content, and transit metadata
//   - MessagePatch: a partial update merged into a message by ID
//   - Role: message role enumeration (user, assistant)
//
// # Usage
//
// Create a store and append a message:
//
//	store := model.NewStore()
//	store.AddMessage(&model.Message{
//	    Role:    model.RoleUser,
//	    Content: "Is the Victoria line running?",
//	})
//
// The store assigns IDs and timestamps to messages that lack them, and
// notifies its change hook after every mutation of the message log.
package model
