// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the conversation state.
package model

import (
	"sync"
	"time"
)

// =============================================================================
// CONVERSATION STORE
// =============================================================================

// Store is the single source of truth for the visible conversation and its
// transient UI flags. One instance lives for the lifetime of the process and
// is passed by reference to every consumer; all mutation goes through its
// methods, which is the only mutation discipline enforced.
type Store struct {
	mu sync.Mutex

	threadID    string
	messages    []*Message
	activeAgent string
	isLoading   bool
	isTyping    bool
	lastError   string

	// onChange is invoked after every mutation that changes the message log,
	// outside the lock. The composition root uses it to persist snapshots and
	// wake the UI. May be nil.
	onChange func(Snapshot)
}

// Snapshot is an immutable copy of the store state, handed to the change hook
// and to the persistence layer.
type Snapshot struct {
	ThreadID    string     `json:"threadId"`
	Messages    []*Message `json:"messages"`
	ActiveAgent string     `json:"activeAgent,omitempty"`
	Timestamp   time.Time  `json:"timestamp"`
}

// NewStore creates a store with a freshly minted thread ID.
func NewStore() *Store {
	return &Store{
		threadID: NewThreadID(),
		messages: make([]*Message, 0),
	}
}

// SetChangeHook installs the function called after message-log mutations.
func (s *Store) SetChangeHook(fn func(Snapshot)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// =============================================================================
// MESSAGE OPERATIONS
// =============================================================================

// AddMessage appends a message to the log, assigning an ID and timestamp if
// absent, and clears any prior error flag. Content is not validated; the UI
// renders an explicit "no content" state for empty assistant messages.
func (s *Store) AddMessage(msg *Message) *Message {
	s.mu.Lock()
	if msg.ID == "" {
		msg.ID = NewMessageID()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	s.messages = append(s.messages, msg)
	s.lastError = ""
	hook, snap := s.changeLocked()
	s.mu.Unlock()

	if hook != nil {
		hook(snap)
	}
	return msg
}

// UpdateMessage merges the patch into the message matching its ID.
// A patch for an unknown ID is a no-op.
func (s *Store) UpdateMessage(patch MessagePatch) bool {
	s.mu.Lock()
	var found bool
	for _, msg := range s.messages {
		if msg.ID == patch.ID {
			patch.apply(msg)
			found = true
			break
		}
	}
	var hook func(Snapshot)
	var snap Snapshot
	if found {
		hook, snap = s.changeLocked()
	}
	s.mu.Unlock()

	if hook != nil {
		hook(snap)
	}
	return found
}

// SetMessages replaces the whole message log. Used only during snapshot
// restore; does not trigger the change hook to avoid re-persisting what was
// just read back.
func (s *Store) SetMessages(msgs []*Message) {
	s.mu.Lock()
	s.messages = append(make([]*Message, 0, len(msgs)), msgs...)
	s.lastError = ""
	s.mu.Unlock()
}

// Messages returns a copy of the message log in append order.
func (s *Store) Messages() []*Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// MessageCount returns the number of messages.
func (s *Store) MessageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// IsEmpty returns true if there are no messages.
func (s *Store) IsEmpty() bool {
	return s.MessageCount() == 0
}

// LastMessage returns the most recent message, or nil if empty.
func (s *Store) LastMessage() *Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.messages) == 0 {
		return nil
	}
	return s.messages[len(s.messages)-1]
}

// =============================================================================
// FLAG SETTERS
// =============================================================================

// SetLoading sets the global loading flag.
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	s.isLoading = loading
	s.mu.Unlock()
}

// IsLoading reports the global loading flag.
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isLoading
}

// SetTyping sets the assistant typing indicator.
func (s *Store) SetTyping(typing bool) {
	s.mu.Lock()
	s.isTyping = typing
	s.mu.Unlock()
}

// IsTyping reports the typing indicator.
func (s *Store) IsTyping() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isTyping
}

// SetError records a transient error for banner display.
// Setting an error always drops the loading flag.
func (s *Store) SetError(msg string) {
	s.mu.Lock()
	s.lastError = msg
	if msg != "" {
		s.isLoading = false
	}
	s.mu.Unlock()
}

// Error returns the current transient error, empty if none.
func (s *Store) Error() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// SetActiveAgent records which line agent most recently answered.
func (s *Store) SetActiveAgent(tag string) {
	s.mu.Lock()
	s.activeAgent = tag
	s.mu.Unlock()
}

// ActiveAgent returns the active line agent tag, empty if none.
func (s *Store) ActiveAgent() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeAgent
}

// =============================================================================
// THREAD LIFECYCLE
// =============================================================================

// ThreadID returns the session key. Always non-empty once constructed.
func (s *Store) ThreadID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.threadID
}

// SetThreadID replaces the session key without clearing messages.
// Used only during snapshot restore.
func (s *Store) SetThreadID(id string) {
	s.mu.Lock()
	s.threadID = id
	s.mu.Unlock()
}

// Clear resets the store to its initial state and mints a new thread ID.
func (s *Store) Clear() {
	s.mu.Lock()
	s.threadID = NewThreadID()
	s.messages = make([]*Message, 0)
	s.activeAgent = ""
	s.isLoading = false
	s.isTyping = false
	s.lastError = ""
	s.mu.Unlock()
}

// Snapshot returns an immutable copy of the persistable state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// =============================================================================
// INTERNAL
// =============================================================================

func (s *Store) snapshotLocked() Snapshot {
	msgs := make([]*Message, len(s.messages))
	for i, m := range s.messages {
		msgs[i] = m.Clone()
	}
	return Snapshot{
		ThreadID:    s.threadID,
		Messages:    msgs,
		ActiveAgent: s.activeAgent,
		Timestamp:   time.Now(),
	}
}

// changeLocked captures the hook and a snapshot while the lock is held, so
// the hook can run outside it.
func (s *Store) changeLocked() (func(Snapshot), Snapshot) {
	if s.onChange == nil {
		return nil, Snapshot{}
	}
	return s.onChange, s.snapshotLocked()
}
