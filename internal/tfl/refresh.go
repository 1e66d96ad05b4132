// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tfl

import (
	"context"
	"log/slog"
	"time"
)

// Refresher feeds a Store from the TfL API on a fixed interval. It fetches
// once immediately on Start so the first paint has data, then keeps the
// store current until the context is cancelled or Stop is called.
type Refresher struct {
	client   *Client
	store    *Store
	interval time.Duration

	cancel context.CancelFunc
	done   chan struct{}
}

// NewRefresher creates a refresher. Intervals under 10 seconds are raised
// to 10; the public API rate limit leaves no headroom for tighter loops.
func NewRefresher(client *Client, store *Store, interval time.Duration) *Refresher {
	if interval < 10*time.Second {
		interval = 10 * time.Second
	}
	return &Refresher{
		client:   client,
		store:    store,
		interval: interval,
	}
}

// Start launches the refresh loop. Safe to call once.
func (r *Refresher) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})

	go func() {
		defer close(r.done)

		r.refresh(ctx)

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.refresh(ctx)
			}
		}
	}()
}

// Stop cancels the loop and waits for the in-flight fetch to finish.
func (r *Refresher) Stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
}

func (r *Refresher) refresh(ctx context.Context) {
	r.store.SetLoading(true)
	statuses, err := r.client.GetTubeStatus(ctx)
	if err != nil {
		// Keep the previous statuses; the store records the failure.
		r.store.SetError(err.Error())
		slog.Warn("tube status refresh failed", "error", err)
		return
	}
	r.store.SetAllStatuses(statuses)
	r.store.SetLoading(false)
}
