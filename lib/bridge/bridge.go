/**
 * Copyright 2025 Adobe. All rights reserved.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License. You may obtain a copy
 * of the License at http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software distributed under
 * the License is distributed on an "AS IS" BASIS, WITHOUT WARRANTIES OR REPRESENTATIONS
 * OF ANY KIND, either express or implied. See the License for the specific language
 * governing permissions and limitations under the License.
 */

// Package bridge turns operations completing through callbacks or ambient failure events into
// a single awaited outcome
package bridge

import (
	"context"
	"sync"
)

// Channel is an ambient failure channel of a live document (page errors, crashes and such)
//
// Listeners are registered for the duration of one operation only, Await takes care of that.
type Channel struct {
	mu        sync.Mutex
	nextID    uint64
	listeners map[uint64]func(error)
}

// NewChannel creates empty failure channel
func NewChannel() *Channel {
	return &Channel{listeners: make(map[uint64]func(error))}
}

// Subscribe registers failure listener and returns the function to remove it, which is safe to
// call multiple times
func (c *Channel) Subscribe(fn func(error)) (unsubscribe func()) {
	c.mu.Lock()
	if c.listeners == nil {
		c.listeners = make(map[uint64]func(error))
	}
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.listeners, id)
			c.mu.Unlock()
		})
	}
}

// Notify sends the failure to all the current listeners and returns how many were notified
func (c *Channel) Notify(err error) int {
	c.mu.Lock()
	fns := make([]func(error), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	// Calling outside of the lock allows listener to unsubscribe itself
	for _, fn := range fns {
		fn(err)
	}
	return len(fns)
}

// ListenerCount returns amount of currently registered listeners
func (c *Channel) ListenerCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.listeners)
}

// Outcome is the settled result of one operation: either Value or Err
type Outcome[T any] struct {
	Value T
	Err   error
}

// Ok shows the operation completed successfully
func (o Outcome[T]) Ok() bool {
	return o.Err == nil
}

// Unwrap returns the outcome in regular go form
func (o Outcome[T]) Unwrap() (T, error) {
	return o.Value, o.Err
}

// Await runs the operation and settles exactly once with the first of: operation result, failure
// reported to the channel, context cancellation
//
// The failure listener is registered before the operation starts and removed right after the
// settlement. The operation receives context which is cancelled when the outcome is settled, so
// it could stop early if the failure came first. Errors are returned unmodified.
func Await[T any](ctx context.Context, ch *Channel, op func(context.Context) (T, error)) Outcome[T] {
	opCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	failed := make(chan error, 1)
	if ch != nil {
		unsubscribe := ch.Subscribe(func(err error) {
			select {
			case failed <- err:
			default:
				// Already got one, the rest are ignored
			}
		})
		defer unsubscribe()
	}

	done := make(chan Outcome[T], 1)
	go func() {
		v, err := op(opCtx)
		done <- Outcome[T]{Value: v, Err: err}
	}()

	select {
	case out := <-done:
		return out
	case err := <-failed:
		return Outcome[T]{Err: err}
	case <-ctx.Done():
		return Outcome[T]{Err: ctx.Err()}
	}
}

// Run is Await for operations without the value
func Run(ctx context.Context, ch *Channel, op func(context.Context) error) error {
	return Await(ctx, ch, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	}).Err
}
