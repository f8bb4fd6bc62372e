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

package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

var errBoom = errors.New("boom")

func Test_await_value(t *testing.T) {
	ch := NewChannel()
	out := Await(context.Background(), ch, func(context.Context) (string, error) {
		if ch.ListenerCount() != 1 {
			return "", fmt.Errorf("listener is not registered before operation start")
		}
		return "value", nil
	})
	if !out.Ok() || out.Value != "value" {
		t.Fatalf("Await() = %+v; want: value", out)
	}
	if ch.ListenerCount() != 0 {
		t.Fatalf("ListenerCount() = %d after settlement; want: 0", ch.ListenerCount())
	}
}

func Test_await_operation_error(t *testing.T) {
	ch := NewChannel()
	wrapped := fmt.Errorf("click: %w", errBoom)
	_, err := Await(context.Background(), ch, func(context.Context) (int, error) {
		return 0, wrapped
	}).Unwrap()
	if err != wrapped {
		t.Fatalf("Await() err = %v; want unmodified %v", err, wrapped)
	}
}

func Test_await_ambient_failure(t *testing.T) {
	ch := NewChannel()
	stopped := make(chan struct{})
	out := Await(context.Background(), ch, func(ctx context.Context) (int, error) {
		ch.Notify(errBoom)
		ch.Notify(errors.New("second failure"))
		<-ctx.Done()
		close(stopped)
		return 42, nil
	})
	if !errors.Is(out.Err, errBoom) {
		t.Fatalf("Await() err = %v; want: %v", out.Err, errBoom)
	}
	if out.Value != 0 {
		t.Fatalf("Await() value = %d; want zero value on failure", out.Value)
	}

	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatalf("operation context was not cancelled after settlement")
	}

	if n := ch.Notify(errBoom); n != 0 {
		t.Fatalf("Notify() after settlement reached %d listeners; want: 0", n)
	}
}

func Test_await_context_cancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := NewChannel()
	out := Await(ctx, ch, func(opCtx context.Context) (bool, error) {
		cancel()
		<-opCtx.Done()
		// Late result should never win over the cancellation
		time.Sleep(10 * time.Millisecond)
		return true, nil
	})
	if !errors.Is(out.Err, context.Canceled) {
		t.Fatalf("Await() err = %v; want: %v", out.Err, context.Canceled)
	}
	if ch.ListenerCount() != 0 {
		t.Fatalf("ListenerCount() = %d; want: 0", ch.ListenerCount())
	}
}

func Test_await_nil_channel(t *testing.T) {
	if err := Run(context.Background(), nil, func(context.Context) error { return nil }); err != nil {
		t.Fatalf("Run() with nil channel = %v; want: nil", err)
	}
}

// Verify listeners return to the baseline after any amount of sequential calls
func Test_await_no_listener_leak(t *testing.T) {
	ch := NewChannel()
	unsubscribe := ch.Subscribe(func(error) {})
	defer unsubscribe()
	baseline := ch.ListenerCount()

	for i := 0; i < 100; i++ {
		err := Run(context.Background(), ch, func(ctx context.Context) error {
			if i%2 == 0 {
				return nil
			}
			ch.Notify(errBoom)
			<-ctx.Done()
			return nil
		})
		if i%2 == 1 && !errors.Is(err, errBoom) {
			t.Fatalf("Run() #%d = %v; want: %v", i, err, errBoom)
		}
		if ch.ListenerCount() != baseline {
			t.Fatalf("ListenerCount() = %d after call #%d; want: %d", ch.ListenerCount(), i, baseline)
		}
	}
}

func Test_await_concurrent(t *testing.T) {
	ch := NewChannel()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out := Await(context.Background(), ch, func(context.Context) (int, error) {
				return i, nil
			})
			if out.Err != nil || out.Value != i {
				t.Errorf("Await() #%d = %+v", i, out)
			}
		}(i)
	}
	wg.Wait()
	if ch.ListenerCount() != 0 {
		t.Fatalf("ListenerCount() = %d; want: 0", ch.ListenerCount())
	}
}

func Test_unsubscribe_idempotent(t *testing.T) {
	ch := NewChannel()
	un1 := ch.Subscribe(func(error) {})
	un2 := ch.Subscribe(func(error) {})
	un1()
	un1()
	if ch.ListenerCount() != 1 {
		t.Fatalf("ListenerCount() = %d; want: 1", ch.ListenerCount())
	}
	un2()
	if ch.ListenerCount() != 0 {
		t.Fatalf("ListenerCount() = %d; want: 0", ch.ListenerCount())
	}
}
