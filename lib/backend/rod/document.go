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

// Package rod is the backend working with the chromium page through the DevTools protocol
package rod

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/adobe/atomic-interactor/lib/bridge"
	"github.com/adobe/atomic-interactor/lib/interactor"
	"github.com/adobe/atomic-interactor/lib/log"
)

// DefaultTimeout of the hard element queries
const DefaultTimeout = time.Second

var _ interactor.Document = (*Document)(nil)

// Document wraps the rod page
type Document struct {
	page     *rod.Page
	failures *bridge.Channel
	timeout  time.Duration
}

// NewDocument creates document over the page and starts listening for the page failures, the
// listener stops with the page
func NewDocument(page *rod.Page, timeout time.Duration, failOnPageError bool) (*Document, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	d := &Document{
		page:     page,
		failures: bridge.NewChannel(),
		timeout:  timeout,
	}

	if err := (proto.RuntimeEnable{}).Call(page); err != nil {
		return nil, fmt.Errorf("rod: unable to enable runtime events: %w", err)
	}
	go page.EachEvent(func(e *proto.RuntimeExceptionThrown) {
		if !failOnPageError {
			return
		}
		err := exceptionError(e)
		n := d.failures.Notify(err)
		log.WithFunc("rod", "EachEvent").Warn("Page error", "err", err, "commands", n)
	}, func(*proto.InspectorTargetCrashed) {
		d.failures.Notify(interactor.ErrPageCrashed)
		log.WithFunc("rod", "EachEvent").Error("Page crashed")
	})()

	return d, nil
}

func exceptionError(e *proto.RuntimeExceptionThrown) error {
	details := e.ExceptionDetails
	if details == nil {
		return fmt.Errorf("rod: uncaught exception")
	}
	if details.Exception != nil && details.Exception.Description != "" {
		return fmt.Errorf("rod: %s", details.Exception.Description)
	}
	return fmt.Errorf("rod: %s", details.Text)
}

// Page returns the underlying rod page
func (d *Document) Page() *rod.Page {
	return d.page
}

// Failures returns the failure channel of the page
func (d *Document) Failures() *bridge.Channel {
	return d.failures
}

// Root returns the whole page scope
func (d *Document) Root(ctx context.Context) (interactor.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return interactor.NewRootElement(d), nil
}

// QueryAll returns the current matches without waiting
func (d *Document) QueryAll(ctx context.Context, selector string) ([]interactor.Element, error) {
	els, err := d.page.Context(ctx).Elements(selector)
	if err != nil {
		return nil, err
	}
	return wrap(d, els), nil
}

// Require waits for the first match within the document timeout
func (d *Document) Require(ctx context.Context, selector string) (interactor.Element, error) {
	el, err := d.page.Context(ctx).Timeout(d.timeout).Element(selector)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, interactor.NotFound(selector, err)
	}
	// Detach the element from the timeout context of the query
	return &element{doc: d, el: el.CancelTimeout()}, nil
}

func wrap(d *Document, els rod.Elements) []interactor.Element {
	out := make([]interactor.Element, len(els))
	for i, el := range els {
		out[i] = &element{doc: d, el: el}
	}
	return out
}
