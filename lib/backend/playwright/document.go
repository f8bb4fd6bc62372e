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

// Package playwright is the backend working with the live browser page through Playwright
package playwright

import (
	"context"

	pw "github.com/playwright-community/playwright-go"

	"github.com/adobe/atomic-interactor/lib/bridge"
	"github.com/adobe/atomic-interactor/lib/interactor"
	"github.com/adobe/atomic-interactor/lib/log"
)

var _ interactor.Document = (*Document)(nil)

// Document wraps the playwright page
//
// Elements are lazy locators pointing to the n-th match, so no DOM handle outlives a command.
type Document struct {
	page     pw.Page
	failures *bridge.Channel
}

// NewDocument creates document over the page, with failOnPageError the uncaught page script
// errors fail the running commands
func NewDocument(page pw.Page, failOnPageError bool) *Document {
	d := &Document{
		page:     page,
		failures: bridge.NewChannel(),
	}

	if failOnPageError {
		page.OnPageError(func(err error) {
			n := d.failures.Notify(err)
			log.WithFunc("playwright", "OnPageError").Warn("Page error", "err", err, "commands", n)
		})
	}
	page.OnCrash(func(pw.Page) {
		d.failures.Notify(interactor.ErrPageCrashed)
		log.WithFunc("playwright", "OnCrash").Error("Page crashed")
	})

	return d
}

// Page returns the underlying playwright page
func (d *Document) Page() pw.Page {
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
	return d.collect(ctx, d.page.Locator(selector))
}

// Require waits for the first match to be attached within the page default timeout
func (d *Document) Require(ctx context.Context, selector string) (interactor.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	loc := d.page.Locator(selector).First()
	if err := loc.WaitFor(pw.LocatorWaitForOptions{State: pw.WaitForSelectorStateAttached}); err != nil {
		return nil, interactor.NotFound(selector, err)
	}
	return &element{doc: d, loc: loc}, nil
}

func (d *Document) collect(ctx context.Context, loc pw.Locator) ([]interactor.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n, err := loc.Count()
	if err != nil {
		return nil, err
	}
	out := make([]interactor.Element, n)
	for i := range out {
		out[i] = &element{doc: d, loc: loc.Nth(i)}
	}
	return out, nil
}
