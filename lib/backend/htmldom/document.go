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

// Package htmldom is the backend over a static HTML document, it runs no scripts but emulates the
// default behavior of the form controls
package htmldom

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/adobe/atomic-interactor/lib/bridge"
	"github.com/adobe/atomic-interactor/lib/interactor"
	"github.com/adobe/atomic-interactor/lib/log"
)

var _ interactor.Document = (*Document)(nil)

// Document is a parsed HTML tree, safe for concurrent use
type Document struct {
	mu       sync.Mutex
	root     *html.Node
	failures *bridge.Channel

	// Used by Visit to resolve the routes
	baseURL *url.URL
	client  *http.Client
}

// New creates an empty document
func New() *Document {
	return &Document{
		root:     &html.Node{Type: html.DocumentNode},
		failures: bridge.NewChannel(),
		client:   http.DefaultClient,
	}
}

// Parse reads the document from html source
func Parse(r io.Reader) (*Document, error) {
	d := New()
	if err := d.Load(r); err != nil {
		return nil, err
	}
	return d, nil
}

// ParseString reads the document from the html string
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Load replaces the current tree with the new one
func (d *Document) Load(r io.Reader) error {
	root, err := html.Parse(r)
	if err != nil {
		return fmt.Errorf("htmldom: unable to parse document: %w", err)
	}
	d.mu.Lock()
	d.root = root
	d.mu.Unlock()
	return nil
}

// SetBaseURL sets the base url used by Visit for the relative routes
func (d *Document) SetBaseURL(base string) error {
	u, err := url.Parse(base)
	if err != nil {
		return fmt.Errorf("htmldom: invalid base url %q: %w", base, err)
	}
	d.baseURL = u
	return nil
}

// Visit downloads the page and loads it as the current document
func (d *Document) Visit(ctx context.Context, route string) error {
	target, err := url.Parse(route)
	if err != nil {
		return fmt.Errorf("htmldom: invalid route %q: %w", route, err)
	}
	if d.baseURL != nil {
		target = d.baseURL.ResolveReference(target)
	}

	log.WithFunc("htmldom", "Visit").Debug("Loading page", "url", target.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("htmldom: unable to load %s: %w", target, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("htmldom: unable to load %s: %s", target, resp.Status)
	}
	return d.Load(resp.Body)
}

// ReportError sends the error to the failure channel like the page script error would do
func (d *Document) ReportError(err error) int {
	return d.failures.Notify(err)
}

// Failures returns the failure channel of the document
func (d *Document) Failures() *bridge.Channel {
	return d.failures
}

// Root returns the document node
func (d *Document) Root(ctx context.Context) (interactor.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return &element{doc: d, node: d.root}, nil
}

// QueryAll returns all the current matches of the selector
func (d *Document) QueryAll(ctx context.Context, selector string) ([]interactor.Element, error) {
	root, err := d.Root(ctx)
	if err != nil {
		return nil, err
	}
	return root.QueryAll(ctx, selector)
}

// Require returns the first match, static document has nothing to wait for
func (d *Document) Require(ctx context.Context, selector string) (interactor.Element, error) {
	els, err := d.QueryAll(ctx, selector)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, interactor.NotFound(selector, nil)
	}
	return els[0], nil
}

// HTML renders the current state of the document
func (d *Document) HTML() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var buf bytes.Buffer
	if err := html.Render(&buf, d.root); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func compile(selector string) (cascadia.SelectorGroup, error) {
	sel, err := cascadia.ParseGroup(selector)
	if err != nil {
		return nil, fmt.Errorf("htmldom: invalid selector %q: %w", selector, err)
	}
	return sel, nil
}
