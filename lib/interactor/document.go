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

package interactor

import (
	"context"

	"github.com/adobe/atomic-interactor/lib/bridge"
)

// Document is the live page provided by the automation backend
type Document interface {
	// Root returns the document root, queries from it search the whole page
	Root(ctx context.Context) (Element, error)
	// QueryAll returns all the current matches without waiting, could be empty
	QueryAll(ctx context.Context, selector string) ([]Element, error)
	// Require waits for the first match the way the backend usually does and fails with
	// ErrElementNotFound if nothing appeared
	Require(ctx context.Context, selector string) (Element, error)
	// Failures is the channel of the ambient page failures, nil if the backend has none
	Failures() *bridge.Channel
}

// ClickOptions are passed to the backend click
type ClickOptions struct {
	// Position relative to the element top-left corner, center if nil
	Position *Point
	// Force skips the actionability checks of the backend
	Force bool
}

// SelectedOption is one selected option of the select element
type SelectedOption struct {
	Value string
	Label string
}

// Element is a matched element of the document
//
// Backends should not keep the DOM handle longer than one command, so the element is valid only
// within the command which got it.
type Element interface {
	QueryAll(ctx context.Context, selector string) ([]Element, error)

	// TagName is always upper case, like in the DOM
	TagName(ctx context.Context) (string, error)
	Attribute(ctx context.Context, name string) (string, bool, error)
	TextContent(ctx context.Context) (string, error)
	InputValue(ctx context.Context) (string, error)
	Checked(ctx context.Context) (bool, error)
	Disabled(ctx context.Context) (bool, error)
	Visible(ctx context.Context) (bool, error)
	SelectedOptions(ctx context.Context) ([]SelectedOption, error)

	Click(ctx context.Context, opts ClickOptions) error
	Hover(ctx context.Context) error
	Focus(ctx context.Context) error
	Clear(ctx context.Context) error
	Type(ctx context.Context, text string) error
	SelectOptions(ctx context.Context, values []string) error
}

// NewRootElement adapts the document queries to the Element interface, used by the backends which
// have no handle for the document node itself. Reads return zero values, actions fail.
func NewRootElement(doc Document) Element {
	return rootElement{doc: doc}
}

type rootElement struct {
	doc Document
}

func (r rootElement) QueryAll(ctx context.Context, selector string) ([]Element, error) {
	return r.doc.QueryAll(ctx, selector)
}

func (rootElement) TagName(context.Context) (string, error) { return "#DOCUMENT", nil }

func (rootElement) Attribute(context.Context, string) (string, bool, error) { return "", false, nil }

func (rootElement) TextContent(context.Context) (string, error) { return "", nil }

func (rootElement) InputValue(context.Context) (string, error) { return "", nil }

func (rootElement) Checked(context.Context) (bool, error) { return false, nil }

func (rootElement) Disabled(context.Context) (bool, error) { return false, nil }

func (rootElement) Visible(context.Context) (bool, error) { return true, nil }

func (rootElement) SelectedOptions(context.Context) ([]SelectedOption, error) { return nil, nil }

func (rootElement) Click(context.Context, ClickOptions) error { return ErrDocumentRoot }

func (rootElement) Hover(context.Context) error { return ErrDocumentRoot }

func (rootElement) Focus(context.Context) error { return ErrDocumentRoot }

func (rootElement) Clear(context.Context) error { return ErrDocumentRoot }

func (rootElement) Type(context.Context, string) error { return ErrDocumentRoot }

func (rootElement) SelectOptions(context.Context, []string) error { return ErrDocumentRoot }
