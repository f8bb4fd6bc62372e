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

// Package interactor translates the locator chains and abstract actions into the calls to the
// browser automation tool
package interactor

import (
	"context"
	"time"

	"github.com/adobe/atomic-interactor/lib/locator"
)

// Point is a position relative to the top-left corner of the element
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// EnterTextOption changes the way EnterText works
type EnterTextOption struct {
	// Append keeps the current content of the field and types after it
	Append bool
}

// ClickOption changes the way Click works
type ClickOption struct {
	// Position to click at, the element center if nil
	Position *Point
}

// Interactor is the low-level contract the drivers use to work with the page
//
// Read operations returning `found` report the absence of the element (or attribute) with
// found=false and no error, boolean predicates just return false for absent elements.
type Interactor interface {
	EnterText(ctx context.Context, loc locator.Chain, text string, opts ...EnterTextOption) error
	SelectOptionValue(ctx context.Context, loc locator.Chain, values []string) error
	Click(ctx context.Context, loc locator.Chain, opts ...ClickOption) error
	Hover(ctx context.Context, loc locator.Chain) error
	Focus(ctx context.Context, loc locator.Chain) error

	FindOne(ctx context.Context, loc locator.Chain) (Element, bool, error)
	FindAll(ctx context.Context, loc locator.Chain) ([]Element, error)

	GetInputValue(ctx context.Context, loc locator.Chain) (string, bool, error)
	GetSelectValues(ctx context.Context, loc locator.Chain) ([]string, bool, error)
	GetSelectLabels(ctx context.Context, loc locator.Chain) ([]string, bool, error)
	GetAttribute(ctx context.Context, loc locator.Chain, name string) (string, bool, error)
	GetAttributes(ctx context.Context, loc locator.Chain, name string) ([]string, error)
	GetText(ctx context.Context, loc locator.Chain) (string, bool, error)

	IsChecked(ctx context.Context, loc locator.Chain) (bool, error)
	IsDisabled(ctx context.Context, loc locator.Chain) (bool, error)
	IsReadonly(ctx context.Context, loc locator.Chain) (bool, error)
	IsVisible(ctx context.Context, loc locator.Chain) (bool, error)
	HasCSSClass(ctx context.Context, loc locator.Chain, class string) (bool, error)
	HasAttribute(ctx context.Context, loc locator.Chain, name string) (bool, error)

	Exists(ctx context.Context, loc locator.Chain) (bool, error)
	WaitUntilExists(ctx context.Context, loc locator.Chain, timeout time.Duration) error

	Clone() Interactor
}

func enterTextOption(opts []EnterTextOption) EnterTextOption {
	if len(opts) == 0 {
		return EnterTextOption{}
	}
	return opts[len(opts)-1]
}

func clickOption(opts []ClickOption) ClickOption {
	if len(opts) == 0 {
		return ClickOption{}
	}
	return opts[len(opts)-1]
}
