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

package driver

import (
	"context"

	"github.com/adobe/atomic-interactor/lib/interactor"
	"github.com/adobe/atomic-interactor/lib/locator"
)

// HTMLElement is the driver of any plain element
type HTMLElement struct {
	Base
}

// NewHTMLElement creates the plain element driver
func NewHTMLElement(loc locator.Chain, it interactor.Interactor) *HTMLElement {
	return &HTMLElement{Base: NewBase(loc, it)}
}

// GetText returns the text content of the element
func (d *HTMLElement) GetText(ctx context.Context) (string, bool, error) {
	return d.it.GetText(ctx, d.loc)
}

// Click clicks the element
func (d *HTMLElement) Click(ctx context.Context) error {
	return d.it.Click(ctx, d.loc)
}

// Button is the driver of the button component
type Button struct {
	Base
}

// NewButton creates the button driver
func NewButton(loc locator.Chain, it interactor.Interactor) *Button {
	return &Button{Base: NewBase(loc, it)}
}

// Click clicks the button
func (d *Button) Click(ctx context.Context) error {
	return d.it.Click(ctx, d.loc)
}

// GetText returns the label of the button
func (d *Button) GetText(ctx context.Context) (string, bool, error) {
	return d.it.GetText(ctx, d.loc)
}

// IsDisabled checks the button is disabled
func (d *Button) IsDisabled(ctx context.Context) (bool, error) {
	return d.it.IsDisabled(ctx, d.loc)
}
