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

var checkboxInput = locator.ByCSS(`input[type="checkbox"]`)

// Checkbox is the driver of the checkbox component: the root wraps the checkbox input, the
// indeterminate state is marked with data-indeterminate="true" on the input
type Checkbox struct {
	Base
}

// NewCheckbox creates the checkbox driver
func NewCheckbox(loc locator.Chain, it interactor.Interactor) *Checkbox {
	return &Checkbox{Base: NewBase(loc, it)}
}

func (d *Checkbox) input() locator.Chain {
	return d.child(checkboxInput)
}

// IsSelected checks the checkbox is checked
func (d *Checkbox) IsSelected(ctx context.Context) (bool, error) {
	return d.it.IsChecked(ctx, d.input())
}

// SetSelected clicks the checkbox if its state differs from the required one
func (d *Checkbox) SetSelected(ctx context.Context, selected bool) error {
	current, err := d.IsSelected(ctx)
	if err != nil || current == selected {
		return err
	}
	return d.it.Click(ctx, d.input())
}

// IsIndeterminate checks the checkbox is in the mixed state
func (d *Checkbox) IsIndeterminate(ctx context.Context) (bool, error) {
	v, _, err := d.it.GetAttribute(ctx, d.input(), "data-indeterminate")
	return v == "true", err
}

// IsDisabled checks the checkbox input is disabled
func (d *Checkbox) IsDisabled(ctx context.Context) (bool, error) {
	return d.it.IsDisabled(ctx, d.input())
}
