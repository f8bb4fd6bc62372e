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
	"fmt"
	"time"

	"github.com/adobe/atomic-interactor/lib/interactor"
	"github.com/adobe/atomic-interactor/lib/locator"
)

// ListboxTimeout is the wait for the popup options of the custom select
var ListboxTimeout = 2 * time.Second

type controlKind int

const (
	controlInput controlKind = iota
	controlTextarea
	controlNativeSelect
	controlCustomSelect
)

func (k controlKind) String() string {
	switch k {
	case controlTextarea:
		return "textarea"
	case controlNativeSelect:
		return "native select"
	case controlCustomSelect:
		return "custom select"
	default:
		return "input"
	}
}

var (
	// Multiline fields could have the hidden textarea used to measure the content
	textareaControl     = locator.ByCSS(`textarea:not([aria-hidden="true"])`)
	nativeSelectControl = locator.ByTag("select")
	// Custom select keeps the value in the hidden input next to the trigger
	customSelectValue   = locator.ByClass("MuiSelect-nativeInput")
	customSelectTrigger = locator.ByClass("MuiSelect-select")
	inputControl        = locator.ByTag("input")

	listbox  = locator.ByRole("listbox", locator.Root)
	backdrop = locator.ByClass("MuiBackdrop-root", locator.Root)
)

// field finds the form control inside of the component root
type field struct {
	Base
}

func (f field) control(ctx context.Context) (controlKind, locator.Chain, error) {
	candidates := []struct {
		kind controlKind
		loc  locator.Chain
	}{
		{controlTextarea, textareaControl},
		{controlNativeSelect, nativeSelectControl},
		{controlCustomSelect, customSelectValue},
		{controlInput, inputControl},
	}
	for _, c := range candidates {
		loc := f.child(c.loc)
		ok, err := f.it.Exists(ctx, loc)
		if err != nil {
			return controlInput, loc, err
		}
		if ok {
			return c.kind, loc, nil
		}
	}
	return controlInput, locator.Chain{}, interactor.NotFound(f.loc.Selector()+" control", nil)
}

func (f field) getValue(ctx context.Context) (string, bool, error) {
	_, loc, err := f.control(ctx)
	if err != nil {
		return "", false, err
	}
	return f.it.GetInputValue(ctx, loc)
}

func (f field) setValue(ctx context.Context, value string) error {
	kind, loc, err := f.control(ctx)
	if err != nil {
		return err
	}
	switch kind {
	case controlNativeSelect:
		return f.it.SelectOptionValue(ctx, loc, []string{value})
	case controlCustomSelect:
		return f.selectFromListbox(ctx, value)
	default:
		return f.it.EnterText(ctx, loc, value)
	}
}

// selectFromListbox opens the popup of the custom select and clicks the option
func (f field) selectFromListbox(ctx context.Context, value string) error {
	if err := f.it.Click(ctx, f.child(customSelectTrigger)); err != nil {
		return err
	}
	option := listbox.Then(locator.ByAttribute("data-value", value))
	if err := f.it.WaitUntilExists(ctx, option, ListboxTimeout); err != nil {
		return fmt.Errorf("driver: no option %q in the listbox: %w", value, err)
	}
	return f.it.Click(ctx, option)
}

// closeListbox clicks the backdrop of the left open popup
func (f field) closeListbox(ctx context.Context) error {
	open, err := f.it.Exists(ctx, listbox)
	if err != nil || !open {
		return err
	}
	if ok, err := f.it.Exists(ctx, backdrop); err != nil || !ok {
		return err
	}
	return f.it.Click(ctx, backdrop)
}

func (f field) isDisabled(ctx context.Context) (bool, error) {
	_, loc, err := f.control(ctx)
	if err != nil {
		return false, err
	}
	return f.it.IsDisabled(ctx, loc)
}

func (f field) isReadonly(ctx context.Context) (bool, error) {
	_, loc, err := f.control(ctx)
	if err != nil {
		return false, err
	}
	return f.it.IsReadonly(ctx, loc)
}

// TextField is the driver of the text field component: label, the control and the helper text.
// The control could be an input, a textarea, a native select or a custom select.
type TextField struct {
	field
}

// NewTextField creates the text field driver
func NewTextField(loc locator.Chain, it interactor.Interactor) *TextField {
	return &TextField{field: field{Base: NewBase(loc, it)}}
}

// GetLabel returns the text of the field label
func (d *TextField) GetLabel(ctx context.Context) (string, bool, error) {
	return d.it.GetText(ctx, d.child(locator.ByTag("label")))
}

// GetHelperText returns the helper text under the field, absent if there is none
func (d *TextField) GetHelperText(ctx context.Context) (string, bool, error) {
	return d.it.GetText(ctx, d.child(locator.ByClass("MuiFormHelperText-root")))
}

// GetValue returns the current value of the control
func (d *TextField) GetValue(ctx context.Context) (string, bool, error) {
	return d.getValue(ctx)
}

// SetValue types the text into the field or selects the option with the value
func (d *TextField) SetValue(ctx context.Context, value string) error {
	return d.setValue(ctx, value)
}

// IsDisabled checks the control is disabled
func (d *TextField) IsDisabled(ctx context.Context) (bool, error) {
	return d.isDisabled(ctx)
}

// IsReadonly checks the control is read only
func (d *TextField) IsReadonly(ctx context.Context) (bool, error) {
	return d.isReadonly(ctx)
}

// CleanUp closes the options popup if it was left open
func (d *TextField) CleanUp(ctx context.Context) error {
	return d.closeListbox(ctx)
}

// Select is the driver of the select component, native or custom one
type Select struct {
	field
}

// NewSelect creates the select driver
func NewSelect(loc locator.Chain, it interactor.Interactor) *Select {
	return &Select{field: field{Base: NewBase(loc, it)}}
}

// GetValue returns the value of the selected option
func (d *Select) GetValue(ctx context.Context) (string, bool, error) {
	return d.getValue(ctx)
}

// SetValue selects the option with the value
func (d *Select) SetValue(ctx context.Context, value string) error {
	return d.setValue(ctx, value)
}

// GetSelectedLabel returns the label of the selected option of the native select
func (d *Select) GetSelectedLabel(ctx context.Context) (string, bool, error) {
	kind, loc, err := d.control(ctx)
	if err != nil {
		return "", false, err
	}
	if kind == controlCustomSelect {
		return d.it.GetText(ctx, d.child(customSelectTrigger))
	}
	labels, found, err := d.it.GetSelectLabels(ctx, loc)
	if err != nil || !found || len(labels) == 0 {
		return "", false, err
	}
	return labels[0], true, nil
}

// IsDisabled checks the select is disabled
func (d *Select) IsDisabled(ctx context.Context) (bool, error) {
	return d.isDisabled(ctx)
}

// CleanUp closes the options popup if it was left open
func (d *Select) CleanUp(ctx context.Context) error {
	return d.closeListbox(ctx)
}
