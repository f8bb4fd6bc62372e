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

package playwright

import (
	"context"
	"fmt"

	pw "github.com/playwright-community/playwright-go"

	"github.com/adobe/atomic-interactor/lib/interactor"
)

// Page side functions, the element is the first argument
const (
	jsTagName   = `el => el.tagName`
	jsAttribute = `(el, name) => el.hasAttribute(name) ? el.getAttribute(name) : null`
	jsValue     = `el => (el instanceof HTMLInputElement || el instanceof HTMLTextAreaElement ||
		el instanceof HTMLSelectElement || el instanceof HTMLOptionElement) ? el.value : ''`
	jsChecked  = `el => el instanceof HTMLInputElement && el.checked`
	jsDisabled = `el => !!el.disabled`
	jsSelected = `el => el instanceof HTMLSelectElement ?
		Array.from(el.selectedOptions, o => ({value: o.value, label: o.label})) : []`
	jsEditable = `el => el.isContentEditable || ((el instanceof HTMLInputElement ||
		el instanceof HTMLTextAreaElement) && !el.disabled && !el.readOnly)`
	jsCaretToEnd = `el => { el.focus(); try { const n = el.value.length; el.setSelectionRange(n, n) } catch (e) {} }`
)

var _ interactor.Element = (*element)(nil)

type element struct {
	doc *Document
	loc pw.Locator
}

func (e *element) QueryAll(ctx context.Context, selector string) ([]interactor.Element, error) {
	return e.doc.collect(ctx, e.loc.Locator(selector))
}

func (e *element) eval(ctx context.Context, js string, arg any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.loc.Evaluate(js, arg)
}

func (e *element) evalBool(ctx context.Context, js string) (bool, error) {
	v, err := e.eval(ctx, js, nil)
	if err != nil {
		return false, err
	}
	b, _ := v.(bool)
	return b, nil
}

func (e *element) evalString(ctx context.Context, js string, arg any) (string, bool, error) {
	v, err := e.eval(ctx, js, arg)
	if err != nil || v == nil {
		return "", false, err
	}
	s, ok := v.(string)
	return s, ok, nil
}

func (e *element) TagName(ctx context.Context) (string, error) {
	v, _, err := e.evalString(ctx, jsTagName, nil)
	return v, err
}

func (e *element) Attribute(ctx context.Context, name string) (string, bool, error) {
	return e.evalString(ctx, jsAttribute, name)
}

func (e *element) TextContent(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return e.loc.TextContent()
}

func (e *element) InputValue(ctx context.Context) (string, error) {
	v, _, err := e.evalString(ctx, jsValue, nil)
	return v, err
}

func (e *element) Checked(ctx context.Context) (bool, error) {
	return e.evalBool(ctx, jsChecked)
}

func (e *element) Disabled(ctx context.Context) (bool, error) {
	return e.evalBool(ctx, jsDisabled)
}

func (e *element) Visible(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return e.loc.IsVisible()
}

func (e *element) SelectedOptions(ctx context.Context) ([]interactor.SelectedOption, error) {
	v, err := e.eval(ctx, jsSelected, nil)
	if err != nil {
		return nil, err
	}
	items, _ := v.([]any)
	out := make([]interactor.SelectedOption, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		value, _ := m["value"].(string)
		label, _ := m["label"].(string)
		out = append(out, interactor.SelectedOption{Value: value, Label: label})
	}
	return out, nil
}

func (e *element) Click(ctx context.Context, opts interactor.ClickOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	o := pw.LocatorClickOptions{Force: pw.Bool(opts.Force)}
	if opts.Position != nil {
		o.Position = &pw.Position{X: opts.Position.X, Y: opts.Position.Y}
	}
	return e.loc.Click(o)
}

func (e *element) Hover(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.loc.Hover(pw.LocatorHoverOptions{Force: pw.Bool(true)})
}

func (e *element) Focus(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.loc.Focus()
}

// editable fails fast, otherwise playwright waits for the field to become editable until timeout
func (e *element) editable(ctx context.Context) error {
	ok, err := e.evalBool(ctx, jsEditable)
	if err != nil {
		return err
	}
	if !ok {
		if tag, terr := e.TagName(ctx); terr == nil {
			return fmt.Errorf("%w: <%s>", interactor.ErrNotEditable, tag)
		}
		return interactor.ErrNotEditable
	}
	return nil
}

func (e *element) Clear(ctx context.Context) error {
	if err := e.editable(ctx); err != nil {
		return err
	}
	return e.loc.Clear()
}

func (e *element) Type(ctx context.Context, text string) error {
	if err := e.editable(ctx); err != nil {
		return err
	}
	if _, err := e.loc.Evaluate(jsCaretToEnd, nil); err != nil {
		return err
	}
	return e.loc.PressSequentially(text)
}

func (e *element) SelectOptions(ctx context.Context, values []string) error {
	disabled, err := e.Disabled(ctx)
	if err != nil {
		return err
	}
	if disabled {
		return fmt.Errorf("%w: <select> is disabled", interactor.ErrNotEditable)
	}
	_, err = e.loc.SelectOption(pw.SelectOptionValues{Values: pw.StringSlice(values...)})
	return err
}
