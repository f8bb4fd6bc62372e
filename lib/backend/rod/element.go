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

package rod

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"

	"github.com/adobe/atomic-interactor/lib/interactor"
	"github.com/adobe/atomic-interactor/lib/locator"
)

// Page side functions, `this` is the element
const (
	jsTagName     = `() => this.tagName`
	jsAttribute   = `(name) => this.hasAttribute(name) ? this.getAttribute(name) : null`
	jsTextContent = `() => this.textContent`
	jsValue       = `() => (this instanceof HTMLInputElement || this instanceof HTMLTextAreaElement ||
		this instanceof HTMLSelectElement || this instanceof HTMLOptionElement) ? this.value : ''`
	jsChecked  = `() => this instanceof HTMLInputElement && this.checked`
	jsDisabled = `() => !!this.disabled`
	jsSelected = `() => this instanceof HTMLSelectElement ?
		Array.from(this.selectedOptions, o => ({value: o.value, label: o.label})) : []`
	jsEditable = `() => this.isContentEditable || ((this instanceof HTMLInputElement ||
		this instanceof HTMLTextAreaElement) && !this.disabled && !this.readOnly)`
	jsCaretToEnd = `() => { this.focus(); try { const n = this.value.length; this.setSelectionRange(n, n) } catch (e) {} }`
	jsClick      = `() => this.click()`
)

var _ interactor.Element = (*element)(nil)

type element struct {
	doc *Document
	el  *rod.Element
}

func (e *element) QueryAll(ctx context.Context, selector string) ([]interactor.Element, error) {
	els, err := e.el.Context(ctx).Elements(selector)
	if err != nil {
		return nil, err
	}
	return wrap(e.doc, els), nil
}

func (e *element) eval(ctx context.Context, js string, params ...any) (gson.JSON, error) {
	obj, err := e.el.Context(ctx).Eval(js, params...)
	if err != nil {
		return gson.JSON{}, err
	}
	return obj.Value, nil
}

func (e *element) TagName(ctx context.Context) (string, error) {
	v, err := e.eval(ctx, jsTagName)
	return v.Str(), err
}

func (e *element) Attribute(ctx context.Context, name string) (string, bool, error) {
	v, err := e.el.Context(ctx).Attribute(name)
	if err != nil || v == nil {
		return "", false, err
	}
	return *v, true, nil
}

func (e *element) TextContent(ctx context.Context) (string, error) {
	v, err := e.eval(ctx, jsTextContent)
	return v.Str(), err
}

func (e *element) InputValue(ctx context.Context) (string, error) {
	v, err := e.eval(ctx, jsValue)
	return v.Str(), err
}

func (e *element) Checked(ctx context.Context) (bool, error) {
	v, err := e.eval(ctx, jsChecked)
	return v.Bool(), err
}

func (e *element) Disabled(ctx context.Context) (bool, error) {
	v, err := e.eval(ctx, jsDisabled)
	return v.Bool(), err
}

func (e *element) Visible(ctx context.Context) (bool, error) {
	return e.el.Context(ctx).Visible()
}

func (e *element) SelectedOptions(ctx context.Context) ([]interactor.SelectedOption, error) {
	v, err := e.eval(ctx, jsSelected)
	if err != nil {
		return nil, err
	}
	items := v.Arr()
	out := make([]interactor.SelectedOption, len(items))
	for i, item := range items {
		out[i] = interactor.SelectedOption{Value: item.Get("value").Str(), Label: item.Get("label").Str()}
	}
	return out, nil
}

// Click with force dispatches the click from the page script, otherwise rod waits for the element
// to become interactable and uses the mouse
func (e *element) Click(ctx context.Context, opts interactor.ClickOptions) error {
	el := e.el.Context(ctx)
	if opts.Position == nil {
		if opts.Force {
			_, err := el.Eval(jsClick)
			return err
		}
		return el.Click(proto.InputMouseButtonLeft, 1)
	}

	if err := el.ScrollIntoView(); err != nil {
		return err
	}
	shape, err := el.Shape()
	if err != nil {
		return err
	}
	box := shape.Box()
	mouse := el.Page().Mouse
	if err = mouse.MoveTo(proto.Point{X: box.X + opts.Position.X, Y: box.Y + opts.Position.Y}); err != nil {
		return err
	}
	return mouse.Click(proto.InputMouseButtonLeft, 1)
}

func (e *element) Hover(ctx context.Context) error {
	return e.el.Context(ctx).Hover()
}

func (e *element) Focus(ctx context.Context) error {
	return e.el.Context(ctx).Focus()
}

// editable fails fast, otherwise rod waits for the field to become writable
func (e *element) editable(ctx context.Context) error {
	v, err := e.eval(ctx, jsEditable)
	if err != nil {
		return err
	}
	if !v.Bool() {
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
	el := e.el.Context(ctx)
	if err := el.SelectAllText(); err != nil {
		return err
	}
	return el.Input("")
}

func (e *element) Type(ctx context.Context, text string) error {
	if err := e.editable(ctx); err != nil {
		return err
	}
	if _, err := e.eval(ctx, jsCaretToEnd); err != nil {
		return err
	}
	return e.el.Context(ctx).Input(text)
}

func (e *element) SelectOptions(ctx context.Context, values []string) error {
	disabled, err := e.Disabled(ctx)
	if err != nil {
		return err
	}
	if disabled {
		return fmt.Errorf("%w: <select> is disabled", interactor.ErrNotEditable)
	}
	selectors := make([]string, len(values))
	for i, v := range values {
		selectors[i] = "option" + locator.ByAttribute("value", v).Selector()
	}
	return e.el.Context(ctx).Select(selectors, true, rod.SelectorTypeCSSSector)
}
