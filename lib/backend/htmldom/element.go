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

package htmldom

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/adobe/atomic-interactor/lib/interactor"
)

var _ interactor.Element = (*element)(nil)

type element struct {
	doc  *Document
	node *html.Node
}

// lock guards the tree and checks the context
func (e *element) lock(ctx context.Context) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.doc.mu.Lock()
	return e.doc.mu.Unlock, nil
}

func (e *element) QueryAll(ctx context.Context, selector string) ([]interactor.Element, error) {
	sel, err := compile(selector)
	if err != nil {
		return nil, err
	}
	unlock, err := e.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	nodes := cascadia.QueryAll(e.node, sel)
	out := make([]interactor.Element, len(nodes))
	for i, n := range nodes {
		out[i] = &element{doc: e.doc, node: n}
	}
	return out, nil
}

func (e *element) TagName(ctx context.Context) (string, error) {
	unlock, err := e.lock(ctx)
	if err != nil {
		return "", err
	}
	defer unlock()
	if e.node.Type != html.ElementNode {
		return "#DOCUMENT", nil
	}
	return strings.ToUpper(e.node.Data), nil
}

func (e *element) Attribute(ctx context.Context, name string) (string, bool, error) {
	unlock, err := e.lock(ctx)
	if err != nil {
		return "", false, err
	}
	defer unlock()
	v, ok := attr(e.node, strings.ToLower(name))
	return v, ok, nil
}

func (e *element) TextContent(ctx context.Context) (string, error) {
	unlock, err := e.lock(ctx)
	if err != nil {
		return "", err
	}
	defer unlock()
	return textContent(e.node), nil
}

func (e *element) InputValue(ctx context.Context) (string, error) {
	unlock, err := e.lock(ctx)
	if err != nil {
		return "", err
	}
	defer unlock()

	switch {
	case isTag(e.node, "input"):
		v, ok := attr(e.node, "value")
		if !ok {
			switch inputType(e.node) {
			case "checkbox", "radio":
				// Default value of the checkable inputs
				return "on", nil
			}
		}
		return v, nil
	case isTag(e.node, "textarea"):
		return textContent(e.node), nil
	case isTag(e.node, "select"):
		if opts := selectedOptions(e.node); len(opts) > 0 {
			return optionValue(opts[0]), nil
		}
		return "", nil
	case isTag(e.node, "option"):
		return optionValue(e.node), nil
	}
	return "", nil
}

func (e *element) Checked(ctx context.Context) (bool, error) {
	unlock, err := e.lock(ctx)
	if err != nil {
		return false, err
	}
	defer unlock()
	return isTag(e.node, "input") && hasAttr(e.node, "checked"), nil
}

func (e *element) Disabled(ctx context.Context) (bool, error) {
	unlock, err := e.lock(ctx)
	if err != nil {
		return false, err
	}
	defer unlock()
	return disabled(e.node), nil
}

func (e *element) Visible(ctx context.Context) (bool, error) {
	unlock, err := e.lock(ctx)
	if err != nil {
		return false, err
	}
	defer unlock()
	if e.node.Type != html.ElementNode {
		return false, nil
	}
	for p := e.node; p != nil; p = p.Parent {
		if hidden(p) {
			return false, nil
		}
	}
	return true, nil
}

func (e *element) SelectedOptions(ctx context.Context) ([]interactor.SelectedOption, error) {
	unlock, err := e.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()
	if !isTag(e.node, "select") {
		return nil, nil
	}
	opts := selectedOptions(e.node)
	out := make([]interactor.SelectedOption, len(opts))
	for i, o := range opts {
		out[i] = interactor.SelectedOption{Value: optionValue(o), Label: optionLabel(o)}
	}
	return out, nil
}

// Click emulates the default activation behavior: checkbox toggles, radio gets checked and the
// label passes the click to its control. Disabled controls ignore the click.
func (e *element) Click(ctx context.Context, opts interactor.ClickOptions) error {
	unlock, err := e.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if e.node.Type != html.ElementNode {
		return fmt.Errorf("htmldom: unable to click on the document node")
	}
	if !opts.Force {
		for p := e.node; p != nil; p = p.Parent {
			if hidden(p) {
				return fmt.Errorf("htmldom: element <%s> is not visible", e.node.Data)
			}
		}
	}

	target := e.node
	if !isTag(target, "input", "select", "textarea", "button") {
		if label := closest(target, "label"); label != nil {
			if control := labelControl(label); control != nil {
				target = control
			}
		}
	}
	if disabled(target) {
		return nil
	}

	if isTag(target, "input") {
		switch inputType(target) {
		case "checkbox":
			if hasAttr(target, "checked") {
				removeAttr(target, "checked")
			} else {
				setAttr(target, "checked", "")
			}
			removeAttr(target, "data-indeterminate")
		case "radio":
			uncheckGroup(target)
			setAttr(target, "checked", "")
		}
	}
	return nil
}

func uncheckGroup(radio *html.Node) {
	name, ok := attr(radio, "name")
	if !ok || name == "" {
		return
	}
	scope := closest(radio, "form")
	if scope == nil {
		scope = documentOf(radio)
	}
	sel := cascadia.MustCompile(`input[type="radio"]`)
	for _, n := range cascadia.QueryAll(scope, sel) {
		if v, _ := attr(n, "name"); v == name {
			removeAttr(n, "checked")
		}
	}
}

// Hover does nothing, static document has no pointer state
func (e *element) Hover(ctx context.Context) error {
	return ctx.Err()
}

// Focus does nothing, static document has no focus state
func (e *element) Focus(ctx context.Context) error {
	return ctx.Err()
}

func (e *element) Clear(ctx context.Context) error {
	unlock, err := e.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()
	if !editable(e.node) {
		return fmt.Errorf("%w: <%s>", interactor.ErrNotEditable, e.node.Data)
	}
	if isTag(e.node, "textarea") {
		setTextContent(e.node, "")
	} else {
		setAttr(e.node, "value", "")
	}
	return nil
}

func (e *element) Type(ctx context.Context, text string) error {
	unlock, err := e.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()
	if !editable(e.node) {
		return fmt.Errorf("%w: <%s>", interactor.ErrNotEditable, e.node.Data)
	}
	if isTag(e.node, "textarea") {
		setTextContent(e.node, textContent(e.node)+text)
	} else {
		v, _ := attr(e.node, "value")
		setAttr(e.node, "value", v+text)
	}
	return nil
}

func (e *element) SelectOptions(ctx context.Context, values []string) error {
	unlock, err := e.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()
	if !isTag(e.node, "select") {
		return fmt.Errorf("htmldom: element <%s> is not a select", e.node.Data)
	}
	if disabled(e.node) {
		return fmt.Errorf("%w: <select> is disabled", interactor.ErrNotEditable)
	}

	multiple := hasAttr(e.node, "multiple")
	options := cascadia.QueryAll(e.node, optionSel)
	var matched []*html.Node
	for _, o := range options {
		if slices.Contains(values, optionValue(o)) && !disabled(o) {
			matched = append(matched, o)
			if !multiple {
				break
			}
		}
	}
	if len(values) > 0 && len(matched) == 0 {
		return fmt.Errorf("htmldom: no options with values %q", values)
	}
	for _, o := range options {
		if slices.Contains(matched, o) {
			setAttr(o, "selected", "")
		} else {
			removeAttr(o, "selected")
		}
	}
	return nil
}
