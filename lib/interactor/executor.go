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
	"slices"
	"strings"
	"time"

	"github.com/adobe/atomic-interactor/lib/bridge"
	"github.com/adobe/atomic-interactor/lib/locator"
	"github.com/adobe/atomic-interactor/lib/log"
	"github.com/adobe/atomic-interactor/lib/monitoring"
)

// DefaultPollInterval is used by WaitUntilExists between the checks
const DefaultPollInterval = 100 * time.Millisecond

var _ Interactor = (*Executor)(nil)

// Executor implements Interactor on top of the document
type Executor struct {
	doc      Document
	resolver *Resolver
	monitor  *monitoring.Monitor

	pollInterval time.Duration
}

// NewExecutor creates executor over the document
func NewExecutor(doc Document) *Executor {
	return &Executor{
		doc:          doc,
		resolver:     NewResolver(doc),
		pollInterval: DefaultPollInterval,
	}
}

// SetMonitor attaches the monitor to trace and count the commands
func (e *Executor) SetMonitor(monitor *monitoring.Monitor) {
	e.monitor = monitor
}

// SetPollInterval changes the interval of WaitUntilExists checks
func (e *Executor) SetPollInterval(interval time.Duration) {
	if interval > 0 {
		e.pollInterval = interval
	}
}

// Resolver returns the resolver of the executor
func (e *Executor) Resolver() *Resolver {
	return e.resolver
}

// run executes the command through the completion bridge with the document failure channel
func run[T any](ctx context.Context, e *Executor, command string, loc locator.Chain, op func(context.Context, string) (T, error)) (T, error) {
	sel := locator.ToSelector(loc)
	ctx, done := e.monitor.StartCommand(ctx, command, sel)

	out := bridge.Await(ctx, e.doc.Failures(), func(ctx context.Context) (T, error) {
		return op(ctx, sel)
	})
	done(out.Err)

	logger := log.WithFunc("interactor", command)
	if out.Err != nil {
		logger.Debug("Command failed", "selector", sel, "err", out.Err)
	} else {
		logger.Debug("Command completed", "selector", sel)
	}
	return out.Unwrap()
}

// EnterText types the text into the element, the current content is cleared unless Append is set
func (e *Executor) EnterText(ctx context.Context, loc locator.Chain, text string, opts ...EnterTextOption) error {
	opt := enterTextOption(opts)
	_, err := run(ctx, e, "EnterText", loc, func(ctx context.Context, _ string) (struct{}, error) {
		el, err := e.resolver.Require(ctx, loc)
		if err != nil {
			return struct{}{}, err
		}
		if !opt.Append {
			if err = el.Clear(ctx); err != nil {
				return struct{}{}, err
			}
		}
		return struct{}{}, el.Type(ctx, text)
	})
	return err
}

// SelectOptionValue selects the options of the select element, missing element is ignored
func (e *Executor) SelectOptionValue(ctx context.Context, loc locator.Chain, values []string) error {
	_, err := run(ctx, e, "SelectOptionValue", loc, func(ctx context.Context, sel string) (struct{}, error) {
		el, found, err := e.resolver.FindOne(ctx, loc)
		if err != nil {
			return struct{}{}, err
		}
		if !found {
			log.WithFunc("interactor", "SelectOptionValue").Debug("No element to select options", "selector", sel)
			return struct{}{}, nil
		}
		return struct{}{}, el.SelectOptions(ctx, values)
	})
	return err
}

// Click clicks the element, forcing the click even if the backend considers it not actionable
func (e *Executor) Click(ctx context.Context, loc locator.Chain, opts ...ClickOption) error {
	opt := clickOption(opts)
	_, err := run(ctx, e, "Click", loc, func(ctx context.Context, _ string) (struct{}, error) {
		el, err := e.resolver.Require(ctx, loc)
		if err != nil {
			return struct{}{}, err
		}
		return struct{}{}, el.Click(ctx, ClickOptions{Position: opt.Position, Force: true})
	})
	return err
}

// Hover moves the pointer over the element
func (e *Executor) Hover(ctx context.Context, loc locator.Chain) error {
	_, err := run(ctx, e, "Hover", loc, func(ctx context.Context, _ string) (struct{}, error) {
		el, err := e.resolver.Require(ctx, loc)
		if err != nil {
			return struct{}{}, err
		}
		return struct{}{}, el.Hover(ctx)
	})
	return err
}

// Focus moves the focus to the element
func (e *Executor) Focus(ctx context.Context, loc locator.Chain) error {
	_, err := run(ctx, e, "Focus", loc, func(ctx context.Context, _ string) (struct{}, error) {
		el, err := e.resolver.Require(ctx, loc)
		if err != nil {
			return struct{}{}, err
		}
		return struct{}{}, el.Focus(ctx)
	})
	return err
}

type optional[T any] struct {
	value T
	found bool
}

// FindOne returns the first element of the chain
func (e *Executor) FindOne(ctx context.Context, loc locator.Chain) (Element, bool, error) {
	out, err := run(ctx, e, "FindOne", loc, func(ctx context.Context, _ string) (optional[Element], error) {
		el, found, err := e.resolver.FindOne(ctx, loc)
		return optional[Element]{el, found}, err
	})
	return out.value, out.found, err
}

// FindAll returns all the elements of the chain
func (e *Executor) FindAll(ctx context.Context, loc locator.Chain) ([]Element, error) {
	return run(ctx, e, "FindAll", loc, func(ctx context.Context, _ string) ([]Element, error) {
		return e.resolver.FindAll(ctx, loc)
	})
}

// read is a common soft read of the first element
func read[T any](ctx context.Context, e *Executor, command string, loc locator.Chain, fn func(context.Context, Element) (T, bool, error)) (T, bool, error) {
	out, err := run(ctx, e, command, loc, func(ctx context.Context, _ string) (optional[T], error) {
		el, found, err := e.resolver.FindOne(ctx, loc)
		if err != nil || !found {
			return optional[T]{}, err
		}
		v, ok, err := fn(ctx, el)
		return optional[T]{v, ok}, err
	})
	return out.value, out.found, err
}

// predicate is read of the boolean, false for absent element
func predicate(ctx context.Context, e *Executor, command string, loc locator.Chain, fn func(context.Context, Element) (bool, error)) (bool, error) {
	v, _, err := read(ctx, e, command, loc, func(ctx context.Context, el Element) (bool, bool, error) {
		v, err := fn(ctx, el)
		return v, true, err
	})
	return v, err
}

// GetInputValue returns the value of the input element
func (e *Executor) GetInputValue(ctx context.Context, loc locator.Chain) (string, bool, error) {
	return read(ctx, e, "GetInputValue", loc, func(ctx context.Context, el Element) (string, bool, error) {
		v, err := el.InputValue(ctx)
		return v, err == nil, err
	})
}

func (e *Executor) selected(ctx context.Context, command string, loc locator.Chain, label bool) ([]string, bool, error) {
	return read(ctx, e, command, loc, func(ctx context.Context, el Element) ([]string, bool, error) {
		tag, err := el.TagName(ctx)
		if err != nil || tag != "SELECT" {
			return nil, false, err
		}
		opts, err := el.SelectedOptions(ctx)
		if err != nil {
			return nil, false, err
		}
		out := make([]string, len(opts))
		for i, o := range opts {
			if label {
				out[i] = o.Label
			} else {
				out[i] = o.Value
			}
		}
		return out, true, nil
	})
}

// GetSelectValues returns values of the selected options, absent if the element is not a select
func (e *Executor) GetSelectValues(ctx context.Context, loc locator.Chain) ([]string, bool, error) {
	return e.selected(ctx, "GetSelectValues", loc, false)
}

// GetSelectLabels returns labels of the selected options, absent if the element is not a select
func (e *Executor) GetSelectLabels(ctx context.Context, loc locator.Chain) ([]string, bool, error) {
	return e.selected(ctx, "GetSelectLabels", loc, true)
}

// GetAttribute returns the attribute of the first element
func (e *Executor) GetAttribute(ctx context.Context, loc locator.Chain, name string) (string, bool, error) {
	return read(ctx, e, "GetAttribute", loc, func(ctx context.Context, el Element) (string, bool, error) {
		return el.Attribute(ctx, name)
	})
}

// GetAttributes returns the attribute of every element of the chain, empty where it's missing
func (e *Executor) GetAttributes(ctx context.Context, loc locator.Chain, name string) ([]string, error) {
	return run(ctx, e, "GetAttributes", loc, func(ctx context.Context, _ string) ([]string, error) {
		els, err := e.resolver.FindAll(ctx, loc)
		if err != nil {
			return nil, err
		}
		out := make([]string, len(els))
		for i, el := range els {
			if out[i], _, err = el.Attribute(ctx, name); err != nil {
				return nil, err
			}
		}
		return out, nil
	})
}

// GetText returns the text content of the element
func (e *Executor) GetText(ctx context.Context, loc locator.Chain) (string, bool, error) {
	return read(ctx, e, "GetText", loc, func(ctx context.Context, el Element) (string, bool, error) {
		v, err := el.TextContent(ctx)
		return v, err == nil, err
	})
}

// IsChecked shows the element is a checked input
func (e *Executor) IsChecked(ctx context.Context, loc locator.Chain) (bool, error) {
	return predicate(ctx, e, "IsChecked", loc, func(ctx context.Context, el Element) (bool, error) {
		tag, err := el.TagName(ctx)
		if err != nil || tag != "INPUT" {
			return false, err
		}
		return el.Checked(ctx)
	})
}

// IsDisabled shows the element is disabled
func (e *Executor) IsDisabled(ctx context.Context, loc locator.Chain) (bool, error) {
	return predicate(ctx, e, "IsDisabled", loc, func(ctx context.Context, el Element) (bool, error) {
		return el.Disabled(ctx)
	})
}

// IsReadonly shows the element has readonly attribute
func (e *Executor) IsReadonly(ctx context.Context, loc locator.Chain) (bool, error) {
	return e.HasAttribute(ctx, loc, "readonly")
}

// IsVisible shows the element is rendered
func (e *Executor) IsVisible(ctx context.Context, loc locator.Chain) (bool, error) {
	return predicate(ctx, e, "IsVisible", loc, func(ctx context.Context, el Element) (bool, error) {
		return el.Visible(ctx)
	})
}

// HasCSSClass shows the class list of the element contains the class
func (e *Executor) HasCSSClass(ctx context.Context, loc locator.Chain, class string) (bool, error) {
	return predicate(ctx, e, "HasCSSClass", loc, func(ctx context.Context, el Element) (bool, error) {
		classes, _, err := el.Attribute(ctx, "class")
		if err != nil {
			return false, err
		}
		return slices.Contains(strings.Fields(classes), class), nil
	})
}

// HasAttribute shows the element has the attribute
func (e *Executor) HasAttribute(ctx context.Context, loc locator.Chain, name string) (bool, error) {
	return predicate(ctx, e, "HasAttribute", loc, func(ctx context.Context, el Element) (bool, error) {
		_, found, err := el.Attribute(ctx, name)
		return found, err
	})
}

// Exists checks the element of the chain is present, see Resolver.Exists
func (e *Executor) Exists(ctx context.Context, loc locator.Chain) (bool, error) {
	return run(ctx, e, "Exists", loc, func(ctx context.Context, _ string) (bool, error) {
		return e.resolver.Exists(ctx, loc)
	})
}

// WaitUntilExists polls Exists until it's true, returns ErrElementNotFound after the timeout
func (e *Executor) WaitUntilExists(ctx context.Context, loc locator.Chain, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()
	for {
		exists, err := e.Exists(ctx, loc)
		if err != nil && ctx.Err() == nil {
			return err
		}
		if exists {
			return nil
		}
		select {
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				return NotFound(loc.Selector(), ctx.Err())
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Clone returns a new executor over the same document and monitor
func (e *Executor) Clone() Interactor {
	c := NewExecutor(e.doc)
	c.monitor = e.monitor
	c.pollInterval = e.pollInterval
	return c
}
