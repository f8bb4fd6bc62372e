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

// Package driver contains the component drivers: widget specific operations built on top of the
// interactor
package driver

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/adobe/atomic-interactor/lib/interactor"
	"github.com/adobe/atomic-interactor/lib/locator"
)

// Driver works with one component of the page located by the chain
type Driver interface {
	Locator() locator.Chain
	Exists(ctx context.Context) (bool, error)
}

// Cleaner is implemented by drivers which could leave the page in the intermediate state, like
// the opened popup
type Cleaner interface {
	CleanUp(ctx context.Context) error
}

// Factory creates the driver for the component
type Factory func(loc locator.Chain, it interactor.Interactor) Driver

// Base has the operations common for all the components, drivers embed it
type Base struct {
	loc locator.Chain
	it  interactor.Interactor
}

// NewBase creates the base driver
func NewBase(loc locator.Chain, it interactor.Interactor) Base {
	return Base{loc: loc, it: it}
}

// Locator returns the chain of the component root
func (b Base) Locator() locator.Chain {
	return b.loc
}

// Interactor returns the interactor the driver is using
func (b Base) Interactor() interactor.Interactor {
	return b.it
}

// Exists checks the component is on the page
func (b Base) Exists(ctx context.Context) (bool, error) {
	return b.it.Exists(ctx, b.loc)
}

// IsVisible checks the component is rendered
func (b Base) IsVisible(ctx context.Context) (bool, error) {
	return b.it.IsVisible(ctx, b.loc)
}

// Hover moves the pointer over the component
func (b Base) Hover(ctx context.Context) error {
	return b.it.Hover(ctx, b.loc)
}

// Focus moves the focus to the component
func (b Base) Focus(ctx context.Context) error {
	return b.it.Focus(ctx, b.loc)
}

// GetAttribute returns the attribute of the component root
func (b Base) GetAttribute(ctx context.Context, name string) (string, bool, error) {
	return b.it.GetAttribute(ctx, b.loc, name)
}

// child returns the chain of the element inside of the component
func (b Base) child(steps ...locator.Chain) locator.Chain {
	return b.loc.Then(steps...)
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{
		"html":      func(loc locator.Chain, it interactor.Interactor) Driver { return NewHTMLElement(loc, it) },
		"button":    func(loc locator.Chain, it interactor.Interactor) Driver { return NewButton(loc, it) },
		"checkbox":  func(loc locator.Chain, it interactor.Interactor) Driver { return NewCheckbox(loc, it) },
		"textfield": func(loc locator.Chain, it interactor.Interactor) Driver { return NewTextField(loc, it) },
		"select":    func(loc locator.Chain, it interactor.Interactor) Driver { return NewSelect(loc, it) },
	}
)

// Register adds the named driver factory, used by the scenario files to refer the drivers
func Register(name string, factory Factory) error {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, ok := registry[name]; ok {
		return fmt.Errorf("driver: %q is already registered", name)
	}
	registry[name] = factory
	return nil
}

// Lookup returns the factory of the named driver
func Lookup(name string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[name]
	return f, ok
}

// Names returns sorted names of the registered drivers
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return slices.Sorted(maps.Keys(registry))
}
