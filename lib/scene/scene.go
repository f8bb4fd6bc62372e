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

// Package scene binds the named parts of the page to their drivers for one test
package scene

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/adobe/atomic-interactor/lib/driver"
	"github.com/adobe/atomic-interactor/lib/interactor"
	"github.com/adobe/atomic-interactor/lib/locator"
	"github.com/adobe/atomic-interactor/lib/log"
)

// Part is the locator of the component with the driver to work with it
type Part struct {
	Locator locator.Chain
	Driver  driver.Factory
}

// Parts is the named parts of the scene
type Parts map[string]Part

// Engine holds the drivers of the scene parts, created once per test
type Engine struct {
	uid     uuid.UUID
	it      interactor.Interactor
	drivers map[string]driver.Driver

	mu       sync.Mutex
	cleanups []func(context.Context) error
	cleaned  bool
}

// NewEngine creates the driver of every part
func NewEngine(it interactor.Interactor, parts Parts) (*Engine, error) {
	e := &Engine{
		uid:     uuid.New(),
		it:      it,
		drivers: make(map[string]driver.Driver, len(parts)),
	}
	for name, p := range parts {
		if p.Driver == nil {
			return nil, fmt.Errorf("scene: part %q has no driver", name)
		}
		e.drivers[name] = p.Driver(p.Locator, it)
	}
	log.WithFunc("scene", "NewEngine").Debug("Engine created", "uid", e.uid, "parts", len(parts))
	return e, nil
}

// UID is the unique identifier of the engine
func (e *Engine) UID() uuid.UUID {
	return e.uid
}

// Interactor returns the interactor of the engine
func (e *Engine) Interactor() interactor.Interactor {
	return e.it
}

// Names returns the sorted names of the parts
func (e *Engine) Names() []string {
	return slices.Sorted(maps.Keys(e.drivers))
}

// Part returns the driver of the named part
func (e *Engine) Part(name string) (driver.Driver, bool) {
	d, ok := e.drivers[name]
	return d, ok
}

// Get returns the driver of the part as the required type
func Get[D driver.Driver](e *Engine, name string) (D, error) {
	var zero D
	d, ok := e.drivers[name]
	if !ok {
		return zero, fmt.Errorf("scene: no part %q", name)
	}
	typed, ok := d.(D)
	if !ok {
		return zero, fmt.Errorf("scene: part %q is %T, not %T", name, d, zero)
	}
	return typed, nil
}

// MustGet is Get which panics on error, handy in tests
func MustGet[D driver.Driver](e *Engine, name string) D {
	d, err := Get[D](e, name)
	if err != nil {
		panic(err)
	}
	return d
}

// OnCleanUp registers the function to run on CleanUp, they are executed in reverse order
func (e *Engine) OnCleanUp(fn func(context.Context) error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cleanups = append(e.cleanups, fn)
}

// CleanUp runs the cleaners of the drivers and the registered functions, only the first call
// does something
func (e *Engine) CleanUp(ctx context.Context) error {
	e.mu.Lock()
	if e.cleaned {
		e.mu.Unlock()
		return nil
	}
	e.cleaned = true
	cleanups := e.cleanups
	e.cleanups = nil
	e.mu.Unlock()

	var errs []error
	for _, name := range e.Names() {
		if c, ok := e.drivers[name].(driver.Cleaner); ok {
			if err := c.CleanUp(ctx); err != nil {
				errs = append(errs, fmt.Errorf("scene: part %q: %w", name, err))
			}
		}
	}
	for i := len(cleanups) - 1; i >= 0; i-- {
		if err := cleanups[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}

	log.WithFunc("scene", "CleanUp").Debug("Engine cleaned up", "uid", e.uid, "errors", len(errs))
	return errors.Join(errs...)
}
