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

// Package scenario runs the declarative yaml scenarios: the scene parts with the list of actions
// and expectations
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/adobe/atomic-interactor/lib/driver"
	"github.com/adobe/atomic-interactor/lib/locator"
	"github.com/adobe/atomic-interactor/lib/scene"
	"github.com/adobe/atomic-interactor/lib/util"
)

// Actions supported by the steps
const (
	ActionClick       = "click"
	ActionHover       = "hover"
	ActionFocus       = "focus"
	ActionEnterText   = "enter_text"
	ActionSetValue    = "set_value"
	ActionSetSelected = "set_selected"
	ActionSelect      = "select"
)

var actions = []string{
	ActionClick, ActionHover, ActionFocus, ActionEnterText, ActionSetValue, ActionSetSelected, ActionSelect,
}

// Scenario is the page to visit, the parts of it and the steps to run
type Scenario struct {
	Name  string          `yaml:"name"`
	Visit string          `yaml:"visit"`
	Parts map[string]Part `yaml:"parts"`
	Steps []Step          `yaml:"steps"`

	// Skip keeps the scenario in the file but does not run it, the value is the reason
	Skip string `yaml:"skip,omitempty"`
}

// Part of the scene, driver is the registered driver name
type Part struct {
	Locator locator.Chain `yaml:"locator"`
	Driver  string        `yaml:"driver"`
}

// Step is either an action or an expectation on the part
type Step struct {
	Part   string  `yaml:"part"`
	Action string  `yaml:"action,omitempty"`
	Value  string  `yaml:"value,omitempty"`
	Expect *Expect `yaml:"expect,omitempty"`

	// Timeout of the expectation, it's checked again until passes or the timeout ends
	Timeout util.Duration `yaml:"timeout,omitempty"`
}

// Expect lists the checks of the part state, only the set fields are checked
type Expect struct {
	Exists        *bool   `yaml:"exists,omitempty"`
	Visible       *bool   `yaml:"visible,omitempty"`
	Text          *string `yaml:"text,omitempty"`
	Value         *string `yaml:"value,omitempty"`
	Label         *string `yaml:"label,omitempty"`
	HelperText    *string `yaml:"helper_text,omitempty"`
	Selected      *bool   `yaml:"selected,omitempty"`
	Indeterminate *bool   `yaml:"indeterminate,omitempty"`
	Disabled      *bool   `yaml:"disabled,omitempty"`
	Readonly      *bool   `yaml:"readonly,omitempty"`
}

// String describes the step for the logs and the report
func (s Step) String() string {
	if s.Action != "" {
		if s.Value != "" {
			return fmt.Sprintf("%s %s %q", s.Action, s.Part, s.Value)
		}
		return fmt.Sprintf("%s %s", s.Action, s.Part)
	}
	if s.Expect == nil {
		return "noop " + s.Part
	}
	var checks []string
	add := func(name string, set bool, v any) {
		if set {
			checks = append(checks, fmt.Sprintf("%s=%v", name, v))
		}
	}
	e := s.Expect
	add("exists", e.Exists != nil, deref(e.Exists))
	add("visible", e.Visible != nil, deref(e.Visible))
	add("text", e.Text != nil, fmt.Sprintf("%q", deref(e.Text)))
	add("value", e.Value != nil, fmt.Sprintf("%q", deref(e.Value)))
	add("label", e.Label != nil, fmt.Sprintf("%q", deref(e.Label)))
	add("helper_text", e.HelperText != nil, fmt.Sprintf("%q", deref(e.HelperText)))
	add("selected", e.Selected != nil, deref(e.Selected))
	add("indeterminate", e.Indeterminate != nil, deref(e.Indeterminate))
	add("disabled", e.Disabled != nil, deref(e.Disabled))
	add("readonly", e.Readonly != nil, deref(e.Readonly))
	return fmt.Sprintf("expect %s %s", s.Part, strings.Join(checks, " "))
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}

// Load reads all the scenarios from the yaml stream, documents are separated with "---"
func Load(r io.Reader) ([]*Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var out []*Scenario
	for {
		sc := &Scenario{}
		err := dec.Decode(sc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("scenario: unable to parse document %d: %w", len(out), err)
		}
		if err = sc.Validate(); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, nil
}

// LoadFile reads the scenarios from the file
func LoadFile(path string) ([]*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: unable to read %s: %w", path, err)
	}
	out, err := Load(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// Validate checks the parts refer the known drivers and the steps refer the known parts
func (sc *Scenario) Validate() error {
	if sc.Name == "" {
		return fmt.Errorf("scenario: name is required")
	}
	for name, p := range sc.Parts {
		if p.Locator.IsEmpty() {
			return fmt.Errorf("scenario %q: part %q has no locator", sc.Name, name)
		}
		if _, ok := driver.Lookup(p.Driver); !ok {
			return fmt.Errorf("scenario %q: part %q has unknown driver %q, available: %v", sc.Name, name, p.Driver, driver.Names())
		}
	}
	for i, s := range sc.Steps {
		if _, ok := sc.Parts[s.Part]; !ok {
			return fmt.Errorf("scenario %q: step %d refers unknown part %q", sc.Name, i, s.Part)
		}
		if (s.Action == "") == (s.Expect == nil) {
			return fmt.Errorf("scenario %q: step %d needs either action or expect", sc.Name, i)
		}
		if s.Action != "" && !slices.Contains(actions, s.Action) {
			return fmt.Errorf("scenario %q: step %d has unknown action %q, available: %v", sc.Name, i, s.Action, actions)
		}
	}
	return nil
}

// Scene converts the parts into the scene parts
func (sc *Scenario) Scene() scene.Parts {
	parts := make(scene.Parts, len(sc.Parts))
	for name, p := range sc.Parts {
		factory, _ := driver.Lookup(p.Driver)
		parts[name] = scene.Part{Locator: p.Locator, Driver: factory}
	}
	return parts
}
