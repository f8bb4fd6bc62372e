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
	"errors"
	"slices"
	"testing"

	"github.com/adobe/atomic-interactor/lib/backend/htmldom"
	"github.com/adobe/atomic-interactor/lib/interactor"
	"github.com/adobe/atomic-interactor/lib/locator"
)

const page = `<!DOCTYPE html>
<html><body>
  <button data-testid="save">Save</button>
  <button data-testid="locked" disabled>Locked</button>
  <p data-testid="target"></p>

  <label><span data-testid="apple"><input type="checkbox" checked></span>Apple</label>
  <label><span data-testid="banana"><input type="checkbox"></span>Banana</label>
  <span data-testid="parent"><input type="checkbox" data-indeterminate="true"></span>
  <span data-testid="off"><input type="checkbox" disabled></span>

  <div data-testid="basic" class="MuiTextField-root">
    <label for="basic-input">Basic Field</label>
    <div><input id="basic-input" value=""></div>
    <p class="MuiFormHelperText-root">Enter text here</p>
  </div>
  <div data-testid="multiline" class="MuiTextField-root">
    <label>Multiline</label>
    <div><textarea>Default Value</textarea><textarea aria-hidden="true" readonly></textarea></div>
  </div>
  <div data-testid="text-readonly"><label>Readonly</label><input value="Hello World" readonly></div>
  <div data-testid="native-select-disabled">
    <label>Native</label>
    <select disabled><option value="20">Twenty</option><option value="60" selected>Sixty</option></select>
  </div>
  <div data-testid="native-select">
    <select><option value="10">Ten</option><option value="30">Thirty</option></select>
  </div>
  <div data-testid="select" class="MuiTextField-root">
    <label>Number</label>
    <div class="MuiSelect-select" role="button">Thirty</div>
    <input aria-hidden="true" class="MuiSelect-nativeInput" value="30">
  </div>
</body></html>`

func newInteractor(t *testing.T) (*htmldom.Document, interactor.Interactor) {
	t.Helper()
	doc, err := htmldom.ParseString(page)
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}
	return doc, interactor.NewExecutor(doc)
}

func Test_button_and_element(t *testing.T) {
	ctx := context.Background()
	_, it := newInteractor(t)

	save := NewButton(locator.ByDataTestID("save"), it)
	if err := save.Click(ctx); err != nil {
		t.Fatalf("Click() error: %v", err)
	}
	if text, _, _ := save.GetText(ctx); text != "Save" {
		t.Errorf("GetText() = %q; want: Save", text)
	}
	if v, _ := NewButton(locator.ByDataTestID("locked"), it).IsDisabled(ctx); !v {
		t.Errorf("IsDisabled() = false; want: true")
	}

	target := NewHTMLElement(locator.ByDataTestID("target"), it)
	if text, found, err := target.GetText(ctx); text != "" || !found || err != nil {
		t.Errorf("GetText() = %q, %t, %v; want empty", text, found, err)
	}
	if ok, _ := target.Exists(ctx); !ok {
		t.Errorf("Exists() = false; want: true")
	}
	if ok, _ := NewHTMLElement(locator.ByDataTestID("nope"), it).Exists(ctx); ok {
		t.Errorf("Exists() of missing = true")
	}
	if err := NewHTMLElement(locator.ByDataTestID("nope"), it).Click(ctx); !errors.Is(err, interactor.ErrElementNotFound) {
		t.Errorf("Click() of missing = %v; want: %v", err, interactor.ErrElementNotFound)
	}
}

func Test_checkbox(t *testing.T) {
	ctx := context.Background()
	_, it := newInteractor(t)

	apple := NewCheckbox(locator.ByDataTestID("apple"), it)
	banana := NewCheckbox(locator.ByDataTestID("banana"), it)
	if v, _ := apple.IsSelected(ctx); !v {
		t.Errorf("apple IsSelected() = false; want: true")
	}
	if v, _ := banana.IsSelected(ctx); v {
		t.Errorf("banana IsSelected() = true; want: false")
	}

	if err := apple.SetSelected(ctx, false); err != nil {
		t.Fatalf("SetSelected() error: %v", err)
	}
	if v, _ := apple.IsSelected(ctx); v {
		t.Errorf("apple IsSelected() after uncheck = true")
	}
	// Setting the same state keeps it
	if err := apple.SetSelected(ctx, false); err != nil {
		t.Fatalf("SetSelected() error: %v", err)
	}
	if v, _ := apple.IsSelected(ctx); v {
		t.Errorf("apple IsSelected() after second uncheck = true")
	}

	parent := NewCheckbox(locator.ByDataTestID("parent"), it)
	if v, _ := parent.IsIndeterminate(ctx); !v {
		t.Errorf("parent IsIndeterminate() = false; want: true")
	}
	if err := parent.SetSelected(ctx, true); err != nil {
		t.Fatalf("SetSelected() error: %v", err)
	}
	if v, _ := parent.IsIndeterminate(ctx); v {
		t.Errorf("parent IsIndeterminate() after check = true")
	}

	off := NewCheckbox(locator.ByDataTestID("off"), it)
	if v, _ := off.IsDisabled(ctx); !v {
		t.Errorf("IsDisabled() = false; want: true")
	}
}

func Test_text_field(t *testing.T) {
	ctx := context.Background()
	_, it := newInteractor(t)

	basic := NewTextField(locator.ByDataTestID("basic"), it)
	if v, _, _ := basic.GetLabel(ctx); v != "Basic Field" {
		t.Errorf("GetLabel() = %q; want: Basic Field", v)
	}
	if v, _, _ := basic.GetHelperText(ctx); v != "Enter text here" {
		t.Errorf("GetHelperText() = %q; want: Enter text here", v)
	}
	if v, found, _ := basic.GetValue(ctx); v != "" || !found {
		t.Errorf("GetValue() = %q, %t; want empty", v, found)
	}
	if err := basic.SetValue(ctx, "Hello World"); err != nil {
		t.Fatalf("SetValue() error: %v", err)
	}
	if v, _, _ := basic.GetValue(ctx); v != "Hello World" {
		t.Errorf("GetValue() = %q; want: Hello World", v)
	}

	multiline := NewTextField(locator.ByDataTestID("multiline"), it)
	if _, found, _ := multiline.GetHelperText(ctx); found {
		t.Errorf("GetHelperText() of multiline should be absent")
	}
	if v, _, _ := multiline.GetValue(ctx); v != "Default Value" {
		t.Errorf("GetValue() = %q; want: Default Value", v)
	}
	if err := multiline.SetValue(ctx, "Hello World"); err != nil {
		t.Fatalf("SetValue() error: %v", err)
	}
	if v, _, _ := multiline.GetValue(ctx); v != "Hello World" {
		t.Errorf("GetValue() = %q; want: Hello World", v)
	}

	readonly := NewTextField(locator.ByDataTestID("text-readonly"), it)
	if v, _ := readonly.IsReadonly(ctx); !v {
		t.Errorf("IsReadonly() = false; want: true")
	}
	if err := readonly.SetValue(ctx, "x"); !errors.Is(err, interactor.ErrNotEditable) {
		t.Errorf("SetValue() of readonly = %v; want: %v", err, interactor.ErrNotEditable)
	}

	disabled := NewTextField(locator.ByDataTestID("native-select-disabled"), it)
	if v, _ := disabled.IsDisabled(ctx); !v {
		t.Errorf("IsDisabled() = false; want: true")
	}
	if v, _, _ := disabled.GetValue(ctx); v != "60" {
		t.Errorf("GetValue() = %q; want: 60", v)
	}

	custom := NewTextField(locator.ByDataTestID("select"), it)
	if v, _, _ := custom.GetValue(ctx); v != "30" {
		t.Errorf("GetValue() of custom select = %q; want: 30", v)
	}
	if err := custom.CleanUp(ctx); err != nil {
		t.Errorf("CleanUp() error: %v", err)
	}

	if _, _, err := NewTextField(locator.ByDataTestID("target"), it).GetValue(ctx); !errors.Is(err, interactor.ErrElementNotFound) {
		t.Errorf("GetValue() without control = %v; want: %v", err, interactor.ErrElementNotFound)
	}
}

func Test_select(t *testing.T) {
	ctx := context.Background()
	_, it := newInteractor(t)

	native := NewSelect(locator.ByDataTestID("native-select"), it)
	if v, _, _ := native.GetValue(ctx); v != "10" {
		t.Errorf("GetValue() = %q; want: 10", v)
	}
	if err := native.SetValue(ctx, "30"); err != nil {
		t.Fatalf("SetValue() error: %v", err)
	}
	if v, _, _ := native.GetValue(ctx); v != "30" {
		t.Errorf("GetValue() = %q; want: 30", v)
	}
	if v, _, _ := native.GetSelectedLabel(ctx); v != "Thirty" {
		t.Errorf("GetSelectedLabel() = %q; want: Thirty", v)
	}

	custom := NewSelect(locator.ByDataTestID("select"), it)
	if v, _, _ := custom.GetSelectedLabel(ctx); v != "Thirty" {
		t.Errorf("GetSelectedLabel() of custom = %q; want: Thirty", v)
	}
}

func Test_registry(t *testing.T) {
	_, it := newInteractor(t)
	for _, name := range []string{"html", "button", "checkbox", "textfield", "select"} {
		f, ok := Lookup(name)
		if !ok {
			t.Fatalf("Lookup(%q) is missing", name)
		}
		if d := f(locator.ByDataTestID("x"), it); d.Locator().Selector() != `[data-testid="x"]` {
			t.Errorf("Factory %q locator = %s", name, d.Locator())
		}
	}
	if _, ok := Lookup("unknown"); ok {
		t.Errorf("Lookup(unknown) should be absent")
	}

	if err := Register("button", nil); err == nil {
		t.Errorf("Register() of existing name should fail")
	}
	if err := Register("test-link", func(loc locator.Chain, it interactor.Interactor) Driver {
		return NewHTMLElement(loc, it)
	}); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if !slices.Contains(Names(), "test-link") || !slices.IsSorted(Names()) {
		t.Errorf("Names() = %v", Names())
	}
}
