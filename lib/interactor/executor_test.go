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

package interactor_test

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/adobe/atomic-interactor/lib/backend/htmldom"
	"github.com/adobe/atomic-interactor/lib/interactor"
	"github.com/adobe/atomic-interactor/lib/locator"
	"github.com/adobe/atomic-interactor/lib/monitoring"
)

const fixture = `<!DOCTYPE html>
<html><body>
  <div data-testid="form" class="card  active">
    <input data-testid="name" value="">
    <input data-testid="title" value="Mr" readonly>
    <textarea data-testid="notes">Default Value</textarea>
    <select data-testid="age">
      <option value="10">Ten</option>
      <option value="20" selected>Twenty</option>
      <option value="30">Thirty</option>
    </select>
    <input type="checkbox" data-testid="agree" checked>
    <div data-testid="fake" checked>not an input</div>
    <button data-testid="submit" disabled>Submit</button>
  </div>
  <ul data-testid="list">
    <li data-id="1">one</li>
    <li>two</li>
    <li data-id="3">three</li>
  </ul>
  <span data-testid="orphan" class="item">outside</span>
</body></html>`

func newExecutor(t *testing.T) (*htmldom.Document, *interactor.Executor) {
	t.Helper()
	doc, err := htmldom.ParseString(fixture)
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}
	return doc, interactor.NewExecutor(doc)
}

func Test_exists(t *testing.T) {
	ctx := context.Background()
	_, ex := newExecutor(t)

	tests := []struct {
		name  string
		chain locator.Chain
		want  bool
	}{
		{"empty chain", locator.Chain{}, false},
		{"single step", locator.ByDataTestID("list"), true},
		{"single missing", locator.ByDataTestID("nope"), false},
		{"nested", locator.ByDataTestID("list").Then(locator.ByTag("li")), true},
		{"nested missing child", locator.ByDataTestID("list").Then(locator.ByTag("input")), false},
		// The last step matches in the document, but the parent is missing
		{"missing parent", locator.ByDataTestID("nope").Then(locator.ByDataTestID("orphan")), false},
		{"wrong parent", locator.ByDataTestID("list").Then(locator.ByDataTestID("orphan")), false},
		{"same step", locator.ByDataTestID("form").Then(locator.ByClass("active", locator.Same)), true},
		{"same step missing", locator.ByDataTestID("form").Then(locator.ByClass("hidden", locator.Same)), false},
		{"root step", locator.ByDataTestID("nope").Then(locator.ByDataTestID("orphan", locator.Root)), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ex.Exists(ctx, tc.chain)
			if err != nil {
				t.Fatalf("Exists(%s) error: %v", tc.chain, err)
			}
			if got != tc.want {
				t.Fatalf("Exists(%s) = %t; want: %t", tc.chain, got, tc.want)
			}
		})
	}
}

func Test_find(t *testing.T) {
	ctx := context.Background()
	_, ex := newExecutor(t)
	items := locator.ByDataTestID("list").Then(locator.ByTag("li"))

	el, found, err := ex.FindOne(ctx, items)
	if err != nil || !found {
		t.Fatalf("FindOne() = %v, %t, %v", el, found, err)
	}
	if text, _ := el.TextContent(ctx); text != "one" {
		t.Errorf("FindOne() text = %q; want: one", text)
	}

	els, err := ex.FindAll(ctx, items)
	if err != nil || len(els) != 3 {
		t.Fatalf("FindAll() = %d elements, %v; want 3", len(els), err)
	}
	if text, _ := els[2].TextContent(ctx); text != "three" {
		t.Errorf("FindAll()[2] text = %q; want: three", text)
	}

	if _, found, err = ex.FindOne(ctx, locator.ByDataTestID("nope")); found || err != nil {
		t.Errorf("FindOne() of missing = %t, %v; want absent", found, err)
	}
	if els, err = ex.FindAll(ctx, locator.Chain{}); len(els) != 0 || err != nil {
		t.Errorf("FindAll() of empty chain = %v, %v", els, err)
	}

	attrs, err := ex.GetAttributes(ctx, items, "data-id")
	if err != nil || !slices.Equal(attrs, []string{"1", "", "3"}) {
		t.Errorf("GetAttributes() = %q, %v; want [1  3]", attrs, err)
	}
}

func Test_reads(t *testing.T) {
	ctx := context.Background()
	_, ex := newExecutor(t)
	form := locator.ByDataTestID("form")

	if v, found, err := ex.GetInputValue(ctx, form.Then(locator.ByDataTestID("name"))); v != "" || !found || err != nil {
		t.Errorf("GetInputValue(name) = %q, %t, %v; want empty string", v, found, err)
	}
	if v, _, _ := ex.GetInputValue(ctx, locator.ByDataTestID("notes")); v != "Default Value" {
		t.Errorf("GetInputValue(notes) = %q; want: Default Value", v)
	}
	if v, found, _ := ex.GetSelectValues(ctx, locator.ByDataTestID("age")); !found || !slices.Equal(v, []string{"20"}) {
		t.Errorf("GetSelectValues() = %v, %t; want [20]", v, found)
	}
	if v, _, _ := ex.GetSelectLabels(ctx, locator.ByDataTestID("age")); !slices.Equal(v, []string{"Twenty"}) {
		t.Errorf("GetSelectLabels() = %v; want [Twenty]", v)
	}
	if _, found, _ := ex.GetSelectValues(ctx, locator.ByDataTestID("name")); found {
		t.Errorf("GetSelectValues() of input should be absent")
	}
	if v, found, _ := ex.GetAttribute(ctx, locator.ByDataTestID("title"), "value"); v != "Mr" || !found {
		t.Errorf("GetAttribute() = %q, %t; want: Mr", v, found)
	}
	if _, found, _ := ex.GetAttribute(ctx, locator.ByDataTestID("title"), "placeholder"); found {
		t.Errorf("GetAttribute() of missing attribute should be absent")
	}
	if v, _, _ := ex.GetText(ctx, locator.ByDataTestID("submit")); v != "Submit" {
		t.Errorf("GetText() = %q; want: Submit", v)
	}

	predicates := []struct {
		name string
		fn   func() (bool, error)
		want bool
	}{
		{"checked input", func() (bool, error) { return ex.IsChecked(ctx, locator.ByDataTestID("agree")) }, true},
		{"checked non input", func() (bool, error) { return ex.IsChecked(ctx, locator.ByDataTestID("fake")) }, false},
		{"disabled", func() (bool, error) { return ex.IsDisabled(ctx, locator.ByDataTestID("submit")) }, true},
		{"enabled", func() (bool, error) { return ex.IsDisabled(ctx, locator.ByDataTestID("name")) }, false},
		{"readonly", func() (bool, error) { return ex.IsReadonly(ctx, locator.ByDataTestID("title")) }, true},
		{"not readonly", func() (bool, error) { return ex.IsReadonly(ctx, locator.ByDataTestID("name")) }, false},
		{"visible", func() (bool, error) { return ex.IsVisible(ctx, locator.ByDataTestID("name")) }, true},
		{"has class", func() (bool, error) { return ex.HasCSSClass(ctx, form, "active") }, true},
		{"class prefix", func() (bool, error) { return ex.HasCSSClass(ctx, form, "act") }, false},
		{"has attribute", func() (bool, error) { return ex.HasAttribute(ctx, locator.ByDataTestID("submit"), "disabled") }, true},
	}
	for _, p := range predicates {
		if got, err := p.fn(); got != p.want || err != nil {
			t.Errorf("%s = %t, %v; want: %t", p.name, got, err, p.want)
		}
	}
}

// Verify reads of absent element give the same result every time and change nothing
func Test_absent_reads_idempotent(t *testing.T) {
	ctx := context.Background()
	doc, ex := newExecutor(t)
	missing := locator.ByDataTestID("missing")
	before, _ := doc.HTML()

	for i := 0; i < 2; i++ {
		if v, found, err := ex.GetText(ctx, missing); v != "" || found || err != nil {
			t.Fatalf("GetText() #%d = %q, %t, %v", i, v, found, err)
		}
		if v, found, err := ex.GetAttribute(ctx, missing, "id"); v != "" || found || err != nil {
			t.Fatalf("GetAttribute() #%d = %q, %t, %v", i, v, found, err)
		}
		if _, found, err := ex.GetInputValue(ctx, missing); found || err != nil {
			t.Fatalf("GetInputValue() #%d = %t, %v", i, found, err)
		}
		for name, fn := range map[string]func(context.Context, locator.Chain) (bool, error){
			"IsChecked":  ex.IsChecked,
			"IsDisabled": ex.IsDisabled,
			"IsReadonly": ex.IsReadonly,
			"IsVisible":  ex.IsVisible,
		} {
			if v, err := fn(ctx, missing); v || err != nil {
				t.Fatalf("%s() #%d = %t, %v; want: false", name, i, v, err)
			}
		}
	}

	if after, _ := doc.HTML(); after != before {
		t.Fatalf("Reads changed the document")
	}
}

func Test_enter_text(t *testing.T) {
	ctx := context.Background()
	_, ex := newExecutor(t)
	name := locator.ByDataTestID("name")

	if err := ex.EnterText(ctx, name, "Hello World"); err != nil {
		t.Fatalf("EnterText() error: %v", err)
	}
	if v, _, _ := ex.GetInputValue(ctx, name); v != "Hello World" {
		t.Errorf("GetInputValue() = %q; want: Hello World", v)
	}
	if err := ex.EnterText(ctx, name, "!", interactor.EnterTextOption{Append: true}); err != nil {
		t.Fatalf("EnterText(append) error: %v", err)
	}
	if v, _, _ := ex.GetInputValue(ctx, name); v != "Hello World!" {
		t.Errorf("GetInputValue() after append = %q; want: Hello World!", v)
	}
	if err := ex.EnterText(ctx, name, "Bye"); err != nil {
		t.Fatalf("EnterText() error: %v", err)
	}
	if v, _, _ := ex.GetInputValue(ctx, name); v != "Bye" {
		t.Errorf("GetInputValue() after replace = %q; want: Bye", v)
	}

	if err := ex.EnterText(ctx, locator.ByDataTestID("title"), "x"); !errors.Is(err, interactor.ErrNotEditable) {
		t.Errorf("EnterText(readonly) = %v; want: %v", err, interactor.ErrNotEditable)
	}
	err := ex.EnterText(ctx, locator.ByDataTestID("missing"), "x")
	if !errors.Is(err, interactor.ErrElementNotFound) || !strings.Contains(err.Error(), `[data-testid="missing"]`) {
		t.Errorf("EnterText(missing) = %v; want not found with selector", err)
	}
}

func Test_select_and_click(t *testing.T) {
	ctx := context.Background()
	doc, ex := newExecutor(t)

	if err := ex.SelectOptionValue(ctx, locator.ByDataTestID("age"), []string{"30"}); err != nil {
		t.Fatalf("SelectOptionValue() error: %v", err)
	}
	if v, _, _ := ex.GetSelectValues(ctx, locator.ByDataTestID("age")); !slices.Equal(v, []string{"30"}) {
		t.Errorf("GetSelectValues() = %v; want [30]", v)
	}

	// Absent element is silently ignored
	before, _ := doc.HTML()
	if err := ex.SelectOptionValue(ctx, locator.ByDataTestID("missing"), []string{"10"}); err != nil {
		t.Fatalf("SelectOptionValue(missing) error: %v", err)
	}
	if after, _ := doc.HTML(); after != before {
		t.Errorf("SelectOptionValue(missing) changed the document")
	}

	agree := locator.ByDataTestID("agree")
	if err := ex.Click(ctx, agree); err != nil {
		t.Fatalf("Click() error: %v", err)
	}
	if v, _ := ex.IsChecked(ctx, agree); v {
		t.Errorf("IsChecked() after click = true; want: false")
	}
	if err := ex.Click(ctx, agree, interactor.ClickOption{Position: &interactor.Point{X: 1, Y: 1}}); err != nil {
		t.Fatalf("Click(position) error: %v", err)
	}
	if v, _ := ex.IsChecked(ctx, agree); !v {
		t.Errorf("IsChecked() after second click = false; want: true")
	}

	if err := ex.Click(ctx, locator.ByDataTestID("missing")); !errors.Is(err, interactor.ErrElementNotFound) {
		t.Errorf("Click(missing) = %v; want: %v", err, interactor.ErrElementNotFound)
	}
	if err := ex.Click(ctx, locator.Chain{}); !errors.Is(err, interactor.ErrEmptyLocator) {
		t.Errorf("Click(empty) = %v; want: %v", err, interactor.ErrEmptyLocator)
	}
	if err := ex.Hover(ctx, agree); err != nil {
		t.Errorf("Hover() error: %v", err)
	}
	if err := ex.Focus(ctx, locator.ByDataTestID("name")); err != nil {
		t.Errorf("Focus() error: %v", err)
	}
}

// stalledDocument never finds anything until the context is done
type stalledDocument struct {
	*htmldom.Document
	started chan struct{}
}

func (d *stalledDocument) Require(ctx context.Context, _ string) (interactor.Element, error) {
	close(d.started)
	<-ctx.Done()
	return nil, ctx.Err()
}

func Test_ambient_failure(t *testing.T) {
	doc, _ := htmldom.ParseString(fixture)
	stalled := &stalledDocument{Document: doc, started: make(chan struct{})}
	ex := interactor.NewExecutor(stalled)

	boom := errors.New("Uncaught TypeError: x is undefined")
	go func() {
		<-stalled.started
		doc.ReportError(boom)
	}()

	err := ex.Click(context.Background(), locator.ByDataTestID("agree"))
	if !errors.Is(err, boom) {
		t.Fatalf("Click() = %v; want: %v", err, boom)
	}
	if n := doc.Failures().ListenerCount(); n != 0 {
		t.Fatalf("ListenerCount() = %d after the command; want: 0", n)
	}
}

func Test_no_listener_leak(t *testing.T) {
	ctx := context.Background()
	doc, ex := newExecutor(t)
	for i := 0; i < 50; i++ {
		_, _, _ = ex.GetText(ctx, locator.ByDataTestID("submit"))
		_ = ex.Click(ctx, locator.ByDataTestID("missing"))
		if n := doc.Failures().ListenerCount(); n != 0 {
			t.Fatalf("ListenerCount() = %d after %d calls; want: 0", n, i+1)
		}
	}
}

func Test_wait_until_exists(t *testing.T) {
	ctx := context.Background()
	doc, ex := newExecutor(t)
	ex.SetPollInterval(5 * time.Millisecond)
	late := locator.ByDataTestID("late")

	err := ex.WaitUntilExists(ctx, late, 30*time.Millisecond)
	if !errors.Is(err, interactor.ErrElementNotFound) {
		t.Fatalf("WaitUntilExists() = %v; want: %v", err, interactor.ErrElementNotFound)
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		_ = doc.Load(strings.NewReader(`<html><body><p data-testid="late">here</p></body></html>`))
	}()
	if err = ex.WaitUntilExists(ctx, late, 5*time.Second); err != nil {
		t.Fatalf("WaitUntilExists() error: %v", err)
	}
}

func Test_clone_and_monitor(t *testing.T) {
	ctx := context.Background()
	_, ex := newExecutor(t)

	sr := tracetest.NewSpanRecorder()
	monitor, err := monitoring.NewWithProviders(monitoring.DefaultConfig(),
		trace.NewTracerProvider(trace.WithSpanProcessor(sr)), nil)
	if err != nil {
		t.Fatalf("NewWithProviders() error: %v", err)
	}
	ex.SetMonitor(monitor)

	clone := ex.Clone()
	if clone == interactor.Interactor(ex) {
		t.Fatalf("Clone() returned the same instance")
	}
	if v, _, _ := clone.GetText(ctx, locator.ByDataTestID("orphan")); v != "outside" {
		t.Errorf("Clone().GetText() = %q; want: outside", v)
	}

	spans := sr.Ended()
	if len(spans) != 1 || spans[0].Name() != "interactor.GetText" {
		t.Fatalf("Ended spans = %v; want one interactor.GetText", spans)
	}
}

func Test_control_characters(t *testing.T) {
	ctx := context.Background()
	doc, err := htmldom.ParseString(`<html><body>
  <span data-testid="multi&#10;line">lines</span>
  <span data-testid="tab&#9;bed">tabs</span>
</body></html>`)
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}
	ex := interactor.NewExecutor(doc)

	for id, want := range map[string]string{"multi\nline": "lines", "tab\tbed": "tabs"} {
		text, found, err := ex.GetText(ctx, locator.ByDataTestID(id))
		if err != nil || !found || text != want {
			t.Errorf("GetText(%q) = %q, %t, %v; want: %q", id, text, found, err, want)
		}
	}
	for _, id := range []string{"a\rb", "a\fb", "a\x00b"} {
		if _, found, err := ex.GetText(ctx, locator.ByDataTestID(id)); found || err != nil {
			t.Errorf("GetText(%q) = %t, %v; want absent", id, found, err)
		}
	}
}
