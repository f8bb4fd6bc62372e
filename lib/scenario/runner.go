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

package scenario

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/adobe/atomic-interactor/lib/driver"
	"github.com/adobe/atomic-interactor/lib/interactor"
	"github.com/adobe/atomic-interactor/lib/log"
	"github.com/adobe/atomic-interactor/lib/monitoring"
	"github.com/adobe/atomic-interactor/lib/scene"
)

// Status of the step or the scenario
const (
	StatusPassed  = "passed"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// DefaultTimeout of the expectation when the step does not set it
var DefaultTimeout = 4 * time.Second

// ErrUnsupported is returned when the part driver can't do the action or check
var ErrUnsupported = errors.New("not supported by the driver")

// Visitor opens the route of the application
type Visitor interface {
	Visit(ctx context.Context, route string) error
}

// VisitFunc makes the function a Visitor
type VisitFunc func(ctx context.Context, route string) error

// Visit calls the function
func (f VisitFunc) Visit(ctx context.Context, route string) error {
	return f(ctx, route)
}

// StepResult is the outcome of one step
type StepResult struct {
	Step     Step
	Status   string
	Duration time.Duration
	Err      error
}

// Report is the outcome of the scenario
type Report struct {
	Scenario string
	Status   string
	Reason   string
	Steps    []StepResult
	Duration time.Duration
	Err      error
}

// Passed shows the scenario was executed without failures, skipped one is not failed too
func (r *Report) Passed() bool {
	return r.Status != StatusFailed
}

// Failed returns the failed step, nil if there is none
func (r *Report) Failed() *StepResult {
	for i := range r.Steps {
		if r.Steps[i].Status == StatusFailed {
			return &r.Steps[i]
		}
	}
	return nil
}

// Runner executes the scenarios on the page through the interactor
type Runner struct {
	Interactor interactor.Interactor
	Visitor    Visitor
	Monitor    *monitoring.Monitor

	// PollInterval between the expectation checks, 100ms if not set
	PollInterval time.Duration

	// OnFailure is called right after the step failed, while the page is in the failed state
	OnFailure func(ctx context.Context, sc *Scenario, res *StepResult)
}

// Run executes the scenario steps one by one until the first failure
func (r *Runner) Run(ctx context.Context, sc *Scenario) *Report {
	logger := log.WithFunc("scenario", "Run").With("scenario", sc.Name)
	report := &Report{Scenario: sc.Name}
	if sc.Skip != "" {
		logger.Info("Scenario skipped", "reason", sc.Skip)
		report.Status, report.Reason = StatusSkipped, sc.Skip
		for _, s := range sc.Steps {
			report.Steps = append(report.Steps, StepResult{Step: s, Status: StatusSkipped})
		}
		return report
	}

	start := time.Now()
	ctx, span := r.Monitor.StartSpan(ctx, "scenario.Run", oteltrace.WithAttributes(
		attribute.String("scenario.name", sc.Name),
		attribute.Int("scenario.steps", len(sc.Steps)),
	))
	defer func() {
		report.Duration = time.Since(start)
		if report.Err != nil {
			span.RecordError(report.Err)
			span.SetStatus(codes.Error, report.Err.Error())
		}
		span.End()
		r.Monitor.GetMetrics().RecordScenario(ctx, sc.Name, report.Passed(), report.Duration)
	}()

	report.Err = r.run(ctx, sc, report)
	if report.Err != nil {
		report.Status = StatusFailed
		logger.Error("Scenario failed", "err", report.Err)
	} else {
		report.Status = StatusPassed
		logger.Info("Scenario passed", "steps", len(report.Steps))
	}
	return report
}

func (r *Runner) run(ctx context.Context, sc *Scenario, report *Report) error {
	if err := sc.Validate(); err != nil {
		return err
	}
	if sc.Visit != "" {
		if r.Visitor == nil {
			return fmt.Errorf("scenario %q: no visitor to open %q", sc.Name, sc.Visit)
		}
		if err := r.Visitor.Visit(ctx, sc.Visit); err != nil {
			return fmt.Errorf("scenario %q: %w", sc.Name, err)
		}
	}

	engine, err := scene.NewEngine(r.Interactor, sc.Scene())
	if err != nil {
		return err
	}

	var failure error
	for i, s := range sc.Steps {
		if failure != nil {
			report.Steps = append(report.Steps, StepResult{Step: s, Status: StatusSkipped})
			continue
		}
		res := r.step(ctx, engine, s)
		report.Steps = append(report.Steps, res)
		r.Monitor.GetMetrics().RecordScenarioStep(ctx, sc.Name, res.Status)
		if res.Err != nil {
			failure = fmt.Errorf("step %d %q: %w", i, s, res.Err)
			if r.OnFailure != nil {
				r.OnFailure(ctx, sc, &report.Steps[len(report.Steps)-1])
			}
		}
	}

	if err := engine.CleanUp(ctx); err != nil {
		failure = errors.Join(failure, fmt.Errorf("clean up: %w", err))
	}
	return failure
}

func (r *Runner) step(ctx context.Context, engine *scene.Engine, s Step) StepResult {
	logger := log.WithFunc("scenario", "step")
	start := time.Now()
	res := StepResult{Step: s, Status: StatusPassed}

	d, _ := engine.Part(s.Part)
	if s.Action != "" {
		res.Err = r.act(ctx, d, s)
	} else {
		res.Err = r.expect(ctx, d, s)
	}
	res.Duration = time.Since(start)
	if res.Err != nil {
		res.Status = StatusFailed
	}
	logger.Debug("Step executed", "step", s.String(), "status", res.Status, "duration", res.Duration)
	return res
}

type (
	clicker interface {
		Click(ctx context.Context) error
	}
	valueSetter interface {
		SetValue(ctx context.Context, value string) error
	}
	selectSetter interface {
		SetSelected(ctx context.Context, selected bool) error
	}
	hoverer interface {
		Hover(ctx context.Context) error
	}
	focuser interface {
		Focus(ctx context.Context) error
	}
)

func (r *Runner) act(ctx context.Context, d driver.Driver, s Step) error {
	switch s.Action {
	case ActionClick:
		if c, ok := d.(clicker); ok {
			return c.Click(ctx)
		}
		return r.Interactor.Click(ctx, d.Locator())
	case ActionHover:
		if h, ok := d.(hoverer); ok {
			return h.Hover(ctx)
		}
		return r.Interactor.Hover(ctx, d.Locator())
	case ActionFocus:
		if f, ok := d.(focuser); ok {
			return f.Focus(ctx)
		}
		return r.Interactor.Focus(ctx, d.Locator())
	case ActionEnterText:
		return r.Interactor.EnterText(ctx, d.Locator(), s.Value)
	case ActionSetValue:
		if v, ok := d.(valueSetter); ok {
			return v.SetValue(ctx, s.Value)
		}
		return fmt.Errorf("%s for %T: %w", s.Action, d, ErrUnsupported)
	case ActionSelect:
		if v, ok := d.(valueSetter); ok {
			return v.SetValue(ctx, s.Value)
		}
		return r.Interactor.SelectOptionValue(ctx, d.Locator(), strings.Split(s.Value, ","))
	case ActionSetSelected:
		v, ok := d.(selectSetter)
		if !ok {
			return fmt.Errorf("%s for %T: %w", s.Action, d, ErrUnsupported)
		}
		selected := true
		if s.Value != "" {
			var err error
			if selected, err = strconv.ParseBool(s.Value); err != nil {
				return fmt.Errorf("%s: invalid value %q: %w", s.Action, s.Value, err)
			}
		}
		return v.SetSelected(ctx, selected)
	}
	return fmt.Errorf("unknown action %q", s.Action)
}

// expect polls the checks until all of them pass or the step timeout ends
func (r *Runner) expect(ctx context.Context, d driver.Driver, s Step) error {
	timeout := s.Timeout.Std()
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	poll := r.PollInterval
	if poll <= 0 {
		poll = 100 * time.Millisecond
	}

	deadline := time.Now().Add(timeout)
	for {
		err := check(ctx, d, s.Expect)
		if err == nil || errors.Is(err, ErrUnsupported) {
			return err
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("after %s: %w", timeout, err)
		}
		select {
		case <-ctx.Done():
			return errors.Join(err, ctx.Err())
		case <-time.After(poll):
		}
	}
}

type (
	texter interface {
		GetText(ctx context.Context) (string, bool, error)
	}
	valuer interface {
		GetValue(ctx context.Context) (string, bool, error)
	}
	labeler interface {
		GetLabel(ctx context.Context) (string, bool, error)
	}
	helperTexter interface {
		GetHelperText(ctx context.Context) (string, bool, error)
	}
	visibler interface {
		IsVisible(ctx context.Context) (bool, error)
	}
	selecteder interface {
		IsSelected(ctx context.Context) (bool, error)
	}
	indeterminater interface {
		IsIndeterminate(ctx context.Context) (bool, error)
	}
	disableder interface {
		IsDisabled(ctx context.Context) (bool, error)
	}
	readonlier interface {
		IsReadonly(ctx context.Context) (bool, error)
	}
)

// check runs every set check once, the absent text is compared as the empty string
func check(ctx context.Context, d driver.Driver, e *Expect) error {
	if e.Exists != nil {
		ok, err := d.Exists(ctx)
		if err != nil {
			return err
		}
		if ok != *e.Exists {
			return fmt.Errorf("exists is %t, expected %t", ok, *e.Exists)
		}
	}

	texts := []struct {
		name string
		want *string
		get  func() (string, bool, bool, error)
	}{
		{"text", e.Text, func() (string, bool, bool, error) {
			g, ok := d.(texter)
			if !ok {
				return "", false, false, nil
			}
			v, found, err := g.GetText(ctx)
			return v, found, true, err
		}},
		{"value", e.Value, func() (string, bool, bool, error) {
			g, ok := d.(valuer)
			if !ok {
				return "", false, false, nil
			}
			v, found, err := g.GetValue(ctx)
			return v, found, true, err
		}},
		{"label", e.Label, func() (string, bool, bool, error) {
			g, ok := d.(labeler)
			if !ok {
				return "", false, false, nil
			}
			v, found, err := g.GetLabel(ctx)
			return v, found, true, err
		}},
		{"helper_text", e.HelperText, func() (string, bool, bool, error) {
			g, ok := d.(helperTexter)
			if !ok {
				return "", false, false, nil
			}
			v, found, err := g.GetHelperText(ctx)
			return v, found, true, err
		}},
	}
	for _, t := range texts {
		if t.want == nil {
			continue
		}
		v, found, supported, err := t.get()
		if !supported {
			return fmt.Errorf("%s of %T: %w", t.name, d, ErrUnsupported)
		}
		if err != nil {
			return err
		}
		if v != *t.want {
			if !found {
				return fmt.Errorf("%s is absent, expected %q", t.name, *t.want)
			}
			return fmt.Errorf("%s is %q, expected %q", t.name, v, *t.want)
		}
	}

	flags := []struct {
		name string
		want *bool
		get  func() (bool, bool, error)
	}{
		{"visible", e.Visible, func() (bool, bool, error) {
			g, ok := d.(visibler)
			if !ok {
				return false, false, nil
			}
			v, err := g.IsVisible(ctx)
			return v, true, err
		}},
		{"selected", e.Selected, func() (bool, bool, error) {
			g, ok := d.(selecteder)
			if !ok {
				return false, false, nil
			}
			v, err := g.IsSelected(ctx)
			return v, true, err
		}},
		{"indeterminate", e.Indeterminate, func() (bool, bool, error) {
			g, ok := d.(indeterminater)
			if !ok {
				return false, false, nil
			}
			v, err := g.IsIndeterminate(ctx)
			return v, true, err
		}},
		{"disabled", e.Disabled, func() (bool, bool, error) {
			g, ok := d.(disableder)
			if !ok {
				return false, false, nil
			}
			v, err := g.IsDisabled(ctx)
			return v, true, err
		}},
		{"readonly", e.Readonly, func() (bool, bool, error) {
			g, ok := d.(readonlier)
			if !ok {
				return false, false, nil
			}
			v, err := g.IsReadonly(ctx)
			return v, true, err
		}},
	}
	for _, f := range flags {
		if f.want == nil {
			continue
		}
		v, supported, err := f.get()
		if !supported {
			return fmt.Errorf("%s of %T: %w", f.name, d, ErrUnsupported)
		}
		if err != nil {
			return err
		}
		if v != *f.want {
			return fmt.Errorf("%s is %t, expected %t", f.name, v, *f.want)
		}
	}
	return nil
}
