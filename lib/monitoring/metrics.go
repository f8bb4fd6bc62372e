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

package monitoring

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Metrics holds the interactor metrics
type Metrics struct {
	commands        metric.Int64Counter
	commandErrors   metric.Int64Counter
	commandDuration metric.Float64Histogram
	pendingCommands metric.Int64UpDownCounter

	scenarioSteps    metric.Int64Counter
	scenarioDuration metric.Float64Histogram
}

// NewMetrics creates a new metrics collection
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	if m.commands, err = meter.Int64Counter("interactor_commands_total",
		metric.WithDescription("Amount of the executed interactor commands")); err != nil {
		return nil, fmt.Errorf("failed to create commands metric: %w", err)
	}
	if m.commandErrors, err = meter.Int64Counter("interactor_command_errors_total",
		metric.WithDescription("Amount of the failed interactor commands")); err != nil {
		return nil, fmt.Errorf("failed to create command_errors metric: %w", err)
	}
	if m.commandDuration, err = meter.Float64Histogram("interactor_command_duration_seconds",
		metric.WithDescription("Duration of the interactor commands"),
		metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("failed to create command_duration metric: %w", err)
	}
	if m.pendingCommands, err = meter.Int64UpDownCounter("interactor_pending_commands",
		metric.WithDescription("Commands awaiting the completion from the backend")); err != nil {
		return nil, fmt.Errorf("failed to create pending_commands metric: %w", err)
	}
	if m.scenarioSteps, err = meter.Int64Counter("interactor_scenario_steps_total",
		metric.WithDescription("Amount of the executed scenario steps")); err != nil {
		return nil, fmt.Errorf("failed to create scenario_steps metric: %w", err)
	}
	if m.scenarioDuration, err = meter.Float64Histogram("interactor_scenario_duration_seconds",
		metric.WithDescription("Duration of the scenarios"),
		metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("failed to create scenario_duration metric: %w", err)
	}

	return m, nil
}

// RecordCommand records the completed command
func (m *Metrics) RecordCommand(ctx context.Context, command string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	attrs := metric.WithAttributes(
		attribute.String("command", command),
		attribute.String("status", status),
	)
	m.commands.Add(ctx, 1, attrs)
	m.commandDuration.Record(ctx, duration.Seconds(), attrs)
	if err != nil {
		m.commandErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("command", command)))
	}
}

// RecordScenarioStep records the executed scenario step
func (m *Metrics) RecordScenarioStep(ctx context.Context, scenario, status string) {
	if m == nil {
		return
	}
	m.scenarioSteps.Add(ctx, 1, metric.WithAttributes(
		attribute.String("scenario", scenario),
		attribute.String("status", status),
	))
}

// RecordScenario records the finished scenario
func (m *Metrics) RecordScenario(ctx context.Context, scenario string, passed bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.scenarioDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("scenario", scenario),
		attribute.Bool("passed", passed),
	))
}

// StartCommand opens the span and pending counter of one interactor command, the returned
// function closes them and records the outcome
func (m *Monitor) StartCommand(ctx context.Context, command, selector string) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := m.StartSpan(ctx, "interactor."+command, oteltrace.WithAttributes(
		attribute.String("interactor.command", command),
		attribute.String("interactor.selector", selector),
	))
	metrics := m.GetMetrics()
	if metrics != nil {
		metrics.pendingCommands.Add(ctx, 1)
	}

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		if metrics != nil {
			metrics.pendingCommands.Add(ctx, -1)
			metrics.RecordCommand(ctx, command, time.Since(start), err)
		}
	}
}
