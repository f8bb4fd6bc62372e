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

// Package monitoring provides OpenTelemetry-based observability of the interactor commands
package monitoring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/log/global"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	otellog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/adobe/atomic-interactor/lib/build"
	"github.com/adobe/atomic-interactor/lib/log"
	"github.com/adobe/atomic-interactor/lib/util"
)

const serviceName = "atomic-interactor"

// Config defines monitoring configuration
type Config struct {
	Enabled         bool          `json:"enabled"`          // Enable/disable monitoring
	OTLPEndpoint    string        `json:"otlp_endpoint"`    // OTLP endpoint for traces, metrics, logs
	ServiceName     string        `json:"service_name"`     // Service name for telemetry
	ServiceVersion  string        `json:"service_version"`  // Service version
	SampleRate      float64       `json:"sample_rate"`      // Trace sampling rate (0.0 to 1.0)
	MetricsInterval util.Duration `json:"metrics_interval"` // Metrics export interval
	EnableTracing   bool          `json:"enable_tracing"`   // Enable tracing
	EnableMetrics   bool          `json:"enable_metrics"`   // Enable metrics
	EnableLogs      bool          `json:"enable_logs"`      // Enable logs
	EnableOTLP      bool          `json:"enable_otlp"`      // Push to the OTLP endpoint, otherwise only prometheus reader is used

	// Attached to every span and metric, usually the run UID and the backend
	Attributes map[string]string `json:"attributes"`
}

// DefaultConfig returns default monitoring configuration
func DefaultConfig() *Config {
	return &Config{
		Enabled:         false,
		OTLPEndpoint:    "localhost:4317",
		ServiceName:     serviceName,
		ServiceVersion:  build.Version,
		SampleRate:      1.0,
		MetricsInterval: util.Duration(15 * time.Second),
		EnableTracing:   true,
		EnableMetrics:   true,
		EnableLogs:      false,
		EnableOTLP:      true,
	}
}

// Monitor represents the monitoring system, nil or disabled monitor does nothing
type Monitor struct {
	config         *Config
	tracerProvider *trace.TracerProvider
	meterProvider  *metric.MeterProvider
	loggerProvider *otellog.LoggerProvider
	promExporter   *prometheus.Exporter
	tracer         oteltrace.Tracer
	meter          otelmetric.Meter
	metrics        *Metrics
	shutdownFuncs  []func(context.Context) error
}

// Initialize sets up OpenTelemetry monitoring
func Initialize(ctx context.Context, config *Config) (*Monitor, error) {
	logger := log.WithFunc("monitoring", "Initialize")
	if !config.Enabled {
		logger.Debug("Monitoring: Disabled")
		return &Monitor{config: config}, nil
	}

	logger.Info("Monitoring: Initializing OpenTelemetry...")

	m := &Monitor{config: config}

	res, err := m.createResource()
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	if config.EnableTracing {
		if err := m.initTracing(ctx, res); err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
		logger.Info("Monitoring: Tracing initialized")
	}

	if config.EnableMetrics {
		if err := m.initMetrics(ctx, res); err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
		if m.metrics, err = NewMetrics(m.meter); err != nil {
			return nil, fmt.Errorf("failed to create metrics: %w", err)
		}
		logger.Info("Monitoring: Metrics initialized")
	}

	if config.EnableLogs {
		if err := m.initLogging(ctx, res); err != nil {
			return nil, fmt.Errorf("failed to initialize logging: %w", err)
		}
		logger.Info("Monitoring: Logging initialized")
	}

	logger.Info("Monitoring: OpenTelemetry initialization complete")
	return m, nil
}

// NewWithProviders creates enabled monitor on top of already configured providers, any of them
// could be nil to skip the signal
func NewWithProviders(config *Config, tp oteltrace.TracerProvider, mp otelmetric.MeterProvider) (*Monitor, error) {
	m := &Monitor{config: config}
	if tp != nil {
		m.tracer = tp.Tracer(config.ServiceName)
	}
	if mp != nil {
		m.meter = mp.Meter(config.ServiceName)
		var err error
		if m.metrics, err = NewMetrics(m.meter); err != nil {
			return nil, fmt.Errorf("failed to create metrics: %w", err)
		}
	}
	return m, nil
}

func (m *Monitor) createResource() (*resource.Resource, error) {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(m.config.ServiceName),
		semconv.ServiceVersion(m.config.ServiceVersion),
	}
	for k, v := range m.config.Attributes {
		attrs = append(attrs, attribute.String(k, v))
	}
	return resource.Merge(resource.Default(), resource.NewWithAttributes(semconv.SchemaURL, attrs...))
}

func (m *Monitor) grpcConn() (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(m.config.OTLPEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}
	m.shutdownFuncs = append(m.shutdownFuncs, func(context.Context) error { return conn.Close() })
	return conn, nil
}

func (m *Monitor) initTracing(ctx context.Context, res *resource.Resource) error {
	opts := []trace.TracerProviderOption{
		trace.WithResource(res),
		trace.WithSampler(trace.TraceIDRatioBased(m.config.SampleRate)),
	}
	if m.config.EnableOTLP {
		conn, err := m.grpcConn()
		if err != nil {
			return err
		}
		traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
		if err != nil {
			return fmt.Errorf("failed to create trace exporter: %w", err)
		}
		opts = append(opts, trace.WithBatcher(traceExporter))
	}

	tracerProvider := trace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	m.tracerProvider = tracerProvider
	m.tracer = tracerProvider.Tracer(m.config.ServiceName)
	m.shutdownFuncs = append(m.shutdownFuncs, tracerProvider.Shutdown)

	return nil
}

func (m *Monitor) initMetrics(ctx context.Context, res *resource.Resource) error {
	// Prometheus exporter registers in the default prometheus registry for local scraping
	promExporter, err := prometheus.New()
	if err != nil {
		return fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}
	m.promExporter = promExporter

	opts := []metric.Option{
		metric.WithResource(res),
		metric.WithReader(promExporter),
	}
	if m.config.EnableOTLP {
		conn, err := m.grpcConn()
		if err != nil {
			return err
		}
		metricExporter, err := otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithGRPCConn(conn))
		if err != nil {
			return fmt.Errorf("failed to create metrics exporter: %w", err)
		}
		opts = append(opts, metric.WithReader(metric.NewPeriodicReader(metricExporter,
			metric.WithInterval(time.Duration(m.config.MetricsInterval)))))
	}

	meterProvider := metric.NewMeterProvider(opts...)
	otel.SetMeterProvider(meterProvider)
	m.meterProvider = meterProvider
	m.meter = meterProvider.Meter(m.config.ServiceName)
	m.shutdownFuncs = append(m.shutdownFuncs, meterProvider.Shutdown)

	return nil
}

func (m *Monitor) initLogging(ctx context.Context, res *resource.Resource) error {
	if !m.config.EnableOTLP {
		return fmt.Errorf("logs export requires OTLP endpoint")
	}
	conn, err := m.grpcConn()
	if err != nil {
		return err
	}
	logExporter, err := otlploggrpc.New(ctx, otlploggrpc.WithGRPCConn(conn))
	if err != nil {
		return fmt.Errorf("failed to create log exporter: %w", err)
	}

	loggerProvider := otellog.NewLoggerProvider(
		otellog.WithProcessor(otellog.NewBatchProcessor(logExporter)),
		otellog.WithResource(res),
	)

	global.SetLoggerProvider(loggerProvider)
	m.loggerProvider = loggerProvider
	m.shutdownFuncs = append(m.shutdownFuncs, loggerProvider.Shutdown)

	return log.SetupOtelIntegration()
}

// GetMetrics returns the metrics collection, nil if metrics are disabled
func (m *Monitor) GetMetrics() *Metrics {
	if m == nil {
		return nil
	}
	return m.metrics
}

// HasPrometheus shows the metrics are available in the default prometheus registry
func (m *Monitor) HasPrometheus() bool {
	return m != nil && m.promExporter != nil
}

// StartSpan starts a new span with the given name
func (m *Monitor) StartSpan(ctx context.Context, name string, opts ...oteltrace.SpanStartOption) (context.Context, oteltrace.Span) {
	if m == nil || m.tracer == nil {
		return ctx, oteltrace.SpanFromContext(ctx)
	}
	return m.tracer.Start(ctx, name, opts...)
}

// Shutdown flushes and stops the exporters
func (m *Monitor) Shutdown(ctx context.Context) error {
	if m == nil || len(m.shutdownFuncs) == 0 {
		return nil
	}
	logger := log.WithFunc("monitoring", "Shutdown")
	logger.Debug("Monitoring: Shutting down...")

	var errs []error
	// Reverse order to close the connections after the providers flushed the data
	for i := len(m.shutdownFuncs) - 1; i >= 0; i-- {
		if err := m.shutdownFuncs[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	m.shutdownFuncs = nil

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("shutdown errors: %w", err)
	}
	logger.Debug("Monitoring: Shutdown complete")
	return nil
}

// IsEnabled returns whether monitoring is enabled
func (m *Monitor) IsEnabled() bool {
	return m != nil && m.config != nil && m.config.Enabled
}
