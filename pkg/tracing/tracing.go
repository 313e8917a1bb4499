/*
Copyright 2024 The Reorder Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"k8s.io/klog/v2"
)

const (
	// TracerName is the instrumentation scope of every span the optimizer emits.
	TracerName = "github.com/inventory-sim/reorder"
)

// ShutdownFunc flushes and stops a tracer provider.
type ShutdownFunc func(context.Context) error

// NewTracerProvider installs a global tracer provider. With an empty
// endpoint a no-op provider is used; otherwise spans are exported over
// OTLP/gRPC in batches, sampled at sampleRate.
func NewTracerProvider(ctx context.Context, endpoint string, insecure bool, sampleRate float64) (trace.TracerProvider, ShutdownFunc, error) {
	if endpoint == "" {
		klog.V(5).InfoS("Tracing endpoint not set, using no-op tracer provider")
		tp := noop.NewTracerProvider()
		otel.SetTracerProvider(tp)
		return tp, func(context.Context) error { return nil }, nil
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(endpoint)}
	if insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRate))),
	)
	otel.SetTracerProvider(tp)
	klog.V(2).InfoS("Tracing enabled", "endpoint", endpoint, "sampleRate", sampleRate)

	return tp, tp.Shutdown, nil
}

// Tracer returns the optimizer tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}
