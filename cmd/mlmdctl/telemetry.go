package main

import (
	"context"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"go.opentelemetry.io/otel"
)

// initTelemetry installs a real TracerProvider so the spans the store
// emits (internal/mlmdstore's "mlmd.<Operation>" spans, e.g.
// "mlmd.PostArtifact") are actually
// created and sampled instead of silently dropped by the global no-op
// provider. No exporter is wired, so spans live and die in-process;
// this still exercises the SDK's sampling and span-lifecycle path.
func initTelemetry() func() {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)
	return func() { _ = tp.Shutdown(context.Background()) }
}
