package mlmdstore

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// storeMetrics holds the OTel instruments counting store operations,
// registered against the global meter provider at init time, so they
// start as no-ops and begin forwarding automatically once a caller
// installs a real meter provider (cmd/mlmdctl's telemetry.go installs
// only a tracer provider, so the demo CLI's counters stay no-ops).
var storeMetrics struct {
	itemPosts    metric.Int64Counter
	itemPuts     metric.Int64Counter
	itemGets     metric.Int64Counter
	relationPuts metric.Int64Counter
}

func init() {
	m := otel.Meter("github.com/mlmd-go/mlmd/store")
	storeMetrics.itemPosts, _ = m.Int64Counter("mlmd.item.posts",
		metric.WithDescription("Artifact/Execution/Context POST operations"),
		metric.WithUnit("{operation}"),
	)
	storeMetrics.itemPuts, _ = m.Int64Counter("mlmd.item.puts",
		metric.WithDescription("Artifact/Execution/Context PUT operations"),
		metric.WithUnit("{operation}"),
	)
	storeMetrics.itemGets, _ = m.Int64Counter("mlmd.item.gets",
		metric.WithDescription("Artifact/Execution/Context/Event GET operations"),
		metric.WithUnit("{operation}"),
	)
	storeMetrics.relationPuts, _ = m.Int64Counter("mlmd.relation.puts",
		metric.WithDescription("Attribution/Association/Event insert operations"),
		metric.WithUnit("{operation}"),
	)
}
