// Package stats records per-operation counters and latency through
// opencensus, exported to prometheus from the server binary.
package stats

import (
	"context"
	"time"

	"contrib.go.opencensus.io/exporter/prometheus"
	ocstats "go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

const (
	OpSet    = "set"
	OpGet    = "get"
	OpDelete = "delete"
	OpScan   = "scan"
)

var (
	mOps         = ocstats.Int64("ordstore/ops", "store operations", ocstats.UnitDimensionless)
	mOpLatencyMs = ocstats.Float64("ordstore/op_latency", "operation latency", ocstats.UnitMilliseconds)

	keyOp = tag.MustNewKey("op")

	opsCountView = &view.View{
		Name:        "ordstore/ops_count",
		Measure:     mOps,
		Description: "number of store operations by type",
		TagKeys:     []tag.Key{keyOp},
		Aggregation: view.Count(),
	}
	opLatencyView = &view.View{
		Name:        "ordstore/op_latency",
		Measure:     mOpLatencyMs,
		Description: "store operation latency by type",
		TagKeys:     []tag.Key{keyOp},
		Aggregation: view.Distribution(0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100),
	}
)

// RecordOp counts one operation and its latency since start. Intended as
// a deferred call at the top of a store method.
func RecordOp(ctx context.Context, op string, start time.Time) {
	ctx, err := tag.New(ctx, tag.Upsert(keyOp, op))
	if err != nil {
		return
	}
	latency := float64(time.Since(start).Microseconds()) / 1000.0
	ocstats.Record(ctx, mOps.M(1), mOpLatencyMs.M(latency))
}

// NewExporter registers the views and returns a prometheus exporter that
// serves as an http.Handler on /metrics.
func NewExporter() (*prometheus.Exporter, error) {
	if err := view.Register(opsCountView, opLatencyView); err != nil {
		return nil, err
	}
	return prometheus.NewExporter(prometheus.Options{Namespace: "ordstore"})
}
