// Package observability holds the prometheus collectors of the service.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LikeToggles counts like toggles by outcome ("liked", "unliked").
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quill_like_toggles_total",
		Help: "Total number of like toggles by outcome",
	}, []string{"result"})

	// CommentWrites counts comment mutations by kind.
	CommentWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quill_comment_writes_total",
		Help: "Total number of comment writes by kind",
	}, []string{"kind"})

	// CascadeFailures counts cascade deletes that left dependents behind.
	CascadeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quill_cascade_failures_total",
		Help: "Total number of partially failed cascade deletes",
	}, []string{"resource"})

	// AuthorLookups counts author ids by where they were resolved from.
	AuthorLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quill_author_lookups_total",
		Help: "Author ids resolved by source (cache, directory, missing)",
	}, []string{"source"})

	// AuthorBatchSize records the number of distinct ids per directory batch.
	AuthorBatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "quill_author_batch_size",
		Help:    "Distinct author ids sent to the user directory per batch",
		Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250, 500},
	})
)

// HTTPRequests counts served requests by method, route pattern and status.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "quill_http_requests_total",
	Help: "Total number of HTTP requests by method, route and status",
}, []string{"method", "route", "status"})
