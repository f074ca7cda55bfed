package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	GraphVertices = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "modgraph_graph_vertices_total",
		Help: "Number of vertices in the loaded call graph.",
	})

	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "modgraph_graph_edges_total",
		Help: "Number of distinct edges in the loaded call graph.",
	})

	GraphRebuildsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "modgraph_graph_rebuilds_total",
		Help: "Total number of graph rebuilds triggered by database changes.",
	})

	GraphBuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "modgraph_graph_build_seconds",
		Help:    "Time spent loading edges and building the call graph.",
		Buckets: prometheus.DefBuckets,
	})

	QueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "modgraph_query_seconds",
		Help:    "Time spent answering a graph or store query.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	PathsEnumerated = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "modgraph_paths_enumerated",
		Help:    "Number of paths returned per all-paths enumeration.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	})

	ConflictsDetected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "modgraph_conflicts_detected_total",
		Help: "Total conflicts emitted in compatibility reports, by kind.",
	}, []string{"kind"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "modgraph_watcher_events_total",
		Help: "Total number of file system events received by the database watcher.",
	})
)
