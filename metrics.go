package zarr

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "zarr_grid"

var (
	plannedChunksCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "planned_chunk_requests_total",
		Help:      "The total number of chunk requests produced by Plan.",
	})

	chunkProbesCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "chunk_probes_total",
		Help:      "The total number of chunk existence probes, by outcome.",
	}, []string{"outcome"})
)
