// Package metrics exposes Prometheus collectors for the render pipeline.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Render sources.
const (
	SourceBootstrap = "bootstrap"
	SourceSearch    = "search"
	SourceFragment  = "fragment"
	SourceAPI       = "api"
	SourceMCP       = "mcp"
)

var (
	RendersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docshelf_renders_total",
			Help: "Total number of catalog renders",
		},
		[]string{"source"},
	)

	RenderedCards = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "docshelf_rendered_cards",
			Help:    "Number of cards per render",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
		},
	)

	SearchInputs = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "docshelf_search_inputs_total",
			Help: "Total search input events received",
		},
	)

	SearchRefreshes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "docshelf_search_refreshes_total",
			Help: "Total debounced search refreshes",
		},
	)

	OpenSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "docshelf_open_sessions",
			Help: "Number of open browser sessions",
		},
	)

	CatalogDocuments = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "docshelf_catalog_documents",
			Help: "Number of records in the catalog",
		},
	)
)

var initOnce sync.Once

// Init registers the collectors with the default registry. Safe to call more
// than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RendersTotal)
		prometheus.MustRegister(RenderedCards)
		prometheus.MustRegister(SearchInputs)
		prometheus.MustRegister(SearchRefreshes)
		prometheus.MustRegister(OpenSessions)
		prometheus.MustRegister(CatalogDocuments)
	})
}

// ObserveRender records one render of n cards.
func ObserveRender(source string, n int) {
	RendersTotal.WithLabelValues(source).Inc()
	RenderedCards.Observe(float64(n))
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
