package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the notifier's module metrics. Module metrics register
// against it instead of the global default so tests can build their own.
type Registry struct {
	*prometheus.Registry
}

func New() *Registry {
	return &Registry{Registry: prometheus.NewRegistry()}
}

// Handler serves the registry merged with the default gatherer, which carries
// the Go runtime and process collectors plus package-level store histograms.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(
		prometheus.Gatherers{r.Registry, prometheus.DefaultGatherer},
		promhttp.HandlerOpts{},
	)
}
