package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Observer counts pipeline activity for diagnostic scraping.
var Observer = newPrometheusMetrics()

// Prometheus bundles the pipeline collectors.
type Prometheus struct {
	Deals      *prometheus.CounterVec
	Categories *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
}

func newPrometheusMetrics() Prometheus {
	p := Prometheus{
		Deals: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "dealrisk",
				Name:      "deals",
				Help:      "deals processed per pipeline stage",
			}, []string{"stage"}),
		Categories: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "dealrisk",
				Name:      "categories",
				Help:      "scored deals per risk category",
			}, []string{"category"}),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "dealrisk",
				Name:      "stage_seconds",
				Help:      "pipeline stage duration",
			}, []string{"stage"}),
	}
	prometheus.MustRegister(p.Deals, p.Categories, p.Duration)
	return p
}

// Serve exposes /metrics on the given port for the lifetime of the run.
// A port of 0 disables the listener.
func Serve(port int) {
	if port == 0 {
		return
	}
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(fmt.Sprintf(":%d", port), nil); err != nil {
			log.Error().Err(err).Int("port", port).Msg("metrics listener stopped")
		}
	}()
}
