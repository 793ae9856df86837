// Package metrics owns the storefront's Prometheus collectors. Collectors
// live on a private registry so tests can build as many as they like.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "catalog"

type Metrics struct {
	registry *prometheus.Registry

	productLists  *prometheus.CounterVec
	cartMutations *prometheus.CounterVec
}

// New registers the collectors. openCarts reports how many session carts are
// held in memory; nil skips that gauge.
func New(openCarts func() float64) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		productLists: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "product_list_requests_total",
			Help:      "Product list requests by outcome (ok, unavailable, bad_request).",
		}, []string{"outcome"}),
		cartMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_mutations_total",
			Help:      "Cart mutations by operation and persistence outcome.",
		}, []string{"op", "outcome"}),
	}
	reg.MustRegister(m.productLists, m.cartMutations)

	if openCarts != nil {
		reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "open_carts",
			Help:      "Session carts currently held in memory.",
		}, openCarts))
	}
	return m
}

func (m *Metrics) ProductList(outcome string) {
	m.productLists.WithLabelValues(outcome).Inc()
}

// CartMutation counts op ("add" or "reset"); err is the persistence result.
func (m *Metrics) CartMutation(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "persist_failed"
	}
	m.cartMutations.WithLabelValues(op, outcome).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
