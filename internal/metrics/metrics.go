// Package metrics prometheus метрики приложения.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/fsdevblog/groph-eats/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg             *prometheus.Registry
	HTTPRequests    *prometheus.CounterVec
	HTTPDurationSec *prometheus.HistogramVec
	OrderStatuses   *prometheus.CounterVec
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "eats_http_requests_total",
		Help: "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "code"})
	httpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "eats_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	orderStatuses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "eats_order_status_total",
		Help: "Applied order status transitions.",
	}, []string{"status"})

	r.MustRegister(
		httpRequests,
		httpDuration,
		orderStatuses,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Registry{
		reg:             r,
		HTTPRequests:    httpRequests,
		HTTPDurationSec: httpDuration,
		OrderStatuses:   orderStatuses,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }

// ObserveRequest учитывает обработанный HTTP запрос. route - шаблон маршрута, а не фактический путь.
func (r *Registry) ObserveRequest(method, route string, code int, elapsed time.Duration) {
	r.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	r.HTTPDurationSec.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// OrderStatusChanged считает примененные статусы заказов.
func (r *Registry) OrderStatusChanged(_ context.Context, order domain.Order) error {
	r.OrderStatuses.WithLabelValues(string(order.Status)).Inc()
	return nil
}
