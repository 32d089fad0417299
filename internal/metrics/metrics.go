package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "almacen"

var (
	// Request metrics
	HTTPRequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	HTTPDurationHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Order fulfillment, labelled by outcome (success, warning, or the error code)
	PedidosRecogidosCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pedidos_recogidos_total",
			Help:      "Order fulfillment attempts by outcome",
		},
		[]string{"resultado"},
	)
	PedidosEliminadosCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pedidos_eliminados_total",
		Help:      "Orders deleted from the admin view",
	})

	// Registrations of proveedores and clientes, labelled by outcome
	RegistrosCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registros_total",
			Help:      "Supplier and customer registrations by outcome",
		},
		[]string{"entidad", "resultado"},
	)

	// Database transaction duration
	TxHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "db_tx_duration_seconds",
			Help:      "Duration of service-level transactions",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

// TrackTx returns a function that observes the duration of a transaction.
//
//	defer metrics.TrackTx("marcar_recogido")(time.Now())
func TrackTx(operation string) func(time.Time) {
	return func(start time.Time) {
		TxHistogram.With(prometheus.Labels{"operation": operation}).Observe(time.Since(start).Seconds())
	}
}
