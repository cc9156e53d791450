package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

type Prom struct {
	RequestsTotal    *prometheus.CounterVec
	RequestsDuration *prometheus.HistogramVec
	InFlight         *prometheus.GaugeVec

	// key-value store
	StorageOpDuration *prometheus.HistogramVec
	StorageOpsFailed  *prometheus.CounterVec

	// domain
	BookingsCreated    prometheus.Counter
	BookingTransitions *prometheus.CounterVec
	AccountsRegistered prometheus.Counter
}

func NewProm(reg prometheus.Registerer) *Prom {
	p := &Prom{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cleanhub",
				Name:      "http_requests_total",
				Help:      "Total HTTP requests processed",
			},
			[]string{"method", "route", "status"},
		),
		RequestsDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "cleanhub",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency distributions.",
				// Sane initial defaults
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"method", "route", "status"},
		),
		InFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "cleanhub",
				Name:      "http_in_flight_requests",
				Help:      "Current number of in-flight HTTP requests.",
			},
			[]string{"method", "route"},
		),
		StorageOpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "cleanhub",
				Subsystem: "kv",
				Name:      "op_duration_seconds",
				Help:      "Key-value store op latency (logical op, not raw command)",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5, 1},
			},
			[]string{"op", "status"},
		),
		StorageOpsFailed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cleanhub",
				Subsystem: "kv",
				Name:      "ops_failed_total",
				Help:      "Swallowed key-value store failures by logical op.",
			},
			[]string{"op"},
		),
		BookingsCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "cleanhub",
				Subsystem: "bookings",
				Name:      "created_total",
				Help:      "Bookings created since process start.",
			},
		),
		BookingTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cleanhub",
				Subsystem: "bookings",
				Name:      "status_transitions_total",
				Help:      "Booking status updates by target status.",
			},
			[]string{"status"},
		),
		AccountsRegistered: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "cleanhub",
				Subsystem: "accounts",
				Name:      "registered_total",
				Help:      "Accounts registered since process start.",
			},
		),
	}
	reg.MustRegister(
		p.RequestsTotal, p.RequestsDuration, p.InFlight,
		p.StorageOpDuration, p.StorageOpsFailed,
		p.BookingsCreated, p.BookingTransitions, p.AccountsRegistered,
	)

	return p
}

func (p *Prom) GinHandleMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		// route template is only available after routing; best effort:
		route := ctx.FullPath()

		if route == "" {
			route = "unmatched"
		}

		method := ctx.Request.Method
		p.InFlight.WithLabelValues(method, route).Inc()
		defer p.InFlight.WithLabelValues(method, route).Dec()
		ctx.Next()

		status := strconv.Itoa(ctx.Writer.Status())
		secs := time.Since(start).Seconds()

		p.RequestsTotal.WithLabelValues(method, route, status).Inc()
		p.RequestsDuration.WithLabelValues(method, route, status).Observe(secs)
	}
}

// ObserveStorageOp records one logical kv op. status is "ok" or "error".
func (p *Prom) ObserveStorageOp(op string, start time.Time, failed bool) {
	status := "ok"
	if failed {
		status = "error"
		p.StorageOpsFailed.WithLabelValues(op).Inc()
	}
	p.StorageOpDuration.WithLabelValues(op, status).Observe(time.Since(start).Seconds())
}
