// Package metrics exposes ledger counters through a private Prometheus registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder counts ledger events. A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	transactionsCreated  *prometheus.CounterVec
	transactionsPosted   *prometheus.CounterVec
	transactionsReversed *prometheus.CounterVec
	rejections           *prometheus.CounterVec
	fxRecords            *prometheus.CounterVec
	revaluationRuns      prometheus.Counter
	httpDuration         *prometheus.HistogramVec
}

// NewRecorder registers the ledger collectors plus Go and process collectors.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		transactionsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "transactions_created_total",
			Help:      "Draft transactions created, by transaction type.",
		}, []string{"type"}),
		transactionsPosted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "transactions_posted_total",
			Help:      "Transactions posted, by transaction type.",
		}, []string{"type"}),
		transactionsReversed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "transactions_reversed_total",
			Help:      "Transactions reversed, by transaction type.",
		}, []string{"type"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "submissions_rejected_total",
			Help:      "Rejected ledger operations, by reason.",
		}, []string{"reason"}),
		fxRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "fx_records_total",
			Help:      "FX gain/loss records written, by FX type.",
		}, []string{"fx_type"}),
		revaluationRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "revaluation_runs_total",
			Help:      "Unrealized FX revaluation runs that posted a transaction.",
		}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ledger",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency, by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.transactionsCreated,
		r.transactionsPosted,
		r.transactionsReversed,
		r.rejections,
		r.fxRecords,
		r.revaluationRuns,
		r.httpDuration,
	)
	return r
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Recorder) TransactionCreated(txnType string) {
	if r == nil {
		return
	}
	r.transactionsCreated.WithLabelValues(txnType).Inc()
}

func (r *Recorder) TransactionPosted(txnType string) {
	if r == nil {
		return
	}
	r.transactionsPosted.WithLabelValues(txnType).Inc()
}

func (r *Recorder) TransactionReversed(txnType string) {
	if r == nil {
		return
	}
	r.transactionsReversed.WithLabelValues(txnType).Inc()
}

// Rejected counts an operation refused with the given reason (e.g. "unbalanced").
func (r *Recorder) Rejected(reason string) {
	if r == nil {
		return
	}
	r.rejections.WithLabelValues(reason).Inc()
}

func (r *Recorder) FXRecorded(fxType string, n int) {
	if r == nil || n == 0 {
		return
	}
	r.fxRecords.WithLabelValues(fxType).Add(float64(n))
}

func (r *Recorder) RevaluationRun() {
	if r == nil {
		return
	}
	r.revaluationRuns.Inc()
}

// GinMiddleware observes request latency by matched route.
func (r *Recorder) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if r == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		r.httpDuration.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
