package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// ScoreDeltas считает примененные к опросам дельты баллов по типу операции
	ScoreDeltas = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "survey_score_deltas_total",
			Help: "Score deltas applied to survey totals",
		},
		[]string{"operation"},
	)

	// LedgerInvariantViolations считает попытки увести суммарный балл в минус
	LedgerInvariantViolations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "survey_ledger_invariant_violations_total",
			Help: "Rejected score deltas that would make a survey total negative",
		},
	)

	// Completions считает попытки завершения опроса по исходу
	Completions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "survey_completions_total",
			Help: "Survey completion attempts by outcome",
		},
		[]string{"outcome"},
	)

	registerOnce sync.Once
)

// Init регистрирует метрики в реестре по умолчанию; повторные вызовы игнорируются
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(ScoreDeltas)
		prometheus.MustRegister(LedgerInvariantViolations)
		prometheus.MustRegister(Completions)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(time.Since(start).Seconds())
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
