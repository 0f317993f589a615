package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	promStageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tripplanner_stage_duration_seconds",
			Help:    "Time spent in each workflow stage",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"stage"},
	)
	promExternalCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripplanner_external_calls_total",
			Help: "Calls to external APIs by service and outcome",
		},
		[]string{"service", "status"},
	)
	promPlans = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripplanner_plans_total",
			Help: "Completed trip plans by enabled capabilities",
		},
		[]string{"live", "rag"},
	)
)

func init() {
	prometheus.MustRegister(promStageDuration)
	prometheus.MustRegister(promExternalCalls)
	prometheus.MustRegister(promPlans)
}

func ObserveStage(stage string, d time.Duration) {
	promStageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// ObserveExternalCall counts one call to service; a nil err counts as "ok".
func ObserveExternalCall(service string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	promExternalCalls.WithLabelValues(service, status).Inc()
}

func ObservePlan(live, rag bool) {
	promPlans.WithLabelValues(strconv.FormatBool(live), strconv.FormatBool(rag)).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
