package metrics

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	IncidentsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "caretrust_incidents_created_total",
			Help: "Incidents created, by source",
		},
		[]string{"source"},
	)

	Escalations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "caretrust_escalations_total",
			Help: "Incident escalations, by kind",
		},
		[]string{"kind"},
	)

	NotificationDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "caretrust_notification_deliveries_total",
			Help: "Notification writes and pushes, by channel and outcome",
		},
		[]string{"channel", "outcome"},
	)

	MetricsComputations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "caretrust_quality_computations_total",
			Help: "Per-caregiver quality computations, by outcome",
		},
		[]string{"outcome"},
	)

	BatchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "caretrust_quality_batch_duration_seconds",
			Help:    "Duration of scheduled quality batch runs",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
	)

	PlatformQualityScore = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "caretrust_platform_quality_score",
			Help: "Mean quality score from the latest platform rollup",
		},
	)
)

var registerOnce sync.Once

// Init registers the collectors with the default registry. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(IncidentsCreated)
		prometheus.MustRegister(Escalations)
		prometheus.MustRegister(NotificationDeliveries)
		prometheus.MustRegister(MetricsComputations)
		prometheus.MustRegister(BatchDuration)
		prometheus.MustRegister(PlatformQualityScore)
	})
}

func MetricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
