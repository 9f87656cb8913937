package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReadingsGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aquaeye_readings_generated_total",
			Help: "Total number of synthetic sensor readings generated",
		},
	)

	ReadingsFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aquaeye_readings_failed_total",
			Help: "Total number of readings that could not be persisted",
		},
	)

	AlertsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aquaeye_alerts_created_total",
			Help: "Total number of alerts created",
		},
		[]string{"severity"},
	)

	AlertsSuppressed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aquaeye_alerts_suppressed_total",
			Help: "Total number of violations suppressed by the dedup window",
		},
	)

	AlertsPurged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aquaeye_alerts_purged_total",
			Help: "Total number of resolved alerts removed by the retention job",
		},
	)

	NotificationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aquaeye_notifications_failed_total",
			Help: "Total number of failed external notification deliveries",
		},
		[]string{"channel"},
	)

	TickDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aquaeye_engine_tick_duration_seconds",
			Help:    "Duration of one engine tick",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"job"},
	)

	WebsocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "aquaeye_websocket_clients",
			Help: "Current number of connected live-view clients",
		},
	)
)
