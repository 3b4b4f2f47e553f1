package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	ordersConfirmed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "taxibot",
			Subsystem: "orders",
			Name:      "confirmed_total",
			Help:      "Orders confirmed by passengers.",
		},
	)
	driverDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "taxibot",
			Subsystem: "dispatch",
			Name:      "driver_deliveries_total",
			Help:      "Per-driver order deliveries by result.",
		},
		[]string{"result"},
	)
	adminAlerts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "taxibot",
			Subsystem: "dispatch",
			Name:      "admin_alerts_total",
			Help:      "Dispatch failure notifications sent to the admin, by outcome.",
		},
		[]string{"outcome"},
	)
	draftsPurged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "taxibot",
			Subsystem: "conversation",
			Name:      "drafts_purged_total",
			Help:      "Stale order drafts dropped by the purge job.",
		},
	)
	registeredDrivers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "taxibot",
			Subsystem: "registry",
			Name:      "drivers",
			Help:      "Drivers currently registered.",
		},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(ordersConfirmed, driverDeliveries, adminAlerts, draftsPurged, registeredDrivers)
	})
}

func RecordOrderConfirmed() {
	ordersConfirmed.Inc()
}

func RecordDriverDelivery(ok bool) {
	result := "delivered"
	if !ok {
		result = "failed"
	}
	driverDeliveries.WithLabelValues(result).Inc()
}

func RecordAdminAlert(sent bool) {
	outcome := "sent"
	if !sent {
		outcome = "dropped"
	}
	adminAlerts.WithLabelValues(outcome).Inc()
}

func RecordDraftsPurged(n int) {
	draftsPurged.Add(float64(n))
}

func SetRegisteredDrivers(n int) {
	registeredDrivers.Set(float64(n))
}
