package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ingestion metrics
	EventsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_events_ingested_total",
			Help: "Total change events appended to the event log",
		},
		[]string{"source", "kind"},
	)

	SignaturesRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notify_signatures_rejected_total",
			Help: "Inbound webhook requests rejected for a bad or missing signature",
		},
	)

	UnrecognizedEvents = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notify_unrecognized_events_total",
			Help: "Inbound events acknowledged but ignored as unrecognized",
		},
	)

	DuplicatesSuppressed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notify_duplicates_suppressed_total",
			Help: "Inbound events suppressed by the idempotency check",
		},
	)

	// Delivery metrics
	Deliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_deliveries_total",
			Help: "Channel delivery attempts by channel and outcome",
		},
		[]string{"channel", "status"},
	)

	// Socket metrics
	SocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notify_socket_clients",
			Help: "Currently connected socket clients",
		},
	)
)
