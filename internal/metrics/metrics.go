// Package metrics holds the Prometheus instruments shared by the scheduler,
// workers and API. Everything hangs off a private registry so tests can
// construct isolated instances.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values.
const (
	OutcomeCreated   = "created"
	OutcomeDuplicate = "duplicate"
	OutcomeInvalid   = "invalid"
	OutcomeQueued    = "queued"
	OutcomeSkipped   = "skipped"
	OutcomeFailed    = "failed"
	OutcomeSent      = "sent"
	OutcomeNoToken   = "no_token"
	OutcomeDisabled  = "disabled"
)

type Metrics struct {
	registry *prometheus.Registry

	IngestedTotal         *prometheus.CounterVec
	ExpandedTotal         prometheus.Counter
	DispatchedTotal       *prometheus.CounterVec
	PushTotal             *prometheus.CounterVec
	BrokerPublishFailures prometheus.Counter
	PushLastSentTimestamp prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		IngestedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "reminders_ingested_total",
			Help: "Reminder creation events consumed from the input queue, by outcome.",
		}, []string{"outcome"}),
		ExpandedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "reminders_expanded_total",
			Help: "Occurrences materialized from recurring templates.",
		}),
		DispatchedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "reminders_dispatched_total",
			Help: "Due reminders handled by the dispatch scan, by outcome.",
		}, []string{"outcome"}),
		PushTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "push_notifications_total",
			Help: "Push sends attempted by the dispatcher, by outcome.",
		}, []string{"outcome"}),
		BrokerPublishFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "broker_publish_failures_total",
			Help: "Dispatch events that could not be published to the broker.",
		}),
		PushLastSentTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "push_last_sent_timestamp_seconds",
			Help: "Unix time of the most recent successful push send.",
		}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
