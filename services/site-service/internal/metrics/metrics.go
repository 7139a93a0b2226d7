package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ambersite"

var (
	once sync.Once

	recordsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_created_total",
			Help:      "Records created through the API, by kind.",
		},
		[]string{"kind"},
	)

	validationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_failures_total",
			Help:      "Rejected submissions, by kind.",
		},
		[]string{"kind"},
	)

	eventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Domain events handed to Kafka, by type and result.",
		},
		[]string{"type", "result"},
	)

	emailsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_sent_total",
			Help:      "Confirmation emails, by result.",
		},
		[]string{"result"},
	)
)

// Register registers metrics with the default registry (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(recordsCreated, validationFailures, eventsPublished, emailsSent)
	})
}

func Handler() http.Handler {
	Register()
	return promhttp.Handler()
}

func IncRecordCreated(kind string) {
	recordsCreated.WithLabelValues(kind).Inc()
}

func IncValidationFailure(kind string) {
	validationFailures.WithLabelValues(kind).Inc()
}

func IncEventPublished(eventType, result string) {
	eventsPublished.WithLabelValues(eventType, result).Inc()
}

func IncEmailSent(result string) {
	emailsSent.WithLabelValues(result).Inc()
}
