package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// ReviewMutationsTotal counts review writes by operation and outcome.
	ReviewMutationsTotal *prometheus.CounterVec
	// AggregateRecomputeTotal counts rating aggregate recomputations by level and outcome.
	AggregateRecomputeTotal *prometheus.CounterVec
	// AggregateTxRetriesTotal counts reruns of rating transactions after serialization failures.
	AggregateTxRetriesTotal prometheus.Counter
	// BookingsCreatedTotal counts bookings created from confirmed carts.
	BookingsCreatedTotal prometheus.Counter
	// BookingTransitionsTotal counts booking state transitions by target state.
	BookingTransitionsTotal *prometheus.CounterVec
	// EventsEmittedTotal counts domain events by topic and outcome.
	EventsEmittedTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		ReviewMutationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "review_mutations_total",
			Help:      "Count of review mutations by operation and outcome.",
		}, []string{"op", "result"})
		AggregateRecomputeTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "aggregate_recompute_total",
			Help:      "Count of rating aggregate recomputations.",
		}, []string{"level", "result"})
		AggregateTxRetriesTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "aggregate_tx_retries_total",
			Help:      "Number of rating transactions rerun after a serialization failure or deadlock.",
		})
		BookingsCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "Number of bookings created at checkout.",
		})
		BookingTransitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_transitions_total",
			Help:      "Count of booking state transitions by target state.",
		}, []string{"to"})
		EventsEmittedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_emitted_total",
			Help:      "Count of domain events by topic and outcome.",
		}, []string{"topic", "result"})

		ReviewMutationsTotal = register(reg, ReviewMutationsTotal)
		AggregateRecomputeTotal = register(reg, AggregateRecomputeTotal)
		AggregateTxRetriesTotal = register(reg, AggregateTxRetriesTotal)
		BookingsCreatedTotal = register(reg, BookingsCreatedTotal)
		BookingTransitionsTotal = register(reg, BookingTransitionsTotal)
		EventsEmittedTotal = register(reg, EventsEmittedTotal)
	})
}

// ObserveReviewMutation records a review write outcome. Safe before registration.
func ObserveReviewMutation(op, result string) {
	if ReviewMutationsTotal != nil {
		ReviewMutationsTotal.WithLabelValues(op, result).Inc()
	}
}

// ObserveAggregateRecompute records a recompute at the service or destination level.
func ObserveAggregateRecompute(level, result string) {
	if AggregateRecomputeTotal != nil {
		AggregateRecomputeTotal.WithLabelValues(level, result).Inc()
	}
}

// ObserveAggregateTxRetry counts one rerun of a rating transaction.
func ObserveAggregateTxRetry() {
	if AggregateTxRetriesTotal != nil {
		AggregateTxRetriesTotal.Inc()
	}
}

// ObserveBookingsCreated adds n to the bookings created counter.
func ObserveBookingsCreated(n int) {
	if BookingsCreatedTotal != nil && n > 0 {
		BookingsCreatedTotal.Add(float64(n))
	}
}

// ObserveBookingTransition records a successful transition into state to.
func ObserveBookingTransition(to string) {
	if BookingTransitionsTotal != nil {
		BookingTransitionsTotal.WithLabelValues(to).Inc()
	}
}

// ObserveEventEmitted records the outcome of one Emit call.
func ObserveEventEmitted(topic, result string) {
	if EventsEmittedTotal != nil {
		EventsEmittedTotal.WithLabelValues(topic, result).Inc()
	}
}
