// Package monitoring exposes prometheus collectors for the booking
// engine.  Counters are registered through promauto and served on the
// /metrics route.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bookingsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "Bookings successfully created, by source",
		},
		[]string{"source"},
	)

	bookingsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_rejected_total",
			Help: "Booking creation failures, by failure code",
		},
		[]string{"code"},
	)

	rollbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_rollbacks_total",
			Help: "Compensating deletes after a post-insert conflict",
		},
	)

	codeCollisions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "confirmation_code_collisions_total",
			Help: "Confirmation codes regenerated after a collision probe",
		},
	)
)

// BookingCreated counts one successful creation for the given source.
func BookingCreated(source string) { bookingsCreated.WithLabelValues(source).Inc() }

// BookingRejected counts one typed creation failure.
func BookingRejected(code string) { bookingsRejected.WithLabelValues(code).Inc() }

// RollbackPerformed counts one compensating delete.
func RollbackPerformed() { rollbacks.Inc() }

// CodeCollision counts one confirmation-code collision.
func CodeCollision() { codeCollisions.Inc() }
