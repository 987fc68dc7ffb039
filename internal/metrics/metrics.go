package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OffersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kwhmarket_offers_created_total",
		Help: "Offers created",
	})

	// OfferTransitions counts transition attempts by action and outcome
	// (ok, conflict, invalid, not_found, forbidden, error).
	OfferTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kwhmarket_offer_transitions_total",
		Help: "Offer transition attempts",
	}, []string{"action", "result"})

	KwhTraded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kwhmarket_kwh_traded_total",
		Help: "kWh exchanged in completed offers",
	})

	KwhDonated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kwhmarket_kwh_donated_total",
		Help: "kWh donated to the admin pool",
	})

	KwhConsumed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kwhmarket_kwh_consumed_total",
		Help: "Donated kWh spent on admin offers",
	})

	FeedbackSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kwhmarket_feedback_submitted_total",
		Help: "Ratings left after completed offers",
	}, []string{"positive"})

	NotificationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kwhmarket_notification_failures_total",
		Help: "Notifications that could not be delivered",
	})

	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kwhmarket_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	})
)
