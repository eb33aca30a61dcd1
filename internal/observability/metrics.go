package observability

import "github.com/prometheus/client_golang/prometheus"

// Domain collectors. HTTP traffic is instrumented separately by
// middleware.Metrics; these count what the service does with it.
var (
	// CatalogFetches counts upstream catalog requests by operation and outcome
	// (success, failure, rejected).
	CatalogFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_fetches_total",
			Help: "Upstream recipe catalog requests by operation and outcome.",
		},
		[]string{"op", "outcome"},
	)

	// CatalogSize gauges the number of recipes in the current cache snapshot.
	CatalogSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_recipes",
			Help: "Number of recipes in the catalog cache snapshot.",
		},
	)

	// BreakerState is 0 closed, 1 half-open, 2 open.
	BreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open).",
		},
		[]string{"name"},
	)

	// BreakerTransitions counts breaker state changes.
	BreakerTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Circuit breaker state transitions.",
		},
		[]string{"name", "from", "to"},
	)

	// Votes counts recorded star votes by star value.
	Votes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rating_votes_total",
			Help: "Recorded rating votes by star.",
		},
		[]string{"star"},
	)

	// FavoriteChanges counts favorites mutations by action (add, remove).
	FavoriteChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "favorite_changes_total",
			Help: "Favorites set mutations by action.",
		},
		[]string{"action"},
	)

	// Submissions counts submission attempts by outcome.
	Submissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "submissions_total",
			Help: "Recipe submissions by outcome.",
		},
		[]string{"outcome"},
	)

	// LiveSubscribers gauges open live subscriptions.
	LiveSubscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "live_subscribers",
			Help: "Open live subscriptions.",
		},
	)

	// LiveDropped counts messages dropped for slow subscribers.
	LiveDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "live_messages_dropped_total",
			Help: "Live messages dropped because a subscriber was not keeping up.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		CatalogFetches, CatalogSize,
		BreakerState, BreakerTransitions,
		Votes, FavoriteChanges, Submissions,
		LiveSubscribers, LiveDropped,
	)
}
