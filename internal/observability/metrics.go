package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RidesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "urbik", Name: "rides_created_total", Help: "Total rides created"})

	RideOffersSent = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "urbik", Name: "ride_offers_sent_total", Help: "Total new-ride offers broadcast to captains"})

	MatchesWithoutCaptains = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "urbik", Name: "matches_without_captains_total", Help: "Ride creations where no captain was found within the radius ceiling"})

	ConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "urbik", Name: "ws_connections_active", Help: "Live websocket connections"})

	SearchRadius = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "urbik", Name: "match_search_radius_km", Help: "Final radius of the escalating captain search",
		Buckets: []float64{2, 4, 6, 8, 10}})
)
