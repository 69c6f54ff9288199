package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "code"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "code"},
	)

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "Total number of bookings created.",
		},
	)
	bookingsCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bookings_cancelled_total",
			Help: "Total number of bookings cancelled.",
		},
	)
	flightsCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "flights_cancelled_total",
			Help: "Total number of flights cancelled.",
		},
	)
	seatConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "seat_version_conflicts_total",
			Help: "Total number of optimistic seat-map writes retried after a version conflict.",
		},
	)

	cacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "flight_cache_hits_total",
			Help: "Total number of flight cache hits.",
		},
	)
	cacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "flight_cache_misses_total",
			Help: "Total number of flight cache misses.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequests, httpDuration,
		bookingsCreated, bookingsCancelled, flightsCancelled, seatConflicts,
		cacheHits, cacheMisses,
	)
}

func ObserveHTTPRequest(method, route string, code int, d time.Duration) {
	c := strconv.Itoa(code)
	httpRequests.WithLabelValues(method, route, c).Inc()
	httpDuration.WithLabelValues(method, route, c).Observe(d.Seconds())
}

func IncBookingCreated()   { bookingsCreated.Inc() }
func IncBookingCancelled() { bookingsCancelled.Inc() }
func IncFlightCancelled()  { flightsCancelled.Inc() }
func IncSeatConflict()     { seatConflicts.Inc() }
func IncCacheHit()         { cacheHits.Inc() }
func IncCacheMiss()        { cacheMisses.Inc() }
