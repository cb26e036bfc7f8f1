package geocode

import "github.com/prometheus/client_golang/prometheus"

const (
	opForward = "forward"
	opReverse = "reverse"

	outcomeOK       = "ok"
	outcomeNotFound = "not_found"
	outcomeError    = "error"
)

var (
	lookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "geocoder_lookups_total", Help: "Geocoding provider lookups by op and outcome"},
		[]string{"op", "outcome"},
	)
	lookupDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "geocoder_lookup_duration_seconds",
			Help:    "Latency of geocoding provider calls",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"op"},
	)
)

func init() { prometheus.MustRegister(lookupsTotal, lookupDuration) }

func observe(op, outcome string) { lookupsTotal.WithLabelValues(op, outcome).Inc() }
