package metrics

import (
	"io"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

// Fetch outcomes, one per failure kind of the client error taxonomy
const (
	OutcomeSuccess         = "success"
	OutcomeInvalidURL      = "invalid_url"
	OutcomeUnauthenticated = "unauthenticated"
	OutcomeTransport       = "transport"
	OutcomeStatus          = "status"
	OutcomeEmptyBody       = "empty_body"
	OutcomeDecode          = "decode"
)

const namespace = "voltgo"

var (
	// API client metrics
	clientRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Total number of API requests by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	clientRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "API request duration in seconds",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"endpoint"},
	)

	timestampParseTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "timestamp_parse_total",
			Help:      "Timestamp parse attempts by format and result",
		},
		[]string{"format", "result"},
	)

	// Session store metrics
	sessionStoreOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "store_operations_total",
			Help:      "Session store operations by kind and result",
		},
		[]string{"op", "result"},
	)
)

// RecordFetch records one API call. A zero duration means no request was sent.
func RecordFetch(endpoint, outcome string, duration time.Duration) {
	clientRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	if duration > 0 {
		clientRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
	}
}

// ObserveFetchDuration records the latency of a request that got a usable
// response. Its outcome is recorded once the body has been decoded.
func ObserveFetchDuration(endpoint string, duration time.Duration) {
	clientRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordTimestampAttempt records a single parse attempt against one format
func RecordTimestampAttempt(format string, ok bool) {
	timestampParseTotal.WithLabelValues(format, result(ok)).Inc()
}

// RecordSessionOp records a session store read, write or delete
func RecordSessionOp(op string, ok bool) {
	sessionStoreOps.WithLabelValues(op, result(ok)).Inc()
}

func result(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}

// FetchCounter exposes the request counter for a label pair, used by tests
func FetchCounter(endpoint, outcome string) prometheus.Counter {
	return clientRequestsTotal.WithLabelValues(endpoint, outcome)
}

// TimestampCounter exposes the parse counter for a label pair, used by tests
func TimestampCounter(format string, ok bool) prometheus.Counter {
	return timestampParseTotal.WithLabelValues(format, result(ok))
}

// Dump writes every voltgo metric family in the Prometheus text format
func Dump(w io.Writer) error {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), namespace+"_") {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
