// Package metrics defines prometheus metric types and provides convenience
// methods to add accounting to various parts of the pipeline.
//
// When defining new operations or metrics, these are helpful values to track:
//  - things coming into or go out of the system: requests, files, tests, api calls.
//  - the success or error status of any of the above.
//  - the distribution of processing latency.
package metrics

import (
	"log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Decode error kinds, named per spec.md §7.
const (
	KindPodDecode     = "pod_decode"
	KindTypeMapGap    = "type_map_gap"
	KindUnknownOpcode = "unknown_opcode"
	KindUnknownObject = "unknown_object"
)

var (
	// DecodeErrorCount counts decode failures by kind.
	//
	// Provides metrics:
	//    pipewire_protocol_decode_errors_total
	// Example usage:
	//    metrics.DecodeErrorCount.With(prometheus.Labels{"kind": metrics.KindPodDecode}).Inc()
	DecodeErrorCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipewire_protocol_decode_errors_total",
			Help: "Number of message decode failures, by kind.",
		}, []string{"kind"})

	// DispatchLatencyHistogram tracks the time spent in
	// Connection.Dispatch per message, from payload handoff to handler
	// return, labeled by the bound interface's type URI.
	DispatchLatencyHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "pipewire_protocol_dispatch_latency_seconds",
			Help: "Dispatch latency distribution (seconds), by interface.",
			Buckets: []float64{
				0.00001, 0.000025, 0.00005, 0.000075,
				0.0001, 0.00025, 0.0005, 0.00075,
				0.001, 0.0025, 0.005, 0.0075,
				0.01, 0.025, 0.05, 0.075,
				0.1, 0.25, 0.5,
			},
		}, []string{"interface"})

	// TypeMapHighWater tracks each connection's receive-side high-water
	// mark, i.e. how many types the peer has announced to this side so
	// far. It is updated on every accepted inbound update_types.
	TypeMapHighWater = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pipewire_protocol_type_map_high_water",
			Help: "Number of types announced by the peer, per connection.",
		}, []string{"connection"})

	// LiveObjectCount tracks the number of non-destroyed objects in a
	// connection's object table.
	LiveObjectCount = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pipewire_protocol_live_objects",
			Help: "Number of live (non-destroyed) objects, per connection.",
		}, []string{"connection"})
)

// init() prints a log message to let the user know that the package has been
// loaded and the metrics registered. The metrics are auto-registered, which
// means they are registered as soon as this package is loaded, and the exact
// time this occurs (and whether this occurs at all in a given context) can be
// opaque.
func init() {
	log.Println("Prometheus metrics in pipewire/metrics are registered.")
}
