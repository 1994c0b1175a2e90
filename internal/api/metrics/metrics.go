// Package metrics defines and registers all custom Prometheus metrics for
// the cargo gateway. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cargo"

// ── Carrier call metrics ──────────────────────────────────────────────────────

// CarrierCallsTotal counts remote SOAP calls.
// Labels:
//   - operation: carrier operation name (e.g. "createShipment")
//   - result: "ok", "fault", or "error"
var CarrierCallsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "carrier_calls_total",
		Help:      "Total number of remote carrier calls, by operation and result.",
	},
	[]string{"operation", "result"},
)

// CarrierCallDuration measures end-to-end latency of one carrier call.
var CarrierCallDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "carrier_call_duration_seconds",
		Help:      "Duration of carrier SOAP calls from request build to envelope decode.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// ── Shipment lifecycle metrics ────────────────────────────────────────────────

// ShipmentCreationsTotal counts creation attempts by structured outcome.
// Label:
//   - outcome: "created", "created_pending_barcode", "already_done", "failed"
var ShipmentCreationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "shipment_creations_total",
		Help:      "Total number of shipment creation attempts, by outcome.",
	},
	[]string{"outcome"},
)

// CODReconciliationsTotal counts COD collection-document reconciliation
// passes.
// Label:
//   - result: "confirmed" or "pending"
var CODReconciliationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cod_reconciliations_total",
		Help:      "Total number of COD collection-document reconciliation passes.",
	},
	[]string{"result"},
)

// RefreshQueueDepth tracks pending jobs per status-refresh worker.
// Label:
//   - worker_id: numeric worker index ("0", "1", …)
var RefreshQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "refresh_queue_depth",
		Help:      "Current number of jobs pending in each status-refresh worker channel.",
	},
	[]string{"worker_id"},
)
