package ports

import (
	"context"

	"github.com/anatolia-commerce/cargo-gateway/internal/core/domain"
)

// CreateOutcome distinguishes the four user-visible results of a creation
// attempt. Callers always receive a structured outcome, never a bare panic
// or opaque failure.
type CreateOutcome string

const (
	OutcomeCreated        CreateOutcome = "created"
	OutcomePendingBarcode CreateOutcome = "created_pending_barcode"
	OutcomeReused         CreateOutcome = "already_done"
	OutcomeFailed         CreateOutcome = "failed"
)

// CreateShipmentResult is returned by the orchestrator after a creation
// attempt. Reused is true when the idempotency gate short-circuited or the
// carrier reported the shipment as a pre-existing duplicate.
type CreateShipmentResult struct {
	Outcome        CreateOutcome
	CargoKey       string
	TrackingNumber string
	Status         domain.ShipmentStatus
	Reused         bool
	// FailureReason carries the carrier or transport diagnostics when
	// Outcome is OutcomeFailed.
	FailureReason string
	ErrorCode     string
}

// RefreshResult is returned by a tracking/status refresh.
type RefreshResult struct {
	Tracking *domain.ShipmentTracking
	// Updated is true when the persisted record changed.
	Updated bool
}

// ReconcileResult reports the state of the COD collection document after
// a reconciliation pass.
type ReconcileResult struct {
	Confirmed         bool
	CollectionDocID   string
	CollectionDocType string
	ReportedDocTypes  []string
}

// ShipmentService is the use-case surface of the cargo gateway.
type ShipmentService interface {
	// CreateShipment runs the full creation state machine for one order.
	// Gate failures (unknown order, ineligible order, missing COD
	// profile) are returned as errors; post-submission failures are
	// reported inside the result with the order marked create_failed.
	CreateShipment(ctx context.Context, orderID string) (*CreateShipmentResult, error)

	// RecoverTrackingNumber retries barcode resolution for an order stuck
	// in created_pending_barcode, with a bounded number of attempts.
	RecoverTrackingNumber(ctx context.Context, orderID string) (*CreateShipmentResult, error)

	// ReconcileCOD re-checks the carrier back office for the collection
	// document of a COD order. Never changes the shipment status.
	ReconcileCOD(ctx context.Context, orderID string) (*ReconcileResult, error)

	// RefreshStatus polls the carrier for current status and history and
	// persists any forward progress.
	RefreshStatus(ctx context.Context, orderID string) (*RefreshResult, error)

	// CancelShipment cancels the shipment with the carrier and marks the
	// record canceled.
	CancelShipment(ctx context.Context, orderID string) error

	// GetShipment returns the persisted record, optionally enriched with
	// live carrier events.
	GetShipment(ctx context.Context, orderID string, withEvents bool) (*ShipmentView, error)
}

// ShipmentView is the admin-panel read model for one order's shipment.
type ShipmentView struct {
	OrderID  string
	Record   domain.ShipmentRecord
	Tracking *domain.ShipmentTracking
}
