package ports

import (
	"context"

	"github.com/anatolia-commerce/cargo-gateway/internal/core/domain"
)

// ShipmentUpdate is a partial update of the shipment fields on an order.
// Nil pointer fields are left untouched; non-nil fields are written as-is
// (an empty string clears the stored value).
type ShipmentUpdate struct {
	CargoKey       *string
	TrackingNumber *string
	Status         *domain.ShipmentStatus
	LabelURL       *string
	LastError      *string
	COD            *domain.CODState
	DebugFields    domain.CarrierDebugFields
}

// OrderRepository is the gateway's view of the external order store:
// read one order, write back shipment fields. No transaction semantics
// beyond per-call atomicity are assumed.
type OrderRepository interface {
	GetByID(ctx context.Context, orderID string) (*domain.Order, error)
	UpdateShipment(ctx context.Context, orderID string, upd ShipmentUpdate) error
}

// CreationLock is a best-effort per-order advisory lock guarding the
// read-then-write idempotency gate. Losing the lock is not a correctness
// problem: the carrier's own duplicate detection backs it up.
type CreationLock interface {
	// Acquire returns true when the caller holds the lock for orderID.
	Acquire(ctx context.Context, orderID string) (bool, error)
	Release(ctx context.Context, orderID string)
}

// Helpers for building ShipmentUpdate literals.

func StringPtr(s string) *string { return &s }

func StatusPtr(s domain.ShipmentStatus) *domain.ShipmentStatus { return &s }
