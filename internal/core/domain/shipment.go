package domain

// ShipmentStatus represents the lifecycle state of a carrier shipment.
type ShipmentStatus string

const (
	StatusNone           ShipmentStatus = "none"
	StatusPendingBarcode ShipmentStatus = "created_pending_barcode"
	StatusCreated        ShipmentStatus = "created"
	StatusInTransit      ShipmentStatus = "in_transit"
	StatusDelivered      ShipmentStatus = "delivered"
	StatusCanceled       ShipmentStatus = "canceled"
	StatusCreateFailed   ShipmentStatus = "create_failed"
)

// statusRank orders the forward path of the lifecycle. Divergent terminal
// states (canceled, create_failed) are handled separately.
var statusRank = map[ShipmentStatus]int{
	StatusNone:           0,
	StatusCreateFailed:   0,
	StatusPendingBarcode: 1,
	StatusCreated:        2,
	StatusInTransit:      3,
	StatusDelivered:      4,
}

// AtLeast reports whether s has reached the given point on the forward path.
// create_failed ranks with none so a later retry can re-attempt creation.
func (s ShipmentStatus) AtLeast(other ShipmentStatus) bool {
	return statusRank[s] >= statusRank[other]
}

// CanTransitionTo reports whether moving from s to next is a legal
// lifecycle transition. Forward moves along the happy path are allowed,
// as are diversions to canceled and create_failed from any non-final state.
func (s ShipmentStatus) CanTransitionTo(next ShipmentStatus) bool {
	if s == StatusDelivered || s == StatusCanceled {
		return false
	}
	switch next {
	case StatusCanceled:
		return true
	case StatusCreateFailed:
		// Once a shipment exists carrier-side, even pending its barcode,
		// a later failed pass must not erase that fact.
		return !s.AtLeast(StatusPendingBarcode)
	default:
		return statusRank[next] > statusRank[s] || next == s
	}
}

// Terminal reports whether no further status change is expected.
func (s ShipmentStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCanceled
}

// CODState tracks the carrier-side collection document for a
// cash-on-delivery order. Present only when the order is COD.
type CODState struct {
	CollectionDocID   string   `json:"collection_doc_id,omitempty" bson:"collection_doc_id,omitempty"`
	CollectionDocType string   `json:"collection_doc_type,omitempty" bson:"collection_doc_type,omitempty"`
	Confirmed         bool     `json:"confirmed" bson:"confirmed"`
	ReportedDocTypes  []string `json:"reported_doc_types,omitempty" bson:"reported_doc_types,omitempty"`
}

// CarrierDebugFields holds the exact COD values last submitted to the
// carrier, preserved verbatim for support diagnosis. Not business data.
type CarrierDebugFields map[string]string

// ShipmentRecord is the carrier-facing state persisted on the order.
// Created implicitly on the first creation attempt, never deleted.
type ShipmentRecord struct {
	CargoKey       string             `json:"cargo_key,omitempty" bson:"cargo_key,omitempty"`
	TrackingNumber string             `json:"tracking_number,omitempty" bson:"tracking_number,omitempty"`
	Status         ShipmentStatus     `json:"status" bson:"status"`
	LabelURL       string             `json:"label_url,omitempty" bson:"label_url,omitempty"`
	LastError      string             `json:"last_error,omitempty" bson:"last_error,omitempty"`
	COD            *CODState          `json:"cod,omitempty" bson:"cod,omitempty"`
	DebugFields    CarrierDebugFields `json:"debug_fields,omitempty" bson:"debug_fields,omitempty"`
}

// EffectiveStatus treats the zero value as StatusNone so callers can work
// with records loaded from orders that were never shipped.
func (r ShipmentRecord) EffectiveStatus() ShipmentStatus {
	if r.Status == "" {
		return StatusNone
	}
	return r.Status
}

// AlreadyCreated reports whether a creation attempt has already fully
// succeeded, which is the idempotency gate for re-submission. A record
// stuck in created_pending_barcode does not trip the gate: re-invoking
// creation is how such orders eventually acquire their barcode, with the
// carrier's duplicate detection making the re-submission harmless.
func (r ShipmentRecord) AlreadyCreated() bool {
	if r.TrackingNumber != "" || r.LabelURL != "" {
		return true
	}
	return r.EffectiveStatus().AtLeast(StatusCreated)
}
