package domain

// ShipmentEvent is a single entry of the carrier-reported movement
// history. Read-only; sourced from the tracking query, never persisted.
type ShipmentEvent struct {
	EventID    string `json:"event_id"`
	Name       string `json:"name"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	City       string `json:"city"`
	Town       string `json:"town"`
	Unit       string `json:"unit"`
	ReasonID   string `json:"reason_id,omitempty"`
	ReasonName string `json:"reason_name,omitempty"`
}

// ShipmentTracking is the normalized view of a carrier tracking query.
type ShipmentTracking struct {
	CargoKey       string          `json:"cargo_key"`
	TrackingNumber string          `json:"tracking_number,omitempty"`
	StatusCode     string          `json:"status_code"`
	Status         ShipmentStatus  `json:"status"`
	Final          bool            `json:"final"`
	Successful     bool            `json:"successful"`
	HasProblem     bool            `json:"has_problem"`
	ReasonID       string          `json:"reason_id,omitempty"`
	ReasonName     string          `json:"reason_name,omitempty"`
	Events         []ShipmentEvent `json:"events,omitempty"`
}
