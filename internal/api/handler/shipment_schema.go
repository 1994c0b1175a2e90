package handler

import (
	"github.com/anatolia-commerce/cargo-gateway/internal/core/domain"
	"github.com/anatolia-commerce/cargo-gateway/internal/core/ports"
)

// --- Request types ---

type batchRefreshRequest struct {
	OrderIDs []string `json:"order_ids" validate:"required,min=1,max=500,dive,required"`
}

// --- Response types ---

type createShipmentResponse struct {
	Outcome        string `json:"outcome"`
	CargoKey       string `json:"cargo_key"`
	TrackingNumber string `json:"tracking_number,omitempty"`
	Status         string `json:"status"`
	Reused         bool   `json:"reused"`
	FailureReason  string `json:"failure_reason,omitempty"`
	ErrorCode      string `json:"error_code,omitempty"`
}

type codStateResponse struct {
	CollectionDocID   string   `json:"collection_doc_id,omitempty"`
	CollectionDocType string   `json:"collection_doc_type,omitempty"`
	Confirmed         bool     `json:"confirmed"`
	ReportedDocTypes  []string `json:"reported_doc_types,omitempty"`
}

type reconcileResponse struct {
	Confirmed         bool     `json:"confirmed"`
	CollectionDocID   string   `json:"collection_doc_id,omitempty"`
	CollectionDocType string   `json:"collection_doc_type,omitempty"`
	ReportedDocTypes  []string `json:"reported_doc_types,omitempty"`
}

type trackingEventResponse struct {
	EventID    string `json:"event_id,omitempty"`
	Name       string `json:"name"`
	Date       string `json:"date"`
	Time       string `json:"time,omitempty"`
	City       string `json:"city,omitempty"`
	Town       string `json:"town,omitempty"`
	Unit       string `json:"unit,omitempty"`
	ReasonID   string `json:"reason_id,omitempty"`
	ReasonName string `json:"reason_name,omitempty"`
}

type trackingResponse struct {
	StatusCode     string                  `json:"status_code"`
	Status         string                  `json:"status"`
	TrackingNumber string                  `json:"tracking_number,omitempty"`
	Final          bool                    `json:"final"`
	Successful     bool                    `json:"successful"`
	HasProblem     bool                    `json:"has_problem"`
	ReasonID       string                  `json:"reason_id,omitempty"`
	ReasonName     string                  `json:"reason_name,omitempty"`
	Events         []trackingEventResponse `json:"events,omitempty"`
}

type shipmentViewResponse struct {
	OrderID        string            `json:"order_id"`
	CargoKey       string            `json:"cargo_key,omitempty"`
	TrackingNumber string            `json:"tracking_number,omitempty"`
	Status         string            `json:"status"`
	LastError      string            `json:"last_error,omitempty"`
	COD            *codStateResponse `json:"cod,omitempty"`
	Tracking       *trackingResponse `json:"tracking,omitempty"`
}

type refreshResponse struct {
	Updated  bool              `json:"updated"`
	Tracking *trackingResponse `json:"tracking,omitempty"`
}

type batchRefreshResponse struct {
	Enqueued int `json:"enqueued"`
}

// --- Mappers ---

func toCreateResponse(r *ports.CreateShipmentResult) createShipmentResponse {
	return createShipmentResponse{
		Outcome:        string(r.Outcome),
		CargoKey:       r.CargoKey,
		TrackingNumber: r.TrackingNumber,
		Status:         string(r.Status),
		Reused:         r.Reused,
		FailureReason:  r.FailureReason,
		ErrorCode:      r.ErrorCode,
	}
}

func toTrackingResponse(t *domain.ShipmentTracking) *trackingResponse {
	if t == nil {
		return nil
	}
	resp := &trackingResponse{
		StatusCode:     t.StatusCode,
		Status:         string(t.Status),
		TrackingNumber: t.TrackingNumber,
		Final:          t.Final,
		Successful:     t.Successful,
		HasProblem:     t.HasProblem,
		ReasonID:       t.ReasonID,
		ReasonName:     t.ReasonName,
	}
	for _, e := range t.Events {
		resp.Events = append(resp.Events, trackingEventResponse{
			EventID:    e.EventID,
			Name:       e.Name,
			Date:       e.Date,
			Time:       e.Time,
			City:       e.City,
			Town:       e.Town,
			Unit:       e.Unit,
			ReasonID:   e.ReasonID,
			ReasonName: e.ReasonName,
		})
	}
	return resp
}

func toViewResponse(v *ports.ShipmentView) shipmentViewResponse {
	resp := shipmentViewResponse{
		OrderID:        v.OrderID,
		CargoKey:       v.Record.CargoKey,
		TrackingNumber: v.Record.TrackingNumber,
		Status:         string(v.Record.EffectiveStatus()),
		LastError:      v.Record.LastError,
		Tracking:       toTrackingResponse(v.Tracking),
	}
	if v.Record.COD != nil {
		resp.COD = &codStateResponse{
			CollectionDocID:   v.Record.COD.CollectionDocID,
			CollectionDocType: v.Record.COD.CollectionDocType,
			Confirmed:         v.Record.COD.Confirmed,
			ReportedDocTypes:  v.Record.COD.ReportedDocTypes,
		}
	}
	return resp
}
