package service

import (
	"context"
	"fmt"

	"github.com/anatolia-commerce/cargo-gateway/internal/api/metrics"
	"github.com/anatolia-commerce/cargo-gateway/internal/core/domain"
	"github.com/anatolia-commerce/cargo-gateway/internal/core/ports"
)

// ReconcileCOD re-checks the carrier back office for the collection
// document of a COD order and backfills the stored state. The operation is
// idempotent and never touches the shipment status: finance cares about
// the collection document, logistics about the cargo.
func (s *ShipmentService) ReconcileCOD(ctx context.Context, orderID string) (*ports.ReconcileResult, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order %s: %w", orderID, err)
	}
	if !order.IsCOD() {
		return nil, fmt.Errorf("order %s is not cash-on-delivery: %w", orderID, domain.ErrOrderNotEligible)
	}
	if order.Shipment.CargoKey == "" {
		return nil, fmt.Errorf("order %s has no shipment: %w", orderID, domain.ErrOrderNotEligible)
	}
	return s.reconcileCOD(ctx, order)
}

func (s *ShipmentService) reconcileCOD(ctx context.Context, order *domain.Order) (*ports.ReconcileResult, error) {
	gw, err := s.gatewayFor(order)
	if err != nil {
		return nil, err
	}

	scan, err := scanDocuments(ctx, gw, order.Shipment.CargoKey)
	if err != nil {
		metrics.CODReconciliationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	state := codStateFromScan(order, scan)
	if err := s.orders.UpdateShipment(ctx, order.ID, ports.ShipmentUpdate{COD: state}); err != nil {
		return nil, fmt.Errorf("persist COD state for order %s: %w", order.ID, err)
	}

	result := "pending"
	if state.Confirmed {
		result = "confirmed"
	}
	metrics.CODReconciliationsTotal.WithLabelValues(result).Inc()

	s.log.Info().
		Str("order_id", order.ID).
		Str("cargo_key", order.Shipment.CargoKey).
		Bool("confirmed", state.Confirmed).
		Strs("reported_doc_types", state.ReportedDocTypes).
		Msg("COD reconciliation completed")

	return &ports.ReconcileResult{
		Confirmed:         state.Confirmed,
		CollectionDocID:   state.CollectionDocID,
		CollectionDocType: state.CollectionDocType,
		ReportedDocTypes:  state.ReportedDocTypes,
	}, nil
}
