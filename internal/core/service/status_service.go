package service

import (
	"context"
	"fmt"

	"github.com/anatolia-commerce/cargo-gateway/internal/core/domain"
	"github.com/anatolia-commerce/cargo-gateway/internal/core/ports"
)

// RefreshStatus polls the carrier for the current state of an order's
// shipment and persists forward progress. The carrier offers no push
// channel, so this is the only way status advances. Status never moves
// backwards: a stale or partial carrier answer cannot undo progress a
// previous refresh recorded.
func (s *ShipmentService) RefreshStatus(ctx context.Context, orderID string) (*ports.RefreshResult, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order %s: %w", orderID, err)
	}
	if order.Shipment.CargoKey == "" {
		return nil, fmt.Errorf("order %s has no shipment: %w", orderID, domain.ErrOrderNotEligible)
	}

	gw, err := s.gatewayFor(order)
	if err != nil {
		return nil, err
	}
	tracking, err := gw.QueryShipment(ctx, order.Shipment.CargoKey, true)
	if err != nil {
		return nil, fmt.Errorf("query shipment %s: %w", order.Shipment.CargoKey, err)
	}

	upd := ports.ShipmentUpdate{}
	current := order.Shipment.EffectiveStatus()
	if tracking.Status != current && current.CanTransitionTo(tracking.Status) && tracking.Status.AtLeast(current) {
		// A pending-barcode record only advances to created once a
		// barcode is actually known, or re-creation could no longer
		// recover it.
		barcodeKnown := order.Shipment.TrackingNumber != "" || tracking.TrackingNumber != ""
		if !(current == domain.StatusPendingBarcode && tracking.Status == domain.StatusCreated && !barcodeKnown) {
			upd.Status = ports.StatusPtr(tracking.Status)
		}
	}
	if tracking.Status == domain.StatusCanceled && current.CanTransitionTo(domain.StatusCanceled) {
		upd.Status = ports.StatusPtr(domain.StatusCanceled)
	}
	if tracking.TrackingNumber != "" && tracking.TrackingNumber != order.Shipment.TrackingNumber {
		upd.TrackingNumber = ports.StringPtr(tracking.TrackingNumber)
		// A barcode arriving via the tracking query also completes a
		// pending-barcode record.
		if upd.Status == nil && current == domain.StatusPendingBarcode {
			upd.Status = ports.StatusPtr(domain.StatusCreated)
		}
	}

	if upd.Status == nil && upd.TrackingNumber == nil {
		return &ports.RefreshResult{Tracking: tracking}, nil
	}
	if err := s.orders.UpdateShipment(ctx, orderID, upd); err != nil {
		return nil, fmt.Errorf("persist refreshed status for order %s: %w", orderID, err)
	}

	s.log.Info().
		Str("order_id", orderID).
		Str("cargo_key", order.Shipment.CargoKey).
		Str("status_code", tracking.StatusCode).
		Str("status", string(tracking.Status)).
		Msg("shipment status refreshed")

	return &ports.RefreshResult{Tracking: tracking, Updated: true}, nil
}

// CancelShipment cancels the shipping order with the carrier and marks the
// record canceled. When the carrier accepts the cancellation but the local
// write fails, the call still succeeds: the carrier is the source of truth
// and the next refresh repairs the record.
func (s *ShipmentService) CancelShipment(ctx context.Context, orderID string) error {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("load order %s: %w", orderID, err)
	}
	if order.Shipment.CargoKey == "" {
		return fmt.Errorf("order %s has no shipment: %w", orderID, domain.ErrOrderNotEligible)
	}
	if !order.Shipment.EffectiveStatus().CanTransitionTo(domain.StatusCanceled) {
		return fmt.Errorf("shipment for order %s is %s: %w", orderID, order.Shipment.Status, domain.ErrOrderNotEligible)
	}

	gw, err := s.gatewayFor(order)
	if err != nil {
		return err
	}
	result, err := gw.CancelShipment(ctx, order.Shipment.CargoKey)
	if err != nil {
		return fmt.Errorf("cancel shipment %s: %w", order.Shipment.CargoKey, err)
	}
	if !result.Succeeded() {
		reason := result.ErrMessage
		if reason == "" {
			reason = result.OutResult
		}
		return fmt.Errorf("carrier refused cancellation of %s: %s", order.Shipment.CargoKey, reason)
	}

	upd := ports.ShipmentUpdate{Status: ports.StatusPtr(domain.StatusCanceled)}
	if err := s.orders.UpdateShipment(ctx, orderID, upd); err != nil {
		s.log.Error().Err(err).
			Str("order_id", orderID).
			Str("cargo_key", order.Shipment.CargoKey).
			Msg("carrier cancellation succeeded but local record not updated")
		return nil
	}

	s.log.Info().
		Str("order_id", orderID).
		Str("cargo_key", order.Shipment.CargoKey).
		Msg("shipment canceled")
	return nil
}
