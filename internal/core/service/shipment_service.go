// Package service holds the use-case layer of the cargo gateway: the
// creation orchestrator, the COD reconciler and the status/cancellation
// flows, all expressed against the ports and kept free of transport and
// storage concerns.
package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/anatolia-commerce/cargo-gateway/internal/api/metrics"
	"github.com/anatolia-commerce/cargo-gateway/internal/core/domain"
	"github.com/anatolia-commerce/cargo-gateway/internal/core/ports"
)

// ShipmentService implements the full use-case surface. One instance
// serves all orders; the COD gateway is nil when no COD credential profile
// is configured, and COD orders then fail closed.
type ShipmentService struct {
	orders ports.OrderRepository
	lock   ports.CreationLock
	normal ports.CarrierGateway
	cod    ports.CarrierGateway
	policy CODPolicy
	retry  retryPolicy
	log    zerolog.Logger
}

var _ ports.ShipmentService = (*ShipmentService)(nil)

func NewShipmentService(
	orders ports.OrderRepository,
	lock ports.CreationLock,
	normal, cod ports.CarrierGateway,
	policy CODPolicy,
	log zerolog.Logger,
) *ShipmentService {
	return &ShipmentService{
		orders: orders,
		lock:   lock,
		normal: normal,
		cod:    cod,
		policy: policy,
		log:    log.With().Str("component", "shipment_service").Logger(),
	}
}

// WithRetryPolicy overrides the tracking-recovery retry bounds. Zero
// values keep the defaults.
func (s *ShipmentService) WithRetryPolicy(p retryPolicy) *ShipmentService {
	s.retry = p
	return s
}

// gatewayFor selects the credential profile for an order. COD shipments
// must run under the COD-enabled contract.
func (s *ShipmentService) gatewayFor(order *domain.Order) (ports.CarrierGateway, error) {
	if !order.IsCOD() {
		return s.normal, nil
	}
	if s.cod == nil {
		return nil, domain.ErrCODProfileNotConfigured
	}
	return s.cod, nil
}

// CreateShipment runs the creation state machine for one order: advisory
// lock, idempotency gate, eligibility gate, credential-profile gate,
// build and submit, interpret (duplicate counts as success), tracking
// resolution, one persisted write.
func (s *ShipmentService) CreateShipment(ctx context.Context, orderID string) (*ports.CreateShipmentResult, error) {
	if s.lock != nil {
		held, err := s.lock.Acquire(ctx, orderID)
		if err != nil {
			// The lock is advisory; the carrier's duplicate detection is
			// the correctness backstop, so an unreachable lock store must
			// not block shipping.
			s.log.Warn().Err(err).Str("order_id", orderID).Msg("creation lock unavailable, proceeding")
		} else if !held {
			return nil, domain.ErrCreationInProgress
		} else {
			defer s.lock.Release(ctx, orderID)
		}
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order %s: %w", orderID, err)
	}

	if order.Shipment.AlreadyCreated() {
		// Re-invocations on an already-shipped COD order double as a
		// reconciliation opportunity for a still-unconfirmed collection
		// document.
		if order.IsCOD() && !codConfirmed(order) {
			if _, rerr := s.reconcileCOD(ctx, order); rerr != nil {
				s.log.Warn().Err(rerr).Str("order_id", orderID).Msg("opportunistic COD reconcile failed")
			}
		}
		metrics.ShipmentCreationsTotal.WithLabelValues(string(ports.OutcomeReused)).Inc()
		return &ports.CreateShipmentResult{
			Outcome:        ports.OutcomeReused,
			CargoKey:       order.Shipment.CargoKey,
			TrackingNumber: order.Shipment.TrackingNumber,
			Status:         order.Shipment.EffectiveStatus(),
			Reused:         true,
		}, nil
	}

	if !eligible(order) {
		return nil, fmt.Errorf("order %s in status %q: %w", orderID, order.Status, domain.ErrOrderNotEligible)
	}

	gw, err := s.gatewayFor(order)
	if err != nil {
		return nil, err
	}

	req := BuildCreateRequest(order, s.policy)
	submit, err := gw.CreateShipment(ctx, req)
	if err != nil {
		return s.persistCreateFailure(ctx, order, req, "", err.Error())
	}
	if !submit.Succeeded() && !submit.Duplicate() {
		code := submit.OutFlag
		if submit.ErrCode != 0 {
			code = fmt.Sprintf("%d", submit.ErrCode)
		}
		reason := submit.ErrMessage
		if reason == "" {
			reason = submit.OutResult
		}
		return s.persistCreateFailure(ctx, order, req, code, reason)
	}

	return s.persistCreateSuccess(ctx, order, req, submit.Duplicate())
}

// persistCreateSuccess resolves the tracking number and writes the final
// record in a single update.
func (s *ShipmentService) persistCreateSuccess(ctx context.Context, order *domain.Order, req *ports.CreateShipmentRequest, duplicate bool) (*ports.CreateShipmentResult, error) {
	gw, _ := s.gatewayFor(order)

	scan, err := scanDocuments(ctx, gw, req.CargoKey)
	if err != nil {
		// Auth rejection on the reporting service. The shipment exists at
		// the carrier, so record it pending its barcode.
		s.log.Error().Err(err).Str("order_id", order.ID).Msg("document scan rejected")
		scan = &documentScan{}
	}

	status := domain.StatusPendingBarcode
	tracking := scan.TrackingNumber
	if tracking == "" {
		// Never null out a barcode a previous pass already stored.
		tracking = order.Shipment.TrackingNumber
	}
	if tracking != "" {
		status = domain.StatusCreated
	}

	upd := ports.ShipmentUpdate{
		CargoKey:       ports.StringPtr(req.CargoKey),
		TrackingNumber: ports.StringPtr(tracking),
		Status:         ports.StatusPtr(status),
		LastError:      ports.StringPtr(""),
		DebugFields:    req.DebugFields,
	}
	if order.IsCOD() {
		upd.COD = codStateFromScan(order, scan)
	}
	if err := s.orders.UpdateShipment(ctx, order.ID, upd); err != nil {
		return nil, fmt.Errorf("persist shipment for order %s: %w", order.ID, err)
	}

	outcome := ports.OutcomeCreated
	if status == domain.StatusPendingBarcode {
		outcome = ports.OutcomePendingBarcode
		// The carrier's own wording for the missing documents helps support
		// tell "not materialized yet" from a misconfigured reference.
		s.log.Info().
			Str("order_id", order.ID).
			Str("cargo_key", req.CargoKey).
			Str("carrier_reason", scan.OutResult).
			Msg("barcode not available yet")
	}
	metrics.ShipmentCreationsTotal.WithLabelValues(string(outcome)).Inc()

	s.log.Info().
		Str("order_id", order.ID).
		Str("cargo_key", req.CargoKey).
		Str("status", string(status)).
		Bool("duplicate", duplicate).
		Msg("shipment created")

	return &ports.CreateShipmentResult{
		Outcome:        outcome,
		CargoKey:       req.CargoKey,
		TrackingNumber: tracking,
		Status:         status,
		Reused:         duplicate,
	}, nil
}

// persistCreateFailure records a failed attempt. Submission failures are
// reported inside the result, not as an error: the caller asked a valid
// question and got a definite answer.
func (s *ShipmentService) persistCreateFailure(ctx context.Context, order *domain.Order, req *ports.CreateShipmentRequest, code, reason string) (*ports.CreateShipmentResult, error) {
	upd := ports.ShipmentUpdate{
		CargoKey:    ports.StringPtr(req.CargoKey),
		LastError:   ports.StringPtr(reason),
		DebugFields: req.DebugFields,
	}
	// A record already pending its barcode keeps that status: the
	// shipment exists at the carrier even though this pass failed.
	status := order.Shipment.EffectiveStatus()
	if status.CanTransitionTo(domain.StatusCreateFailed) {
		status = domain.StatusCreateFailed
		upd.Status = ports.StatusPtr(status)
	}
	if err := s.orders.UpdateShipment(ctx, order.ID, upd); err != nil {
		s.log.Error().Err(err).Str("order_id", order.ID).Msg("persisting create failure failed")
	}

	metrics.ShipmentCreationsTotal.WithLabelValues(string(ports.OutcomeFailed)).Inc()
	s.log.Warn().
		Str("order_id", order.ID).
		Str("cargo_key", req.CargoKey).
		Str("code", code).
		Str("reason", reason).
		Msg("shipment creation failed")

	return &ports.CreateShipmentResult{
		Outcome:       ports.OutcomeFailed,
		CargoKey:      req.CargoKey,
		Status:        status,
		FailureReason: reason,
		ErrorCode:     code,
	}, nil
}

// RecoverTrackingNumber retries the document scan for an order stuck in
// created_pending_barcode, with bounded attempts and a fixed delay.
func (s *ShipmentService) RecoverTrackingNumber(ctx context.Context, orderID string) (*ports.CreateShipmentResult, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order %s: %w", orderID, err)
	}
	if order.Shipment.CargoKey == "" {
		return nil, fmt.Errorf("order %s has no shipment: %w", orderID, domain.ErrOrderNotEligible)
	}
	if order.Shipment.TrackingNumber != "" {
		return &ports.CreateShipmentResult{
			Outcome:        ports.OutcomeReused,
			CargoKey:       order.Shipment.CargoKey,
			TrackingNumber: order.Shipment.TrackingNumber,
			Status:         order.Shipment.EffectiveStatus(),
			Reused:         true,
		}, nil
	}

	gw, err := s.gatewayFor(order)
	if err != nil {
		return nil, err
	}

	var lastReason string
	for attempt := 1; attempt <= s.retry.attempts(); attempt++ {
		scan, err := scanDocuments(ctx, gw, order.Shipment.CargoKey)
		if err != nil {
			// Auth rejections never resolve by retrying.
			return nil, err
		}
		lastReason = scan.OutResult
		if scan.TrackingNumber != "" {
			upd := ports.ShipmentUpdate{
				TrackingNumber: ports.StringPtr(scan.TrackingNumber),
				Status:         ports.StatusPtr(domain.StatusCreated),
			}
			if order.IsCOD() {
				upd.COD = codStateFromScan(order, scan)
			}
			if err := s.orders.UpdateShipment(ctx, orderID, upd); err != nil {
				return nil, fmt.Errorf("persist recovered tracking for order %s: %w", orderID, err)
			}
			return &ports.CreateShipmentResult{
				Outcome:        ports.OutcomeCreated,
				CargoKey:       order.Shipment.CargoKey,
				TrackingNumber: scan.TrackingNumber,
				Status:         domain.StatusCreated,
			}, nil
		}
		if attempt < s.retry.attempts() {
			if err := s.retry.wait(ctx); err != nil {
				return nil, err
			}
		}
	}

	s.log.Info().
		Str("order_id", orderID).
		Str("carrier_reason", lastReason).
		Msg("tracking number still unavailable after recovery attempts")
	return &ports.CreateShipmentResult{
		Outcome:  ports.OutcomePendingBarcode,
		CargoKey: order.Shipment.CargoKey,
		Status:   domain.StatusPendingBarcode,
	}, nil
}

// GetShipment returns the persisted record, optionally enriched with the
// live normalized carrier view. A carrier outage degrades the view to the
// stored record instead of failing the read.
func (s *ShipmentService) GetShipment(ctx context.Context, orderID string, withEvents bool) (*ports.ShipmentView, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order %s: %w", orderID, err)
	}

	view := &ports.ShipmentView{OrderID: orderID, Record: order.Shipment}
	if !withEvents || order.Shipment.CargoKey == "" {
		return view, nil
	}

	gw, err := s.gatewayFor(order)
	if err != nil {
		return view, nil
	}
	tracking, err := gw.QueryShipment(ctx, order.Shipment.CargoKey, true)
	if err != nil {
		s.log.Warn().Err(err).Str("order_id", orderID).Msg("live tracking unavailable")
		return view, nil
	}
	view.Tracking = tracking
	return view, nil
}

// eligible reports whether an order may be shipped: not cancelled or
// payment-failed, a usable delivery address, and online orders paid up
// front. COD orders ship as soon as they are placed.
func eligible(order *domain.Order) bool {
	switch order.Status {
	case domain.OrderCancelled, domain.OrderPaymentFailed:
		return false
	}
	if !order.Address.Complete() {
		return false
	}
	if !order.IsCOD() && order.Status != domain.OrderPaid {
		return false
	}
	return true
}

func codConfirmed(order *domain.Order) bool {
	return order.Shipment.COD != nil && order.Shipment.COD.Confirmed
}

// codStateFromScan folds a document scan into the persisted COD state,
// never discarding a previously stored document id.
func codStateFromScan(order *domain.Order, scan *documentScan) *domain.CODState {
	state := &domain.CODState{}
	if order.Shipment.COD != nil {
		*state = *order.Shipment.COD
	}
	if scan.CollectionDocID != "" {
		state.CollectionDocID = scan.CollectionDocID
		state.CollectionDocType = scan.CollectionDocType
	}
	if len(scan.ReportedDocTypes) > 0 {
		state.ReportedDocTypes = scan.ReportedDocTypes
	}
	state.Confirmed = state.CollectionDocID != "" && state.CollectionDocType != ""
	return state
}
