package service

import (
	"context"
	"errors"
	"testing"

	"github.com/anatolia-commerce/cargo-gateway/internal/core/domain"
	"github.com/anatolia-commerce/cargo-gateway/internal/core/ports"
)

func shippedCODOrder() *domain.Order {
	order := placedCODOrder()
	order.Shipment = domain.ShipmentRecord{
		CargoKey:       "YK20240301ABCDEF",
		TrackingNumber: "725055667788",
		Status:         domain.StatusInTransit,
		COD:            &domain.CODState{},
	}
	return order
}

func TestReconcileCOD_ConfirmsCollectionDocument(t *testing.T) {
	repo := &stubRepo{orders: map[string]*domain.Order{"ord-2002": shippedCODOrder()}}
	gw := &stubGateway{lists: []*ports.DocumentList{{
		OutFlag: "0",
		Docs: []ports.InvDocument{
			{DocType: "SEVK", Fields: map[string]string{"docbarcode": "725055667788"}},
			{DocType: "TAHSILAT", Fields: map[string]string{"docid": "900100200300"}},
		},
	}}}
	svc := newService(repo, gw)

	result, err := svc.ReconcileCOD(context.Background(), "ord-2002")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Confirmed {
		t.Errorf("collection document present must confirm: %+v", result)
	}
	if result.CollectionDocID != "900100200300" || result.CollectionDocType != "TAHSILAT" {
		t.Errorf("collection document not captured: %+v", result)
	}
	if len(result.ReportedDocTypes) != 2 {
		t.Errorf("all reported types must be kept for diagnosis: %+v", result.ReportedDocTypes)
	}

	upd := repo.lastUpdate(t)
	if upd.Status != nil {
		t.Errorf("reconciliation must never touch the shipment status: %+v", upd)
	}
	if upd.COD == nil || !upd.COD.Confirmed {
		t.Errorf("confirmed state must be persisted: %+v", upd.COD)
	}
}

func TestReconcileCOD_NoDocumentsYetStaysUnconfirmed(t *testing.T) {
	repo := &stubRepo{orders: map[string]*domain.Order{"ord-2002": shippedCODOrder()}}
	gw := &stubGateway{}
	svc := newService(repo, gw)

	result, err := svc.ReconcileCOD(context.Background(), "ord-2002")
	if err != nil {
		t.Fatalf("an empty back office is a normal outcome: %v", err)
	}

	if result.Confirmed {
		t.Errorf("nothing reported must stay unconfirmed: %+v", result)
	}
	upd := repo.lastUpdate(t)
	if upd.Status != nil {
		t.Errorf("reconciliation must never touch the shipment status: %+v", upd)
	}
	if upd.COD == nil || upd.COD.Confirmed {
		t.Errorf("unconfirmed state must be persisted as such: %+v", upd.COD)
	}
}

func TestReconcileCOD_KeepsPreviouslyStoredDocument(t *testing.T) {
	order := shippedCODOrder()
	order.Shipment.COD = &domain.CODState{
		CollectionDocID:   "900100200300",
		CollectionDocType: "TAHSILAT",
		Confirmed:         true,
	}
	repo := &stubRepo{orders: map[string]*domain.Order{"ord-2002": order}}
	gw := &stubGateway{}
	svc := newService(repo, gw)

	result, err := svc.ReconcileCOD(context.Background(), "ord-2002")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Confirmed || result.CollectionDocID != "900100200300" {
		t.Errorf("a confirmed document must survive an empty re-scan: %+v", result)
	}
}

func TestReconcileCOD_RejectsNonCODOrders(t *testing.T) {
	repo := &stubRepo{orders: map[string]*domain.Order{"ord-2001": paidOnlineOrder()}}
	svc := newService(repo, &stubGateway{})

	_, err := svc.ReconcileCOD(context.Background(), "ord-2001")

	if !errors.Is(err, domain.ErrOrderNotEligible) {
		t.Errorf("expected eligibility error, got %v", err)
	}
}
