package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/anatolia-commerce/cargo-gateway/internal/core/domain"
	"github.com/anatolia-commerce/cargo-gateway/internal/core/ports"
	"github.com/anatolia-commerce/cargo-gateway/internal/infrastructure/queue"
)

type stubService struct {
	createResult *ports.CreateShipmentResult
	createErr    error
	view         *ports.ShipmentView
	reconcile    *ports.ReconcileResult
	refresh      *ports.RefreshResult
	cancelErr    error

	lastOrderID    string
	lastWithEvents bool
}

func (s *stubService) CreateShipment(_ context.Context, orderID string) (*ports.CreateShipmentResult, error) {
	s.lastOrderID = orderID
	return s.createResult, s.createErr
}

func (s *stubService) RecoverTrackingNumber(_ context.Context, orderID string) (*ports.CreateShipmentResult, error) {
	s.lastOrderID = orderID
	return s.createResult, s.createErr
}

func (s *stubService) ReconcileCOD(_ context.Context, orderID string) (*ports.ReconcileResult, error) {
	s.lastOrderID = orderID
	return s.reconcile, nil
}

func (s *stubService) RefreshStatus(_ context.Context, orderID string) (*ports.RefreshResult, error) {
	s.lastOrderID = orderID
	return s.refresh, nil
}

func (s *stubService) CancelShipment(_ context.Context, orderID string) error {
	s.lastOrderID = orderID
	return s.cancelErr
}

func (s *stubService) GetShipment(_ context.Context, orderID string, withEvents bool) (*ports.ShipmentView, error) {
	s.lastOrderID = orderID
	s.lastWithEvents = withEvents
	return s.view, nil
}

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestShipmentHandler_CreateReturns201(t *testing.T) {
	svc := &stubService{createResult: &ports.CreateShipmentResult{
		Outcome:        ports.OutcomeCreated,
		CargoKey:       "YK20240301ABCDEF",
		TrackingNumber: "725011223344",
		Status:         domain.StatusCreated,
	}}
	h := NewShipmentHandler(svc, nil)

	c, rec := newTestContext(t, http.MethodPost, "/", "")
	c.SetParamNames("order_id")
	c.SetParamValues("ord-2001")

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if svc.lastOrderID != "ord-2001" {
		t.Errorf("order id not forwarded: %q", svc.lastOrderID)
	}

	var resp createShipmentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Outcome != "created" || resp.TrackingNumber != "725011223344" {
		t.Errorf("unexpected body: %+v", resp)
	}
}

func TestShipmentHandler_ReusedCreateReturns200(t *testing.T) {
	svc := &stubService{createResult: &ports.CreateShipmentResult{
		Outcome: ports.OutcomeReused,
		Reused:  true,
		Status:  domain.StatusCreated,
	}}
	h := NewShipmentHandler(svc, nil)

	c, rec := newTestContext(t, http.MethodPost, "/", "")
	c.SetParamNames("order_id")
	c.SetParamValues("ord-2001")

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("idempotent replay must be 200, got %d", rec.Code)
	}
}

func TestShipmentHandler_FailedCreateReturns502(t *testing.T) {
	svc := &stubService{createResult: &ports.CreateShipmentResult{
		Outcome:       ports.OutcomeFailed,
		Status:        domain.StatusCreateFailed,
		FailureReason: "invalid city name",
	}}
	h := NewShipmentHandler(svc, nil)

	c, rec := newTestContext(t, http.MethodPost, "/", "")
	c.SetParamNames("order_id")
	c.SetParamValues("ord-2001")

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("carrier rejection must be 502, got %d", rec.Code)
	}
}

func TestShipmentHandler_GetForwardsEventsFlag(t *testing.T) {
	svc := &stubService{view: &ports.ShipmentView{
		OrderID: "ord-2001",
		Record: domain.ShipmentRecord{
			CargoKey: "YK20240301ABCDEF",
			Status:   domain.StatusInTransit,
			COD:      &domain.CODState{Confirmed: true, CollectionDocID: "900100200300"},
		},
		Tracking: &domain.ShipmentTracking{
			StatusCode: "IND",
			Status:     domain.StatusInTransit,
			Events:     []domain.ShipmentEvent{{Name: "Çıkış şubesinde", Date: "20240301"}},
		},
	}}
	h := NewShipmentHandler(svc, nil)

	c, rec := newTestContext(t, http.MethodGet, "/?events=true", "")
	c.SetParamNames("order_id")
	c.SetParamValues("ord-2001")

	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !svc.lastWithEvents {
		t.Error("events flag not forwarded")
	}

	var resp shipmentViewResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Tracking == nil || len(resp.Tracking.Events) != 1 {
		t.Errorf("live events missing: %+v", resp.Tracking)
	}
	if resp.COD == nil || !resp.COD.Confirmed {
		t.Errorf("COD state missing: %+v", resp.COD)
	}
}

func TestShipmentHandler_BatchRefreshEnqueues(t *testing.T) {
	svc := &stubService{refresh: &ports.RefreshResult{}}
	dispatcher := queue.NewRefreshDispatcher(2, svc, zerolog.Nop())
	h := NewShipmentHandler(svc, dispatcher)

	c, rec := newTestContext(t, http.MethodPost, "/", `{"order_ids":["ord-1","ord-2","ord-3"]}`)

	if err := h.BatchRefresh(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}

	var resp batchRefreshResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Enqueued != 3 {
		t.Errorf("expected 3 enqueued, got %d", resp.Enqueued)
	}
}

func TestShipmentHandler_BatchRefreshRejectsEmptyBatch(t *testing.T) {
	svc := &stubService{}
	h := NewShipmentHandler(svc, queue.NewRefreshDispatcher(1, svc, zerolog.Nop()))

	c, _ := newTestContext(t, http.MethodPost, "/", `{"order_ids":[]}`)

	err := h.BatchRefresh(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}
