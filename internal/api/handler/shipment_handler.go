package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anatolia-commerce/cargo-gateway/internal/core/ports"
	"github.com/anatolia-commerce/cargo-gateway/internal/infrastructure/queue"
)

// ShipmentHandler exposes the carrier operations to the admin panel.
type ShipmentHandler struct {
	service    ports.ShipmentService
	dispatcher *queue.RefreshDispatcher
}

func NewShipmentHandler(service ports.ShipmentService, dispatcher *queue.RefreshDispatcher) *ShipmentHandler {
	return &ShipmentHandler{service: service, dispatcher: dispatcher}
}

// Create handles POST /v1/orders/:order_id/shipment.
//
// @Summary      Create the carrier shipment for an order
// @Description  Idempotent: re-invocations return the existing shipment.
// @Tags         shipments
// @Produce      json
// @Security     BearerAuth
// @Param        order_id  path      string  true  "Order id"
// @Success      200       {object}  createShipmentResponse
// @Failure      401       {object}  map[string]string
// @Failure      404       {object}  map[string]string
// @Failure      409       {object}  map[string]string
// @Failure      422       {object}  map[string]string
// @Router       /v1/orders/{order_id}/shipment [post]
func (h *ShipmentHandler) Create(c echo.Context) error {
	result, err := h.service.CreateShipment(c.Request().Context(), c.Param("order_id"))
	if err != nil {
		return err
	}
	code := http.StatusCreated
	if result.Reused {
		code = http.StatusOK
	}
	if result.Outcome == ports.OutcomeFailed {
		code = http.StatusBadGateway
	}
	return c.JSON(code, toCreateResponse(result))
}

// RecoverTracking handles POST /v1/orders/:order_id/shipment/recover-tracking.
//
// @Summary      Retry barcode resolution for a pending shipment
// @Tags         shipments
// @Produce      json
// @Security     BearerAuth
// @Param        order_id  path      string  true  "Order id"
// @Success      200       {object}  createShipmentResponse
// @Failure      404       {object}  map[string]string
// @Failure      422       {object}  map[string]string
// @Router       /v1/orders/{order_id}/shipment/recover-tracking [post]
func (h *ShipmentHandler) RecoverTracking(c echo.Context) error {
	result, err := h.service.RecoverTrackingNumber(c.Request().Context(), c.Param("order_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCreateResponse(result))
}

// ReconcileCOD handles POST /v1/orders/:order_id/shipment/reconcile-cod.
//
// @Summary      Re-check the carrier back office for the COD collection document
// @Tags         shipments
// @Produce      json
// @Security     BearerAuth
// @Param        order_id  path      string  true  "Order id"
// @Success      200       {object}  reconcileResponse
// @Failure      404       {object}  map[string]string
// @Failure      422       {object}  map[string]string
// @Router       /v1/orders/{order_id}/shipment/reconcile-cod [post]
func (h *ShipmentHandler) ReconcileCOD(c echo.Context) error {
	result, err := h.service.ReconcileCOD(c.Request().Context(), c.Param("order_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reconcileResponse{
		Confirmed:         result.Confirmed,
		CollectionDocID:   result.CollectionDocID,
		CollectionDocType: result.CollectionDocType,
		ReportedDocTypes:  result.ReportedDocTypes,
	})
}

// Refresh handles POST /v1/orders/:order_id/shipment/refresh.
//
// @Summary      Poll the carrier for the current shipment status
// @Tags         shipments
// @Produce      json
// @Security     BearerAuth
// @Param        order_id  path      string  true  "Order id"
// @Success      200       {object}  refreshResponse
// @Failure      404       {object}  map[string]string
// @Failure      422       {object}  map[string]string
// @Failure      502       {object}  map[string]string
// @Router       /v1/orders/{order_id}/shipment/refresh [post]
func (h *ShipmentHandler) Refresh(c echo.Context) error {
	result, err := h.service.RefreshStatus(c.Request().Context(), c.Param("order_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, refreshResponse{
		Updated:  result.Updated,
		Tracking: toTrackingResponse(result.Tracking),
	})
}

// Cancel handles POST /v1/orders/:order_id/shipment/cancel.
//
// @Summary      Cancel the carrier shipment for an order
// @Tags         shipments
// @Produce      json
// @Security     BearerAuth
// @Param        order_id  path      string  true  "Order id"
// @Success      200       {object}  map[string]string
// @Failure      404       {object}  map[string]string
// @Failure      422       {object}  map[string]string
// @Router       /v1/orders/{order_id}/shipment/cancel [post]
func (h *ShipmentHandler) Cancel(c echo.Context) error {
	if err := h.service.CancelShipment(c.Request().Context(), c.Param("order_id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "canceled"})
}

// Get handles GET /v1/orders/:order_id/shipment.
//
// @Summary      Get the shipment record for an order
// @Description  Pass events=true to enrich with the live carrier movement history.
// @Tags         shipments
// @Produce      json
// @Security     BearerAuth
// @Param        order_id  path      string  true   "Order id"
// @Param        events    query     bool    false  "Include live carrier events"
// @Success      200       {object}  shipmentViewResponse
// @Failure      404       {object}  map[string]string
// @Router       /v1/orders/{order_id}/shipment [get]
func (h *ShipmentHandler) Get(c echo.Context) error {
	withEvents := c.QueryParam("events") == "true"
	view, err := h.service.GetShipment(c.Request().Context(), c.Param("order_id"), withEvents)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toViewResponse(view))
}

// BatchRefresh handles POST /v1/shipments/refresh.
//
// @Summary      Enqueue status refreshes for a batch of orders
// @Tags         shipments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      batchRefreshRequest  true  "Order ids to refresh"
// @Success      202   {object}  batchRefreshResponse
// @Failure      400   {object}  map[string]string
// @Router       /v1/shipments/refresh [post]
func (h *ShipmentHandler) BatchRefresh(c echo.Context) error {
	var req batchRefreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	accepted := h.dispatcher.EnqueueBatch(req.OrderIDs)
	return c.JSON(http.StatusAccepted, batchRefreshResponse{Enqueued: accepted})
}
