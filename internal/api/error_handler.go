package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/anatolia-commerce/cargo-gateway/internal/core/domain"
	"github.com/anatolia-commerce/cargo-gateway/internal/core/ports"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Maps carrier transport errors to 502 without leaking wire details.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound, "order not found"
	case errors.Is(err, domain.ErrOrderNotEligible):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrCreationInProgress):
		return http.StatusConflict, "shipment creation already in progress"
	case errors.Is(err, domain.ErrCODProfileNotConfigured):
		return http.StatusUnprocessableEntity, "COD credential profile not configured"
	}

	// Carrier failures: the carrier is down or misbehaving, not us.
	var cerr *ports.CarrierError
	if errors.As(err, &cerr) {
		log.Warn().
			Err(err).
			Str("operation", cerr.Op).
			Str("path", c.Path()).
			Msg("carrier call failed")
		return http.StatusBadGateway, "carrier unavailable"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
