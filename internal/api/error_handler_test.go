package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/anatolia-commerce/cargo-gateway/internal/core/domain"
	"github.com/anatolia-commerce/cargo-gateway/internal/core/ports"
)

func TestHTTPErrorHandler_MapsDomainErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"order not found", domain.ErrOrderNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("load order x: %w", domain.ErrOrderNotFound), http.StatusNotFound},
		{"not eligible", domain.ErrOrderNotEligible, http.StatusUnprocessableEntity},
		{"creation in progress", domain.ErrCreationInProgress, http.StatusConflict},
		{"no COD profile", domain.ErrCODProfileNotConfigured, http.StatusUnprocessableEntity},
		{"carrier outage", &ports.CarrierError{Op: "queryShipment", Kind: ports.ErrKindConnection, Message: "unreachable"}, http.StatusBadGateway},
		{"echo error", echo.NewHTTPError(http.StatusForbidden, "forbidden"), http.StatusForbidden},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	handler := NewHTTPErrorHandler(zerolog.Nop())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler(tc.err, c)

			if rec.Code != tc.want {
				t.Errorf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}

func TestHTTPErrorHandler_DoesNotLeakInternals(t *testing.T) {
	handler := NewHTTPErrorHandler(zerolog.Nop())
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler(errors.New("mongo: connection string contains password"), c)

	if body := rec.Body.String(); body != `{"error":"internal server error"}`+"\n" {
		t.Errorf("internal details leaked: %s", body)
	}
}
