// Package yurtici implements the carrier gateway against Yurtiçi Kargo's
// legacy SOAP web services: the shipping-order dispatcher endpoint and the
// reference-report endpoint. Response shapes and COD field names drift
// across WSDL revisions, so the client resolves a field-name table at
// startup and probes known wrapper names when decoding.
package yurtici

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/anatolia-commerce/cargo-gateway/internal/api/metrics"
	"github.com/anatolia-commerce/cargo-gateway/internal/core/domain"
	"github.com/anatolia-commerce/cargo-gateway/internal/core/ports"
)

const defaultTimeout = 30 * time.Second

// Config captures everything one gateway instance needs. Credentials are
// fixed per instance; COD traffic runs through a second instance built on
// the COD-enabled profile.
type Config struct {
	DispatcherURL string
	ReportingURL  string
	Username      string
	Password      string
	Language      string
	Timeout       time.Duration
	// RawXML selects the hand-built XML writer instead of the template
	// encoder. See rawxml.go.
	RawXML bool
}

// Client talks to both carrier endpoints with per-call authentication.
type Client struct {
	cfg        Config
	httpClient *http.Client
	enc        bodyEncoder
	log        zerolog.Logger

	schemaOnce sync.Once
	names      FieldNames
}

var _ ports.CarrierGateway = (*Client)(nil)

func NewClient(cfg Config, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	var enc bodyEncoder = templateEncoder{}
	if cfg.RawXML {
		enc = rawEncoder{}
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		enc:        enc,
		log:        log,
	}
}

// FieldNames returns the resolved COD field-name table, introspecting the
// published schema exactly once per process. Introspection failure falls
// back to the camelCase defaults: schema discovery must never become a
// hard dependency for shipping.
func (c *Client) FieldNames(ctx context.Context) FieldNames {
	c.schemaOnce.Do(func() {
		schema, err := fetchSchema(ctx, c.httpClient, c.cfg.DispatcherURL)
		if err != nil {
			c.log.Warn().Err(err).Msg("carrier schema introspection failed, using default field names")
			c.names = DefaultFieldNames()
			return
		}
		c.names = ResolveFieldNames(schema)
		c.log.Info().Int("fields", len(c.names)).Msg("carrier field names resolved")
	})
	return c.names
}

// CreateShipment submits one shipping order to the dispatcher service.
func (c *Client) CreateShipment(ctx context.Context, req *ports.CreateShipmentRequest) (*ports.ShipmentSubmitResult, error) {
	payload := &createPayload{
		Username:     c.cfg.Username,
		Password:     c.cfg.Password,
		Language:     c.cfg.Language,
		CargoKey:     req.CargoKey,
		InvoiceKey:   req.InvoiceKey,
		ReceiverName: req.Receiver.Name,
		Address:      req.Address.Line,
		City:         req.Address.City,
		Town:         req.Address.Town,
		Phone:        req.Receiver.Phone,
		Email:        req.Receiver.Email,
		Description:  req.Description,
		CODFields:    c.codWireFields(ctx, req.COD),
	}

	body, err := c.enc.createShipment(payload)
	if err != nil {
		return nil, &ports.CarrierError{Op: "createShipment", Kind: ports.ErrKindTransport, Message: "encode request", Cause: err}
	}

	respBody, err := c.call(ctx, c.cfg.DispatcherURL, "createShipment", body)
	if err != nil {
		return nil, err
	}
	if respBody.Create == nil {
		return nil, malformed("createShipment", "missing ShippingOrderResultVO")
	}

	result := &ports.ShipmentSubmitResult{
		OutFlag:   strings.TrimSpace(respBody.Create.OutFlag),
		OutResult: respBody.Create.OutResult,
		JobID:     respBody.Create.JobID,
	}
	if len(respBody.Create.Details) > 0 {
		result.ErrCode = respBody.Create.Details[0].ErrCode
		result.ErrMessage = respBody.Create.Details[0].ErrMessage
	}
	return result, nil
}

// codWireFields converts logical COD params to resolved-name wire fields.
// The submission order is fixed by the carrier contract.
func (c *Client) codWireFields(ctx context.Context, cod *ports.CODParams) []wireField {
	if cod == nil {
		return nil
	}
	names := c.FieldNames(ctx)

	entries := []struct {
		logical string
		value   string
	}{
		{FieldInvoiceAmount, strconv.FormatFloat(cod.InvoiceAmount, 'f', 2, 64)},
		{FieldDocumentID, cod.DocumentID},
		{FieldCollectionType, cod.CollectionType},
		{FieldDocSaveType, cod.DocSaveType},
	}
	if cod.SelectedCredit != "" {
		entries = append(entries,
			struct{ logical, value string }{FieldSelectedCredit, cod.SelectedCredit},
			struct{ logical, value string }{FieldCreditRule, cod.CreditRule},
		)
	}

	out := make([]wireField, 0, len(entries)*2)
	for _, e := range entries {
		out = append(out, wireField{names.WireName(e.logical), e.value})
		if names.HasSpecified(e.logical) {
			out = append(out, wireField{names.WireName(e.logical + SpecifiedSuffix), "true"})
		}
	}
	return out
}

// ListDocuments queries the reporting service for back-office documents by
// reference. A non-zero out flag is returned to the caller as-is: it means
// "no documents yet", not failure. Authentication rejections are the one
// exception and come back as a fatal auth error.
func (c *Client) ListDocuments(ctx context.Context, cargoKey string, shape ports.DocQueryShape) (*ports.DocumentList, error) {
	payload := &listDocsPayload{
		Username:     c.cfg.Username,
		Password:     c.cfg.Password,
		Language:     c.cfg.Language,
		KeyTypeField: shape.KeyTypeField,
		KeyType:      "INVOICE_KEY",
		Reference:    cargoKey,
		WrappedArray: shape.WrappedArray,
	}

	body, err := c.enc.listDocuments(payload)
	if err != nil {
		return nil, &ports.CarrierError{Op: "listInvDocumentInterfaceByReference", Kind: ports.ErrKindTransport, Message: "encode request", Cause: err}
	}

	respBody, err := c.call(ctx, c.cfg.ReportingURL, "listInvDocumentInterfaceByReference", body)
	if err != nil {
		return nil, err
	}
	if respBody.ListDocs == nil {
		return nil, malformed("listInvDocumentInterfaceByReference", "missing LayoutInvdocumentQueryInterfaceVO")
	}

	raw := respBody.ListDocs
	if isAuthRejection(raw.OutResult) {
		return nil, &ports.CarrierError{
			Op:      "listInvDocumentInterfaceByReference",
			Kind:    ports.ErrKindAuth,
			Message: raw.OutResult,
		}
	}

	list := &ports.DocumentList{
		OutFlag:   strings.TrimSpace(raw.OutFlag),
		OutResult: raw.OutResult,
	}
	for _, d := range raw.Docs {
		list.Docs = append(list.Docs, ports.InvDocument{DocType: d.DocType, Fields: d.Fields})
	}
	return list, nil
}

// QueryShipment polls current status, optionally with movement history,
// and returns the normalized tracking view.
func (c *Client) QueryShipment(ctx context.Context, cargoKey string, withHistory bool) (*domain.ShipmentTracking, error) {
	payload := &queryPayload{
		Username:    c.cfg.Username,
		Password:    c.cfg.Password,
		Language:    c.cfg.Language,
		CargoKey:    cargoKey,
		WithHistory: withHistory,
	}

	body, err := c.enc.queryShipment(payload)
	if err != nil {
		return nil, &ports.CarrierError{Op: "queryShipment", Kind: ports.ErrKindTransport, Message: "encode request", Cause: err}
	}

	respBody, err := c.call(ctx, c.cfg.DispatcherURL, "queryShipment", body)
	if err != nil {
		return nil, err
	}
	if respBody.Query == nil {
		return nil, malformed("queryShipment", "missing ShippingDeliveryVO")
	}
	return normalizeTracking(cargoKey, respBody.Query), nil
}

// CancelShipment asks the dispatcher service to cancel a shipping order.
func (c *Client) CancelShipment(ctx context.Context, cargoKey string) (*ports.CancelResult, error) {
	payload := &cancelPayload{
		Username: c.cfg.Username,
		Password: c.cfg.Password,
		Language: c.cfg.Language,
		CargoKey: cargoKey,
	}

	body, err := c.enc.cancelShipment(payload)
	if err != nil {
		return nil, &ports.CarrierError{Op: "cancelShipment", Kind: ports.ErrKindTransport, Message: "encode request", Cause: err}
	}

	respBody, err := c.call(ctx, c.cfg.DispatcherURL, "cancelShipment", body)
	if err != nil {
		return nil, err
	}
	if respBody.Cancel == nil {
		return nil, malformed("cancelShipment", "missing ShippingOrderResultVO")
	}

	result := &ports.CancelResult{
		OutFlag:   strings.TrimSpace(respBody.Cancel.OutFlag),
		OutResult: respBody.Cancel.OutResult,
	}
	if len(respBody.Cancel.Details) > 0 {
		result.ErrMessage = respBody.Cancel.Details[0].ErrMessage
	}
	return result, nil
}

// call posts one SOAP envelope, logging a masked wire capture, and decodes
// the response envelope.
func (c *Client) call(ctx context.Context, endpoint, action string, body []byte) (*soapBody, error) {
	c.log.Debug().
		Str("operation", action).
		Str("wire", MaskWire(string(body))).
		Msg("carrier request")

	start := time.Now()
	result := "ok"
	defer func() {
		metrics.CarrierCallsTotal.WithLabelValues(action, result).Inc()
		metrics.CarrierCallDuration.WithLabelValues(action).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		result = "error"
		return nil, &ports.CarrierError{Op: action, Kind: ports.ErrKindConnection, Message: "build request", Cause: err}
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", action)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		result = "error"
		return nil, &ports.CarrierError{Op: action, Kind: ports.ErrKindConnection, Message: "endpoint unreachable", Cause: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		result = "error"
		return nil, &ports.CarrierError{Op: action, Kind: ports.ErrKindTransport, Message: "read response", Cause: err}
	}

	var env soapEnvelope
	if err := xml.Unmarshal(raw, &env); err != nil || env.Body == nil {
		result = "error"
		if resp.StatusCode != http.StatusOK {
			return nil, &ports.CarrierError{
				Op:      action,
				Kind:    ports.ErrKindTransport,
				Code:    fmt.Sprintf("HTTP_%d", resp.StatusCode),
				Message: "remote call failed",
			}
		}
		return nil, malformed(action, "response is not a SOAP envelope")
	}

	if env.Body.Fault != nil {
		result = "fault"
		kind := ports.ErrKindTransport
		if isAuthRejection(env.Body.Fault.String) {
			kind = ports.ErrKindAuth
		}
		return nil, &ports.CarrierError{
			Op:      action,
			Kind:    kind,
			Code:    env.Body.Fault.Code,
			Message: env.Body.Fault.String,
		}
	}

	return env.Body, nil
}

func malformed(op, msg string) *ports.CarrierError {
	return &ports.CarrierError{Op: op, Kind: ports.ErrKindMalformed, Message: msg}
}

func isAuthRejection(msg string) bool {
	lower := strings.ToLower(msg)
	for _, marker := range []string{"password", "authentication", "unauthorized", "kullanıcı", "şifre"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
