package ports

import (
	"context"
	"fmt"
	"strings"

	"github.com/anatolia-commerce/cargo-gateway/internal/core/domain"
)

// ErrorKind classifies carrier call failures for retry decisions.
type ErrorKind int

const (
	// ErrKindConnection means the endpoint or its WSDL could not be
	// reached or parsed. Fatal for the call, retryable by the caller.
	ErrKindConnection ErrorKind = iota
	// ErrKindTransport means the remote call itself failed. Retryable
	// per caller policy.
	ErrKindTransport
	// ErrKindMalformed means the response lacked the expected envelope.
	// Not retryable; surfaced to the caller.
	ErrKindMalformed
	// ErrKindAuth means the carrier rejected the credentials. Fatal,
	// never retried.
	ErrKindAuth
)

// CarrierError is the error type returned by CarrierGateway implementations.
type CarrierError struct {
	Op      string
	Kind    ErrorKind
	Code    string
	Message string
	Cause   error
}

func (e *CarrierError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("carrier %s (%s): %s: %v", e.Op, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("carrier %s (%s): %s", e.Op, e.Code, e.Message)
}

func (e *CarrierError) Unwrap() error { return e.Cause }

// Retryable reports whether a later identical call could succeed.
func (e *CarrierError) Retryable() bool {
	return e.Kind == ErrKindConnection || e.Kind == ErrKindTransport
}

// CODParams carries the cash-on-delivery values for a creation request.
// Only populated for COD orders; never submitted otherwise.
type CODParams struct {
	InvoiceAmount  float64
	DocumentID     string
	CollectionType string
	DocSaveType    string
	SelectedCredit string
	CreditRule     string
}

// CreateShipmentRequest is the carrier-facing creation payload.
type CreateShipmentRequest struct {
	CargoKey    string
	InvoiceKey  string
	Receiver    domain.Customer
	Address     domain.Address
	Description string
	COD         *CODParams
	// DebugFields mirrors every submitted COD wire value, keyed by the
	// resolved field name, for support diagnosis.
	DebugFields domain.CarrierDebugFields
}

// ShipmentSubmitResult is the interpreted creation response.
type ShipmentSubmitResult struct {
	OutFlag    string
	OutResult  string
	ErrCode    int
	ErrMessage string
	JobID      string
}

// Carrier contract: out flag "0" signals overall acceptance; the
// duplicate code is returned when the cargo key was already registered.
const (
	OutFlagOK        = "0"
	DuplicateErrCode = 1014
)

// Succeeded reports whether the carrier accepted the shipment.
func (r ShipmentSubmitResult) Succeeded() bool {
	return r.OutFlag == OutFlagOK && r.ErrCode == 0
}

// Duplicate reports whether the carrier refused the submission because the
// cargo key already exists, which callers treat as idempotent success.
func (r ShipmentSubmitResult) Duplicate() bool {
	if r.ErrCode == DuplicateErrCode {
		return true
	}
	msg := strings.ToLower(r.ErrMessage)
	return strings.Contains(msg, "already exist") || strings.Contains(msg, "daha önce")
}

// DocQueryShape selects one of the reporting service's historically
// observed parameter spellings for the document lookup.
type DocQueryShape struct {
	// KeyTypeField is the parameter name carrying "which key type".
	KeyTypeField string
	// WrappedArray wraps the reference list in an <items> element.
	WrappedArray bool
}

// InvDocument is one back-office document returned by the reporting
// service. Fields holds the raw child elements keyed by lowercased local
// name, since the element names vary across WSDL revisions.
type InvDocument struct {
	DocType string
	Fields  map[string]string
}

// DocumentList is the reporting service's document lookup response.
// A non-zero OutFlag is not an error: it means no documents exist yet.
type DocumentList struct {
	OutFlag   string
	OutResult string
	Docs      []InvDocument
}

// CancelResult is the interpreted cancellation response.
type CancelResult struct {
	OutFlag    string
	OutResult  string
	ErrMessage string
}

// Succeeded reports whether the carrier accepted the cancellation.
func (r CancelResult) Succeeded() bool { return r.OutFlag == OutFlagOK }

// CarrierGateway executes remote operations against the carrier's SOAP
// services. Implementations authenticate per-call with a fixed credential
// profile; COD orders must go through a gateway built on the COD-enabled
// profile.
type CarrierGateway interface {
	CreateShipment(ctx context.Context, req *CreateShipmentRequest) (*ShipmentSubmitResult, error)
	// ListDocuments queries the reporting service for back-office
	// documents referencing cargoKey, using the given parameter shape.
	ListDocuments(ctx context.Context, cargoKey string, shape DocQueryShape) (*DocumentList, error)
	// QueryShipment returns the normalized tracking state, optionally
	// with the full movement history.
	QueryShipment(ctx context.Context, cargoKey string, withHistory bool) (*domain.ShipmentTracking, error)
	CancelShipment(ctx context.Context, cargoKey string) (*CancelResult, error)
}
