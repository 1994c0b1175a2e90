package service

import (
	"strconv"

	"github.com/anatolia-commerce/cargo-gateway/internal/core/cargokey"
	"github.com/anatolia-commerce/cargo-gateway/internal/core/domain"
	"github.com/anatolia-commerce/cargo-gateway/internal/core/ports"
)

// Carrier contract values for the COD collection fields. The collection
// type selects how the courier takes payment at the door; the doc-save
// type is constant for interface-created collection documents.
const (
	collectionTypeCard = "1"
	collectionTypeCash = "0"
	docSaveTypeDefault = "1"
)

// CODPolicy carries the account-level COD submission rules from
// configuration.
type CODPolicy struct {
	// SelectedCredit and CreditRule are submitted as a pair for card
	// collection. Meaningless for cash.
	SelectedCredit string
	CreditRule     string
	// CashOnly forces cash collection regardless of the customer's
	// preference, for accounts contractually restricted to cash.
	CashOnly bool
}

// BuildCreateRequest assembles the carrier-facing creation payload for an
// order. Identity, address and contact fields are populated for every
// order; the COD block is attached only for cash-on-delivery orders, with
// the payment fields derived from the customer's collection preference and
// the account policy.
func BuildCreateRequest(order *domain.Order, policy CODPolicy) *ports.CreateShipmentRequest {
	key := cargokey.Generate(order.ID, order.CreatedAt)

	req := &ports.CreateShipmentRequest{
		CargoKey:    key,
		InvoiceKey:  key,
		Receiver:    order.Customer,
		Address:     order.Address,
		Description: "Order " + order.ID,
	}
	if !order.IsCOD() {
		return req
	}

	cod := &ports.CODParams{
		InvoiceAmount:  order.InvoiceTotal,
		DocumentID:     cargokey.DocumentID(order.ID, order.CreatedAt),
		CollectionType: collectionTypeCard,
		DocSaveType:    docSaveTypeDefault,
	}
	if order.CODPreference == domain.CollectCash || policy.CashOnly {
		cod.CollectionType = collectionTypeCash
	}
	if cod.CollectionType == collectionTypeCard {
		cod.SelectedCredit = policy.SelectedCredit
		cod.CreditRule = policy.CreditRule
	}
	req.COD = cod

	// Mirror every submitted COD value for support diagnosis. Keys are the
	// logical field names; the transport records the resolved wire names.
	req.DebugFields = domain.CarrierDebugFields{
		"invoiceAmount":  strconv.FormatFloat(cod.InvoiceAmount, 'f', 2, 64),
		"documentId":     cod.DocumentID,
		"collectionType": cod.CollectionType,
		"docSaveType":    cod.DocSaveType,
	}
	if cod.SelectedCredit != "" {
		req.DebugFields["selectedCredit"] = cod.SelectedCredit
		req.DebugFields["creditRule"] = cod.CreditRule
	}
	return req
}
