package domain

import (
	"errors"
	"time"
)

// PaymentMethod identifies how the customer pays for an order.
type PaymentMethod string

const (
	PaymentOnline         PaymentMethod = "online"
	PaymentCashOnDelivery PaymentMethod = "cod"
)

// Order statuses as recorded by the storefront. The cargo gateway only
// reads these; it never transitions an order through checkout states.
const (
	OrderPlaced        = "placed"
	OrderPaid          = "paid"
	OrderCancelled     = "cancelled"
	OrderPaymentFailed = "payment_failed"
)

// CODCollectionPreference is the customer's choice of how the carrier
// collects payment at the door.
type CODCollectionPreference string

const (
	CollectCard CODCollectionPreference = "card"
	CollectCash CODCollectionPreference = "cash"
)

var ErrOrderNotFound = errors.New("order not found")
var ErrOrderNotEligible = errors.New("order not eligible for shipment")
var ErrCODProfileNotConfigured = errors.New("COD credential profile not configured")
var ErrCreationInProgress = errors.New("shipment creation already in progress")

// Customer carries the recipient contact details submitted to the carrier.
type Customer struct {
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
	Phone string `json:"phone" bson:"phone"`
}

// Address is the delivery address on the order.
type Address struct {
	Line     string `json:"line" bson:"line"`
	City     string `json:"city" bson:"city"`
	Town     string `json:"town" bson:"town"`
	PostCode string `json:"post_code" bson:"post_code"`
}

// Complete reports whether the address carries enough data for the carrier
// to accept a shipment.
func (a Address) Complete() bool {
	return a.Line != "" && a.City != ""
}

// Order is the subset of the storefront's order aggregate the cargo
// gateway reads and mutates. Shipment fields are the only ones this
// subsystem ever writes back.
type Order struct {
	ID            string                  `json:"id" bson:"_id,omitempty"`
	Status        string                  `json:"status" bson:"status"`
	CreatedAt     time.Time               `json:"created_at" bson:"created_at"`
	PaymentMethod PaymentMethod           `json:"payment_method" bson:"payment_method"`
	CODPreference CODCollectionPreference `json:"cod_preference,omitempty" bson:"cod_preference,omitempty"`
	InvoiceTotal  float64                 `json:"invoice_total" bson:"invoice_total"`
	Customer      Customer                `json:"customer" bson:"customer"`
	Address       Address                 `json:"address" bson:"address"`
	Shipment      ShipmentRecord          `json:"shipment" bson:"shipment"`
}

// IsCOD reports whether the carrier collects payment at delivery.
func (o *Order) IsCOD() bool {
	return o.PaymentMethod == PaymentCashOnDelivery
}
