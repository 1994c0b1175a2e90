package yurtici

import (
	"encoding/xml"
	"strings"
)

// wireField is one element emitted into the request body. Name casing is
// preserved verbatim, which is the whole point of the dynamic field table.
type wireField struct {
	Name  string
	Value string
}

// createPayload is the assembled createShipment request body data.
type createPayload struct {
	Username string
	Password string
	Language string

	CargoKey     string
	InvoiceKey   string
	ReceiverName string
	Address      string
	City         string
	Town         string
	Phone        string
	Email        string
	Description  string

	// CODFields carries the resolved-name COD elements, in a fixed
	// submission order. Empty for non-COD shipments.
	CODFields []wireField
}

// listDocsPayload is the reporting-service document lookup request data.
type listDocsPayload struct {
	Username string
	Password string
	Language string

	KeyTypeField string
	KeyType      string
	Reference    string
	WrappedArray bool
}

// queryPayload is the tracking query request data.
type queryPayload struct {
	Username string
	Password string
	Language string

	CargoKey    string
	WithHistory bool
}

// cancelPayload is the cancellation request data.
type cancelPayload struct {
	Username string
	Password string
	Language string

	CargoKey string
}

// ---------------------------------------------------------------------------
// Response envelope types
// ---------------------------------------------------------------------------

type soapEnvelope struct {
	XMLName xml.Name  `xml:"Envelope"`
	Body    *soapBody `xml:"Body"`
}

type soapBody struct {
	Fault    *soapFault        `xml:"Fault"`
	Create   *createResponse   `xml:"createShipmentResponse>ShippingOrderResultVO"`
	ListDocs *listDocsResponse `xml:"listInvDocumentInterfaceByReferenceResponse>LayoutInvdocumentQueryInterfaceVO"`
	Query    *queryResponse    `xml:"queryShipmentResponse>ShippingDeliveryVO"`
	Cancel   *cancelResponse   `xml:"cancelShipmentResponse>ShippingOrderResultVO"`
}

type soapFault struct {
	Code   string `xml:"faultcode"`
	String string `xml:"faultstring"`
}

type createResponse struct {
	OutFlag   string           `xml:"outFlag"`
	OutResult string           `xml:"outResult"`
	JobID     string           `xml:"jobId"`
	Details   []shipmentDetail `xml:"shippingOrderDetailVO"`
}

type shipmentDetail struct {
	CargoKey   string `xml:"cargoKey"`
	ErrCode    int    `xml:"errCode"`
	ErrMessage string `xml:"errMessage"`
}

type listDocsResponse struct {
	OutFlag   string   `xml:"outFlag"`
	OutResult string   `xml:"outResult"`
	Docs      []invDoc `xml:"invDocumentInterfaceDetailVOArray"`
}

// invDoc captures one reported document generically: element names for the
// barcode and the ids drift across WSDL revisions, so every child is kept
// as a raw name→value pair (names lowercased for lookup).
type invDoc struct {
	DocType string
	Fields  map[string]string
}

// UnmarshalXML walks the document element child by child.
func (d *invDoc) UnmarshalXML(dec *xml.Decoder, start xml.StartElement) error {
	d.Fields = make(map[string]string)
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var value string
			if err := dec.DecodeElement(&value, &t); err != nil {
				return err
			}
			name := strings.ToLower(t.Name.Local)
			d.Fields[name] = strings.TrimSpace(value)
			if name == "doctype" || name == "documenttype" {
				d.DocType = strings.TrimSpace(value)
			}
		case xml.EndElement:
			if t.Name == start.Name {
				return nil
			}
		}
	}
}

// queryResponse tolerates the wrapper drift around the delivery payload:
// depending on the serving SOAP toolchain the detail appears under one of
// several element names. The normalizer probes them in order.
type queryResponse struct {
	OutFlag   string `xml:"outFlag"`
	OutResult string `xml:"outResult"`

	DeliveryDetail *deliveryVO `xml:"shippingDeliveryDetailVO"`
	DeliveryItem   *deliveryVO `xml:"shippingDeliveryItemDetailVO"`
	DeliveryData   *deliveryVO `xml:"shippingDataVO"`
}

type deliveryVO struct {
	CargoKey       string    `xml:"cargoKey"`
	TrackingNumber string    `xml:"cargoBarcode"`
	DocNumber      string    `xml:"docNumber"`
	OperationCode  string    `xml:"operationCode"`
	ReasonID       string    `xml:"reasonId"`
	ReasonName     string    `xml:"reasonName"`
	Events         []eventVO `xml:"movementEventVOArray"`
}

type eventVO struct {
	EventID    string `xml:"eventId"`
	Name       string `xml:"eventName"`
	Date       string `xml:"eventDate"`
	Time       string `xml:"eventTime"`
	City       string `xml:"cityName"`
	Town       string `xml:"townName"`
	Unit       string `xml:"unitName"`
	ReasonID   string `xml:"reasonId"`
	ReasonName string `xml:"reasonName"`
}

type cancelResponse struct {
	OutFlag   string           `xml:"outFlag"`
	OutResult string           `xml:"outResult"`
	Details   []shipmentDetail `xml:"shippingOrderDetailVO"`
}
