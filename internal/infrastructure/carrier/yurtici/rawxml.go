package yurtici

import (
	"bytes"
)

// rawEncoder hand-writes every envelope byte by byte with explicit element
// casing. It exists for deployments where the templated path is fronted by
// middleware that re-serializes XML and normalizes element names, which
// breaks the UPPER_SNAKE COD fields some carrier WSDL revisions require.
// Disabled by default; enable with CARRIER_RAW_XML_FALLBACK.
type rawEncoder struct{}

const (
	rawEnvelopeOpen = `<?xml version="1.0" encoding="utf-8"?>` +
		`<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/" ` +
		`xmlns:ship="http://yurticikargo.com.tr/ShippingOrderDispatcherServices"><soapenv:Header/><soapenv:Body>`
	rawEnvelopeClose = `</soapenv:Body></soapenv:Envelope>`
)

func writeElem(buf *bytes.Buffer, name, value string) {
	buf.WriteByte('<')
	buf.WriteString(name)
	buf.WriteByte('>')
	buf.WriteString(escapeXML(value))
	buf.WriteString("</")
	buf.WriteString(name)
	buf.WriteByte('>')
}

func (rawEncoder) createShipment(p *createPayload) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(rawEnvelopeOpen)
	buf.WriteString("<ship:createShipment>")
	writeElem(&buf, "wsUserName", p.Username)
	writeElem(&buf, "wsPassword", p.Password)
	writeElem(&buf, "userLanguage", p.Language)
	buf.WriteString("<ShippingOrderVO>")
	writeElem(&buf, "cargoKey", p.CargoKey)
	writeElem(&buf, "invoiceKey", p.InvoiceKey)
	writeElem(&buf, "receiverCustName", p.ReceiverName)
	writeElem(&buf, "receiverAddress", p.Address)
	writeElem(&buf, "cityName", p.City)
	writeElem(&buf, "townName", p.Town)
	writeElem(&buf, "receiverPhone1", p.Phone)
	writeElem(&buf, "emailAddress", p.Email)
	writeElem(&buf, "desc", p.Description)
	for _, f := range p.CODFields {
		writeElem(&buf, f.Name, f.Value)
	}
	buf.WriteString("</ShippingOrderVO>")
	buf.WriteString("</ship:createShipment>")
	buf.WriteString(rawEnvelopeClose)
	return buf.Bytes(), nil
}

func (rawEncoder) listDocuments(p *listDocsPayload) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(rawEnvelopeOpen)
	buf.WriteString("<ship:listInvDocumentInterfaceByReference>")
	writeElem(&buf, "wsUserName", p.Username)
	writeElem(&buf, "wsPassword", p.Password)
	writeElem(&buf, "wsLanguage", p.Language)
	writeElem(&buf, p.KeyTypeField, p.KeyType)
	if p.WrappedArray {
		buf.WriteString("<refValues>")
		writeElem(&buf, "items", p.Reference)
		buf.WriteString("</refValues>")
	} else {
		writeElem(&buf, "refValues", p.Reference)
	}
	buf.WriteString("</ship:listInvDocumentInterfaceByReference>")
	buf.WriteString(rawEnvelopeClose)
	return buf.Bytes(), nil
}

func (rawEncoder) queryShipment(p *queryPayload) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(rawEnvelopeOpen)
	buf.WriteString("<ship:queryShipment>")
	writeElem(&buf, "wsUserName", p.Username)
	writeElem(&buf, "wsPassword", p.Password)
	writeElem(&buf, "wsLanguage", p.Language)
	writeElem(&buf, "keys", p.CargoKey)
	writeElem(&buf, "keyType", "0")
	if p.WithHistory {
		writeElem(&buf, "addHistoricalData", "true")
	} else {
		writeElem(&buf, "addHistoricalData", "false")
	}
	writeElem(&buf, "onlyTracking", "false")
	buf.WriteString("</ship:queryShipment>")
	buf.WriteString(rawEnvelopeClose)
	return buf.Bytes(), nil
}

func (rawEncoder) cancelShipment(p *cancelPayload) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(rawEnvelopeOpen)
	buf.WriteString("<ship:cancelShipment>")
	writeElem(&buf, "wsUserName", p.Username)
	writeElem(&buf, "wsPassword", p.Password)
	writeElem(&buf, "userLanguage", p.Language)
	writeElem(&buf, "cargoKeys", p.CargoKey)
	buf.WriteString("</ship:cancelShipment>")
	buf.WriteString(rawEnvelopeClose)
	return buf.Bytes(), nil
}
