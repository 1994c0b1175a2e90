package yurtici

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"text/template"
)

// bodyEncoder serializes request payloads into SOAP envelope bytes.
// Two implementations exist: the template encoder below (default) and the
// raw writer in rawxml.go, selected by configuration when exact field
// casing must survive intermediaries that rewrite templated output.
type bodyEncoder interface {
	createShipment(p *createPayload) ([]byte, error)
	listDocuments(p *listDocsPayload) ([]byte, error)
	queryShipment(p *queryPayload) ([]byte, error)
	cancelShipment(p *cancelPayload) ([]byte, error)
}

const envelopeTemplate = `<?xml version="1.0" encoding="utf-8"?>
<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/" xmlns:ship="http://yurticikargo.com.tr/ShippingOrderDispatcherServices">
  <soapenv:Header/>
  <soapenv:Body>
    {{.Body}}
  </soapenv:Body>
</soapenv:Envelope>`

var templateFuncs = template.FuncMap{
	"esc": escapeXML,
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// templateEncoder builds envelopes from text templates, the same way the
// carrier's sample integrations do.
type templateEncoder struct{}

const createBodyTemplate = `<ship:createShipment>
      <wsUserName>{{esc .Username}}</wsUserName>
      <wsPassword>{{esc .Password}}</wsPassword>
      <userLanguage>{{.Language}}</userLanguage>
      <ShippingOrderVO>
        <cargoKey>{{.CargoKey}}</cargoKey>
        <invoiceKey>{{.InvoiceKey}}</invoiceKey>
        <receiverCustName>{{esc .ReceiverName}}</receiverCustName>
        <receiverAddress>{{esc .Address}}</receiverAddress>
        <cityName>{{esc .City}}</cityName>
        <townName>{{esc .Town}}</townName>
        <receiverPhone1>{{esc .Phone}}</receiverPhone1>
        <emailAddress>{{esc .Email}}</emailAddress>
        <desc>{{esc .Description}}</desc>
        {{- range .CODFields}}
        <{{.Name}}>{{esc .Value}}</{{.Name}}>
        {{- end}}
      </ShippingOrderVO>
    </ship:createShipment>`

const listDocsBodyTemplate = `<ship:listInvDocumentInterfaceByReference>
      <wsUserName>{{esc .Username}}</wsUserName>
      <wsPassword>{{esc .Password}}</wsPassword>
      <wsLanguage>{{.Language}}</wsLanguage>
      <{{.KeyTypeField}}>{{.KeyType}}</{{.KeyTypeField}}>
      {{- if .WrappedArray}}
      <refValues><items>{{.Reference}}</items></refValues>
      {{- else}}
      <refValues>{{.Reference}}</refValues>
      {{- end}}
    </ship:listInvDocumentInterfaceByReference>`

const queryBodyTemplate = `<ship:queryShipment>
      <wsUserName>{{esc .Username}}</wsUserName>
      <wsPassword>{{esc .Password}}</wsPassword>
      <wsLanguage>{{.Language}}</wsLanguage>
      <keys>{{.CargoKey}}</keys>
      <keyType>0</keyType>
      <addHistoricalData>{{.WithHistory}}</addHistoricalData>
      <onlyTracking>false</onlyTracking>
    </ship:queryShipment>`

const cancelBodyTemplate = `<ship:cancelShipment>
      <wsUserName>{{esc .Username}}</wsUserName>
      <wsPassword>{{esc .Password}}</wsPassword>
      <userLanguage>{{.Language}}</userLanguage>
      <cargoKeys>{{.CargoKey}}</cargoKeys>
    </ship:cancelShipment>`

func (templateEncoder) createShipment(p *createPayload) ([]byte, error) {
	return buildEnvelope("createShipment", createBodyTemplate, p)
}

func (templateEncoder) listDocuments(p *listDocsPayload) ([]byte, error) {
	return buildEnvelope("listInvDocumentInterfaceByReference", listDocsBodyTemplate, p)
}

func (templateEncoder) queryShipment(p *queryPayload) ([]byte, error) {
	return buildEnvelope("queryShipment", queryBodyTemplate, p)
}

func (templateEncoder) cancelShipment(p *cancelPayload) ([]byte, error) {
	return buildEnvelope("cancelShipment", cancelBodyTemplate, p)
}

func buildEnvelope(name, bodyTemplate string, data any) ([]byte, error) {
	bodyTmpl, err := template.New(name).Funcs(templateFuncs).Parse(bodyTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse %s template: %w", name, err)
	}

	var body bytes.Buffer
	if err := bodyTmpl.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("render %s body: %w", name, err)
	}

	envTmpl, err := template.New("envelope").Parse(envelopeTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse envelope template: %w", err)
	}

	var out bytes.Buffer
	if err := envTmpl.Execute(&out, struct{ Body string }{Body: body.String()}); err != nil {
		return nil, fmt.Errorf("render envelope: %w", err)
	}
	return out.Bytes(), nil
}
