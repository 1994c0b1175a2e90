package yurtici

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Logical COD field identifiers. The carrier exposes each under either a
// camelCase or an UPPER_SNAKE element name depending on the deployed WSDL
// revision, some with a companion "<name>Specified" flag that certain SOAP
// toolchains require for optional primitives.
const (
	FieldInvoiceAmount  = "invoiceAmount"
	FieldDocumentID     = "documentId"
	FieldCollectionType = "collectionType"
	FieldDocSaveType    = "docSaveType"
	FieldSelectedCredit = "selectedCredit"
	FieldCreditRule     = "creditRule"
)

// SpecifiedSuffix marks the companion flag of a logical field.
const SpecifiedSuffix = "Specified"

// fieldCandidates lists (camelCase, UPPER_SNAKE) per logical field.
var fieldCandidates = map[string][2]string{
	FieldInvoiceAmount:  {"invoiceAmount", "INVOICE_AMOUNT"},
	FieldDocumentID:     {"documentId", "DOCUMENT_ID"},
	FieldCollectionType: {"collectionType", "COLLECTION_TYPE"},
	FieldDocSaveType:    {"docSaveType", "DOC_SAVE_TYPE"},
	FieldSelectedCredit: {"selectedCredit", "SELECTED_CREDIT"},
	FieldCreditRule:     {"creditRule", "CREDIT_RULE"},
}

// FieldNames maps a logical field to the concrete wire name to submit.
// A missing "<field>Specified" entry means the companion flag is omitted.
type FieldNames map[string]string

// WireName returns the resolved element name for a logical field,
// defaulting to camelCase when the table has no entry.
func (n FieldNames) WireName(logical string) string {
	if name, ok := n[logical]; ok {
		return name
	}
	return fieldCandidates[logical][0]
}

// HasSpecified reports whether the companion flag must be submitted.
func (n FieldNames) HasSpecified(logical string) bool {
	_, ok := n[logical+SpecifiedSuffix]
	return ok
}

// DefaultFieldNames is the hardcoded camelCase fallback used when schema
// introspection fails. Shipment creation must still be attempted with
// best-effort names rather than aborting.
func DefaultFieldNames() FieldNames {
	names := make(FieldNames, len(fieldCandidates)*2)
	for logical, cands := range fieldCandidates {
		names[logical] = cands[0]
		names[logical+SpecifiedSuffix] = cands[0] + SpecifiedSuffix
	}
	return names
}

// ResolveFieldNames inspects a serialized schema description and decides,
// per logical field, which spelling the deployed service actually exposes.
// camelCase wins when both variants are present; the companion flag is
// omitted entirely when the schema does not declare it.
func ResolveFieldNames(schema string) FieldNames {
	names := make(FieldNames, len(fieldCandidates)*2)
	for logical, cands := range fieldCandidates {
		camel, upper := cands[0], cands[1]
		switch {
		case declaresElement(schema, camel):
			names[logical] = camel
		case declaresElement(schema, upper):
			names[logical] = upper
		default:
			names[logical] = camel
		}

		if declaresElement(schema, camel+SpecifiedSuffix) {
			names[logical+SpecifiedSuffix] = camel + SpecifiedSuffix
		} else if declaresElement(schema, upper+"_SPECIFIED") {
			names[logical+SpecifiedSuffix] = upper + "_SPECIFIED"
		}
	}
	return names
}

func declaresElement(schema, name string) bool {
	return strings.Contains(schema, `name="`+name+`"`)
}

// fetchSchema downloads the dispatcher service's published schema dump.
func fetchSchema(ctx context.Context, client *http.Client, wsdlURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, wsdlURL+"?wsdl", nil)
	if err != nil {
		return "", fmt.Errorf("schema request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("schema fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("schema fetch: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("schema read: %w", err)
	}
	return string(body), nil
}
