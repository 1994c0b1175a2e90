package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/anatolia-commerce/cargo-gateway/internal/core/ports"
)

// docQueryShapes are the reporting service's historically observed
// parameter spellings, probed in order. Both have been live at different
// WSDL revisions.
var docQueryShapes = []ports.DocQueryShape{
	{KeyTypeField: "fieldName"},
	{KeyTypeField: "refFieldName", WrappedArray: true},
}

// Element names that have carried the shipment barcode across revisions,
// lowercased for lookup.
var barcodeFieldNames = []string{"docbarcode", "barcode", "cargobarcode", "invdocbarcode"}

// Element names that have carried the document id.
var docIDFieldNames = []string{"docid", "documentid", "invdocid", "id"}

// documentScan is one pass over the back-office documents of a shipment.
type documentScan struct {
	TrackingNumber    string
	CollectionDocID   string
	CollectionDocType string
	ReportedDocTypes  []string
	OutResult         string
}

// scanDocuments queries the reporting service for the documents referencing
// cargoKey, trying each known parameter shape until one returns documents.
// An empty scan is a normal outcome: the back office materializes documents
// asynchronously after creation.
func scanDocuments(ctx context.Context, gw ports.CarrierGateway, cargoKey string) (*documentScan, error) {
	scan := &documentScan{}

	for _, shape := range docQueryShapes {
		list, err := gw.ListDocuments(ctx, cargoKey, shape)
		if err != nil {
			var cerr *ports.CarrierError
			if errors.As(err, &cerr) && cerr.Kind == ports.ErrKindAuth {
				return nil, err
			}
			// Wrong shape for this revision or a transient failure; the
			// next shape may still answer.
			continue
		}
		scan.OutResult = list.OutResult
		if len(list.Docs) == 0 {
			continue
		}
		collectScan(scan, list.Docs)
		return scan, nil
	}
	return scan, nil
}

// collectScan folds the reported documents into the scan: the barcode from
// the shipping document, the id and type of the collection document, and
// every seen document type.
func collectScan(scan *documentScan, docs []ports.InvDocument) {
	for _, doc := range docs {
		if doc.DocType != "" {
			scan.ReportedDocTypes = append(scan.ReportedDocTypes, doc.DocType)
		}
		if scan.TrackingNumber == "" {
			scan.TrackingNumber = firstField(doc.Fields, barcodeFieldNames)
		}
		if isCollectionDoc(doc.DocType) && scan.CollectionDocID == "" {
			scan.CollectionDocID = firstField(doc.Fields, docIDFieldNames)
			scan.CollectionDocType = doc.DocType
		}
	}
}

// isCollectionDoc classifies a document type as the COD collection
// document. The carrier reports it under Turkish and English labels.
func isCollectionDoc(docType string) bool {
	upper := strings.ToUpper(docType)
	return strings.Contains(upper, "TAHSILAT") || strings.Contains(upper, "COLLECTION")
}

func firstField(fields map[string]string, names []string) string {
	for _, name := range names {
		if v := strings.TrimSpace(fields[name]); v != "" {
			return v
		}
	}
	return ""
}

// retryPolicy bounds the tracking-number recovery loop.
type retryPolicy struct {
	Attempts int
	Delay    time.Duration
}

func (p retryPolicy) attempts() int {
	if p.Attempts <= 0 {
		return 3
	}
	return p.Attempts
}

// wait sleeps for the fixed retry delay unless the context ends first.
func (p retryPolicy) wait(ctx context.Context) error {
	delay := p.Delay
	if delay <= 0 {
		delay = 2 * time.Second
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}
