package yurtici

import "testing"

func TestResolveFieldNames_PrefersCamelCase(t *testing.T) {
	schema := `<xs:element name="invoiceAmount"/><xs:element name="INVOICE_AMOUNT"/>`
	names := ResolveFieldNames(schema)

	if got := names.WireName(FieldInvoiceAmount); got != "invoiceAmount" {
		t.Errorf("camelCase must win when both variants exist, got %q", got)
	}
}

func TestResolveFieldNames_FallsBackToUpperSnake(t *testing.T) {
	schema := `<xs:element name="COLLECTION_TYPE"/>`
	names := ResolveFieldNames(schema)

	if got := names.WireName(FieldCollectionType); got != "COLLECTION_TYPE" {
		t.Errorf("expected upper-snake fallback, got %q", got)
	}
}

func TestResolveFieldNames_DefaultsWhenAbsent(t *testing.T) {
	names := ResolveFieldNames(`<xs:schema/>`)

	if got := names.WireName(FieldDocSaveType); got != "docSaveType" {
		t.Errorf("absent field must default to camelCase, got %q", got)
	}
}

func TestResolveFieldNames_SpecifiedCompanionOnlyWhenDeclared(t *testing.T) {
	schema := `<xs:element name="invoiceAmount"/><xs:element name="invoiceAmountSpecified"/><xs:element name="documentId"/>`
	names := ResolveFieldNames(schema)

	if !names.HasSpecified(FieldInvoiceAmount) {
		t.Error("declared Specified companion must be kept")
	}
	if names.HasSpecified(FieldDocumentID) {
		t.Error("undeclared Specified companion must be omitted")
	}
}

func TestDefaultFieldNames_CoversEveryLogicalField(t *testing.T) {
	names := DefaultFieldNames()

	for logical := range fieldCandidates {
		if names.WireName(logical) == "" {
			t.Errorf("default table missing %q", logical)
		}
		if !names.HasSpecified(logical) {
			t.Errorf("default table must carry the %q companion", logical)
		}
	}
}
