package yurtici

import (
	"strings"
	"testing"
)

func TestMaskWire_RedactsCredentials(t *testing.T) {
	wire := `<wsUserName>acme_ws</wsUserName><wsPassword>s3cret</wsPassword>`
	masked := MaskWire(wire)

	if strings.Contains(masked, "acme_ws") || strings.Contains(masked, "s3cret") {
		t.Errorf("credentials leaked: %s", masked)
	}
	if !strings.Contains(masked, "<wsUserName>***</wsUserName>") {
		t.Errorf("expected full redaction marker, got %s", masked)
	}
}

func TestMaskWire_MasksPIIPartially(t *testing.T) {
	wire := `<receiverCustName>Ayşe Yılmaz</receiverCustName>` +
		`<receiverPhone1>+905551234567</receiverPhone1>` +
		`<emailAddress>ayse@example.com</emailAddress>`
	masked := MaskWire(wire)

	if strings.Contains(masked, "Ayşe Yılmaz") {
		t.Error("name must not appear in full")
	}
	if !strings.Contains(masked, "<receiverCustName>A***</receiverCustName>") {
		t.Errorf("expected first-rune name mask, got %s", masked)
	}
	if !strings.Contains(masked, "<receiverPhone1>***67</receiverPhone1>") {
		t.Errorf("expected last-two-digit phone mask, got %s", masked)
	}
	if !strings.Contains(masked, "<emailAddress>***@example.com</emailAddress>") {
		t.Errorf("expected domain-only email mask, got %s", masked)
	}
}

func TestMaskWire_LeavesNonSensitiveFieldsAlone(t *testing.T) {
	wire := `<cargoKey>YK20260314ABC123</cargoKey><cityName>İstanbul</cityName>`
	masked := MaskWire(wire)

	if !strings.Contains(masked, "YK20260314ABC123") {
		t.Error("cargo key must survive masking")
	}
}
