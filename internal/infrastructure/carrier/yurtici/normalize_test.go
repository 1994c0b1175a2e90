package yurtici

import (
	"testing"

	"github.com/anatolia-commerce/cargo-gateway/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Status mapping
// ---------------------------------------------------------------------------

func TestNormalizeTracking_StatusMapping(t *testing.T) {
	cases := []struct {
		code       string
		status     domain.ShipmentStatus
		final      bool
		successful bool
	}{
		{"NOP", domain.StatusCreated, false, false},
		{"IND", domain.StatusInTransit, false, false},
		{"ISR", domain.StatusInTransit, false, false},
		{"DLV", domain.StatusDelivered, true, true},
		{"CNL", domain.StatusCanceled, true, false},
		{"ISC", domain.StatusCanceled, true, false},
		{"BI", domain.StatusCanceled, true, false},
	}

	for _, tc := range cases {
		raw := &queryResponse{DeliveryDetail: &deliveryVO{OperationCode: tc.code}}
		got := normalizeTracking("YK1", raw)

		if got.Status != tc.status {
			t.Errorf("%s: expected status %q, got %q", tc.code, tc.status, got.Status)
		}
		if got.Final != tc.final {
			t.Errorf("%s: expected final=%v", tc.code, tc.final)
		}
		if got.Successful != tc.successful {
			t.Errorf("%s: expected successful=%v", tc.code, tc.successful)
		}
	}
}

func TestNormalizeTracking_ProblemClassification(t *testing.T) {
	withReason := normalizeTracking("YK1", &queryResponse{
		DeliveryDetail: &deliveryVO{OperationCode: "IND", ReasonID: "27", ReasonName: "address not found"},
	})
	if !withReason.HasProblem {
		t.Error("meaningful reason id must flag a problem")
	}

	placeholder := normalizeTracking("YK1", &queryResponse{
		DeliveryDetail: &deliveryVO{OperationCode: "IND", ReasonID: "0"},
	})
	if placeholder.HasProblem {
		t.Error("placeholder reason id must not flag a problem")
	}

	cancelled := normalizeTracking("YK1", &queryResponse{
		DeliveryDetail: &deliveryVO{OperationCode: "CNL"},
	})
	if !cancelled.HasProblem {
		t.Error("final-unsuccessful status must flag a problem")
	}

	delivered := normalizeTracking("YK1", &queryResponse{
		DeliveryDetail: &deliveryVO{OperationCode: "DLV"},
	})
	if delivered.HasProblem {
		t.Error("delivered shipment has no problem")
	}
}

// ---------------------------------------------------------------------------
// Wrapper probing
// ---------------------------------------------------------------------------

func TestNormalizeTracking_ProbesWrappersInOrder(t *testing.T) {
	raw := &queryResponse{
		DeliveryItem: &deliveryVO{OperationCode: "DLV", TrackingNumber: "123456789012"},
	}
	got := normalizeTracking("YK1", raw)

	if got.Status != domain.StatusDelivered {
		t.Errorf("payload under the second wrapper must still decode, got %q", got.Status)
	}
	if got.TrackingNumber != "123456789012" {
		t.Errorf("expected tracking from probed wrapper, got %q", got.TrackingNumber)
	}
}

func TestNormalizeTracking_NoPayload(t *testing.T) {
	got := normalizeTracking("YK1", &queryResponse{OutFlag: "1", OutResult: "record not found"})

	if got.Status != domain.StatusCreated {
		t.Errorf("missing payload must normalize to the non-final created state, got %q", got.Status)
	}
	if got.Final {
		t.Error("missing payload must not be final")
	}
}

// ---------------------------------------------------------------------------
// Event ordering
// ---------------------------------------------------------------------------

func TestSortEvents_ChronologicalWithUnparseableLast(t *testing.T) {
	events := []domain.ShipmentEvent{
		{EventID: "a", Date: "20240302", Time: "1015"},
		{EventID: "b", Date: "not-a-date"},
		{EventID: "c", Date: "20240301", Time: "0900"},
	}

	sorted := SortEvents(events)

	want := []string{"c", "a", "b"}
	for i, id := range want {
		if sorted[i].EventID != id {
			t.Fatalf("position %d: expected %q, got %q (order %v)", i, id, sorted[i].EventID, sorted)
		}
	}
}

func TestSortEvents_AlternateDateFormat(t *testing.T) {
	events := []domain.ShipmentEvent{
		{EventID: "late", Date: "02.03.2024", Time: "10:15:00"},
		{EventID: "early", Date: "2024-03-01", Time: "09:00:00"},
	}

	sorted := SortEvents(events)

	if sorted[0].EventID != "early" || sorted[1].EventID != "late" {
		t.Errorf("alternate date formats must sort chronologically, got %v", sorted)
	}
}

func TestSortEvents_UnparseablePreserveRelativeOrder(t *testing.T) {
	events := []domain.ShipmentEvent{
		{EventID: "u1", Date: "??"},
		{EventID: "p", Date: "20240301"},
		{EventID: "u2", Date: "??"},
	}

	sorted := SortEvents(events)

	if sorted[0].EventID != "p" {
		t.Fatalf("parseable event must come first, got %v", sorted)
	}
	if sorted[1].EventID != "u1" || sorted[2].EventID != "u2" {
		t.Errorf("unparseable events must keep carrier-reported order, got %v", sorted)
	}
}

func TestSortEvents_MissingTimeStillSortsByDate(t *testing.T) {
	events := []domain.ShipmentEvent{
		{EventID: "b", Date: "20240302"},
		{EventID: "a", Date: "20240301"},
	}

	sorted := SortEvents(events)

	if sorted[0].EventID != "a" {
		t.Errorf("date-only events must sort by date, got %v", sorted)
	}
}
