package yurtici

import (
	"sort"
	"strings"
	"time"

	"github.com/anatolia-commerce/cargo-gateway/internal/core/domain"
)

// Canonical carrier operation codes.
const (
	codeNotProcessed    = "NOP"
	codeInDistribution  = "IND"
	codeProcessed       = "ISR"
	codeCancelled       = "CNL"
	codeBlocked         = "ISC"
	codeInvoiceCanceled = "BI"
	codeDelivered       = "DLV"
)

// statusMapping maps a canonical code onto the domain status plus its
// finality classification.
type statusMapping struct {
	status     domain.ShipmentStatus
	final      bool
	successful bool
}

var statusMappings = map[string]statusMapping{
	codeNotProcessed:    {domain.StatusCreated, false, false},
	codeInDistribution:  {domain.StatusInTransit, false, false},
	codeProcessed:       {domain.StatusInTransit, false, false},
	codeCancelled:       {domain.StatusCanceled, true, false},
	codeBlocked:         {domain.StatusCanceled, true, false},
	codeInvoiceCanceled: {domain.StatusCanceled, true, false},
	codeDelivered:       {domain.StatusDelivered, true, true},
}

// normalizeTracking folds a raw query response into the canonical model.
// The delivery payload appears under one of several wrapper names
// depending on the serving SOAP toolchain; the first present wins.
func normalizeTracking(cargoKey string, raw *queryResponse) *domain.ShipmentTracking {
	t := &domain.ShipmentTracking{
		CargoKey: cargoKey,
		Status:   domain.StatusCreated,
	}
	if raw == nil {
		return t
	}

	var vo *deliveryVO
	for _, candidate := range []*deliveryVO{raw.DeliveryDetail, raw.DeliveryItem, raw.DeliveryData} {
		if candidate != nil {
			vo = candidate
			break
		}
	}
	if vo == nil {
		return t
	}

	code := strings.ToUpper(strings.TrimSpace(vo.OperationCode))
	t.StatusCode = code
	t.TrackingNumber = vo.TrackingNumber
	t.ReasonID = strings.TrimSpace(vo.ReasonID)
	t.ReasonName = strings.TrimSpace(vo.ReasonName)

	if m, ok := statusMappings[code]; ok {
		t.Status = m.status
		t.Final = m.final
		t.Successful = m.successful
	}
	t.HasProblem = meaningfulReason(t.ReasonID) || (t.Final && !t.Successful)

	events := make([]domain.ShipmentEvent, 0, len(vo.Events))
	for _, e := range vo.Events {
		events = append(events, domain.ShipmentEvent{
			EventID:    e.EventID,
			Name:       e.Name,
			Date:       e.Date,
			Time:       e.Time,
			City:       e.City,
			Town:       e.Town,
			Unit:       e.Unit,
			ReasonID:   e.ReasonID,
			ReasonName: e.ReasonName,
		})
	}
	t.Events = SortEvents(events)
	return t
}

// meaningfulReason reports whether a reason id carries information beyond
// the carrier's "no reason" placeholders.
func meaningfulReason(reasonID string) bool {
	switch reasonID {
	case "", "0", "-":
		return false
	}
	return true
}

var eventDateLayouts = []string{"20060102", "2006-01-02", "02.01.2006"}
var eventTimeLayouts = []string{"150405", "15:04:05", "15:04", "1504"}

// SortEvents orders carrier history events chronologically by parsed
// date+time. Events whose date cannot be parsed are stably appended after
// every parseable one, keeping their carrier-reported relative order, so
// the timeline stays usable even with dirty data.
func SortEvents(events []domain.ShipmentEvent) []domain.ShipmentEvent {
	type timed struct {
		event domain.ShipmentEvent
		at    time.Time
	}

	parseable := make([]timed, 0, len(events))
	var unparseable []domain.ShipmentEvent
	for _, e := range events {
		at, ok := parseEventTime(e.Date, e.Time)
		if !ok {
			unparseable = append(unparseable, e)
			continue
		}
		parseable = append(parseable, timed{event: e, at: at})
	}

	sort.SliceStable(parseable, func(i, j int) bool {
		return parseable[i].at.Before(parseable[j].at)
	})

	out := make([]domain.ShipmentEvent, 0, len(events))
	for _, t := range parseable {
		out = append(out, t.event)
	}
	return append(out, unparseable...)
}

func parseEventTime(date, clock string) (time.Time, bool) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)

	var day time.Time
	var ok bool
	for _, layout := range eventDateLayouts {
		if d, err := time.Parse(layout, date); err == nil {
			day, ok = d, true
			break
		}
	}
	if !ok {
		return time.Time{}, false
	}

	for _, layout := range eventTimeLayouts {
		if c, err := time.Parse(layout, clock); err == nil {
			return day.Add(time.Duration(c.Hour())*time.Hour +
				time.Duration(c.Minute())*time.Minute +
				time.Duration(c.Second())*time.Second), true
		}
	}
	// Date alone is enough to place the event on the timeline.
	return day, true
}
