// Package cargokey derives the carrier-facing identifiers for an order.
// Every derivation is a pure function of order identity, so re-running
// shipment creation for the same order always produces the same keys.
package cargokey

import (
	"hash/fnv"
	"time"
)

const (
	// prefix is the short carrier-account marker on every cargo key.
	prefix = "YK"
	// suffixLen fixes the hashed tail at exactly six characters, keeping
	// the full key within the carrier's 20-character field limit.
	suffixLen = 6

	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// Generate returns the shipment key for an order: prefix + 8-digit date
// stamp from the order's creation date + 6-character alphanumeric suffix
// hashed from the order id. It never fails.
func Generate(orderID string, createdAt time.Time) string {
	return prefix + createdAt.Format("20060102") + suffix(orderID)
}

// DocumentID returns the deterministic 12-digit COD collection document id
// for an order.
func DocumentID(orderID string, createdAt time.Time) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte("doc:" + orderID + ":" + createdAt.Format("20060102")))
	sum := h.Sum64() % 1_000_000_000_000

	buf := make([]byte, 12)
	for i := 11; i >= 0; i-- {
		buf[i] = byte('0' + sum%10)
		sum /= 10
	}
	return string(buf)
}

// suffix maps hash bytes of the order id onto the fixed alphabet.
func suffix(orderID string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(orderID))
	sum := h.Sum64()

	buf := make([]byte, suffixLen)
	for i := range buf {
		buf[i] = alphabet[sum%uint64(len(alphabet))]
		sum /= uint64(len(alphabet))
	}
	return string(buf)
}
