package nlu

import (
	"regexp"
	"strings"
)

var (
	// First standalone run of 4+ digits wins; later matches are ignored.
	orderIDPattern = regexp.MustCompile(`\b(\d{4,})\b`)

	// "P" must be followed directly by a digit so that words like "product"
	// or "purchase" never match. Up to 11 further id characters.
	productIDPattern = regexp.MustCompile(`(?i)\bP[0-9][0-9A-Za-z_-]{0,11}\b`)
)

// Slots holds the entity values recognized in a single utterance. Absent
// values are empty strings; extraction never fails.
type Slots struct {
	OrderID   string
	ProductID string
}

// ExtractSlots recognizes order and product identifiers in raw text.
// Deterministic, no side effects.
func ExtractSlots(text string) Slots {
	var s Slots
	if m := orderIDPattern.FindStringSubmatch(text); m != nil {
		s.OrderID = m[1]
	}
	if m := productIDPattern.FindString(text); m != "" {
		s.ProductID = strings.ToUpper(m)
	}
	return s
}

// Merge copies the extracted values into a slot map, never overwriting an
// already-set slot with an empty extraction.
func (s Slots) Merge(into map[string]string) {
	if s.OrderID != "" {
		into["order_id"] = s.OrderID
	}
	if s.ProductID != "" {
		into["product_id"] = s.ProductID
	}
}
