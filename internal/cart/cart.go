// Package cart holds customer selections between visits. Each cart is one
// JSON blob in Redis keyed by the caller-supplied cart id, mirroring the
// single-key local storage the storefront UI originally used.
package cart

import (
	"github.com/google/uuid"
)

// ItemRef is the catalog data captured when an item is added.
type ItemRef struct {
	ID       uuid.UUID
	Name     string
	Price    int
	ImageURL *string
}

// Entry is one cart line. Name and price are snapshots taken at add time.
type Entry struct {
	ItemID   uuid.UUID `json:"item_id"`
	Name     string    `json:"name"`
	Price    int       `json:"price"`
	ImageURL *string   `json:"image_url,omitempty"`
	Quantity int       `json:"quantity"`
}

// Snapshot is the full cart state as stored.
type Snapshot struct {
	Entries []Entry `json:"items"`
}

// TotalCount sums the quantities across all entries.
func (s Snapshot) TotalCount() int {
	total := 0
	for _, entry := range s.Entries {
		total += entry.Quantity
	}
	return total
}

// TotalValue sums quantity times unit price across all entries.
func (s Snapshot) TotalValue() int {
	total := 0
	for _, entry := range s.Entries {
		total += entry.Quantity * entry.Price
	}
	return total
}
