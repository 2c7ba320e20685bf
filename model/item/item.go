// Package item defines the ledger rows: the issued item and the open
// generation request that correlates a randomness handle with it.
package item

import (
	"time"

	"github.com/glyphmint/glyphmint/model/seed"
)

// State captures the item lifecycle. Transitions only move forward:
// requested -> seeded -> finalized.
type State string

const (
	// StateRequested means the item exists and waits for its randomness callback.
	StateRequested State = "requested"

	// StateSeeded means the randomness callback delivered the seed.
	StateSeeded State = "seeded"

	// StateFinalized means content was generated and published.
	StateFinalized State = "finalized"
)

// Item is one issued collectible. Seed and ContentLocator are write-once:
// the seed is set by the fulfillment path, the locator by finalization, and
// neither changes afterwards.
type Item struct {
	ID             uint64     `json:"id"`
	State          State      `json:"state"`
	Seed           seed.Seed  `json:"seed"`
	ContentLocator string     `json:"contentLocator,omitempty"`
	RequestedAt    time.Time  `json:"requestedAt"`
	SeededAt       *time.Time `json:"seededAt,omitempty"`
	FinalizedAt    *time.Time `json:"finalizedAt,omitempty"`
}

// Clone returns a deep copy.
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	result := *i
	if i.SeededAt != nil {
		seededAt := *i.SeededAt
		result.SeededAt = &seededAt
	}
	if i.FinalizedAt != nil {
		finalizedAt := *i.FinalizedAt
		result.FinalizedAt = &finalizedAt
	}
	return &result
}

// Seeded reports whether the seed was already delivered.
func (i *Item) Seeded() bool {
	return i.State == StateSeeded || i.State == StateFinalized
}

// Finalized reports whether content was already generated and published.
func (i *Item) Finalized() bool {
	return i.State == StateFinalized
}

// Record correlates a randomness request handle with the item it was opened
// for. Handles are opaque and never reused, so the mapping is immutable.
type Record struct {
	Handle    string    `json:"handle"`
	Requester string    `json:"requester,omitempty"`
	ItemID    uint64    `json:"itemId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Clone returns a copy.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	result := *r
	return &result
}
