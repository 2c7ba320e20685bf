// Package notify is the typed notification bus. The ledger announces request,
// seeding and finalization milestones on well-known topics; consumers
// subscribe per payload type or globally.
package notify

import (
	"time"

	"github.com/glyphmint/glyphmint/model/seed"
)

// Topics announced by the ledger.
const (
	// TopicRequested fires when a generation request was admitted.
	TopicRequested = "glyph.requested"

	// TopicSeeded fires when the randomness callback delivered a seed.
	TopicSeeded = "seed.received"

	// TopicFinalized fires when content was generated and published.
	TopicFinalized = "glyph.finalized"
)

// Requested is the TopicRequested payload.
type Requested struct {
	Handle string `json:"handle"`
	ItemID uint64 `json:"itemId"`
}

// Seeded is the TopicSeeded payload.
type Seeded struct {
	Handle string    `json:"handle"`
	ItemID uint64    `json:"itemId"`
	Seed   seed.Seed `json:"seed"`
}

// Finalized is the TopicFinalized payload.
type Finalized struct {
	ItemID         uint64 `json:"itemId"`
	ContentLocator string `json:"contentLocator"`
}

// Event is the envelope notifications travel in.
type Event[T any] struct {
	Topic     string                 `json:"topic"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Data      T                      `json:"data"`
}

// NewEvent builds an envelope for the given topic.
func NewEvent[T any](topic string, data T) *Event[T] {
	return &Event[T]{
		Topic:     topic,
		CreatedAt: time.Now(),
		Metadata:  make(map[string]interface{}),
		Data:      data,
	}
}
