package entropy

import (
	"time"

	"github.com/glyphmint/glyphmint/model/seed"
)

// Fulfillment is the randomness callback, delivered as a queue message so
// provider latency never blocks ledger callers. Signature authenticates
// handle and seed against the shared provider key.
type Fulfillment struct {
	Handle    string    `json:"handle"`
	Seed      seed.Seed `json:"seed"`
	Signature []byte    `json:"signature"`
	IssuedAt  time.Time `json:"issuedAt"`
}
