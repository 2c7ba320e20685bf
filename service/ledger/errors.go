package ledger

import "errors"

var (
	// ErrInsufficientFunds rejects Begin when the payment gate refuses the
	// requester. Nothing is allocated on this path.
	ErrInsufficientFunds = errors.New("ledger: insufficient funds")

	// ErrUnknownRequest rejects a fulfillment whose handle matches no open
	// generation request.
	ErrUnknownRequest = errors.New("ledger: unknown request handle")

	// ErrAlreadySeeded rejects a duplicate fulfillment. The stored seed is
	// kept; seeds are write-once.
	ErrAlreadySeeded = errors.New("ledger: item already seeded")

	// ErrSeedNotReady rejects finalization before the randomness callback
	// arrived. Callers retry once the item is seeded.
	ErrSeedNotReady = errors.New("ledger: seed not ready")

	// ErrAlreadyFinalized rejects repeated finalization. The generator and
	// publisher run at most once per item.
	ErrAlreadyFinalized = errors.New("ledger: item already finalized")

	// ErrUnknownItem rejects operations on an item id that was never
	// allocated.
	ErrUnknownItem = errors.New("ledger: unknown item")
)
