// Package entropy defines the randomness provider contract: how seed
// generation is requested and how signed fulfillments come back. The wire
// protocol of a concrete provider is out of scope; only the correlation
// handle and the fulfillment message shape are fixed here.
package entropy

import (
	"context"
)

// RequestParams carries per request knobs for the provider.
type RequestParams struct {
	// Requester is the party the request is made for, audit only.
	Requester string

	// Fee is the provider fee the caller is prepared to pay, in provider
	// units. Zero means the provider default.
	Fee uint64
}

// Provider accepts randomness requests. Request returns synchronously with an
// opaque handle that is unique forever; the seed arrives later as a signed
// Fulfillment on the fulfillment queue. There is no delivery deadline.
type Provider interface {
	Request(ctx context.Context, params RequestParams) (string, error)
}
