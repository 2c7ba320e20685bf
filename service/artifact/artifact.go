// Package artifact defines the publishing collaborator that turns generated
// markup into a retrievable content locator. Vendors live in subpackages.
package artifact

import "context"

// Publisher stores or encodes generated markup and returns its locator.
type Publisher interface {
	// Publish makes markup of itemID retrievable and returns the locator.
	Publish(ctx context.Context, itemID uint64, markup []byte) (string, error)
}
