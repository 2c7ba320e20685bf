// Package progress keeps aggregated mint counters for a running issuance
// engine.  The tracker travels inside the context so every component that
// receives the context can update the counters without a global registry,
// and observers can subscribe to changes via a callback.
package progress
