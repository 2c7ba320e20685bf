// Package glyphmint provides an embeddable engine that issues procedurally
// generated collectible glyphs from verifiable randomness.
//
// Issuance is a two phase protocol: a request admits payment and asks the
// randomness provider for a seed, the provider's signed callback seeds the
// item asynchronously, and anybody may then finalize it, expanding the seed
// deterministically into SVG content and publishing it. The engine comes with
// pluggable service layers such as:
//
//   - ledger    – request/seed/finalize state machine and fulfillment dispatcher
//   - genart    – deterministic seed to SVG expansion
//   - entropy   – randomness provider contract with signed fulfillments
//   - artifact  – content publishing (data URI or file store)
//   - registry  – ownership assignment on callback
//
// Glyphmint is designed to be embedded in host applications. End-users
// typically interact with the engine via the high-level Service façade
// exposed by the root package:
//
//	srv, _ := glyphmint.New()
//	rt := srv.Runtime()
//	_ = rt.Start(ctx)
//	handle, _ := rt.Begin(ctx, "alice")
//	record, _ := rt.Record(ctx, handle)
//	locator, _ := rt.Finalize(ctx, record.ItemID)
//
// For more details see the README and individual sub-packages.
package glyphmint
