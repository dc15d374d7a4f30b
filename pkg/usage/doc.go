// Package usage implements the concurrent usage aggregation layer of
// Ganymede.
//
// The Store maintains running totals (calls, tokens, cost, latency) per
// (date, provider, model) key. It is written from every completed gateway
// request and read by the analytics engine, so writes are designed for high
// fan-in: each counter is a lock-free atomic and aggregates are created
// lazily with a single LoadOrStore.
//
// Cost is accumulated in integer micro-dollars to avoid floating-point
// summation drift across millions of increments; the dollar value is derived
// only when a snapshot is formatted.
//
// The package also provides the feedback recorder, which stores per-request
// quality scores through a pluggable backend (in-memory or SQLite).
package usage
