// Package analytics implements Ganymede's recommendation engine.
//
// The engine is a set of stateless analyses over a usage store snapshot:
// cost-opportunity detection, latency-percentile trend analysis, and
// usage-distribution checks. RunAnalysis executes all three, isolates their
// failures from each other, and persists the results into a recommendation
// store with stable content-derived ids so repeated runs overwrite rather
// than accumulate.
//
// The engine also answers on-demand queries: constrained provider selection
// for a model, cheaper model alternatives for a (provider, model) pair, and
// the daily usage report.
//
// RunAnalysis is single-flighted; concurrent callers share the in-flight
// run's result instead of starting a duplicate pass. The engine owns no
// persistent state of its own.
package analytics
