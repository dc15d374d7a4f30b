// Package recommendations defines the recommendation model and the
// concurrent store holding the latest analysis results.
//
// Recommendations carry a closed, type-tagged detail variant (cost
// optimization, performance, reliability) instead of an open metadata map,
// so consumers get compile-time exhaustiveness over the payload shapes.
// Identifiers are content-derived and stable across analysis runs; storing
// a recommendation with an existing (date, type, id) key replaces the prior
// entry in place.
package recommendations
