// Package metrics exposes lazyacme's Prometheus instrumentation.
//
// Collectors live in the default registry and are updated through the small
// helper functions here, so callers never touch label cardinality directly.
package metrics
