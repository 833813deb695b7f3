// Package metrics exposes Prometheus collectors for reconciliation runs.
//
// All collectors live on a private registry so the /metrics endpoint only
// reports reconciler series. Runs are counted by outcome, discrepancies by
// type, and the size of each loaded dataset is kept as a gauge.
package metrics
