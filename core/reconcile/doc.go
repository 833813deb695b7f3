// Package reconcile provides the reconciliation engine that compares a source
// snapshot of a keyed dataset against a target snapshot taken after a
// migration, and reports every discrepancy between them.
//
// # Architecture
//
// The engine consists of three main components:
//
// 1. Alignment: a full outer join on the integer key. Every distinct key found
// in either dataset yields exactly one Alignment, with an absent side
// represented as a nil record (never a record full of null fields).
//
// 2. Classification: each Alignment becomes zero or more Entries. A missing
// side produces a single record-level entry; when both sides are present every
// comparison field is checked in the adapter's declared order and each
// differing field produces a Value Mismatch entry.
//
// 3. Adapter: model-specific knowledge of the key field, the comparison
// fields and a typed accessor per field. Values are explicit nullable Values
// with a fixed equality rule: both null are equal, one null is a mismatch,
// otherwise values compare by kind (exact text, calendar date, exact decimal).
//
// # Determinism
//
// Entries are ordered by ascending key and, within a key, by the position of
// the field in the adapter's field list. Map iteration order never reaches the
// output, so running twice over the same inputs yields identical reports.
//
// # Usage Example
//
//	adapter := clients.NewAdapter()
//	report, err := reconcile.ReconcileAll(adapter, source, target, reconcile.Options{})
//	if err != nil {
//	    return err
//	}
//	if report.Empty() {
//	    // nothing to write
//	}
//
// The engine performs no I/O and holds no state between runs. Loading datasets
// and writing the report are the caller's business; the Cache type is an
// optional helper for long-running callers that reconcile the same pair of
// inputs repeatedly.
package reconcile
