// Package clients implements reconciliation of client snapshots taken before
// and after a migration.
//
// Snapshots are keyed by client_id and loaded from one of three backends,
// selected by the location string:
//  1. Files: a plain path or file://path holding delimited text.
//  2. Object storage (S3/MinIO): s3://bucket/object.
//  3. Database: db://table in the configured MySQL or SQLite database.
//
// # Reconcile Adapter
//
// This package describes the client schema to the `core/reconcile` engine via
// Adapter. Cells are coerced to their field kinds while loading; a cell that
// cannot be coerced is kept raw and reported as an issue, while a malformed
// client_id aborts the load.
//
// # Components
//
//   - Codec: Reads datasets and writes reports as delimited text.
//   - Store: Resolves locations and moves bytes or rows to and from backends.
//   - Service: Orchestrates runs, caching and metrics.
//   - Handler: Exposes HTTP endpoints for reconciliation.
//   - Loader: Registers the feature with the application.
//
// # HTTP Endpoints
//
//   - GET /reconcile : Full report for a source/target pair.
//   - GET /reconcile/clients/:id : Entries for one client.
//   - POST /reconcile/upload : Report for two uploaded files, as CSV.
package clients
