// Package generator produces synthetic client snapshots for exercising the
// reconciler.
//
// Generate builds a source snapshot of fake clients and a target copy in which
// floor(records * rate) distinct clients receive one anomaly each: a status
// change, a dropped record, a reformatted phone number or a corrupted email.
// A quarter of that count is added as clients that exist only in the target.
// The returned Result lists every anomaly so callers can predict the report.
//
// # Usage
//
//	result, err := generator.Generate(generator.Options{Records: 1000, Rate: 0.1, StartID: 100, Seed: 42})
package generator
