package reconcile

// Side names one of the two datasets under reconciliation.
type Side string

const (
	// SideSource is the pre-migration snapshot.
	SideSource Side = "source"
	// SideTarget is the post-migration snapshot.
	SideTarget Side = "target"
)

// DiscrepancyType classifies a report entry.
type DiscrepancyType string

const (
	// RecordMissingInTarget means the key exists only in the source.
	RecordMissingInTarget DiscrepancyType = "Record Missing in Target"
	// RecordMissingInSource means the key exists only in the target.
	RecordMissingInSource DiscrepancyType = "Record Missing in Source"
	// ValueMismatch means a comparison field differs between both sides.
	ValueMismatch DiscrepancyType = "Value Mismatch"
	// DuplicateKeyInSource marks a repeated occurrence of a key in the source.
	DuplicateKeyInSource DiscrepancyType = "Duplicate Key in Source"
	// DuplicateKeyInTarget marks a repeated occurrence of a key in the target.
	DuplicateKeyInTarget DiscrepancyType = "Duplicate Key in Target"
)

// Report markers used in place of real values for record-level entries.
const (
	FieldNotApplicable = "N/A"
	RecordExists       = "Record Exists"
	RecordAbsent       = "NULL"
	DuplicateRecord    = "Duplicate Record"
)

// Entry is one reported discrepancy, scoped to a single key and, for value
// mismatches, a single field.
type Entry struct {
	// Key is the record key the entry belongs to.
	Key int64 `json:"client_id"`

	// Type classifies the discrepancy.
	Type DiscrepancyType `json:"discrepancy_type"`

	// Field is the comparison field name, or N/A for record-level entries.
	Field string `json:"field"`

	// Source is the source-side value or marker.
	Source Value `json:"source_value"`

	// Target is the target-side value or marker.
	Target Value `json:"target_value"`
}

// Report is the terminal artifact of a reconciliation run.
type Report struct {
	// Entries contains every discrepancy ordered by key, then field position.
	Entries []Entry `json:"entries"`

	// Summary provides aggregate counts.
	Summary Summary `json:"summary"`
}

// Empty reports whether the run found no discrepancies.
func (r *Report) Empty() bool {
	return r == nil || len(r.Entries) == 0
}

// Summary provides aggregate statistics for a report.
type Summary struct {
	// TotalKeys is the number of distinct keys across both datasets.
	TotalKeys int `json:"total_keys"`

	// MatchedKeys counts keys present on both sides with no differing field.
	MatchedKeys int `json:"matched_keys"`

	// MissingInTarget counts keys present only in the source.
	MissingInTarget int `json:"missing_in_target"`

	// MissingInSource counts keys present only in the target.
	MissingInSource int `json:"missing_in_source"`

	// MismatchedKeys counts keys with at least one differing field.
	MismatchedKeys int `json:"mismatched_keys"`

	// ValueMismatches counts Value Mismatch entries.
	ValueMismatches int `json:"value_mismatches"`

	// Duplicates counts duplicate-key entries on either side.
	Duplicates int `json:"duplicates"`

	// FieldMismatches counts Value Mismatch entries per field.
	FieldMismatches map[string]int `json:"field_mismatches"`
}

// Dataset is one loaded snapshot.
type Dataset[R any] struct {
	// Location describes where the dataset was loaded from.
	Location string

	// Columns is the header the dataset was loaded with. An empty slice means
	// the dataset was built in memory and carries the adapter's full schema.
	Columns []string

	// Records holds the rows in load order.
	Records []R

	// Issues lists the cells that could not be coerced while loading. The
	// affected values are kept raw in Records.
	Issues []*CoercionError
}

// Alignment pairs the records found for one key. A nil pointer means the key
// is absent on that side.
type Alignment[R any] struct {
	Key    int64
	Source *R
	Target *R

	// SourceDuplicates and TargetDuplicates count occurrences of the key after
	// the first one.
	SourceDuplicates int
	TargetDuplicates int
}

// DuplicatePolicy decides what happens to a key seen more than once within a
// single dataset.
type DuplicatePolicy string

const (
	// DuplicatesReport aligns the first occurrence and reports every further
	// occurrence as a duplicate entry.
	DuplicatesReport DuplicatePolicy = "report"
	// DuplicatesReject fails the run on the first duplicate key.
	DuplicatesReject DuplicatePolicy = "reject"
)

// Valid reports whether p is a known policy. The empty policy is valid and
// behaves as DuplicatesReport.
func (p DuplicatePolicy) Valid() bool {
	switch p {
	case "", DuplicatesReport, DuplicatesReject:
		return true
	default:
		return false
	}
}

// Options controls engine behavior.
type Options struct {
	// Duplicates selects the duplicate-key policy.
	Duplicates DuplicatePolicy
}
