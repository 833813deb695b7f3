package reconcile

import (
	"fmt"
	"slices"
	"sort"
)

// ReconcileAll performs a full reconciliation of source against target.
// It validates both schemas, builds the key alignment, classifies every key
// and returns the ordered report with its summary.
func ReconcileAll[R any](adapter Adapter[R], source, target Dataset[R], opts Options) (*Report, error) {
	if err := ValidateSchema(adapter, source, target); err != nil {
		return nil, err
	}

	alignments, err := Align(adapter, source, target, opts.Duplicates)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0)
	for _, a := range alignments {
		entries = append(entries, Classify(adapter, a)...)
	}

	return &Report{
		Entries: entries,
		Summary: buildSummary(alignments, entries),
	}, nil
}

// ReconcileOne performs a targeted reconciliation for a single key.
// found is false when the key exists in neither dataset.
func ReconcileOne[R any](adapter Adapter[R], source, target Dataset[R], key int64, opts Options) (entries []Entry, found bool, err error) {
	if err := ValidateSchema(adapter, source, target); err != nil {
		return nil, false, err
	}

	alignments, err := Align(adapter, source, target, opts.Duplicates)
	if err != nil {
		return nil, false, err
	}

	i, ok := slices.BinarySearchFunc(alignments, key, func(a Alignment[R], k int64) int {
		switch {
		case a.Key < k:
			return -1
		case a.Key > k:
			return 1
		default:
			return 0
		}
	})
	if !ok {
		return nil, false, nil
	}

	return Classify(adapter, alignments[i]), true, nil
}

// ValidateSchema checks both datasets against the adapter schema.
// Datasets without a column list are assumed to carry the full schema.
func ValidateSchema[R any](adapter Adapter[R], source, target Dataset[R]) error {
	expected := Columns(adapter)
	for _, side := range []struct {
		side Side
		ds   Dataset[R]
	}{{SideSource, source}, {SideTarget, target}} {
		if len(side.ds.Columns) == 0 {
			continue
		}
		missing, unexpected := diffColumns(expected, side.ds.Columns)
		if len(missing) > 0 || len(unexpected) > 0 {
			return &SchemaMismatchError{
				Side:       side.side,
				Missing:    missing,
				Unexpected: unexpected,
			}
		}
	}
	return nil
}

// diffColumns returns expected columns absent from got, and columns of got
// that are not expected or appear more than once.
func diffColumns(expected, got []string) (missing, unexpected []string) {
	want := make(map[string]struct{}, len(expected))
	for _, c := range expected {
		want[c] = struct{}{}
	}

	seen := make(map[string]struct{}, len(got))
	for _, c := range got {
		if _, dup := seen[c]; dup {
			unexpected = append(unexpected, c)
			continue
		}
		seen[c] = struct{}{}
		if _, ok := want[c]; !ok {
			unexpected = append(unexpected, c)
		}
	}

	for _, c := range expected {
		if _, ok := seen[c]; !ok {
			missing = append(missing, c)
		}
	}
	return missing, unexpected
}

// Align builds the full outer join of source and target on the adapter key.
// Alignments are sorted by ascending key. The first occurrence of a key
// within a dataset is aligned; later occurrences are counted, or rejected
// under DuplicatesReject.
func Align[R any](adapter Adapter[R], source, target Dataset[R], policy DuplicatePolicy) ([]Alignment[R], error) {
	if !policy.Valid() {
		return nil, fmt.Errorf("unknown duplicate policy %q", policy)
	}

	index := make(map[int64]*Alignment[R])

	for i := range source.Records {
		rec := &source.Records[i]
		key := adapter.Key(*rec)
		a, exists := index[key]
		if !exists {
			index[key] = &Alignment[R]{Key: key, Source: rec}
			continue
		}
		if policy == DuplicatesReject {
			return nil, &DuplicateKeyError{Side: SideSource, Key: key}
		}
		a.SourceDuplicates++
	}

	for i := range target.Records {
		rec := &target.Records[i]
		key := adapter.Key(*rec)
		a, exists := index[key]
		if !exists {
			a = &Alignment[R]{Key: key}
			index[key] = a
		}
		if a.Target == nil {
			a.Target = rec
			continue
		}
		if policy == DuplicatesReject {
			return nil, &DuplicateKeyError{Side: SideTarget, Key: key}
		}
		a.TargetDuplicates++
	}

	alignments := make([]Alignment[R], 0, len(index))
	for _, a := range index {
		alignments = append(alignments, *a)
	}

	// Sort by key for deterministic output
	sort.Slice(alignments, func(i, j int) bool {
		return alignments[i].Key < alignments[j].Key
	})

	return alignments, nil
}

// Classify turns one alignment into its report entries.
func Classify[R any](adapter Adapter[R], a Alignment[R]) []Entry {
	var entries []Entry

	switch {
	case a.Target == nil:
		entries = append(entries, Entry{
			Key:    a.Key,
			Type:   RecordMissingInTarget,
			Field:  FieldNotApplicable,
			Source: SentinelValue(RecordExists),
			Target: SentinelValue(RecordAbsent),
		})
	case a.Source == nil:
		entries = append(entries, Entry{
			Key:    a.Key,
			Type:   RecordMissingInSource,
			Field:  FieldNotApplicable,
			Source: SentinelValue(RecordAbsent),
			Target: SentinelValue(RecordExists),
		})
	default:
		for _, f := range adapter.Fields() {
			sv := f.Value(*a.Source)
			tv := f.Value(*a.Target)
			if sv.Equal(tv) {
				continue
			}
			entries = append(entries, Entry{
				Key:    a.Key,
				Type:   ValueMismatch,
				Field:  f.Name,
				Source: sv,
				Target: tv,
			})
		}
	}

	for i := 0; i < a.SourceDuplicates; i++ {
		entries = append(entries, Entry{
			Key:    a.Key,
			Type:   DuplicateKeyInSource,
			Field:  FieldNotApplicable,
			Source: SentinelValue(DuplicateRecord),
			Target: SentinelValue(FieldNotApplicable),
		})
	}
	for i := 0; i < a.TargetDuplicates; i++ {
		entries = append(entries, Entry{
			Key:    a.Key,
			Type:   DuplicateKeyInTarget,
			Field:  FieldNotApplicable,
			Source: SentinelValue(FieldNotApplicable),
			Target: SentinelValue(DuplicateRecord),
		})
	}

	return entries
}
