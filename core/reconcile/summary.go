package reconcile

// buildSummary aggregates counts over alignments and their entries.
func buildSummary[R any](alignments []Alignment[R], entries []Entry) Summary {
	summary := Summary{
		TotalKeys:       len(alignments),
		FieldMismatches: make(map[string]int),
	}

	mismatchedKeys := make(map[int64]struct{})

	for _, e := range entries {
		switch e.Type {
		case RecordMissingInTarget:
			summary.MissingInTarget++
		case RecordMissingInSource:
			summary.MissingInSource++
		case ValueMismatch:
			summary.ValueMismatches++
			summary.FieldMismatches[e.Field]++
			mismatchedKeys[e.Key] = struct{}{}
		case DuplicateKeyInSource, DuplicateKeyInTarget:
			summary.Duplicates++
		}
	}
	summary.MismatchedKeys = len(mismatchedKeys)

	for _, a := range alignments {
		if a.Source == nil || a.Target == nil {
			continue
		}
		if _, bad := mismatchedKeys[a.Key]; !bad {
			summary.MatchedKeys++
		}
	}

	return summary
}
