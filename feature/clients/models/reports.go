package models

import "migration-reconciler/core/reconcile"

// Issue describes one cell that could not be coerced to its field type.
type Issue struct {
	Side     string `json:"side"`
	Line     int    `json:"line,omitempty"`
	ClientID string `json:"client_id"`
	Field    string `json:"field"`
	Raw      string `json:"raw"`
	Message  string `json:"message"`
}

// NewIssue converts a coercion error into its API shape.
func NewIssue(err *reconcile.CoercionError) Issue {
	msg := ""
	if err.Err != nil {
		msg = err.Err.Error()
	}
	return Issue{
		Side:     string(err.Side),
		Line:     err.Line,
		ClientID: err.Key,
		Field:    err.Field,
		Raw:      err.Raw,
		Message:  msg,
	}
}

// ReconcileReport is the response of a full comparison.
type ReconcileReport struct {
	RunID   string            `json:"run_id"`
	Source  string            `json:"source"`
	Target  string            `json:"target"`
	Summary reconcile.Summary `json:"summary"`
	Entries []reconcile.Entry `json:"entries"`
	Issues  []Issue           `json:"issues"`
}

// ClientReport is the response of a single-client comparison.
type ClientReport struct {
	ClientID int64             `json:"client_id"`
	Status   string            `json:"status"`
	Entries  []reconcile.Entry `json:"entries"`
}

// Client comparison statuses.
const (
	ClientStatusMatched    = "matched"
	ClientStatusDiffers    = "differs"
	ClientStatusNotPresent = "not_found"
)
