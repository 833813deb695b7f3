package models

import (
	"time"

	"migration-reconciler/core/reconcile"
)

// Column names of the client schema.
const (
	FieldClientID         = "client_id"
	FieldFullName         = "full_name"
	FieldEmail            = "email"
	FieldPhoneNumber      = "phone_number"
	FieldAccountStatus    = "account_status"
	FieldRegistrationDate = "registration_date"
	FieldLifetimeValue    = "lifetime_value"
)

// Account statuses.
const (
	StatusActive        = "Active"
	StatusInactive      = "Inactive"
	StatusPendingReview = "Pending Review"
)

// Statuses lists every valid account status.
var Statuses = []string{StatusActive, StatusInactive, StatusPendingReview}

// IsValidStatus reports whether s is a known account status.
func IsValidStatus(s string) bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

// Client is one record of the client dataset.
type Client struct {
	ClientID         int64           `json:"client_id"`
	FullName         reconcile.Value `json:"full_name"`
	Email            reconcile.Value `json:"email"`
	PhoneNumber      reconcile.Value `json:"phone_number"`
	AccountStatus    reconcile.Value `json:"account_status"`
	RegistrationDate reconcile.Value `json:"registration_date"`
	LifetimeValue    reconcile.Value `json:"lifetime_value"`
}

// ClientRow is the database shape of a Client. The table name is chosen at
// runtime from the db:// location.
type ClientRow struct {
	ClientID         int64   `gorm:"column:client_id"`
	FullName         *string `gorm:"column:full_name;size:255"`
	Email            *string `gorm:"column:email;size:255"`
	PhoneNumber      *string `gorm:"column:phone_number;size:64"`
	AccountStatus    *string `gorm:"column:account_status;size:32"`
	RegistrationDate *string `gorm:"column:registration_date;type:date"`
	LifetimeValue    *string `gorm:"column:lifetime_value;type:decimal(12,2)"`
}

// DiscrepancyRow is the database shape of one report entry.
type DiscrepancyRow struct {
	ID              uint      `gorm:"primaryKey"`
	RunID           string    `gorm:"column:run_id;size:36"`
	ClientID        int64     `gorm:"column:client_id"`
	DiscrepancyType string    `gorm:"column:discrepancy_type;size:64"`
	Field           string    `gorm:"column:field;size:64"`
	SourceValue     *string   `gorm:"column:source_value;size:255"`
	TargetValue     *string   `gorm:"column:target_value;size:255"`
	CreatedAt       time.Time `gorm:"column:created_at"`
}

// NewClientRow converts a Client into its database shape. Null values become
// SQL NULL.
func NewClientRow(c Client) ClientRow {
	return ClientRow{
		ClientID:         c.ClientID,
		FullName:         nullable(c.FullName),
		Email:            nullable(c.Email),
		PhoneNumber:      nullable(c.PhoneNumber),
		AccountStatus:    nullable(c.AccountStatus),
		RegistrationDate: nullable(c.RegistrationDate),
		LifetimeValue:    nullable(c.LifetimeValue),
	}
}

// NewDiscrepancyRow converts a report entry into its database shape.
func NewDiscrepancyRow(runID string, e reconcile.Entry) DiscrepancyRow {
	return DiscrepancyRow{
		RunID:           runID,
		ClientID:        e.Key,
		DiscrepancyType: string(e.Type),
		Field:           e.Field,
		SourceValue:     nullable(e.Source),
		TargetValue:     nullable(e.Target),
	}
}

func nullable(v reconcile.Value) *string {
	if v.IsNull() {
		return nil
	}
	s := v.String()
	return &s
}
