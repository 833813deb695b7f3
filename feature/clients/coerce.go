package clients

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"migration-reconciler/core/reconcile"
	"migration-reconciler/feature/clients/models"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

var (
	errUnknownStatus = errors.New("unknown account status")
	errBadDate       = errors.New("not a calendar date")
	errBadDecimal    = errors.New("not a decimal number")
)

// dateLayouts are tried in order when parsing registration dates.
var dateLayouts = []string{
	time.DateOnly,
	"2006/01/02",
	"01/02/2006",
	time.RFC3339,
	time.DateTime,
	"2006-01-02T15:04:05",
}

// setField stores the coerced raw text of column name into c. Unknown
// columns are ignored. An empty cell is null. A cell that fails coercion is
// stored raw and the failure returned.
func setField(c *models.Client, name, raw string) error {
	switch name {
	case models.FieldFullName:
		c.FullName = stringValue(raw)
	case models.FieldEmail:
		c.Email = stringValue(raw)
	case models.FieldPhoneNumber:
		c.PhoneNumber = stringValue(raw)
	case models.FieldAccountStatus:
		v, err := coerceStatus(raw)
		c.AccountStatus = v
		return err
	case models.FieldRegistrationDate:
		v, err := coerceDate(raw)
		c.RegistrationDate = v
		return err
	case models.FieldLifetimeValue:
		v, err := coerceDecimal(raw)
		c.LifetimeValue = v
		return err
	}
	return nil
}

// emptyClient returns a client whose fields are all typed nulls.
func emptyClient(id int64) models.Client {
	return models.Client{
		ClientID:         id,
		FullName:         reconcile.NullValue(reconcile.KindString),
		Email:            reconcile.NullValue(reconcile.KindString),
		PhoneNumber:      reconcile.NullValue(reconcile.KindString),
		AccountStatus:    reconcile.NullValue(reconcile.KindString),
		RegistrationDate: reconcile.NullValue(reconcile.KindDate),
		LifetimeValue:    reconcile.NullValue(reconcile.KindDecimal),
	}
}

func stringValue(raw string) reconcile.Value {
	if raw == "" {
		return reconcile.NullValue(reconcile.KindString)
	}
	return reconcile.StringValue(raw)
}

func coerceStatus(raw string) (reconcile.Value, error) {
	if raw == "" {
		return reconcile.NullValue(reconcile.KindString), nil
	}
	if !models.IsValidStatus(raw) {
		return reconcile.RawValue(raw), fmt.Errorf("%w: want one of %s", errUnknownStatus, strings.Join(models.Statuses, ", "))
	}
	return reconcile.StringValue(raw), nil
}

func coerceDate(raw string) (reconcile.Value, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return reconcile.NullValue(reconcile.KindDate), nil
	}
	// Timestamps with an offset take their calendar day in UTC.
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return reconcile.DateValue(civil.DateOf(t.UTC())), nil
		}
	}
	return reconcile.RawValue(raw), errBadDate
}

func coerceDecimal(raw string) (reconcile.Value, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return reconcile.NullValue(reconcile.KindDecimal), nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return reconcile.RawValue(raw), errBadDecimal
	}
	return reconcile.DecimalValue(d, s), nil
}
