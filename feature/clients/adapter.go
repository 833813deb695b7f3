package clients

import (
	"migration-reconciler/core/reconcile"
	"migration-reconciler/feature/clients/models"
)

// Adapter describes the client schema to the reconciliation engine.
type Adapter struct{}

// NewAdapter creates the client adapter.
func NewAdapter() *Adapter {
	return &Adapter{}
}

// Name returns the adapter name.
func (a *Adapter) Name() string {
	return "clients"
}

// KeyField returns the key column.
func (a *Adapter) KeyField() string {
	return models.FieldClientID
}

// Key returns the client id.
func (a *Adapter) Key(c models.Client) int64 {
	return c.ClientID
}

// Fields returns the comparison fields in report order.
func (a *Adapter) Fields() []reconcile.Field[models.Client] {
	return []reconcile.Field[models.Client]{
		{Name: models.FieldFullName, Value: func(c models.Client) reconcile.Value { return c.FullName }},
		{Name: models.FieldEmail, Value: func(c models.Client) reconcile.Value { return c.Email }},
		{Name: models.FieldPhoneNumber, Value: func(c models.Client) reconcile.Value { return c.PhoneNumber }},
		{Name: models.FieldAccountStatus, Value: func(c models.Client) reconcile.Value { return c.AccountStatus }},
		{Name: models.FieldRegistrationDate, Value: func(c models.Client) reconcile.Value { return c.RegistrationDate }},
		{Name: models.FieldLifetimeValue, Value: func(c models.Client) reconcile.Value { return c.LifetimeValue }},
	}
}

// Columns returns the full client schema, key first.
func (a *Adapter) Columns() []string {
	return reconcile.Columns[models.Client](a)
}
