package generator

import (
	"fmt"
	"strings"
	"time"

	"migration-reconciler/core/reconcile"
	"migration-reconciler/feature/clients/models"

	"cloud.google.com/go/civil"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
)

// AnomalyKind names a change applied to a target record.
type AnomalyKind string

const (
	// AnomalyStatusChange moves the account to a different status.
	AnomalyStatusChange AnomalyKind = "status_change"
	// AnomalyDroppedRecord removes the record from the target.
	AnomalyDroppedRecord AnomalyKind = "dropped_record"
	// AnomalyPhoneFormat rewrites the phone number as (###) ###-####.
	AnomalyPhoneFormat AnomalyKind = "phone_format"
	// AnomalyEmailCorruption replaces "@" with "_at_" in the email.
	AnomalyEmailCorruption AnomalyKind = "email_corruption"
)

var anomalyKinds = []string{
	string(AnomalyStatusChange),
	string(AnomalyDroppedRecord),
	string(AnomalyPhoneFormat),
	string(AnomalyEmailCorruption),
}

const (
	minLifetimeValue = 100
	maxLifetimeValue = 5000
	historyYears     = 5
)

// Options are the parameters of one generation run.
type Options struct {
	Records int
	Rate    float64
	StartID int64
	Seed    uint64
	// Now anchors registration dates. Zero means the current time.
	Now time.Time
}

// OptionsFromConfig converts configuration into run options.
func OptionsFromConfig(cfg Config) Options {
	return Options{Records: cfg.Records, Rate: cfg.Rate, StartID: cfg.StartID, Seed: cfg.Seed}
}

// Anomaly records one change applied to the target.
type Anomaly struct {
	ClientID int64       `json:"client_id"`
	Kind     AnomalyKind `json:"kind"`
}

// Result holds the generated snapshots and what was changed between them.
type Result struct {
	Source    []models.Client
	Target    []models.Client
	Anomalies []Anomaly
	// Added lists the ids present only in the target.
	Added []int64
}

// Validate checks the options.
func (o Options) Validate() error {
	if o.Records < 0 {
		return fmt.Errorf("records must not be negative, got %d", o.Records)
	}
	if o.Rate < 0 || o.Rate > 1 {
		return fmt.Errorf("rate must be within [0, 1], got %v", o.Rate)
	}
	return nil
}

// AnomalyCount returns floor(records * rate).
func (o Options) AnomalyCount() int {
	return int(float64(o.Records) * o.Rate)
}

// Generate builds a source snapshot and a target copy with anomalies. The
// same options always produce the same result when Seed and Now are set.
func Generate(opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	f := gofakeit.New(opts.Seed)
	since := now.AddDate(-historyYears, 0, 0)

	source := make([]models.Client, 0, opts.Records)
	for i := 0; i < opts.Records; i++ {
		source = append(source, fakeClient(f, opts.StartID+int64(i), f.RandomString(models.Statuses), since, now))
	}

	target := make([]models.Client, len(source))
	copy(target, source)

	count := opts.AnomalyCount()
	indices := make([]int, len(source))
	for i := range indices {
		indices[i] = i
	}
	f.ShuffleInts(indices)
	picked := indices[:count]

	dropped := make(map[int]struct{})
	anomalies := make([]Anomaly, 0, count)
	for _, idx := range picked {
		kind := AnomalyKind(f.RandomString(anomalyKinds))
		rec := &target[idx]

		switch kind {
		case AnomalyStatusChange:
			rec.AccountStatus = reconcile.StringValue(otherStatus(f, rec.AccountStatus.String()))
		case AnomalyDroppedRecord:
			dropped[idx] = struct{}{}
		case AnomalyPhoneFormat:
			rec.PhoneNumber = reconcile.StringValue(f.Numerify("(###) ###-####"))
		case AnomalyEmailCorruption:
			rec.Email = reconcile.StringValue(strings.ReplaceAll(rec.Email.String(), "@", "_at_"))
		}
		anomalies = append(anomalies, Anomaly{ClientID: rec.ClientID, Kind: kind})
	}

	kept := target[:0]
	for i, rec := range target {
		if _, drop := dropped[i]; !drop {
			kept = append(kept, rec)
		}
	}
	target = kept

	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	added := make([]int64, 0, count/4)
	for i := 0; i < count/4; i++ {
		id := opts.StartID + int64(opts.Records) + int64(i)
		target = append(target, fakeClient(f, id, models.StatusActive, yearStart, now))
		added = append(added, id)
	}

	return &Result{Source: source, Target: target, Anomalies: anomalies, Added: added}, nil
}

func fakeClient(f *gofakeit.Faker, id int64, status string, from, to time.Time) models.Client {
	value := decimal.NewFromFloat(f.Float64Range(minLifetimeValue, maxLifetimeValue)).Round(2)
	return models.Client{
		ClientID:         id,
		FullName:         reconcile.StringValue(f.Name()),
		Email:            reconcile.StringValue(f.Email()),
		PhoneNumber:      reconcile.StringValue(f.Phone()),
		AccountStatus:    reconcile.StringValue(status),
		RegistrationDate: reconcile.DateValue(civil.DateOf(f.DateRange(from, to))),
		LifetimeValue:    reconcile.DecimalValue(value, value.StringFixed(2)),
	}
}

func otherStatus(f *gofakeit.Faker, current string) string {
	others := make([]string, 0, len(models.Statuses)-1)
	for _, s := range models.Statuses {
		if s != current {
			others = append(others, s)
		}
	}
	return f.RandomString(others)
}
