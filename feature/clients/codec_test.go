package clients

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"migration-reconciler/core/reconcile"
	"migration-reconciler/feature/clients/models"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHeader = "client_id,full_name,email,phone_number,account_status,registration_date,lifetime_value"

func csvOf(rows ...string) string {
	return testHeader + "\n" + strings.Join(rows, "\n") + "\n"
}

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	codec, err := NewCodec(",")
	require.NoError(t, err)
	return codec
}

func TestCodec_Decode(t *testing.T) {
	codec := newTestCodec(t)
	input := csvOf(
		"100,Ada Lovelace,ada@example.com,555-0100,Active,2023-04-09,4999.90",
		"101,Alan Turing,,555-0101,Pending Review,,",
	)

	ds, err := codec.Decode(strings.NewReader(input), reconcile.SideSource, "mem")
	require.NoError(t, err)

	assert.Equal(t, "mem", ds.Location)
	assert.Equal(t, strings.Split(testHeader, ","), ds.Columns)
	require.Len(t, ds.Records, 2)
	assert.Empty(t, ds.Issues)

	ada := ds.Records[0]
	assert.Equal(t, int64(100), ada.ClientID)
	assert.Equal(t, "Ada Lovelace", ada.FullName.String())
	d, ok := ada.RegistrationDate.Date()
	require.True(t, ok)
	assert.Equal(t, civil.Date{Year: 2023, Month: 4, Day: 9}, d)
	n, ok := ada.LifetimeValue.Decimal()
	require.True(t, ok)
	assert.True(t, n.Equal(decimal.RequireFromString("4999.9")))
	assert.Equal(t, "4999.90", ada.LifetimeValue.String())

	alan := ds.Records[1]
	assert.True(t, alan.Email.IsNull())
	assert.True(t, alan.RegistrationDate.IsNull())
	assert.True(t, alan.LifetimeValue.IsNull())
	assert.Equal(t, models.StatusPendingReview, alan.AccountStatus.String())
}

func TestCodec_DecodeDateLayouts(t *testing.T) {
	codec := newTestCodec(t)
	want := civil.Date{Year: 2023, Month: 4, Day: 9}

	for _, raw := range []string{"2023-04-09", "2023/04/09", "04/09/2023", "2023-04-09T10:11:12Z", "2023-04-09 10:11:12"} {
		t.Run(raw, func(t *testing.T) {
			ds, err := codec.Decode(strings.NewReader(csvOf("100,A,a@x.io,1,Active,"+raw+",1")), reconcile.SideSource, "mem")
			require.NoError(t, err)
			require.Empty(t, ds.Issues)
			got, ok := ds.Records[0].RegistrationDate.Date()
			require.True(t, ok)
			assert.Equal(t, want, got)
		})
	}
}

func TestCodec_DecodeDateOffsetUsesUTC(t *testing.T) {
	codec := newTestCodec(t)

	source, err := codec.Decode(strings.NewReader(csvOf("100,A,a@x.io,1,Active,2024-01-15T23:30:00-05:00,1")), reconcile.SideSource, "mem")
	require.NoError(t, err)
	target, err := codec.Decode(strings.NewReader(csvOf("100,A,a@x.io,1,Active,2024-01-16T04:30:00Z,1")), reconcile.SideTarget, "mem")
	require.NoError(t, err)

	got, ok := source.Records[0].RegistrationDate.Date()
	require.True(t, ok)
	assert.Equal(t, civil.Date{Year: 2024, Month: 1, Day: 16}, got)
	assert.True(t, source.Records[0].RegistrationDate.Equal(target.Records[0].RegistrationDate))
}

func TestCodec_DecodeCoercionIssues(t *testing.T) {
	codec := newTestCodec(t)
	input := csvOf(
		"100,A,a@x.io,1,Suspended,someday,lots",
	)

	ds, err := codec.Decode(strings.NewReader(input), reconcile.SideTarget, "mem")
	require.NoError(t, err)
	require.Len(t, ds.Records, 1)
	require.Len(t, ds.Issues, 3)

	rec := ds.Records[0]
	assert.Equal(t, reconcile.KindRaw, rec.AccountStatus.Kind())
	assert.Equal(t, "Suspended", rec.AccountStatus.String())
	assert.Equal(t, reconcile.KindRaw, rec.RegistrationDate.Kind())
	assert.Equal(t, reconcile.KindRaw, rec.LifetimeValue.Kind())

	issue := ds.Issues[0]
	assert.Equal(t, reconcile.SideTarget, issue.Side)
	assert.Equal(t, 2, issue.Line)
	assert.Equal(t, "100", issue.Key)
	assert.Equal(t, models.FieldAccountStatus, issue.Field)
	assert.Equal(t, "Suspended", issue.Raw)
	assert.ErrorIs(t, issue, reconcile.ErrCoercion)
	assert.Equal(t, models.FieldRegistrationDate, ds.Issues[1].Field)
	assert.Equal(t, models.FieldLifetimeValue, ds.Issues[2].Field)
}

func TestCodec_DecodeBadKeyAborts(t *testing.T) {
	codec := newTestCodec(t)
	input := csvOf(
		"100,A,a@x.io,1,Active,2023-01-01,1",
		"x1,B,b@x.io,2,Active,2023-01-01,2",
	)

	_, err := codec.Decode(strings.NewReader(input), reconcile.SideSource, "mem")
	require.Error(t, err)

	var coercion *reconcile.CoercionError
	require.True(t, errors.As(err, &coercion))
	assert.Equal(t, models.FieldClientID, coercion.Field)
	assert.Equal(t, "x1", coercion.Raw)
	assert.Equal(t, 3, coercion.Line)
}

func TestCodec_DecodeEmptyInput(t *testing.T) {
	codec := newTestCodec(t)

	_, err := codec.Decode(strings.NewReader(""), reconcile.SideSource, "mem")

	var schema *reconcile.SchemaMismatchError
	require.True(t, errors.As(err, &schema))
	assert.Equal(t, reconcile.SideSource, schema.Side)
	assert.Len(t, schema.Missing, 7)
}

func TestCodec_DecodeHeaderOnly(t *testing.T) {
	codec := newTestCodec(t)

	ds, err := codec.Decode(strings.NewReader(testHeader+"\n"), reconcile.SideTarget, "mem")
	require.NoError(t, err)
	assert.Empty(t, ds.Records)
	assert.Len(t, ds.Columns, 7)
}

func TestCodec_DecodeRaggedRow(t *testing.T) {
	codec := newTestCodec(t)

	_, err := codec.Decode(strings.NewReader(csvOf("100,A,a@x.io")), reconcile.SideSource, "mem")
	assert.ErrorIs(t, err, csv.ErrFieldCount)
}

func TestCodec_DecodeStripsBOM(t *testing.T) {
	codec := newTestCodec(t)

	ds, err := codec.Decode(strings.NewReader("\ufeff"+csvOf("100,A,a@x.io,1,Active,2023-01-01,1")), reconcile.SideSource, "mem")
	require.NoError(t, err)
	assert.Equal(t, models.FieldClientID, ds.Columns[0])
	assert.Equal(t, int64(100), ds.Records[0].ClientID)
}

func TestCodec_Delimiter(t *testing.T) {
	codec, err := NewCodec(";")
	require.NoError(t, err)

	input := strings.ReplaceAll(testHeader, ",", ";") + "\n100;A;a@x.io;1;Active;2023-01-01;1,5\n"
	ds, err := codec.Decode(strings.NewReader(input), reconcile.SideSource, "mem")
	require.NoError(t, err)
	require.Len(t, ds.Records, 1)
	// A decimal comma is not a decimal number.
	require.Len(t, ds.Issues, 1)
	assert.Equal(t, models.FieldLifetimeValue, ds.Issues[0].Field)

	_, err = NewCodec("ab")
	assert.Error(t, err)
	_, err = NewCodec(`"`)
	assert.Error(t, err)
}

func TestCodec_EncodeReport(t *testing.T) {
	codec := newTestCodec(t)
	report := &reconcile.Report{Entries: []reconcile.Entry{
		{
			Key:    100,
			Type:   reconcile.ValueMismatch,
			Field:  models.FieldEmail,
			Source: reconcile.StringValue("a@x.io, jr"),
			Target: reconcile.NullValue(reconcile.KindString),
		},
		{
			Key:    101,
			Type:   reconcile.RecordMissingInTarget,
			Field:  reconcile.FieldNotApplicable,
			Source: reconcile.SentinelValue(reconcile.RecordExists),
			Target: reconcile.SentinelValue(reconcile.RecordAbsent),
		},
	}}

	var buf bytes.Buffer
	require.NoError(t, codec.EncodeReport(&buf, report))

	want := "client_id,discrepancy_type,field,source_value,target_value\n" +
		"100,Value Mismatch,email,\"a@x.io, jr\",\n" +
		"101,Record Missing in Target,N/A,Record Exists,NULL\n"
	assert.Equal(t, want, buf.String())
}

func TestCodec_EncodeDatasetRoundTrip(t *testing.T) {
	codec := newTestCodec(t)
	input := csvOf(
		"100,Ada Lovelace,ada@example.com,555-0100,Active,2023-04-09,4999.90",
		"101,Alan Turing,,555-0101,Inactive,2020-02-29,100.00",
	)
	original, err := codec.Decode(strings.NewReader(input), reconcile.SideSource, "mem")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, codec.EncodeDataset(&buf, original.Records))
	assert.Equal(t, input, buf.String())

	decoded, err := codec.Decode(&buf, reconcile.SideTarget, "mem")
	require.NoError(t, err)

	report, err := reconcile.ReconcileAll[models.Client](NewAdapter(), original, decoded, reconcile.Options{})
	require.NoError(t, err)
	assert.True(t, report.Empty())
}
