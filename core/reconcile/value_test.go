package reconcile

import (
	"encoding/json"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_Equal(t *testing.T) {
	date := civil.Date{Year: 2023, Month: 4, Day: 9}

	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"both null", NullValue(KindString), NullValue(KindString), true},
		{"both null different kinds", NullValue(KindDate), NullValue(KindDecimal), true},
		{"left null", NullValue(KindString), StringValue("x"), false},
		{"right null", StringValue("x"), NullValue(KindString), false},
		{"empty string is not null", StringValue(""), NullValue(KindString), false},
		{"same text", StringValue("Active"), StringValue("Active"), true},
		{"text is case sensitive", StringValue("Active"), StringValue("active"), false},
		{"text keeps whitespace", StringValue("Active"), StringValue("Active "), false},
		{"same date", DateValue(date), DateValue(date), true},
		{"different date", DateValue(date), DateValue(date.AddDays(1)), false},
		{"decimal trailing zero", DecimalValue(decimal.RequireFromString("100.50"), "100.50"), DecimalValue(decimal.RequireFromString("100.5"), "100.5"), true},
		{"decimal no epsilon", DecimalValue(decimal.RequireFromString("100.50"), ""), DecimalValue(decimal.RequireFromString("100.5000001"), ""), false},
		{"raw vs typed", RawValue("2023-04-09"), DateValue(date), false},
		{"raw vs raw", RawValue("not a date"), RawValue("not a date"), true},
		{"string vs raw same text", StringValue("x"), RawValue("x"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Equal(tt.b))
			assert.Equal(t, tt.want, tt.b.Equal(tt.a), "equality must be symmetric")
		})
	}
}

func TestValue_String(t *testing.T) {
	assert.Equal(t, "", NullValue(KindDate).String())
	assert.Equal(t, "2021-01-02", DateValue(civil.Date{Year: 2021, Month: 1, Day: 2}).String())
	assert.Equal(t, "4999.90", DecimalValue(decimal.RequireFromString("4999.9"), "4999.90").String())
	assert.Equal(t, "4999.9", DecimalValue(decimal.RequireFromString("4999.90"), "").String())
	assert.Equal(t, "Record Exists", SentinelValue(RecordExists).String())
}

func TestValue_Accessors(t *testing.T) {
	d, ok := DateValue(civil.Date{Year: 2020, Month: 2, Day: 29}).Date()
	assert.True(t, ok)
	assert.Equal(t, 29, d.Day)

	_, ok = NullValue(KindDate).Date()
	assert.False(t, ok)

	n, ok := DecimalValue(decimal.NewFromInt(7), "").Decimal()
	assert.True(t, ok)
	assert.True(t, n.Equal(decimal.NewFromInt(7)))

	_, ok = StringValue("7").Decimal()
	assert.False(t, ok)
}

func TestValue_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(Entry{
		Key:    7,
		Type:   ValueMismatch,
		Field:  "email",
		Source: StringValue("a@x.io"),
		Target: NullValue(KindString),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"client_id":7,"discrepancy_type":"Value Mismatch","field":"email","source_value":"a@x.io","target_value":null}`, string(out))
}
