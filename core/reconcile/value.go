package reconcile

import (
	"encoding/json"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Kind identifies the semantic type carried by a Value.
type Kind int

const (
	// KindString values compare by exact text.
	KindString Kind = iota
	// KindDate values compare by calendar date.
	KindDate
	// KindDecimal values compare by exact numeric value.
	KindDecimal
	// KindRaw values could not be coerced to their field's kind and keep the
	// original cell text. They only equal other raw values with the same text.
	KindRaw
	// KindSentinel values are report markers such as "Record Exists".
	KindSentinel
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindDate:
		return "date"
	case KindDecimal:
		return "decimal"
	case KindRaw:
		return "raw"
	case KindSentinel:
		return "sentinel"
	default:
		return "unknown"
	}
}

// Value is a nullable, typed field value.
// The zero Value is a null string.
type Value struct {
	kind  Kind
	valid bool
	text  string
	date  civil.Date
	num   decimal.Decimal
}

// NullValue returns a null value of the given kind.
func NullValue(kind Kind) Value {
	return Value{kind: kind}
}

// StringValue returns a present string value.
func StringValue(s string) Value {
	return Value{kind: KindString, valid: true, text: s}
}

// DateValue returns a present calendar date value.
func DateValue(d civil.Date) Value {
	return Value{kind: KindDate, valid: true, date: d, text: d.String()}
}

// DecimalValue returns a present decimal value. text is the representation
// used in reports; when empty the canonical decimal form is used.
func DecimalValue(d decimal.Decimal, text string) Value {
	if text == "" {
		text = d.String()
	}
	return Value{kind: KindDecimal, valid: true, num: d, text: text}
}

// RawValue returns a present value holding text that failed coercion.
func RawValue(text string) Value {
	return Value{kind: KindRaw, valid: true, text: text}
}

// SentinelValue returns a marker value used in record-level entries.
func SentinelValue(text string) Value {
	return Value{kind: KindSentinel, valid: true, text: text}
}

// Kind returns the semantic kind of v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether v carries no value.
func (v Value) IsNull() bool {
	return !v.valid
}

// Date returns the calendar date held by a KindDate value.
func (v Value) Date() (civil.Date, bool) {
	return v.date, v.valid && v.kind == KindDate
}

// Decimal returns the number held by a KindDecimal value.
func (v Value) Decimal() (decimal.Decimal, bool) {
	return v.num, v.valid && v.kind == KindDecimal
}

// Equal applies the comparison rule between two field values:
// both null are equal, exactly one null is unequal, and present values are
// equal only when they share a kind and compare equal under that kind.
func (v Value) Equal(other Value) bool {
	if !v.valid || !other.valid {
		return !v.valid && !other.valid
	}
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindDate:
		return v.date == other.date
	case KindDecimal:
		return v.num.Equal(other.num)
	default:
		return v.text == other.text
	}
}

// String renders v for reports. Null renders as the empty string.
func (v Value) String() string {
	if !v.valid {
		return ""
	}
	return v.text
}

// MarshalJSON encodes null as JSON null and anything else as its report text.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.text)
}
