package utils

import (
	"fmt"
	"strconv"
	"time"
)

// ToText converts a database cell into the text a CSV cell would hold.
// The second result is false when the cell is SQL NULL.
// Timestamps are rendered as ISO dates since every date column is day-precision.
func ToText(val any) (string, bool) {
	switch v := val.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case []byte:
		return string(v), true
	case time.Time:
		return v.Format(time.DateOnly), true
	case *time.Time:
		if v == nil {
			return "", false
		}
		return v.Format(time.DateOnly), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case bool:
		return strconv.FormatBool(v), true
	default:
		return fmt.Sprintf("%v", v), true
	}
}
