package dataset

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// timeLayouts are tried in order when parsing string cells as timestamps.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01/02/2006",
	"02-Jan-2006",
}

// IsNull reports whether a cell is null. Only nil is null: the loaders map
// empty file cells to nil, and an empty string written afterwards (by
// imputation) is a present value.
func IsNull(v Value) bool {
	return v == nil
}

// AsInt coerces a cell to int64.
func AsInt(v Value) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case float64:
		if x == float64(int64(x)) {
			return int64(x), true
		}
		return 0, false
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// AsFloat coerces a cell to float64.
func AsFloat(v Value) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// AsBool coerces a cell to bool.
func AsBool(v Value) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		if err != nil {
			return false, false
		}
		return b, true
	default:
		return false, false
	}
}

// AsTime coerces a cell to a timestamp. Strings are tried against the known
// layouts; numbers are read as Unix epoch seconds.
func AsTime(v Value) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), true
			}
		}
		return time.Time{}, false
	case int64:
		return time.Unix(x, 0).UTC(), true
	case float64:
		return time.Unix(int64(x), 0).UTC(), true
	default:
		return time.Time{}, false
	}
}

// AsString renders a cell as a string. Null cells render empty.
func AsString(v Value) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// Key returns a canonical representation used for distinct-value counting.
// Null cells map to a shared sentinel.
func Key(v Value) string {
	if IsNull(v) {
		return "\x00null"
	}
	switch x := v.(type) {
	case time.Time:
		return "t:" + x.UTC().Format(time.RFC3339Nano)
	case bool:
		return "b:" + strconv.FormatBool(x)
	case int64:
		return "n:" + strconv.FormatInt(x, 10)
	case float64:
		// Integral floats collapse onto the matching integer key.
		if x == float64(int64(x)) {
			return "n:" + strconv.FormatInt(int64(x), 10)
		}
		return "f:" + strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return "s:" + AsString(v)
	}
}
