package generic

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// COERCION - Tolerant reading of loosely typed record values
// =============================================================================
//
// Records arrive from the record store as decoded JSON (or documents built by
// hand in tests), so the same logical value can be a string, a number, a bool,
// a time.Time or a timestamp object. Every helper here is total: malformed
// input yields ok=false (or a zero value), never an error.

// dateLayouts are tried in order for strings that are not plain ISO dates.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"02/01/2006",
	"2/1/2006",
	"2 January 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"Mon Jan 02 2006",
	"Mon, 02 Jan 2006",
	time.RFC1123,
	time.RFC1123Z,
}

// ParseDate converts a date-like value to a calendar date. Instants are read
// in loc (nil means DefaultLocation); bare dates are taken as written.
func ParseDate(v any, loc *time.Location) (TimePoint, bool) {
	if loc == nil {
		loc = DefaultLocation
	}
	switch x := v.(type) {
	case nil:
		return TimePoint{}, false
	case TimePoint:
		return x, !x.IsZero()
	case *TimePoint:
		if x == nil {
			return TimePoint{}, false
		}
		return *x, !x.IsZero()
	case time.Time:
		if x.IsZero() {
			return TimePoint{}, false
		}
		return DateOf(x, loc), true
	case *time.Time:
		if x == nil || x.IsZero() {
			return TimePoint{}, false
		}
		return DateOf(*x, loc), true
	case string:
		return parseDateString(x, loc)
	case map[string]any:
		return parseTimestampObject(x, loc)
	case Document:
		return parseTimestampObject(map[string]any(x), loc)
	}
	if ms, ok := ToFloat(v); ok {
		return epochMillis(ms, loc)
	}
	return TimePoint{}, false
}

func parseDateString(s string, loc *time.Location) (TimePoint, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TimePoint{}, false
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return DateOf(t, nil), true
	}
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return DateOf(t, loc), true
		}
	}
	// JS Date.toString(): "Mon Jun 10 2024 00:00:00 GMT+0100 (British Summer Time)"
	if len(s) > 15 {
		if t, err := time.ParseInLocation("Mon Jan 02 2006", s[:15], loc); err == nil {
			return DateOf(t, nil), true
		}
	}
	return TimePoint{}, false
}

// parseTimestampObject reads {seconds, nanoseconds} as serialized by the
// Firestore SDKs, with or without the leading underscore.
func parseTimestampObject(m map[string]any, loc *time.Location) (TimePoint, bool) {
	secV, ok := firstPresent(m, "seconds", "_seconds")
	if !ok {
		return TimePoint{}, false
	}
	sec, ok := ToFloat(secV)
	if !ok {
		return TimePoint{}, false
	}
	var nanos float64
	if nv, ok := firstPresent(m, "nanoseconds", "_nanoseconds"); ok {
		nanos, _ = ToFloat(nv)
	}
	t := time.Unix(int64(sec), int64(nanos))
	return DateOf(t, loc), true
}

func epochMillis(ms float64, loc *time.Location) (TimePoint, bool) {
	if ms <= 0 || math.IsNaN(ms) || math.IsInf(ms, 0) {
		return TimePoint{}, false
	}
	return DateOf(time.UnixMilli(int64(ms)), loc), true
}

func firstPresent(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// ToFloat converts numeric values and numeric strings.
func ToFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, finite(x)
	case float32:
		return float64(x), finite(float64(x))
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil && finite(f)
	case decimal.Decimal:
		f, _ := x.Float64()
		return f, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil || !finite(f) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// ToDecimal converts a numeric value to a decimal; anything else is zero.
func ToDecimal(v any) decimal.Decimal {
	switch x := v.(type) {
	case decimal.Decimal:
		return x
	case json.Number:
		if d, err := decimal.NewFromString(x.String()); err == nil {
			return d
		}
		return decimal.Zero
	case string:
		if d, err := decimal.NewFromString(strings.TrimSpace(x)); err == nil {
			return d
		}
		return decimal.Zero
	}
	if f, ok := ToFloat(v); ok {
		return decimal.NewFromFloat(f)
	}
	return decimal.Zero
}

// Truthy reports whether a flag value is set: true, a non-zero number, or
// one of "true", "yes", "y", "1" (case-insensitive).
func Truthy(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "yes", "y", "1":
			return true
		}
		return false
	}
	if f, ok := ToFloat(v); ok {
		return f != 0
	}
	return false
}

// ToString returns string values trimmed; other types yield "".
func ToString(v any) string {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// NormalizeText lowercases and collapses whitespace for tolerant comparison.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
