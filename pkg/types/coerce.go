package types

import (
	"math"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// CoercePinned converts any input into a pin level. Numbers and numeric
// strings are truncated toward zero and clamped into 0..MaxPinLevel. A
// legacy boolean true becomes level 1. Anything else is PinNone.
func CoercePinned(v any) int {
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) {
		return PinNone
	}
	f = math.Trunc(f)
	switch {
	case f < PinNone:
		return PinNone
	case f > MaxPinLevel:
		return MaxPinLevel
	}
	return int(f)
}

// CoerceCompleted converts any input into a completion flag, falling back to
// false for values that have no boolean reading.
func CoerceCompleted(v any) bool {
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return false
	}
	return b
}

// ParseTime reads a stored timestamp. Strings are parsed as RFC 3339 (any
// fractional precision); numbers are Unix milliseconds, the form some legacy
// exports used. The second result is false when v holds no usable time.
func ParseTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(t))
		if err != nil {
			return time.Time{}, false
		}
		return parsed.UTC(), true
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(t)).UTC(), true
	case time.Time:
		return t.UTC(), !t.IsZero()
	default:
		return time.Time{}, false
	}
}

// coerceID accepts only whole positive numbers. Other ids are dropped so the
// store assigns a fresh one.
func coerceID(v any) int64 {
	f, ok := v.(float64)
	if !ok || f < 1 || f != math.Trunc(f) || f > 1<<53 {
		return 0
	}
	return int64(f)
}
