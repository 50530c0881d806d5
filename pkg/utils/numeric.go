package utils

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ToFloat coerces a loosely typed upstream value into a float64. Sequence
// values contribute their first element. The second return is false when
// the value is empty, non-numeric, or of an unsupported type; callers map
// that to 0 or "unavailable" instead of propagating an error.
func ToFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case *float64:
		if x == nil {
			return 0, false
		}
		return *x, true
	case []any:
		if len(x) == 0 {
			return 0, false
		}
		return ToFloat(x[0])
	case []float64:
		if len(x) == 0 {
			return 0, false
		}
		return x[0], true
	}
	return 0, false
}

// FinitePositive reports whether f is a usable price value: finite,
// not NaN, and strictly greater than zero.
func FinitePositive(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f > 0
}
