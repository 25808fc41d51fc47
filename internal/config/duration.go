package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// parseMinutes reads a duration given either as a Go duration string or
// as a number of minutes. Anything else is rejected rather than guessed.
func parseMinutes(field string, raw interface{}) (time.Duration, error) {
	invalid := func(reason string) error {
		return &fieldError{field: field, value: raw, reason: reason}
	}

	switch v := raw.(type) {
	case nil:
		return 0, nil
	case time.Duration:
		return v, nil
	case int:
		return minutes(float64(v)), nil
	case int64:
		return minutes(float64(v)), nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, invalid("not a finite number")
		}
		return minutes(v), nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, invalid("empty value")
		}
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			if math.IsNaN(n) || math.IsInf(n, 0) {
				return 0, invalid("not a finite number")
			}
			return minutes(n), nil
		}
		d, err := time.ParseDuration(s)
		if err != nil {
			return 0, invalid("expected minutes or a duration such as 90s or 5m")
		}
		return d, nil
	default:
		return 0, invalid(fmt.Sprintf("unsupported type %T", raw))
	}
}

func minutes(n float64) time.Duration {
	return time.Duration(n * float64(time.Minute))
}
