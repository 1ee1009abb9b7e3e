package metrics

import (
	"math"
	"sort"
	"time"

	"github.com/seenimoa/stockstrip/pkg/models"
)

// Align returns the dates present in every series, newest first.
func Align(series ...models.Series) []time.Time {
	if len(series) == 0 {
		return nil
	}
	counts := make(map[time.Time]int)
	for _, s := range series {
		seen := make(map[time.Time]bool, len(s))
		for _, p := range s {
			if !seen[p.Date] {
				seen[p.Date] = true
				counts[p.Date]++
			}
		}
	}
	var out []time.Time
	for d, n := range counts {
		if n == len(series) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].After(out[j]) })
	return out
}

// Combine evaluates fn on each common date of series, passing the values
// in argument order. Results are kept as computed, including non-finite
// values.
func Combine(fn func(v ...float64) float64, series ...models.Series) models.Series {
	dates := Align(series...)
	lookups := make([]map[time.Time]float64, len(series))
	for i, s := range series {
		lookups[i] = index(s)
	}

	out := make(models.Series, 0, len(dates))
	args := make([]float64, len(series))
	for _, d := range dates {
		for i := range series {
			args[i] = lookups[i][d]
		}
		out = append(out, models.Point{Date: d, Value: fn(args...)})
	}
	return out
}

// Div divides num by den on their common dates.
func Div(num, den models.Series) models.Series {
	return Combine(func(v ...float64) float64 { return v[0] / v[1] }, num, den)
}

// Map applies fn to every value of s.
func Map(s models.Series, fn func(float64) float64) models.Series {
	out := make(models.Series, len(s))
	for i, p := range s {
		out[i] = models.Point{Date: p.Date, Value: fn(p.Value)}
	}
	return out
}

// Finite replaces non-finite values with 0.
func Finite(s models.Series) models.Series {
	return Map(s, func(v float64) float64 {
		if !IsFinite(v) {
			return 0
		}
		return v
	})
}

// Clamp replaces non-finite and negative values with 0.
func Clamp(s models.Series) models.Series {
	return Map(s, func(v float64) float64 {
		if !IsFinite(v) || v < 0 {
			return 0
		}
		return v
	})
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func index(s models.Series) map[time.Time]float64 {
	m := make(map[time.Time]float64, len(s))
	for _, p := range s {
		m[p.Date] = p.Value
	}
	return m
}
