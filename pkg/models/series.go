package models

import (
	"math"
	"sort"
	"time"
)

// DateLayout is the key format for dates in results.
const DateLayout = "2006-01-02"

// Point is one dated observation.
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Series is a date-indexed metric, newest first, holding finite values only.
type Series []Point

// NewSeries builds a Series from a date map. Non-finite values become 0.
func NewSeries(values map[time.Time]float64) Series {
	s := make(Series, 0, len(values))
	for d, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		}
		s = append(s, Point{Date: d, Value: v})
	}
	s.sortDesc()
	return s
}

func (s Series) sortDesc() {
	sort.Slice(s, func(i, j int) bool { return s[i].Date.After(s[j].Date) })
}

// Dates returns the dates, newest first.
func (s Series) Dates() []time.Time {
	out := make([]time.Time, len(s))
	for i, p := range s {
		out[i] = p.Date
	}
	return out
}

// Values returns the values in series order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

// Lookup returns the value at date d.
func (s Series) Lookup(d time.Time) (float64, bool) {
	for _, p := range s {
		if p.Date.Equal(d) {
			return p.Value, true
		}
	}
	return 0, false
}

// Latest returns the newest point.
func (s Series) Latest() (Point, bool) {
	if len(s) == 0 {
		return Point{}, false
	}
	return s[0], true
}

// AllZero reports whether the series is empty or every value is zero.
func (s Series) AllZero() bool {
	for _, p := range s {
		if p.Value != 0 {
			return false
		}
	}
	return true
}

// Map renders the series as date string -> value for result trees.
func (s Series) Map() map[string]float64 {
	out := make(map[string]float64, len(s))
	for _, p := range s {
		out[p.Date.Format(DateLayout)] = p.Value
	}
	return out
}
