package fundamental

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"gonum.org/v1/gonum/stat"

	"github.com/seenimoa/stockstrip/internal/metrics"
	"github.com/seenimoa/stockstrip/pkg/models"
	"github.com/seenimoa/stockstrip/pkg/utils"
)

// Horizon is a look-back window. UnderYear windows span six months.
type Horizon struct {
	Years     int
	UnderYear bool
}

// ParseHorizon reads "1y", "5y", or "6mo". Only the digits count, so any
// month period and a bare 6 both mean six months.
func ParseHorizon(s string) (Horizon, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
	if digits == "" {
		return Horizon{}, fmt.Errorf("no number found in period %q", s)
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return Horizon{}, fmt.Errorf("parse period %q: %w", s, err)
	}
	if strings.HasSuffix(s, "mo") || n == 6 {
		return Horizon{UnderYear: true}, nil
	}
	if n < 1 {
		return Horizon{}, fmt.Errorf("period %q must be at least one year", s)
	}
	return Horizon{Years: n}, nil
}

// YearsFloat is the window length in years.
func (h Horizon) YearsFloat() float64 {
	if h.UnderYear {
		return 0.5
	}
	return float64(h.Years)
}

// Start returns the beginning of the window ending at end.
func (h Horizon) Start(end time.Time) time.Time {
	if h.UnderYear {
		return end.AddDate(0, -6, 0)
	}
	return utils.YearsBefore(end, h.Years)
}

// Period renders the horizon as a market-history period ("5y", "6mo").
func (h Horizon) Period() string {
	if h.UnderYear {
		return "6mo"
	}
	return fmt.Sprintf("%dy", h.Years)
}

func (h Horizon) String() string { return h.Period() }

// Family is a growth metric family.
type Family string

const (
	Revenue  Family = "revenue"
	Income   Family = "income"
	Earnings Family = "earnings"
	Dividend Family = "dividend"
	Price    Family = "price"
)

// ParseFamily accepts "revenue" or "revenueGrowth" style names.
func ParseFamily(s string) (Family, error) {
	v := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "growth")
	v = strings.TrimRight(v, "_- ")
	switch f := Family(v); f {
	case Revenue, Income, Earnings, Dividend, Price:
		return f, nil
	}
	return "", fmt.Errorf("unknown growth metric %q (want revenue, income, earnings, dividend or price)", s)
}

// FromStatements reports whether the family is read from XBRL facts rather
// than market data.
func (f Family) FromStatements() bool {
	return f == Revenue || f == Income || f == Earnings
}

func (f Family) labels() []string {
	switch f {
	case Revenue:
		return revenueLabels
	case Income:
		return []string{lblComprehensiveIncome}
	case Earnings:
		return []string{lblDilutedEPS}
	}
	return nil
}

const (
	quartersPerYear = 4
	underYearDays   = 180
)

// StatementGrowth computes the growth of a statement family over h.
//
// Annual: the latest value against the newest value in calendar year
// latest.Year - N. Quarterly: the mean of the latest four quarters against
// the mean of the four quarters ending on or before latest - N years.
// Under one year (quarterly only): the latest value against the newest
// value at least 180 days older.
func StatementGrowth(r *metrics.Reader, f Family, h Horizon, quarterly bool) (models.Result, error) {
	op := string(f) + " growth"
	if !f.FromStatements() {
		return nil, fmt.Errorf("%s is not a statement metric", f)
	}
	s, err := r.Read(f.labels()...)
	if err != nil {
		return nil, err
	}
	latest, ok := s.Latest()
	if !ok {
		return nil, models.Unavailable(op, "%s data not available", f)
	}

	var old, cur float64
	switch {
	case h.UnderYear:
		if !quarterly {
			return nil, models.Insufficient(op, "growth under a year needs quarterly reports")
		}
		cutoff := latest.Date.AddDate(0, 0, -underYearDays)
		p, ok := firstOnOrBefore(s, cutoff)
		if !ok {
			return nil, models.Insufficient(op, "no %s data %d days before %s", f, underYearDays, latest.Date.Format(models.DateLayout))
		}
		old, cur = p.Value, latest.Value

	case quarterly:
		if len(s) < quartersPerYear {
			return nil, models.Insufficient(op, "insufficient data: need %d quarters, have %d", quartersPerYear, len(s))
		}
		cutoff := utils.YearsBefore(latest.Date, h.Years)
		var past []float64
		for _, p := range s {
			if !p.Date.After(cutoff) {
				past = append(past, p.Value)
				if len(past) == quartersPerYear {
					break
				}
			}
		}
		if len(past) < quartersPerYear {
			return nil, models.Insufficient(op, "insufficient data: need %d quarters ending by %s", quartersPerYear, cutoff.Format(models.DateLayout))
		}
		cur = stat.Mean(s[:quartersPerYear].Values(), nil)
		old = stat.Mean(past, nil)

	default:
		target := latest.Date.Year() - h.Years
		p, ok := firstInYear(s, target)
		if !ok {
			return nil, models.Insufficient(op, "historical %s data not available for %d", f, target)
		}
		old, cur = p.Value, latest.Value
	}

	if old == 0 {
		return nil, models.Undefined(op, "base %s value is zero", f)
	}
	return models.Result{
		"growth rate":       pctChange(old, cur),
		string(f) + " data": s.Map(),
	}, nil
}

// firstOnOrBefore returns the newest point dated on or before t.
func firstOnOrBefore(s models.Series, t time.Time) (models.Point, bool) {
	for _, p := range s {
		if !p.Date.After(t) {
			return p, true
		}
	}
	return models.Point{}, false
}

// firstInYear returns the newest point dated in year.
func firstInYear(s models.Series, year int) (models.Point, bool) {
	for _, p := range s {
		if p.Date.Year() == year {
			return p, true
		}
	}
	return models.Point{}, false
}

// DividendGrowth is the CAGR of paid dividends over h, ending at the last
// bar of history. Zero-dividend bars are ignored.
func DividendGrowth(history models.MarketSeries, h Horizon) (float64, error) {
	const op = "dividend growth"
	last, ok := history.Last()
	if !ok {
		return 0, models.Unavailable(op, "no dividend data available")
	}
	var paid []float64
	for _, b := range history.Since(h.Start(last.Timestamp)) {
		if b.Dividends != 0 {
			paid = append(paid, b.Dividends)
		}
	}
	if len(paid) == 0 {
		return 0, models.Unavailable(op, "no dividend data available")
	}
	oldest, recent := paid[0], paid[len(paid)-1]
	if oldest <= 0 {
		return 0, models.Undefined(op, "oldest dividend is not positive")
	}
	return cagr(oldest, recent, h.YearsFloat()), nil
}

// PriceGrowth is the mean period-over-period percentage change of closes.
func PriceGrowth(history models.MarketSeries) (float64, error) {
	const op = "price growth"
	changes := pctChanges(history.Closes())
	if len(changes) == 0 {
		return 0, models.Unavailable(op, "price growth data not available")
	}
	g := stat.Mean(changes, nil)
	if !metrics.IsFinite(g) {
		return 0, models.Undefined(op, "a closing price is zero")
	}
	return g, nil
}

// pctChanges returns the percentage change between consecutive values.
func pctChanges(v []float64) []float64 {
	if len(v) < 2 {
		return nil
	}
	out := make([]float64, 0, len(v)-1)
	for i := 1; i < len(v); i++ {
		out = append(out, pctChange(v[i-1], v[i]))
	}
	return out
}
