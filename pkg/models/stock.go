// Package models defines the core data structures used throughout stockstrip.
package models

import (
	"sort"
	"time"
)

// OHLCV represents a single daily bar of market data, including any
// dividend paid on that day.
type OHLCV struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
	Dividends float64   `json:"dividends"`
}

// MarketSeries is a date-indexed OHLC + dividends table, oldest bar first.
type MarketSeries []OHLCV

// Sorted returns a copy of the series ordered oldest first.
func (m MarketSeries) Sorted() MarketSeries {
	out := make(MarketSeries, len(m))
	copy(out, m)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out
}

// Closes returns the closing prices in date order.
func (m MarketSeries) Closes() []float64 {
	sorted := m.Sorted()
	out := make([]float64, len(sorted))
	for i, b := range sorted {
		out[i] = b.Close
	}
	return out
}

// Since returns the bars dated on or after t, oldest first.
func (m MarketSeries) Since(t time.Time) MarketSeries {
	var out MarketSeries
	for _, b := range m.Sorted() {
		if !b.Timestamp.Before(t) {
			out = append(out, b)
		}
	}
	return out
}

// Last returns the most recent bar.
func (m MarketSeries) Last() (OHLCV, bool) {
	if len(m) == 0 {
		return OHLCV{}, false
	}
	sorted := m.Sorted()
	return sorted[len(sorted)-1], true
}

// CompanyInfo carries per-company identity and market figures supplied by
// the market-data collaborator. Nil fields are unknown, not zero.
type CompanyInfo struct {
	Ticker            string   `json:"ticker"`
	Name              string   `json:"name,omitempty"`
	Currency          string   `json:"currency,omitempty"`
	CurrentPrice      *float64 `json:"current_price,omitempty"`
	TrailingEPS       *float64 `json:"trailing_eps,omitempty"`
	ForwardEPS        *float64 `json:"forward_eps,omitempty"`
	MarketCap         *float64 `json:"market_cap,omitempty"`
	SharesOutstanding *float64 `json:"shares_outstanding,omitempty"`
	// Balance-sheet totals. When nil the engine takes them from the
	// latest annual filing.
	TotalAssets      *float64 `json:"total_assets,omitempty"`
	TotalLiabilities *float64 `json:"total_liabilities,omitempty"`
}

// Float returns a pointer to v, for populating CompanyInfo.
func Float(v float64) *float64 { return &v }
