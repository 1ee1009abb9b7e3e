package fundamental

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seenimoa/stockstrip/pkg/models"
)

func TestParseHorizon(t *testing.T) {
	tests := []struct {
		in   string
		want Horizon
	}{
		{"5y", Horizon{Years: 5}},
		{"1y", Horizon{Years: 1}},
		{" 10Y ", Horizon{Years: 10}},
		{"6mo", Horizon{UnderYear: true}},
		{"3mo", Horizon{UnderYear: true}},
		{"6", Horizon{UnderYear: true}},
	}
	for _, tt := range tests {
		got, err := ParseHorizon(tt.in)
		if err != nil {
			t.Errorf("ParseHorizon(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHorizon(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "y", "0y", "max"} {
		if _, err := ParseHorizon(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestHorizonWindow(t *testing.T) {
	end := day("2023-12-31")

	five := Horizon{Years: 5}
	assert.Equal(t, day("2018-12-31"), five.Start(end))
	assert.Equal(t, "5y", five.Period())
	assert.Equal(t, 5.0, five.YearsFloat())

	half := Horizon{UnderYear: true}
	assert.Equal(t, day("2023-07-01"), half.Start(end))
	assert.Equal(t, "6mo", half.String())
	assert.Equal(t, 0.5, half.YearsFloat())
}

func TestParseFamily(t *testing.T) {
	tests := map[string]Family{
		"revenue":         Revenue,
		"revenueGrowth":   Revenue,
		"Income":          Income,
		"earnings_growth": Earnings,
		"dividend":        Dividend,
		"priceGrowth":     Price,
	}
	for in, want := range tests {
		got, err := ParseFamily(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFamily("ebitda")
	assert.Error(t, err)

	assert.True(t, Earnings.FromStatements())
	assert.False(t, Dividend.FromStatements())
}

func TestStatementGrowthAnnual(t *testing.T) {
	r := reader(rows{
		lblRevenues: {
			"2023-12-31": 150,
			"2022-12-31": 120,
			"2021-12-31": 100,
			"2018-12-31": 50,
		},
	})

	out, err := StatementGrowth(r, Revenue, Horizon{Years: 2}, false)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, out["growth rate"], 1e-9)
	assert.Len(t, out["revenue data"], 4)

	out, err = StatementGrowth(r, Revenue, Horizon{Years: 5}, false)
	require.NoError(t, err)
	assert.InDelta(t, 200.0, out["growth rate"], 1e-9)

	_, err = StatementGrowth(r, Revenue, Horizon{Years: 3}, false)
	assert.True(t, errors.Is(err, models.ErrInsufficientHistory))
}

func TestStatementGrowthZeroBase(t *testing.T) {
	r := reader(rows{
		lblComprehensiveIncome: {"2023-12-31": 40, "2022-12-31": 0},
	})

	_, err := StatementGrowth(r, Income, Horizon{Years: 1}, false)
	assert.True(t, errors.Is(err, models.ErrUndefinedRatio))
}

func TestStatementGrowthQuarterly(t *testing.T) {
	r := reader(rows{
		lblDilutedEPS: {
			"2023-12-31": 100,
			"2023-09-30": 110,
			"2023-06-30": 120,
			"2023-03-31": 110,
			"2022-12-31": 90,
			"2022-09-30": 110,
			"2022-06-30": 100,
			"2022-03-31": 100,
		},
	})

	out, err := StatementGrowth(r, Earnings, Horizon{Years: 1}, true)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, out["growth rate"], 1e-9)
	assert.Contains(t, out, "earnings data")

	_, err = StatementGrowth(r, Earnings, Horizon{Years: 2}, true)
	assert.True(t, errors.Is(err, models.ErrInsufficientHistory))
}

func TestStatementGrowthQuarterlyTooFewQuarters(t *testing.T) {
	r := reader(rows{
		lblRevenueContract: {
			"2023-12-31": 100,
			"2023-09-30": 90,
			"2023-06-30": 80,
		},
	})

	_, err := StatementGrowth(r, Revenue, Horizon{Years: 1}, true)
	require.Error(t, err)
	assert.Equal(t, models.KindInsufficientHistory, models.KindOf(err))
	assert.Contains(t, err.Error(), "insufficient data")
}

func TestStatementGrowthUnderYear(t *testing.T) {
	r := reader(rows{
		lblRevenueContract: {
			"2023-12-31": 120,
			"2023-09-30": 110,
			"2023-06-30": 100,
			"2023-03-31": 90,
		},
	})

	out, err := StatementGrowth(r, Revenue, Horizon{UnderYear: true}, true)
	require.NoError(t, err)
	assert.InDelta(t, 20.0, out["growth rate"], 1e-9)

	_, err = StatementGrowth(r, Revenue, Horizon{UnderYear: true}, false)
	assert.True(t, errors.Is(err, models.ErrInsufficientHistory), "annual reports cannot cover six months")
}

func TestStatementGrowthMissingMetric(t *testing.T) {
	_, err := StatementGrowth(reader(rows{}), Income, Horizon{Years: 1}, false)
	assert.True(t, errors.Is(err, models.ErrMetricNotFound))

	_, err = StatementGrowth(reader(rows{}), Price, Horizon{Years: 1}, false)
	assert.Error(t, err)
}

func bar(date string, close, dividend float64) models.OHLCV {
	return models.OHLCV{Timestamp: day(date), Close: close, Dividends: dividend}
}

func TestDividendGrowth(t *testing.T) {
	history := models.MarketSeries{
		bar("2024-06-03", 190, 0),
		bar("2019-03-01", 120, 0.5),
		bar("2021-03-01", 150, 0.6),
		bar("2024-03-01", 180, 1.0),
	}

	got, err := DividendGrowth(history, Horizon{Years: 5})
	require.NoError(t, err)
	want := (math.Pow(1.0/0.6, 1.0/5) - 1) * 100
	assert.InDelta(t, want, got, 1e-9)
}

func TestDividendGrowthWithoutDividends(t *testing.T) {
	history := models.MarketSeries{
		bar("2024-06-03", 190, 0),
		bar("2024-03-01", 180, 0),
	}

	_, err := DividendGrowth(history, Horizon{Years: 1})
	assert.True(t, errors.Is(err, models.ErrDataUnavailable))

	_, err = DividendGrowth(nil, Horizon{Years: 1})
	assert.True(t, errors.Is(err, models.ErrDataUnavailable))
}

func TestPriceGrowth(t *testing.T) {
	history := models.MarketSeries{
		bar("2024-01-03", 121, 0),
		bar("2024-01-01", 100, 0),
		bar("2024-01-02", 110, 0),
	}

	got, err := PriceGrowth(history)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, got, 1e-9)

	_, err = PriceGrowth(history[:1])
	assert.True(t, errors.Is(err, models.ErrDataUnavailable))

	zero := models.MarketSeries{bar("2024-01-01", 0, 0), bar("2024-01-02", 10, 0)}
	_, err = PriceGrowth(zero)
	assert.True(t, errors.Is(err, models.ErrUndefinedRatio))
}

func TestPctChanges(t *testing.T) {
	if got := pctChanges([]float64{5}); got != nil {
		t.Errorf("expected nil for a single value, got %v", got)
	}
	got := pctChanges([]float64{100, 50, 75})
	if len(got) != 2 || got[0] != -50 || got[1] != 50 {
		t.Errorf("unexpected changes: %v", got)
	}
}
