package fundamental

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seenimoa/stockstrip/pkg/models"
)

func TestParseGrowthTypeAndAnalysis(t *testing.T) {
	if g, err := ParseGrowthType(" Forward "); err != nil || g != Forward {
		t.Errorf("expected forward, got %v (%v)", g, err)
	}
	if _, err := ParseGrowthType("trailing"); err == nil {
		t.Error("expected error for trailing")
	}
	if a, err := ParseAnalysis("pegy"); err != nil || a != AnalysisPEGY {
		t.Errorf("expected PEGY, got %v (%v)", a, err)
	}
	if _, err := ParseAnalysis("pe"); err == nil {
		t.Error("expected error for pe")
	}
}

func TestPriceToEarnings(t *testing.T) {
	info := &models.CompanyInfo{
		Ticker:       "ACME",
		CurrentPrice: models.Float(100),
		TrailingEPS:  models.Float(5),
		ForwardEPS:   models.Float(4),
	}

	pe, err := PriceToEarnings(info, Historical)
	require.NoError(t, err)
	assert.Equal(t, 20.0, pe)

	pe, err = PriceToEarnings(info, Forward)
	require.NoError(t, err)
	assert.Equal(t, 25.0, pe)

	info.ForwardEPS = nil
	_, err = PriceToEarnings(info, Forward)
	assert.True(t, errors.Is(err, models.ErrDataUnavailable))

	info.TrailingEPS = models.Float(0)
	_, err = PriceToEarnings(info, Historical)
	assert.True(t, errors.Is(err, models.ErrUndefinedRatio))

	_, err = PriceToEarnings(nil, Historical)
	assert.True(t, errors.Is(err, models.ErrDataUnavailable))
}

func TestPEG(t *testing.T) {
	v, err := PEG(20, 10)
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)

	_, err = PEG(20, 0)
	assert.True(t, errors.Is(err, models.ErrUndefinedRatio))
}

func TestPEGY(t *testing.T) {
	v, err := PEGY(20, 8, 2)
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)

	_, err = PEGY(20, -2, 2)
	assert.True(t, errors.Is(err, models.ErrUndefinedRatio))
}

func TestRecentDividend(t *testing.T) {
	history := models.MarketSeries{
		bar("2023-02-01", 90, 0.2),
		bar("2023-11-01", 95, 0.22),
		bar("2024-02-01", 100, 0.24),
		bar("2024-06-03", 110, 0),
	}

	d, err := RecentDividend(history)
	require.NoError(t, err)
	assert.Equal(t, 0.24, d)

	stale := models.MarketSeries{
		bar("2022-02-01", 90, 0.2),
		bar("2024-06-03", 110, 0),
	}
	_, err = RecentDividend(stale)
	assert.True(t, errors.Is(err, models.ErrNoDividend))
	assert.Equal(t, models.KindDataUnavailable, models.KindOf(err))
}

func TestScore(t *testing.T) {
	history := models.MarketSeries{
		bar("2024-02-01", 100, 2),
		bar("2024-06-03", 110, 0),
	}

	out, err := Score(AnalysisPEG, 20, 10, history)
	require.NoError(t, err)
	assert.Equal(t, models.Result{KeyPEG: 2.0, "Type": false}, out)

	out, err = Score(AnalysisPEGY, 20, 8, history)
	require.NoError(t, err)
	assert.Equal(t, models.Result{KeyPEGY: 2.0, "Type": true}, out)

	_, err = Score(AnalysisPEGY, 20, 8, history[1:])
	assert.True(t, errors.Is(err, models.ErrNoDividend))

	_, err = Score(AnalysisPEG, 20, 0, history)
	assert.True(t, errors.Is(err, models.ErrUndefinedRatio))

	_, err = Score(Analysis("EV"), 20, 8, history)
	assert.Error(t, err)
}

func closes(values ...float64) models.MarketSeries {
	start := day("2024-01-01")
	out := make(models.MarketSeries, len(values))
	for i, v := range values {
		out[i] = models.OHLCV{Timestamp: start.AddDate(0, 0, i), Close: v}
	}
	return out
}

func TestMarketSummary(t *testing.T) {
	info := &models.CompanyInfo{
		Ticker:            "ACME",
		MarketCap:         models.Float(1000),
		SharesOutstanding: models.Float(10),
	}
	annual := reader(rows{
		lblAssets:      {"2023-12-31": 800, "2022-12-31": 700},
		lblLiabilities: {"2023-12-31": 300, "2022-12-31": 350},
	})
	history := closes(10, 20, 40, 80, 160, 320, 640)

	out := MarketSummary(info, history, annual)
	assert.Equal(t, 640.0, out["Price"])
	assert.Equal(t, []float64{100, 100, 100, 100, 100}, out["Price change"])
	assert.Equal(t, 1000.0, out["Market Cap"])
	assert.Equal(t, 500.0, out["Book value of equity"])
	assert.Equal(t, 50.0, out["Book value per share"])
	assert.Equal(t, 500.0, out["Market value added"])
	assert.Equal(t, 2.0, out["Market to book"])
}

func TestMarketSummaryPrefersInfoTotals(t *testing.T) {
	info := &models.CompanyInfo{
		MarketCap:        models.Float(900),
		TotalAssets:      models.Float(1000),
		TotalLiabilities: models.Float(700),
	}

	out := MarketSummary(info, closes(10, 11), nil)
	assert.Equal(t, 300.0, out["Book value of equity"])
	assert.Equal(t, 600.0, out["Market value added"])
	assert.Equal(t, 3.0, out["Market to book"])
	assert.True(t, models.IsErrorMarker(out["Book value per share"]))
}

func TestMarketSummaryFiguresFailIndependently(t *testing.T) {
	out := MarketSummary(nil, nil, nil)

	assert.True(t, models.IsErrorMarker(out["Price"]))
	assert.Equal(t, []float64{}, out["Price change"])
	assert.True(t, models.IsErrorMarker(out["Market Cap"]))
	assert.True(t, models.IsErrorMarker(out["Market value added"]))
	assert.True(t, models.IsErrorMarker(out["Market to book"]))

	info := &models.CompanyInfo{CurrentPrice: models.Float(42)}
	out = MarketSummary(info, nil, reader(rows{lblAssets: {"2023-12-31": 10}}))
	assert.Equal(t, 42.0, out["Price"])
	marker := out["Book value of equity"].(models.Result)
	assert.Equal(t, string(models.KindDataUnavailable), marker["kind"])
}
