package fundamental

import (
	"fmt"
	"strings"

	"github.com/seenimoa/stockstrip/internal/metrics"
	"github.com/seenimoa/stockstrip/pkg/models"
	"github.com/seenimoa/stockstrip/pkg/utils"
)

// GrowthType selects which EPS the P/E uses.
type GrowthType string

const (
	Historical GrowthType = "historical" // trailing EPS
	Forward    GrowthType = "forward"    // forward EPS
)

// ParseGrowthType accepts "historical" or "forward".
func ParseGrowthType(s string) (GrowthType, error) {
	switch g := GrowthType(strings.ToLower(strings.TrimSpace(s))); g {
	case Historical, Forward:
		return g, nil
	}
	return "", fmt.Errorf("invalid growth type %q (want historical or forward)", s)
}

// Analysis selects the valuation score.
type Analysis string

const (
	AnalysisPEG  Analysis = "PEG"
	AnalysisPEGY Analysis = "PEGY"
)

// ParseAnalysis accepts "peg" or "pegy" in any case.
func ParseAnalysis(s string) (Analysis, error) {
	switch a := Analysis(strings.ToUpper(strings.TrimSpace(s))); a {
	case AnalysisPEG, AnalysisPEGY:
		return a, nil
	}
	return "", fmt.Errorf("invalid analysis %q (want PEG or PEGY)", s)
}

// Result keys of the valuation scores.
const (
	KeyPEG  = "Price / Earnings to growth"
	KeyPEGY = "Price / Earnings to Growth and Dividend yield"
)

// PriceToEarnings divides price by the EPS matching growth type.
func PriceToEarnings(info *models.CompanyInfo, g GrowthType) (float64, error) {
	const op = "price to earnings"
	if info == nil {
		return 0, models.Unavailable(op, "company info not available")
	}
	eps := info.TrailingEPS
	if g == Forward {
		eps = info.ForwardEPS
	}
	if info.CurrentPrice == nil || eps == nil {
		return 0, models.Unavailable(op, "data not available for %s growth calculation", g)
	}
	if *eps == 0 {
		return 0, models.Undefined(op, "%s EPS is zero", g)
	}
	return *info.CurrentPrice / *eps, nil
}

// PEG is P/E divided by the growth rate in percent.
func PEG(pe, growth float64) (float64, error) {
	if growth == 0 || !metrics.IsFinite(growth) {
		return 0, models.Undefined("peg", "growth rate is zero or not finite")
	}
	v := pe / growth
	if !metrics.IsFinite(v) {
		return 0, models.Undefined("peg", "result is not finite")
	}
	return v, nil
}

// RecentDividend returns the most recent non-zero dividend paid in the
// year before the last bar of history.
func RecentDividend(history models.MarketSeries) (float64, error) {
	last, ok := history.Last()
	if !ok {
		return 0, &models.CalcError{Kind: models.KindDataUnavailable, Op: "pegy", Detail: "no price history", Err: models.ErrNoDividend}
	}
	bars := history.Since(utils.YearsBefore(last.Timestamp, 1))
	for i := len(bars) - 1; i >= 0; i-- {
		if bars[i].Dividends != 0 {
			return bars[i].Dividends, nil
		}
	}
	return 0, &models.CalcError{Kind: models.KindDataUnavailable, Op: "pegy", Err: models.ErrNoDividend}
}

// PEGY is P/E divided by growth plus dividend.
func PEGY(pe, growth, dividend float64) (float64, error) {
	den := growth + dividend
	if den == 0 || !metrics.IsFinite(den) {
		return 0, models.Undefined("pegy", "growth plus dividend is zero or not finite")
	}
	return pe / den, nil
}

// Score runs the requested analysis and renders it the way results carry
// it: the score under its name plus a Type flag that is true for PEGY.
func Score(a Analysis, pe, growth float64, history models.MarketSeries) (models.Result, error) {
	switch a {
	case AnalysisPEG:
		v, err := PEG(pe, growth)
		if err != nil {
			return nil, err
		}
		return models.Result{KeyPEG: v, "Type": false}, nil
	case AnalysisPEGY:
		div, err := RecentDividend(history)
		if err != nil {
			return nil, err
		}
		v, err := PEGY(pe, growth, div)
		if err != nil {
			return nil, err
		}
		return models.Result{KeyPEGY: v, "Type": true}, nil
	}
	return nil, fmt.Errorf("invalid analysis %q", a)
}
