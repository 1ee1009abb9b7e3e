// Package fundamental computes financial ratios, growth rates, and
// valuation scores from pivoted XBRL metrics and market data.
package fundamental

import (
	"fmt"
	"strings"

	"github.com/seenimoa/stockstrip/internal/metrics"
)

// RatioKind identifies one entry of the ratio catalog.
type RatioKind int

const (
	TotalDebt RatioKind = iota
	DebtRatio
	TimesInterestEarned
	NetWorkingCapitalToAssets
	CurrentRatio
	QuickRatio
	AssetTurnover
	ReceivableTurnover
	OperatingCycle
	AccountsPayablePeriod
	CashCycle
	ReturnOnCapital
	ReturnOnEquity
	ReturnOnAsset
	GrowthRate
	ProfitMargin
)

var ratioNames = [...]string{
	TotalDebt:                 "total_debt",
	DebtRatio:                 "debt_ratio",
	TimesInterestEarned:       "times_interest_earned",
	NetWorkingCapitalToAssets: "net_working_capital_to_assets",
	CurrentRatio:              "current_ratio",
	QuickRatio:                "quick_ratio",
	AssetTurnover:             "asset_turnover",
	ReceivableTurnover:        "receivable_turnover",
	OperatingCycle:            "operating_cycle",
	AccountsPayablePeriod:     "accounts_payable_period",
	CashCycle:                 "cash_cycle",
	ReturnOnCapital:           "return_on_capital",
	ReturnOnEquity:            "return_on_equity",
	ReturnOnAsset:             "return_on_asset",
	GrowthRate:                "growth_rate",
	ProfitMargin:              "profit_margin",
}

func (k RatioKind) String() string {
	if k < 0 || int(k) >= len(ratioNames) {
		return fmt.Sprintf("RatioKind(%d)", int(k))
	}
	return ratioNames[k]
}

// AllRatios lists every catalog entry in declaration order.
func AllRatios() []RatioKind {
	out := make([]RatioKind, len(ratioNames))
	for i := range ratioNames {
		out[i] = RatioKind(i)
	}
	return out
}

// ParseRatioKind accepts the snake_case name, with hyphens or spaces
// allowed in place of underscores.
func ParseRatioKind(s string) (RatioKind, error) {
	norm := strings.NewReplacer("-", "_", " ", "_").Replace(strings.ToLower(strings.TrimSpace(s)))
	for i, name := range ratioNames {
		if name == norm {
			return RatioKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown ratio %q", s)
}

// ratioFunc computes one catalog entry. The result is either a group
// (models.Result) or, for the current ratio, a bare date -> value map.
type ratioFunc func(r *metrics.Reader) (any, error)

var catalog map[RatioKind]ratioFunc

func init() {
	catalog = map[RatioKind]ratioFunc{
		TotalDebt:                 totalDebt,
		DebtRatio:                 debtRatio,
		TimesInterestEarned:       timesInterestEarned,
		NetWorkingCapitalToAssets: netWorkingCapitalToAssets,
		CurrentRatio:              currentRatio,
		QuickRatio:                quickRatio,
		AssetTurnover:             assetTurnover,
		ReceivableTurnover:        receivableTurnover,
		OperatingCycle:            operatingCycle,
		AccountsPayablePeriod:     accountsPayablePeriod,
		CashCycle:                 cashCycle,
		ReturnOnCapital:           returnOnCapital,
		ReturnOnEquity:            returnOnEquity,
		ReturnOnAsset:             returnOnAsset,
		GrowthRate:                growthRate,
		ProfitMargin:              profitMargin,
	}
}

// Compute runs one catalog entry against r. Failures of a single
// sub-series inside a group are rendered inline and do not fail the call.
func Compute(kind RatioKind, r *metrics.Reader) (any, error) {
	fn, ok := catalog[kind]
	if !ok {
		return nil, fmt.Errorf("ratio %s is not in the catalog", kind)
	}
	return fn(r)
}
