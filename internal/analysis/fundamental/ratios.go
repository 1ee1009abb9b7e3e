package fundamental

import (
	"github.com/seenimoa/stockstrip/internal/metrics"
	"github.com/seenimoa/stockstrip/pkg/models"
)

// --- Solvency ---

func totalDebt(r *metrics.Reader) (any, error) {
	liab, err := r.Read(lblLiabilities)
	if err != nil {
		return nil, err
	}
	assets, err := r.Read(lblAssets)
	if err != nil {
		return nil, err
	}
	ratio, err := divide("total debt", liab, assets)
	if err != nil {
		return nil, err
	}
	return models.Result{"Total debt": ratio.Map()}, nil
}

func debtRatio(r *metrics.Reader) (any, error) {
	ltl, err := r.Read(lblLiabNoncurrent)
	if err != nil {
		return nil, err
	}
	equity, err := r.Read(lblEquity)
	if err != nil {
		return nil, err
	}
	capital := metrics.Combine(sum, ltl, equity)
	return models.Result{
		"Long term debt ratio":        entry(divide("long term debt ratio", ltl, capital)),
		"Long term debt-equity ratio": entry(divide("long term debt-equity ratio", ltl, equity)),
	}, nil
}

func timesInterestEarned(r *metrics.Reader) (any, error) {
	const op = "times interest earned"
	interest, err := r.Read(lblNonoperating)
	if err != nil || interest.AllZero() {
		return nil, &models.CalcError{
			Kind:   models.KindUndefinedRatio,
			Op:     op,
			Detail: "interest expense is zero or undefined",
			Err:    err,
		}
	}
	income, err := r.Read(lblNetIncome)
	if err != nil {
		return nil, err
	}
	tax, err := r.Read(lblIncomeTax)
	if err != nil {
		return nil, err
	}
	ebit := metrics.Combine(sum, income, interest, tax)
	tie, err := divide(op, ebit, interest)
	if err != nil {
		return nil, err
	}
	return models.Result{"Times Interest Earned": tie.Map()}, nil
}

// --- Liquidity ---

func netWorkingCapitalToAssets(r *metrics.Reader) (any, error) {
	currLiab, err := r.Read(lblCurrentLiabilities)
	if err != nil {
		return nil, err
	}
	currAssets, err := r.Read(lblCurrentAssets)
	if err != nil {
		return nil, err
	}
	nwc := metrics.Combine(diff, currAssets, currLiab)
	if len(nwc) == 0 {
		return nil, models.Insufficient("net working capital", "no common dates")
	}

	liquid := make(map[string]int, len(nwc))
	for _, p := range nwc {
		flag := 0
		if p.Value > 0 {
			flag = 1
		}
		liquid[p.Date.Format(models.DateLayout)] = flag
	}

	var toAssets any
	if assets, err := r.Read(lblAssets); err != nil {
		toAssets = models.ErrorMarker(err)
	} else {
		toAssets = entry(divide("net working capital to assets", nwc, assets))
	}

	return models.Result{
		"Net working capital to Assets": toAssets,
		"Net working Capital":           nwc.Map(),
		"Is it liquid":                  liquid,
	}, nil
}

func currentRatio(r *metrics.Reader) (any, error) {
	currLiab, err := r.Read(lblCurrentLiabilities)
	if err != nil {
		return nil, err
	}
	currAssets, err := r.Read(lblCurrentAssets)
	if err != nil {
		return nil, err
	}
	ratio, err := divide("current ratio", currAssets, currLiab)
	if err != nil {
		return nil, err
	}
	return ratio.Map(), nil
}

func quickRatio(r *metrics.Reader) (any, error) {
	cash, err := r.Read(lblCash)
	if err != nil {
		return nil, err
	}
	securities, err := r.Read(lblMarketableCurrent)
	if err != nil {
		return nil, err
	}
	receivables, err := r.Read(lblNontradeReceivables)
	if err != nil {
		return nil, err
	}
	currLiab, err := r.Read(lblCurrentLiabilities)
	if err != nil {
		return nil, err
	}
	quick := metrics.Combine(sum, cash, securities, receivables)
	ratio, err := divide("quick ratio", quick, currLiab)
	if err != nil {
		return nil, err
	}
	return models.Result{"Quick Ratio": ratio.Map()}, nil
}

// --- Efficiency ---

// inventoryDays is Inventory / (COGS / 365), unclamped.
func inventoryDays(cogs, inventory models.Series) models.Series {
	return metrics.Combine(func(v ...float64) float64 { return v[1] / (v[0] / daysPerYear) }, cogs, inventory)
}

// collectionDays is ΔAR / (Revenue / 365), unclamped.
func collectionDays(revenue, receivables models.Series) models.Series {
	return metrics.Combine(func(v ...float64) float64 { return v[1] / (v[0] / daysPerYear) }, revenue, receivables)
}

func assetTurnover(r *metrics.Reader) (any, error) {
	cogs, err := r.Read(lblCOGS)
	if err != nil {
		return nil, err
	}
	inventory, err := r.Read(lblInventory)
	if err != nil {
		return nil, err
	}
	return assetTurnoverGroup(cogs, inventory), nil
}

func assetTurnoverGroup(cogs, inventory models.Series) models.Result {
	var days any
	if err := nonZero("average days in inventory", cogs); err != nil {
		days = models.ErrorMarker(err)
	} else {
		days = entry(nonEmpty("average days in inventory", inventoryDays(cogs, inventory)))
	}
	return models.Result{
		"Inventory turnover":        entry(divide("inventory turnover", cogs, inventory)),
		"Average days in inventory": days,
	}
}

func receivableTurnover(r *metrics.Reader) (any, error) {
	revenue, err := r.Read(revenueLabels...)
	if err != nil {
		return nil, err
	}
	receivables, err := r.Read(lblReceivablesChange)
	if err != nil {
		return nil, err
	}
	return receivableTurnoverGroup(revenue, receivables), nil
}

func receivableTurnoverGroup(revenue, receivables models.Series) models.Result {
	var days any
	if err := nonZero("average collection period", revenue); err != nil {
		days = models.ErrorMarker(err)
	} else {
		days = entry(nonEmpty("average collection period", collectionDays(revenue, receivables)))
	}
	return models.Result{
		"Receivable turnover":       entry(divide("receivable turnover", revenue, receivables)),
		"Average collection period": days,
	}
}

func accountsPayablePeriod(r *metrics.Reader) (any, error) {
	cogs, err := r.Read(lblCOGS)
	if err != nil {
		return nil, err
	}
	payables, err := r.Read(payablesLabels...)
	if err != nil {
		return nil, err
	}
	return payablesGroup(cogs, payables), nil
}

func payablesGroup(cogs, payables models.Series) models.Result {
	return models.Result{
		"Accounts Payable period": entry(divide("accounts payable period", payables, cogs)),
		"Average days to pay": entry(divide("average days to pay", cogs,
			metrics.Map(payables, func(v float64) float64 { return v / daysPerYear }))),
	}
}

// --- Cash cycle ---

// operatingCycleSeries is clamp(days in inventory) + clamp(collection
// period) on their common dates, clamped at zero.
func operatingCycleSeries(cogs, inventory, revenue, receivables models.Series) (models.Series, error) {
	days := metrics.Clamp(inventoryDays(cogs, inventory))
	collection := metrics.Clamp(collectionDays(revenue, receivables))
	cycle := metrics.Clamp(metrics.Combine(sum, days, collection))
	return nonEmpty("operating cycle", cycle)
}

type cycleInputs struct {
	cogs, inventory, revenue, receivables models.Series
}

func readCycleInputs(r *metrics.Reader) (cycleInputs, error) {
	var in cycleInputs
	var err error
	if in.cogs, err = r.Read(lblCOGS); err != nil {
		return in, err
	}
	if in.inventory, err = r.Read(lblInventory); err != nil {
		return in, err
	}
	if in.revenue, err = r.Read(revenueLabels...); err != nil {
		return in, err
	}
	if in.receivables, err = r.Read(lblReceivablesChange); err != nil {
		return in, err
	}
	return in, nil
}

func operatingCycle(r *metrics.Reader) (any, error) {
	in, err := readCycleInputs(r)
	if err != nil {
		return nil, err
	}
	cycle, err := operatingCycleSeries(in.cogs, in.inventory, in.revenue, in.receivables)
	if err != nil {
		return nil, err
	}
	return models.Result{
		"operating cycle":        cycle.Map(),
		"operating cycle length": daysLabels(cycle),
		"operating work": models.Result{
			"asset turnover data":      assetTurnoverGroup(in.cogs, in.inventory),
			"receivable turnover data": receivableTurnoverGroup(in.revenue, in.receivables),
		},
	}, nil
}

func cashCycle(r *metrics.Reader) (any, error) {
	in, err := readCycleInputs(r)
	if err != nil {
		return nil, err
	}
	payables, err := r.Read(payablesLabels...)
	if err != nil {
		return nil, err
	}
	opCycle, err := operatingCycleSeries(in.cogs, in.inventory, in.revenue, in.receivables)
	if err != nil {
		return nil, err
	}
	period := metrics.Clamp(metrics.Div(payables, in.cogs))
	cycle, err := nonEmpty("cash conversion cycle", metrics.Clamp(metrics.Combine(diff, opCycle, period)))
	if err != nil {
		return nil, err
	}
	return models.Result{
		"Cash conversion cycle":        cycle.Map(),
		"Cash conversion cycle length": daysLabels(cycle),
		"Account payable data":         payablesGroup(in.cogs, payables),
	}, nil
}

// --- Profitability ---

// afterTaxInterest is IncomeTax / pre-tax income from continuing
// operations.
func afterTaxInterest(r *metrics.Reader) (models.Series, error) {
	tax, err := r.Read(lblIncomeTax)
	if err != nil {
		return nil, err
	}
	pretax, err := r.Read(lblPretaxContinuingOps)
	if err != nil {
		return nil, err
	}
	return metrics.Div(tax, pretax), nil
}

func returnOnCapital(r *metrics.Reader) (any, error) {
	ati, err := afterTaxInterest(r)
	if err != nil {
		return nil, err
	}
	income, err := r.Read(lblNetIncome)
	if err != nil {
		return nil, err
	}
	liab, err := r.Read(lblLiabilities)
	if err != nil {
		return nil, err
	}
	equity, err := r.Read(lblEquity)
	if err != nil {
		return nil, err
	}
	ratio, err := divide("return on capital", metrics.Combine(sum, ati, income), metrics.Combine(sum, equity, liab))
	if err != nil {
		return nil, err
	}
	return models.Result{"Return on Capital": ratio.Map()}, nil
}

func returnOnEquity(r *metrics.Reader) (any, error) {
	income, err := r.Read(lblNetIncome)
	if err != nil {
		return nil, err
	}
	equity, err := r.Read(lblEquity)
	if err != nil {
		return nil, err
	}
	roe, err := divide("return on equity", income, equity)
	if err != nil {
		return nil, err
	}
	return models.Result{"Return on Equity": roe.Map()}, nil
}

func returnOnAsset(r *metrics.Reader) (any, error) {
	income, err := r.Read(lblNetIncome)
	if err != nil {
		return nil, err
	}
	assets, err := r.Read(lblAssets)
	if err != nil {
		return nil, err
	}
	ati, err := afterTaxInterest(r)
	if err != nil {
		return nil, err
	}
	roa, err := divide("return on asset", metrics.Combine(sum, ati, income), assets)
	if err != nil {
		return nil, err
	}
	return models.Result{"Return on Asset": roa.Map()}, nil
}

func growthRate(r *metrics.Reader) (any, error) {
	income, err := r.Read(lblNetIncome)
	if err != nil {
		return nil, err
	}
	equity, err := r.Read(lblEquity)
	if err != nil {
		return nil, err
	}
	roe, err := divide("growth rate", income, equity)
	if err != nil {
		return nil, err
	}

	internal := func() (models.Series, error) {
		retained, err := r.Read(lblRetainedEarnings)
		if err != nil {
			return nil, err
		}
		retention, err := divide("internal growth rate", retained, income)
		if err != nil {
			return nil, err
		}
		return nonEmpty("internal growth rate", metrics.Combine(product, roe, retention))
	}
	sustainable := func() (models.Series, error) {
		dividends, err := r.Read(lblDividends)
		if err != nil {
			return nil, err
		}
		payout, err := divide("sustainable growth rate", dividends, income)
		if err != nil {
			return nil, err
		}
		retention := metrics.Map(payout, func(v float64) float64 { return 1 - v })
		return nonEmpty("sustainable growth rate", metrics.Combine(product, roe, retention))
	}

	return models.Result{
		"Internal Growth Rate":    entry(internal()),
		"Sustainable Growth Rate": entry(sustainable()),
	}, nil
}

func profitMargin(r *metrics.Reader) (any, error) {
	revenue, err := r.Read(revenueLabels...)
	if err != nil {
		return nil, err
	}
	if err := nonZero("profit margin", revenue); err != nil {
		return nil, err
	}

	gross := func() (models.Series, error) {
		cogs, err := r.Read(lblCOGS)
		if err != nil {
			return nil, err
		}
		return divide("profit margin", metrics.Combine(diff, revenue, cogs), revenue)
	}
	operating := func() (models.Series, error) {
		income, err := r.Read(lblNetIncome)
		if err != nil {
			return nil, err
		}
		ati, err := afterTaxInterest(r)
		if err != nil {
			return nil, err
		}
		return divide("operating profit margin", metrics.Combine(sum, ati, income), revenue)
	}

	return models.Result{
		"Profit margin":           entry(gross()),
		"Operating profit margin": entry(operating()),
	}, nil
}
