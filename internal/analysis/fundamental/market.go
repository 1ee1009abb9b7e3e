package fundamental

import (
	"github.com/seenimoa/stockstrip/internal/metrics"
	"github.com/seenimoa/stockstrip/pkg/models"
)

// priceChangeBars is how many recent bars the price change list covers.
const priceChangeBars = 5

// BookEquity is total assets minus total liabilities. Totals on info take
// precedence; otherwise the newest annual column carrying both is used.
func BookEquity(info *models.CompanyInfo, annual *metrics.Reader) (float64, error) {
	const op = "book value of equity"
	if info != nil && info.TotalAssets != nil && info.TotalLiabilities != nil {
		return *info.TotalAssets - *info.TotalLiabilities, nil
	}
	if annual == nil {
		return 0, models.Unavailable(op, "no balance sheet totals")
	}
	assets, err := annual.Read(lblAssets)
	if err != nil {
		return 0, err
	}
	liab, err := annual.Read(lblLiabilities)
	if err != nil {
		return 0, err
	}
	equity := metrics.Combine(diff, assets, liab)
	p, ok := equity.Latest()
	if !ok {
		return 0, models.Unavailable(op, "assets and liabilities share no report date")
	}
	return p.Value, nil
}

// MarketSummary reports price, recent price changes, market cap, book
// value, market value added, and market to book. Each figure fails on its
// own.
func MarketSummary(info *models.CompanyInfo, history models.MarketSeries, annual *metrics.Reader) models.Result {
	out := models.Result{}

	if last, ok := history.Last(); ok {
		out["Price"] = last.Close
	} else if info != nil && info.CurrentPrice != nil {
		out["Price"] = *info.CurrentPrice
	} else {
		out["Price"] = models.ErrorMarker(models.Unavailable("price", "no price history"))
	}

	closes := history.Closes()
	if len(closes) > priceChangeBars+1 {
		closes = closes[len(closes)-priceChangeBars-1:]
	}
	changes := pctChanges(closes)
	if changes == nil {
		changes = []float64{}
	}
	out["Price change"] = changes

	var marketCap *float64
	if info != nil {
		marketCap = info.MarketCap
	}
	if marketCap != nil {
		out["Market Cap"] = *marketCap
	} else {
		out["Market Cap"] = models.ErrorMarker(models.Unavailable("market cap", "market cap not available"))
	}

	equity, eqErr := BookEquity(info, annual)
	if eqErr != nil {
		out["Book value of equity"] = models.ErrorMarker(eqErr)
	} else {
		out["Book value of equity"] = equity
	}
	out["Book value per share"] = render(bookValuePerShare(info, equity, eqErr))

	switch {
	case marketCap == nil:
		err := models.Unavailable("market value added", "market cap not available")
		out["Market value added"] = models.ErrorMarker(err)
		out["Market to book"] = models.ErrorMarker(err)
	case eqErr != nil:
		out["Market value added"] = models.ErrorMarker(eqErr)
		out["Market to book"] = models.ErrorMarker(eqErr)
	default:
		out["Market value added"] = *marketCap - equity
		if equity == 0 {
			out["Market to book"] = models.ErrorMarker(models.Undefined("market to book", "book value of equity is zero"))
		} else {
			out["Market to book"] = *marketCap / equity
		}
	}
	return out
}

func bookValuePerShare(info *models.CompanyInfo, equity float64, eqErr error) (float64, error) {
	if eqErr != nil {
		return 0, eqErr
	}
	if info == nil || info.SharesOutstanding == nil {
		return 0, models.Unavailable("book value per share", "shares outstanding not available")
	}
	if *info.SharesOutstanding == 0 {
		return 0, models.Undefined("book value per share", "shares outstanding is zero")
	}
	return equity / *info.SharesOutstanding, nil
}

func render(v float64, err error) any {
	if err != nil {
		return models.ErrorMarker(err)
	}
	return v
}
