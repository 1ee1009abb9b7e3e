package engine

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/stockstrip/internal/analysis/fundamental"
	"github.com/seenimoa/stockstrip/internal/metrics"
	"github.com/seenimoa/stockstrip/pkg/models"
	"github.com/seenimoa/stockstrip/pkg/utils"
)

type reportEntry struct {
	key  string
	kind fundamental.RatioKind
}

var (
	liquidityEntries = []reportEntry{
		{"Total debt data", fundamental.TotalDebt},
		{"Debt ratio data", fundamental.DebtRatio},
		{"Times interest earned data", fundamental.TimesInterestEarned},
		{"Net working capital ratio data", fundamental.NetWorkingCapitalToAssets},
		{"Current ratio data", fundamental.CurrentRatio},
		{"Quick ratio data", fundamental.QuickRatio},
	}
	profitEntries = []reportEntry{
		{"Profit Margin data", fundamental.ProfitMargin},
		{"Growth Rate data", fundamental.GrowthRate},
		{"Return on Capital data", fundamental.ReturnOnCapital},
		{"Return on Equity data", fundamental.ReturnOnEquity},
		{"Return on Asset data", fundamental.ReturnOnAsset},
	}
	cyclicalEntries = []reportEntry{
		{"Operating Cycle data", fundamental.OperatingCycle},
		{"Cash Cycle data", fundamental.CashCycle},
	}
)

// Report builds the grouped stock report: company information, market
// data, profit, cyclical, and liquidity ratios from annual filings, and
// the price history over h. Every entry fails on its own.
func (e *Engine) Report(ctx context.Context, stock string, h fundamental.Horizon) (out models.Result) {
	stock = utils.NormalizeTicker(stock)
	log := e.requestLogger("report", stock).With().Str("horizon", h.String()).Logger()
	defer recoverResult(&out, log, "report")

	var (
		mu        sync.Mutex
		reader    *metrics.Reader
		matrixErr error
		release   = func() {}
		profile   *models.CompanyProfile
		profErr   error
		history   models.MarketSeries
		histErr   error
		info      *models.CompanyInfo
		infoErr   error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, rel, err := e.matrix(gctx, log, stock, models.Form10K, h.Period())
		mu.Lock()
		reader, release, matrixErr = r, rel, err
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		p, err := e.facts.Profile(gctx, stock)
		mu.Lock()
		profile, profErr = p, unavailable("company profile", err)
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		bars, err := e.market.History(gctx, stock, h.Period())
		mu.Lock()
		history, histErr = bars, unavailable("price history", err)
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		i, err := e.market.Info(gctx, stock)
		mu.Lock()
		info, infoErr = i, unavailable("company info", err)
		mu.Unlock()
		return nil
	})
	_ = g.Wait()
	defer release()

	if matrixErr != nil {
		logFailure(log, "annual matrix", matrixErr)
	}
	group := func(entries []reportEntry) models.Result {
		res := make(models.Result, len(entries))
		for _, en := range entries {
			res[en.key] = entryOrMarker(log, en.kind, reader, matrixErr)
		}
		return res
	}

	result := models.Result{
		"Symbol":         stock,
		"Liquidity data": group(liquidityEntries),
		"Profit data":    group(profitEntries),
		"Cyclical data":  group(cyclicalEntries),
	}

	if profErr != nil {
		logFailure(log, "information", profErr)
		result["Information"] = models.ErrorMarker(profErr)
	} else {
		result["Information"] = describe(profile)
	}

	if infoErr != nil {
		logFailure(log, "company info", infoErr)
	}
	if histErr != nil {
		logFailure(log, "history", histErr)
		result["History"] = models.ErrorMarker(histErr)
	} else {
		result["History"] = history.Sorted()
	}
	result["Market data"] = fundamental.MarketSummary(info, history, reader)

	log.Info().Bool("matrix", matrixErr == nil).Int("bars", len(history)).Msg("report built")
	return finish(result)
}
