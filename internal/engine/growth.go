package engine

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/seenimoa/stockstrip/internal/analysis/fundamental"
	"github.com/seenimoa/stockstrip/pkg/models"
	"github.com/seenimoa/stockstrip/pkg/utils"
)

// Growth computes the growth of one metric family over h. Statement
// families read the report filings; dividend and price growth read the
// price history.
func (e *Engine) Growth(ctx context.Context, stock string, f fundamental.Family, report models.FormType, h fundamental.Horizon) (out models.Result) {
	stock = utils.NormalizeTicker(stock)
	log := e.requestLogger("growth", stock).With().
		Str("family", string(f)).
		Str("report", string(report)).
		Str("horizon", h.String()).
		Logger()
	defer recoverResult(&out, log, "growth")

	var history models.MarketSeries
	if !f.FromStatements() {
		var err error
		history, err = e.market.History(ctx, stock, historyPeriod(h))
		if err != nil {
			return fail(log, string(f)+" growth", unavailable("price history", err))
		}
	}

	res, err := e.growth(ctx, log, stock, f, report, h, history)
	if err != nil {
		return fail(log, string(f)+" growth", err)
	}
	return finish(res)
}

// historyPeriod is the price history a request over h needs. Windows
// under a year still fetch a full year so trailing dividends are visible.
func historyPeriod(h fundamental.Horizon) string {
	if h.UnderYear {
		return "1y"
	}
	return h.Period()
}

func (e *Engine) growth(ctx context.Context, log zerolog.Logger, stock string, f fundamental.Family, report models.FormType, h fundamental.Horizon, history models.MarketSeries) (models.Result, error) {
	op := string(f) + " growth"
	switch f {
	case fundamental.Dividend:
		g, err := guard(op, func() (float64, error) { return fundamental.DividendGrowth(history, h) })
		if err != nil {
			return nil, err
		}
		return models.Result{"growth rate": g}, nil

	case fundamental.Price:
		window := history
		if last, ok := history.Last(); ok {
			window = history.Since(h.Start(last.Timestamp))
		}
		g, err := guard(op, func() (float64, error) { return fundamental.PriceGrowth(window) })
		if err != nil {
			return nil, err
		}
		return models.Result{"growth rate": g}, nil
	}

	r, release, err := e.matrix(ctx, log, stock, report, h.Period())
	defer release()
	if err != nil {
		return nil, err
	}
	quarterly := r.Matrix().Form.Quarterly()
	return guard(op, func() (models.Result, error) {
		return fundamental.StatementGrowth(r, f, h, quarterly)
	})
}
