package engine

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/stockstrip/internal/analysis/fundamental"
	"github.com/seenimoa/stockstrip/pkg/models"
	"github.com/seenimoa/stockstrip/pkg/utils"
)

// ValuationRequest selects a valuation: which EPS the P/E uses, which
// score to compute, and which metric family supplies the growth rate.
type ValuationRequest struct {
	Stock      string
	GrowthType fundamental.GrowthType
	Analysis   fundamental.Analysis
	Family     fundamental.Family
	Report     models.FormType
	Horizon    fundamental.Horizon
}

func (r ValuationRequest) validate() error {
	if r.Stock == "" {
		return fmt.Errorf("stock is required")
	}
	if _, err := fundamental.ParseGrowthType(string(r.GrowthType)); err != nil {
		return err
	}
	if _, err := fundamental.ParseAnalysis(string(r.Analysis)); err != nil {
		return err
	}
	if _, err := fundamental.ParseFamily(string(r.Family)); err != nil {
		return err
	}
	return nil
}

// Valuate computes P/E, the growth rate, and the PEG or PEGY score.
//
// The result carries "Growth data" (the P/E and the growth result) and
// "Analysis of stock" (the score with its Type flag). Each part fails on
// its own.
func (e *Engine) Valuate(ctx context.Context, req ValuationRequest) (out models.Result) {
	req.Stock = utils.NormalizeTicker(req.Stock)
	log := e.requestLogger("valuate", req.Stock).With().
		Str("growth_type", string(req.GrowthType)).
		Str("analysis", string(req.Analysis)).
		Str("family", string(req.Family)).
		Str("report", string(req.Report)).
		Str("horizon", req.Horizon.String()).
		Logger()
	defer recoverResult(&out, log, "valuate")

	if err := req.validate(); err != nil {
		return fail(log, "valuation request", err)
	}

	var (
		mu      sync.Mutex
		info    *models.CompanyInfo
		infoErr error
		history models.MarketSeries
		histErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		i, err := e.market.Info(gctx, req.Stock)
		mu.Lock()
		info, infoErr = i, unavailable("company info", err)
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		bars, err := e.market.History(gctx, req.Stock, historyPeriod(req.Horizon))
		mu.Lock()
		history, histErr = bars, unavailable("price history", err)
		mu.Unlock()
		return nil
	})
	_ = g.Wait()

	var pe float64
	peErr := infoErr
	if peErr == nil {
		pe, peErr = fundamental.PriceToEarnings(info, req.GrowthType)
	}

	var (
		growth    models.Result
		growthErr error
	)
	if !req.Family.FromStatements() && histErr != nil {
		growthErr = histErr
	} else {
		growth, growthErr = e.growth(ctx, log, req.Stock, req.Family, req.Report, req.Horizon, history)
	}

	growthData := models.Result{}
	if peErr != nil {
		logFailure(log, "price to earnings", peErr)
		growthData["Price to Equity"] = models.ErrorMarker(peErr)
	} else {
		growthData["Price to Equity"] = pe
	}
	if growthErr != nil {
		logFailure(log, "growth rate", growthErr)
		growthData["Growth rate data"] = models.ErrorMarker(growthErr)
	} else {
		growthData["Growth rate data"] = growth
	}

	var analysis any
	switch {
	case peErr != nil:
		analysis = models.ErrorMarker(peErr)
	case growthErr != nil:
		analysis = models.ErrorMarker(growthErr)
	default:
		rate, _ := growth["growth rate"].(float64)
		score, err := guard("valuation score", func() (models.Result, error) {
			return fundamental.Score(req.Analysis, pe, rate, history)
		})
		if err != nil {
			logFailure(log, string(req.Analysis), err)
			analysis = models.ErrorMarker(err)
		} else {
			analysis = score
		}
	}

	return finish(models.Result{
		"Growth data":       growthData,
		"Analysis of stock": analysis,
	})
}
