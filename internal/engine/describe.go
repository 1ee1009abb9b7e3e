package engine

import (
	"context"

	"github.com/seenimoa/stockstrip/pkg/models"
	"github.com/seenimoa/stockstrip/pkg/utils"
)

// Describe returns the company description fields of the submissions
// metadata.
func (e *Engine) Describe(ctx context.Context, stock string) (out models.Result) {
	stock = utils.NormalizeTicker(stock)
	log := e.requestLogger("describe", stock)
	defer recoverResult(&out, log, "describe")

	p, err := e.facts.Profile(ctx, stock)
	if err != nil {
		return fail(log, "information", unavailable("company profile", err))
	}
	return finish(describe(p))
}

func describe(p *models.CompanyProfile) models.Result {
	if p == nil {
		return models.Result{}
	}
	return models.Result{
		"former names":        p.FormerNames,
		"description":         p.Description,
		"sector":              p.SIC,
		"sector description":  p.SICDescription,
		"insider transaction": p.InsiderTransactions,
	}
}
