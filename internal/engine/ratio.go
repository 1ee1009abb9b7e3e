package engine

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/seenimoa/stockstrip/internal/analysis/fundamental"
	"github.com/seenimoa/stockstrip/internal/metrics"
	"github.com/seenimoa/stockstrip/pkg/models"
	"github.com/seenimoa/stockstrip/pkg/utils"
)

// Ratio computes one catalog entry for stock from its report filings.
// The horizon only scopes the scratch entry.
func (e *Engine) Ratio(ctx context.Context, stock string, kind fundamental.RatioKind, report models.FormType, h fundamental.Horizon) (out models.Result) {
	stock = utils.NormalizeTicker(stock)
	log := e.requestLogger("ratio", stock).With().
		Str("ratio", kind.String()).
		Str("report", string(report)).
		Str("horizon", h.String()).
		Logger()
	defer recoverResult(&out, log, "ratio")

	r, release, err := e.matrix(ctx, log, stock, report, h.Period())
	defer release()
	if err != nil {
		return fail(log, kind.String(), err)
	}

	v, err := computeRatio(kind, r)
	if err != nil {
		return fail(log, kind.String(), err)
	}
	log.Debug().Msg("ratio computed")
	return finish(v)
}

func computeRatio(kind fundamental.RatioKind, r *metrics.Reader) (any, error) {
	return guard(kind.String(), func() (any, error) { return fundamental.Compute(kind, r) })
}

// entryOrMarker computes kind, rendering a failure inline.
func entryOrMarker(log zerolog.Logger, kind fundamental.RatioKind, r *metrics.Reader, matrixErr error) any {
	if matrixErr != nil {
		return models.ErrorMarker(matrixErr)
	}
	v, err := computeRatio(kind, r)
	if err != nil {
		logFailure(log, kind.String(), err)
		return models.ErrorMarker(err)
	}
	return v
}
