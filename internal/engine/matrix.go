package engine

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/stockstrip/internal/filings"
	"github.com/seenimoa/stockstrip/internal/metrics"
	"github.com/seenimoa/stockstrip/internal/pivot"
	"github.com/seenimoa/stockstrip/internal/scratch"
	"github.com/seenimoa/stockstrip/internal/xbrl"
	"github.com/seenimoa/stockstrip/pkg/models"
)

// matrix returns a reader over the pivoted matrix for (stock, form,
// horizon), building and storing it in the scratch store when absent.
// The caller must run the returned release func on every path.
func (e *Engine) matrix(ctx context.Context, log zerolog.Logger, stock string, form models.FormType, horizon string) (*metrics.Reader, func(), error) {
	key := scratch.Key{Stock: stock, Report: form, Year: horizon}
	release := func() {
		if err := e.store.Release(context.WithoutCancel(ctx), key); err != nil {
			log.Warn().Err(err).Str("key", key.String()).Msg("scratch release failed")
		}
	}

	m, err := e.store.Get(ctx, key)
	if err == nil {
		log.Debug().Str("key", key.String()).Msg("scratch hit")
		return metrics.NewReader(m), release, nil
	}
	if !errors.Is(err, scratch.ErrNotFound) {
		log.Warn().Err(err).Str("key", key.String()).Msg("scratch lookup failed")
	}

	m, err = e.build(ctx, log, stock, form)
	if err != nil {
		return nil, release, err
	}
	if err := e.store.Put(ctx, key, m); err != nil {
		log.Warn().Err(err).Str("key", key.String()).Msg("scratch store failed")
	}
	return metrics.NewReader(m), release, nil
}

// build fetches facts and the filing index concurrently, then normalizes,
// selects, and pivots.
func (e *Engine) build(ctx context.Context, log zerolog.Logger, stock string, form models.FormType) (*models.PivotedMatrix, error) {
	var (
		doc   *models.FactsDocument
		index models.FilingIndex
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		doc, err = e.facts.CompanyFacts(gctx, stock)
		return unavailable("company facts", err)
	})
	g.Go(func() error {
		var err error
		index, err = e.facts.FilingIndex(gctx, stock)
		return unavailable("filing index", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	table, err := xbrl.Normalize(doc, e.taxonomy)
	if err != nil {
		return nil, err
	}
	if table.Skipped > 0 {
		log.Debug().Int("skipped", table.Skipped).Msg("facts with unusable dates or values")
	}

	sel, err := filings.Select(index, form)
	if err != nil {
		return nil, err
	}
	if sel.Form != sel.Requested {
		log.Info().Str("requested", string(sel.Requested)).Str("used", string(sel.Form)).Msg("filing form fallback")
	}

	m, err := pivot.Build(stock, table, sel)
	if err != nil {
		return nil, err
	}
	log.Debug().
		Int("facts", len(table.Facts)).
		Int("rows", len(m.Cells)).
		Int("columns", len(m.Columns)).
		Msg("matrix built")
	return m, nil
}
