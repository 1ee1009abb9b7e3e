// Package engine wires the fact normalizer, filing selector, pivot
// builder, ratio catalog, and sanitizer into request-level entry points.
//
// Every entry point returns a sanitized result tree. Failures scoped to a
// single ratio or figure are rendered inline as {error, kind} markers; a
// failure of the whole request becomes a top-level marker.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/seenimoa/stockstrip/internal/logger"
	"github.com/seenimoa/stockstrip/internal/sanitize"
	"github.com/seenimoa/stockstrip/internal/scratch"
	"github.com/seenimoa/stockstrip/pkg/models"
)

// FactsSource supplies XBRL company facts and filing metadata.
type FactsSource interface {
	CompanyFacts(ctx context.Context, ticker string) (*models.FactsDocument, error)
	FilingIndex(ctx context.Context, ticker string) (models.FilingIndex, error)
	Profile(ctx context.Context, ticker string) (*models.CompanyProfile, error)
}

// MarketSource supplies price history with dividends and current market
// figures.
type MarketSource interface {
	History(ctx context.Context, ticker, period string) (models.MarketSeries, error)
	Info(ctx context.Context, ticker string) (*models.CompanyInfo, error)
}

// Engine serves ratio, report, growth, valuation, and description
// requests.
type Engine struct {
	facts    FactsSource
	market   MarketSource
	store    scratch.Store
	taxonomy string
	log      zerolog.Logger
	newID    func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithTaxonomy selects the XBRL taxonomy read from company facts.
func WithTaxonomy(t string) Option {
	return func(e *Engine) { e.taxonomy = t }
}

// WithLogger sets the engine logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New creates an engine. A nil store selects an in-memory scratch store.
func New(facts FactsSource, market MarketSource, store scratch.Store, opts ...Option) *Engine {
	if store == nil {
		store = scratch.NewMemoryStore(scratch.DefaultTTL)
	}
	e := &Engine{
		facts:    facts,
		market:   market,
		store:    store,
		taxonomy: models.DefaultTaxonomy,
		log:      zerolog.Nop(),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = logger.Component(e.log, "engine")
	return e
}

// requestLogger tags one invocation.
func (e *Engine) requestLogger(op, stock string) zerolog.Logger {
	return e.log.With().
		Str("request_id", e.newID()).
		Str("op", op).
		Str("stock", stock).
		Logger()
}

// logFailure records a scoped failure: expected kinds at warn, anything
// else at error.
func logFailure(log zerolog.Logger, what string, err error) {
	kind := models.KindOf(err)
	ev := log.Warn()
	if kind == models.KindUnexpectedFailure {
		ev = log.Error()
	}
	ev.Err(err).Str("item", what).Str("kind", string(kind)).Msg("calculation failed")
}

// guard runs fn, converting a panic into an UnexpectedFailure.
func guard[T any](op string, fn func() (T, error)) (v T, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &models.CalcError{
				Kind:   models.KindUnexpectedFailure,
				Op:     op,
				Detail: fmt.Sprintf("panic: %v", p),
			}
		}
	}()
	return fn()
}

// unavailable wraps a collaborator failure as DataUnavailable unless it is
// already classified.
func unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	var ce *models.CalcError
	if errors.As(err, &ce) {
		return err
	}
	return &models.CalcError{Kind: models.KindDataUnavailable, Op: op, Err: err}
}

// finish sanitizes v into the result tree returned to callers.
func finish(v any) models.Result {
	switch t := sanitize.Tree(v).(type) {
	case map[string]any:
		return models.Result(t)
	case nil:
		return models.Result{}
	default:
		return models.Result{"value": t}
	}
}

// fail renders a request-level failure.
func fail(log zerolog.Logger, what string, err error) models.Result {
	logFailure(log, what, err)
	return finish(models.ErrorMarker(err))
}

// recoverResult turns a panic escaping an entry point into an
// UnexpectedFailure marker.
func recoverResult(out *models.Result, log zerolog.Logger, op string) {
	if p := recover(); p != nil {
		*out = fail(log, op, &models.CalcError{
			Kind:   models.KindUnexpectedFailure,
			Op:     op,
			Detail: fmt.Sprintf("panic: %v", p),
		})
	}
}
