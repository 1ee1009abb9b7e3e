// Package edgar reads company facts, filing indexes, and company profiles
// from SEC EDGAR, over HTTP or from a directory of saved responses.
//
// SEC requires a User-Agent naming the requester and allows ten requests
// per second per agent.
// Docs: https://www.sec.gov/edgar/sec-api-documentation
package edgar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/seenimoa/stockstrip/internal/config"
	"github.com/seenimoa/stockstrip/internal/infra"
	"github.com/seenimoa/stockstrip/internal/logger"
	"github.com/seenimoa/stockstrip/pkg/models"
	"github.com/seenimoa/stockstrip/pkg/utils"
)

// ErrTickerNotFound is returned when a ticker has no CIK mapping.
var ErrTickerNotFound = errors.New("ticker not found in EDGAR")

const (
	tickerMapTTL   = 24 * time.Hour
	submissionsTTL = 10 * time.Minute
	tickerMapKey   = "tickers"
)

// Client talks to the EDGAR JSON APIs.
type Client struct {
	baseURL    string
	tickersURL string
	userAgent  string
	http       *http.Client
	limiter    *infra.RateLimiter
	tickers    *infra.Cache[map[string]models.CIKMapping]
	subs       *infra.Cache[*submissions]
	log        zerolog.Logger
}

// NewClient creates a client from cfg.
func NewClient(cfg config.EDGARConfig, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		tickersURL: cfg.TickersURL,
		userAgent:  cfg.UserAgent,
		http:       infra.NewHTTPClient(time.Duration(cfg.TimeoutSec) * time.Second),
		limiter:    infra.PerSecond(cfg.RateLimit),
		tickers:    infra.NewCache[map[string]models.CIKMapping](tickerMapTTL),
		subs:       infra.NewCache[*submissions](submissionsTTL),
		log:        logger.Component(log, "edgar"),
	}
}

func (c *Client) headers() map[string]string {
	return map[string]string{
		"User-Agent": c.userAgent,
		"Accept":     "application/json",
	}
}

// get rate-limits, fetches url, and hands the body to decode.
func (c *Client) get(ctx context.Context, url string, decode func(*json.Decoder) error) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	start := time.Now()
	body, status, err := infra.DoGet(ctx, c.http, url, c.headers())
	if err != nil {
		return err
	}
	defer body.Close()
	c.log.Debug().Str("url", url).Int("status", status).Dur("elapsed", time.Since(start)).Msg("edgar request")
	return decode(json.NewDecoder(body))
}

// CIK resolves a ticker to its 10-digit CIK. A numeric argument is taken
// as a CIK already.
func (c *Client) CIK(ctx context.Context, ticker string) (string, error) {
	if utils.IsNumeric(ticker) {
		return utils.PadCIK(ticker), nil
	}
	mapping, err := c.tickerMap(ctx)
	if err != nil {
		return "", err
	}
	m, ok := mapping[utils.NormalizeTicker(ticker)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrTickerNotFound, ticker)
	}
	return m.CIK, nil
}

func (c *Client) tickerMap(ctx context.Context) (map[string]models.CIKMapping, error) {
	if m, ok := c.tickers.Get(tickerMapKey); ok {
		return m, nil
	}
	var raw map[string]tickerEntry
	err := c.get(ctx, c.tickersURL, func(d *json.Decoder) error { return d.Decode(&raw) })
	if err != nil {
		return nil, fmt.Errorf("fetch ticker map: %w", err)
	}
	m := make(map[string]models.CIKMapping, len(raw))
	for _, e := range raw {
		sym := utils.NormalizeTicker(e.Ticker)
		m[sym] = models.CIKMapping{CIK: utils.FormatCIK(e.CIKStr), Symbol: sym, Name: e.Title}
	}
	c.tickers.Set(tickerMapKey, m)
	c.log.Debug().Int("tickers", len(m)).Msg("loaded ticker map")
	return m, nil
}

// CompanyFacts fetches the companyfacts document for ticker.
func (c *Client) CompanyFacts(ctx context.Context, ticker string) (*models.FactsDocument, error) {
	cik, err := c.CIK(ctx, ticker)
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/api/xbrl/companyfacts/CIK%s.json", c.baseURL, cik)
	var doc models.FactsDocument
	err = c.get(ctx, url, func(d *json.Decoder) error {
		d.UseNumber()
		return d.Decode(&doc)
	})
	if err != nil {
		return nil, fmt.Errorf("company facts for %s: %w", ticker, err)
	}
	return &doc, nil
}

func (c *Client) submissions(ctx context.Context, ticker string) (*submissions, error) {
	cik, err := c.CIK(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if s, ok := c.subs.Get(cik); ok {
		return s, nil
	}
	url := fmt.Sprintf("%s/submissions/CIK%s.json", c.baseURL, cik)
	var s submissions
	if err := c.get(ctx, url, func(d *json.Decoder) error { return d.Decode(&s) }); err != nil {
		return nil, fmt.Errorf("submissions for %s: %w", ticker, err)
	}
	c.subs.Set(cik, &s)
	return &s, nil
}

// FilingIndex returns the recent filings of ticker, most recent first.
func (c *Client) FilingIndex(ctx context.Context, ticker string) (models.FilingIndex, error) {
	s, err := c.submissions(ctx, ticker)
	if err != nil {
		return nil, err
	}
	return s.filingIndex(), nil
}

// Profile returns the descriptive submissions metadata of ticker.
func (c *Client) Profile(ctx context.Context, ticker string) (*models.CompanyProfile, error) {
	s, err := c.submissions(ctx, ticker)
	if err != nil {
		return nil, err
	}
	return s.profile(), nil
}
