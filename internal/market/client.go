// Package market fetches daily price history with dividends and company
// market figures from Yahoo Finance, or from a directory of saved data.
package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/seenimoa/stockstrip/internal/config"
	"github.com/seenimoa/stockstrip/internal/infra"
	"github.com/seenimoa/stockstrip/internal/logger"
	"github.com/seenimoa/stockstrip/pkg/models"
	"github.com/seenimoa/stockstrip/pkg/utils"
)

// ErrTickerNotFound is returned when the market source knows nothing
// about a ticker.
var ErrTickerNotFound = errors.New("ticker not found in market data")

const (
	requestsPerSecond = 5
	historyTTL        = 15 * time.Minute
	infoTTL           = 5 * time.Minute
	userAgent         = "Mozilla/5.0 (compatible; stockstrip/1.0)"
)

// Client reads the Yahoo Finance chart and quote APIs.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *infra.RateLimiter
	history *infra.Cache[models.MarketSeries]
	info    *infra.Cache[*models.CompanyInfo]
	now     func() time.Time
	log     zerolog.Logger
}

// NewClient creates a client from cfg.
func NewClient(cfg config.MarketConfig, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    infra.NewHTTPClient(time.Duration(cfg.TimeoutSec) * time.Second),
		limiter: infra.PerSecond(requestsPerSecond),
		history: infra.NewCache[models.MarketSeries](historyTTL),
		info:    infra.NewCache[*models.CompanyInfo](infoTTL),
		now:     time.Now,
		log:     logger.Component(log, "market"),
	}
}

func (c *Client) getJSON(ctx context.Context, u string, dest any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	body, status, err := infra.DoGet(ctx, c.http, u, map[string]string{
		"Accept":     "application/json",
		"User-Agent": userAgent,
	})
	if err != nil {
		return err
	}
	defer body.Close()
	c.log.Debug().Str("url", u).Int("status", status).Msg("market request")
	if err := json.NewDecoder(body).Decode(dest); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// History returns daily bars covering period ("6mo", "5y", "max"), oldest
// first, with paid dividends on their ex-dates.
func (c *Client) History(ctx context.Context, ticker, period string) (models.MarketSeries, error) {
	sym := utils.NormalizeTicker(ticker)
	now := c.now()
	start, err := PeriodStart(now, period)
	if err != nil {
		return nil, err
	}

	cacheKey := sym + ":" + period
	if cached, ok := c.history.Get(cacheKey); ok {
		return cached, nil
	}

	q := url.Values{}
	q.Set("period1", fmt.Sprint(start.Unix()))
	q.Set("period2", fmt.Sprint(now.Unix()))
	q.Set("interval", "1d")
	q.Set("events", "div")
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(sym), q.Encode())

	var resp chartResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("market history %s: %w", sym, err)
	}
	if resp.Chart.Error != nil {
		if resp.Chart.Error.Code == "Not Found" {
			return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, ticker)
		}
		return nil, fmt.Errorf("market chart error: %s", resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, ticker)
	}

	bars := parseChart(resp.Chart.Result[0])
	c.history.Set(cacheKey, bars)
	return bars, nil
}

// Info returns the current market figures of ticker. Figures the quote
// omits stay nil.
func (c *Client) Info(ctx context.Context, ticker string) (*models.CompanyInfo, error) {
	sym := utils.NormalizeTicker(ticker)
	if cached, ok := c.info.Get(sym); ok {
		return cached, nil
	}

	u := fmt.Sprintf("%s/v7/finance/quote?symbols=%s", c.baseURL, url.QueryEscape(sym))
	var resp quoteResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("market quote %s: %w", sym, err)
	}
	if resp.QuoteResponse.Error != nil {
		return nil, fmt.Errorf("market quote error: %s", resp.QuoteResponse.Error.Description)
	}
	if len(resp.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, ticker)
	}

	r := resp.QuoteResponse.Result[0]
	info := &models.CompanyInfo{
		Ticker:            sym,
		Name:              coalesce(r.LongName, r.ShortName),
		Currency:          r.Currency,
		CurrentPrice:      r.RegularMarketPrice,
		TrailingEPS:       r.TrailingEPS,
		ForwardEPS:        r.ForwardEPS,
		MarketCap:         r.MarketCap,
		SharesOutstanding: r.SharesOutstanding,
	}
	c.info.Set(sym, info)
	return info, nil
}

// --- Helpers ---

// parseChart converts the chart columns into bars dated at midnight UTC,
// oldest first. Bars without a close are skipped.
func parseChart(r chartResult) models.MarketSeries {
	if len(r.Indicators.Quote) == 0 {
		return nil
	}
	q := r.Indicators.Quote[0]

	dividends := make(map[time.Time]float64, len(r.Events.Dividends))
	for _, ev := range r.Events.Dividends {
		dividends[utils.Day(time.Unix(ev.Date, 0).UTC())] += ev.Amount
	}

	bars := make(models.MarketSeries, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		if i >= len(q.Close) || q.Close[i] == nil {
			continue
		}
		day := utils.Day(time.Unix(ts, 0).UTC())
		b := models.OHLCV{
			Timestamp: day,
			Close:     *q.Close[i],
			Dividends: dividends[day],
		}
		if i < len(q.Open) && q.Open[i] != nil {
			b.Open = *q.Open[i]
		}
		if i < len(q.High) && q.High[i] != nil {
			b.High = *q.High[i]
		}
		if i < len(q.Low) && q.Low[i] != nil {
			b.Low = *q.Low[i]
		}
		if i < len(q.Volume) && q.Volume[i] != nil {
			b.Volume = *q.Volume[i]
		}
		bars = append(bars, b)
	}
	return bars.Sorted()
}

func coalesce(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
