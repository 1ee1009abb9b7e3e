package engine

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seenimoa/stockstrip/internal/analysis/fundamental"
	"github.com/seenimoa/stockstrip/internal/scratch"
	"github.com/seenimoa/stockstrip/pkg/models"
)

type fakeFacts struct {
	doc     *models.FactsDocument
	index   models.FilingIndex
	profile *models.CompanyProfile
	err     error
	calls   atomic.Int32
}

func (f *fakeFacts) CompanyFacts(_ context.Context, _ string) (*models.FactsDocument, error) {
	f.calls.Add(1)
	return f.doc, f.err
}

func (f *fakeFacts) FilingIndex(_ context.Context, _ string) (models.FilingIndex, error) {
	return f.index, f.err
}

func (f *fakeFacts) Profile(_ context.Context, _ string) (*models.CompanyProfile, error) {
	return f.profile, f.err
}

type fakeMarket struct {
	history models.MarketSeries
	info    *models.CompanyInfo
	histErr error
	infoErr error
}

func (m *fakeMarket) History(_ context.Context, _, _ string) (models.MarketSeries, error) {
	return m.history, m.histErr
}

func (m *fakeMarket) Info(_ context.Context, _ string) (*models.CompanyInfo, error) {
	return m.info, m.infoErr
}

func day(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func entries(accnByEnd map[string]string, values map[string]string) []models.FactEntry {
	var out []models.FactEntry
	for end, v := range values {
		out = append(out, models.FactEntry{End: end, Val: json.Number(v), Accn: accnByEnd[end], Form: "10-K"})
	}
	return out
}

func concept(label string, values map[string]string) models.FactConcept {
	accns := map[string]string{"2023-12-31": "k-2023", "2022-12-31": "k-2022"}
	return models.FactConcept{
		Label: label,
		Units: map[string][]models.FactEntry{"USD": entries(accns, values)},
	}
}

func acmeFacts() *fakeFacts {
	return &fakeFacts{
		doc: &models.FactsDocument{
			CIK:        1234,
			EntityName: "Acme Corp",
			Facts: map[string]map[string]models.FactConcept{
				"us-gaap": {
					"Assets":      concept("Assets", map[string]string{"2023-12-31": "1000", "2022-12-31": "800"}),
					"Liabilities": concept("Liabilities", map[string]string{"2023-12-31": "400", "2022-12-31": "400"}),
					"Revenues":    concept("Revenues", map[string]string{"2023-12-31": "150", "2022-12-31": "100"}),
				},
			},
		},
		index: models.FilingIndex{
			{AccessionNumber: "k-2023", Form: "10-K", ReportDate: day("2023-12-31"), FilingDate: day("2024-02-01")},
			{AccessionNumber: "q-2023", Form: "10-Q", ReportDate: day("2023-09-30"), FilingDate: day("2023-11-01")},
			{AccessionNumber: "k-2022", Form: "10-K", ReportDate: day("2022-12-31"), FilingDate: day("2023-02-01")},
		},
		profile: &models.CompanyProfile{
			CIK:                 "0000001234",
			Name:                "Acme Corp",
			Description:         "Anvils",
			SIC:                 "3571",
			SICDescription:      "Electronic Computers",
			FormerNames:         []models.FormerName{{Name: "Acme Inc", From: "2001-01-01", To: "2010-01-01"}},
			InsiderTransactions: true,
		},
	}
}

func acmeMarket() *fakeMarket {
	return &fakeMarket{
		history: models.MarketSeries{
			{Timestamp: day("2024-01-02"), Close: 100},
			{Timestamp: day("2024-01-03"), Close: 110, Dividends: 0.5},
			{Timestamp: day("2024-01-04"), Close: 121},
		},
		info: &models.CompanyInfo{
			Ticker:       "ACME",
			CurrentPrice: models.Float(100),
			TrailingEPS:  models.Float(5),
			ForwardEPS:   models.Float(4),
			MarketCap:    models.Float(1200),
		},
	}
}

func fiveYears() fundamental.Horizon { return fundamental.Horizon{Years: 5} }

func TestRatioTotalDebt(t *testing.T) {
	store := scratch.NewMemoryStore(scratch.DefaultTTL)
	facts := acmeFacts()
	e := New(facts, acmeMarket(), store)

	res := e.Ratio(context.Background(), "acme", fundamental.TotalDebt, models.Form10K, fiveYears())

	got, ok := res["Total debt"].(map[string]any)
	require.True(t, ok, "result: %v", res)
	assert.Equal(t, 0.4, got["2023-12-31"])
	assert.Equal(t, 0.5, got["2022-12-31"])
	assert.Equal(t, 0, store.Buckets(), "scratch entry released after the request")
	assert.Equal(t, int32(1), facts.calls.Load())
}

func TestRatioFromRedisEntryWestOfUTC(t *testing.T) {
	prev := time.Local
	time.Local = time.FixedZone("UTC-5", -5*60*60)
	t.Cleanup(func() { time.Local = prev })

	mr := miniredis.RunT(t)
	store := scratch.NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)
	t.Cleanup(func() { store.Close() })

	m := models.NewPivotedMatrix("ACME", models.Form10K)
	m.Set("Assets", day("2023-12-31"), 1000)
	m.Set("Assets", day("2022-12-31"), 800)
	m.Set("Liabilities", day("2023-12-31"), 400)
	m.Set("Liabilities", day("2022-12-31"), 400)
	key := scratch.Key{Stock: "ACME", Report: models.Form10K, Year: "5y"}
	require.NoError(t, store.Put(context.Background(), key, m))

	facts := acmeFacts()
	facts.err = errors.New("facts must come from the scratch entry")
	e := New(facts, acmeMarket(), store)

	res := e.Ratio(context.Background(), "ACME", fundamental.TotalDebt, models.Form10K, fiveYears())

	got, ok := res["Total debt"].(map[string]any)
	require.True(t, ok, "result: %v", res)
	assert.Equal(t, 0.4, got["2023-12-31"])
	assert.Equal(t, 0.5, got["2022-12-31"])
	assert.Equal(t, int32(0), facts.calls.Load())
	assert.False(t, mr.Exists("scratch:ACME:10-K:5y"), "entry released after the request")
}

func TestRatioMissingMetric(t *testing.T) {
	e := New(acmeFacts(), acmeMarket(), nil)

	res := e.Ratio(context.Background(), "ACME", fundamental.CurrentRatio, models.Form10K, fiveYears())

	assert.True(t, models.IsErrorMarker(res))
	assert.Equal(t, string(models.KindDataUnavailable), res["kind"])
}

func TestRatioSourceFailure(t *testing.T) {
	facts := acmeFacts()
	facts.err = errors.New("edgar down")
	e := New(facts, acmeMarket(), nil)

	res := e.Ratio(context.Background(), "ACME", fundamental.TotalDebt, models.Form10K, fiveYears())

	assert.Equal(t, string(models.KindDataUnavailable), res["kind"])
	assert.Contains(t, res["error"], "edgar down")
}

func TestRatioFallsBackTo20F(t *testing.T) {
	facts := acmeFacts()
	for i := range facts.index {
		if facts.index[i].Form == "10-K" {
			facts.index[i].Form = "20-F"
		}
	}
	e := New(facts, acmeMarket(), nil)

	res := e.Ratio(context.Background(), "ACME", fundamental.TotalDebt, models.Form10K, fiveYears())

	got, ok := res["Total debt"].(map[string]any)
	require.True(t, ok, "result: %v", res)
	assert.Equal(t, 0.4, got["2023-12-31"])
}

func TestReport(t *testing.T) {
	e := New(acmeFacts(), acmeMarket(), nil)

	res := e.Report(context.Background(), "acme", fiveYears())

	for _, k := range []string{"Symbol", "Information", "Market data", "Profit data", "Cyclical data", "Liquidity data", "History"} {
		assert.Contains(t, res, k)
	}
	assert.Equal(t, "ACME", res["Symbol"])

	liquidity := res["Liquidity data"].(map[string]any)
	debt := liquidity["Total debt data"].(map[string]any)
	assert.Contains(t, debt, "Total debt")
	assert.True(t, models.IsErrorMarker(liquidity["Current ratio data"]), "missing inputs render inline")

	info := res["Information"].(map[string]any)
	assert.Equal(t, "3571", info["sector"])
	assert.Equal(t, true, info["insider transaction"])

	history := res["History"].([]any)
	assert.Len(t, history, 3)
	first := history[0].(map[string]any)
	assert.Equal(t, "2024-01-02", first["timestamp"])

	market := res["Market data"].(map[string]any)
	assert.Equal(t, 121.0, market["Price"])
	assert.Equal(t, 600.0, market["Book value of equity"])
	assert.Equal(t, 2.0, market["Market to book"])
}

func TestReportFactsFailureStaysScoped(t *testing.T) {
	facts := acmeFacts()
	facts.err = errors.New("edgar down")
	e := New(facts, acmeMarket(), nil)

	res := e.Report(context.Background(), "ACME", fiveYears())

	assert.False(t, models.IsErrorMarker(res))
	assert.True(t, models.IsErrorMarker(res["Information"]))
	profit := res["Profit data"].(map[string]any)
	for k, v := range profit {
		assert.True(t, models.IsErrorMarker(v), k)
	}
	market := res["Market data"].(map[string]any)
	assert.Equal(t, 121.0, market["Price"])
	assert.True(t, models.IsErrorMarker(market["Book value of equity"]))
}

func TestGrowth(t *testing.T) {
	e := New(acmeFacts(), acmeMarket(), nil)

	res := e.Growth(context.Background(), "ACME", fundamental.Revenue, models.Form10K, fundamental.Horizon{Years: 1})
	assert.Equal(t, 50.0, res["growth rate"])
	assert.Contains(t, res, "revenue data")

	res = e.Growth(context.Background(), "ACME", fundamental.Revenue, models.Form10K, fundamental.Horizon{Years: 5})
	assert.Equal(t, string(models.KindInsufficientHistory), res["kind"])

	res = e.Growth(context.Background(), "ACME", fundamental.Price, models.Form10K, fundamental.Horizon{Years: 1})
	assert.InDelta(t, 10.0, res["growth rate"], 1e-9)
}

func TestGrowthHistoryFailure(t *testing.T) {
	mkt := acmeMarket()
	mkt.histErr = errors.New("quote service down")
	e := New(acmeFacts(), mkt, nil)

	res := e.Growth(context.Background(), "ACME", fundamental.Dividend, models.Form10K, fiveYears())

	assert.Equal(t, string(models.KindDataUnavailable), res["kind"])
}

func TestValuatePEG(t *testing.T) {
	e := New(acmeFacts(), acmeMarket(), nil)

	res := e.Valuate(context.Background(), ValuationRequest{
		Stock:      "acme",
		GrowthType: fundamental.Historical,
		Analysis:   fundamental.AnalysisPEG,
		Family:     fundamental.Revenue,
		Report:     models.Form10K,
		Horizon:    fundamental.Horizon{Years: 1},
	})

	data := res["Growth data"].(map[string]any)
	assert.Equal(t, 20.0, data["Price to Equity"])
	growth := data["Growth rate data"].(map[string]any)
	assert.Equal(t, 50.0, growth["growth rate"])

	analysis := res["Analysis of stock"].(map[string]any)
	assert.Equal(t, 0.4, analysis[fundamental.KeyPEG])
	assert.Equal(t, false, analysis["Type"])
}

func TestValuatePEGYWithoutDividend(t *testing.T) {
	mkt := acmeMarket()
	for i := range mkt.history {
		mkt.history[i].Dividends = 0
	}
	e := New(acmeFacts(), mkt, nil)

	res := e.Valuate(context.Background(), ValuationRequest{
		Stock:      "ACME",
		GrowthType: fundamental.Forward,
		Analysis:   fundamental.AnalysisPEGY,
		Family:     fundamental.Revenue,
		Report:     models.Form10K,
		Horizon:    fundamental.Horizon{Years: 1},
	})

	data := res["Growth data"].(map[string]any)
	assert.Equal(t, 25.0, data["Price to Equity"])
	analysis := res["Analysis of stock"]
	require.True(t, models.IsErrorMarker(analysis))
	assert.Equal(t, string(models.KindDataUnavailable), analysis.(map[string]any)["kind"])
}

func TestValuateMissingInfo(t *testing.T) {
	mkt := acmeMarket()
	mkt.infoErr = errors.New("no quote")
	e := New(acmeFacts(), mkt, nil)

	res := e.Valuate(context.Background(), ValuationRequest{
		Stock:      "ACME",
		GrowthType: fundamental.Historical,
		Analysis:   fundamental.AnalysisPEG,
		Family:     fundamental.Revenue,
		Report:     models.Form10K,
		Horizon:    fundamental.Horizon{Years: 1},
	})

	data := res["Growth data"].(map[string]any)
	assert.True(t, models.IsErrorMarker(data["Price to Equity"]))
	assert.False(t, models.IsErrorMarker(data["Growth rate data"]), "growth is computed independently")
	assert.True(t, models.IsErrorMarker(res["Analysis of stock"]))
}

func TestValuateRejectsBadRequest(t *testing.T) {
	e := New(acmeFacts(), acmeMarket(), nil)

	res := e.Valuate(context.Background(), ValuationRequest{Stock: "ACME", GrowthType: "sideways"})

	if !models.IsErrorMarker(res) {
		t.Errorf("expected an error marker, got %v", res)
	}
}

func TestDescribe(t *testing.T) {
	e := New(acmeFacts(), acmeMarket(), nil)

	res := e.Describe(context.Background(), "ACME")

	assert.Equal(t, "Anvils", res["description"])
	assert.Equal(t, "Electronic Computers", res["sector description"])
	names := res["former names"].([]any)
	require.Len(t, names, 1)
	assert.Equal(t, "Acme Inc", names[0].(map[string]any)["name"])
}

func TestGuardRecoversPanic(t *testing.T) {
	_, err := guard("explode", func() (int, error) { panic("boom") })

	require.Error(t, err)
	assert.Equal(t, models.KindUnexpectedFailure, models.KindOf(err))
	assert.ErrorIs(t, err, models.ErrUnexpectedFailure)
	assert.Contains(t, err.Error(), "boom")
}

func TestUnavailableKeepsClassification(t *testing.T) {
	assert.NoError(t, unavailable("x", nil))

	insufficient := models.Insufficient("growth", "short")
	assert.Same(t, insufficient, unavailable("x", insufficient))

	wrapped := unavailable("facts", errors.New("timeout"))
	assert.ErrorIs(t, wrapped, models.ErrDataUnavailable)
}
