package sanitize

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seenimoa/stockstrip/pkg/models"
)

func TestFloat(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{math.NaN(), 0},
		{math.Inf(1), 0},
		{math.Inf(-1), 0},
		{math.Copysign(0, -1), 0},
		{1.5, 1.5},
		{-2, -2},
	}
	for _, tt := range tests {
		got := Float(tt.in)
		if got != tt.want || math.Signbit(got) {
			t.Errorf("Float(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTreeKeysAndValues(t *testing.T) {
	d := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)
	in := models.Result{
		"series": map[time.Time]float64{d: math.Inf(1)},
		"years":  map[int]float32{2023: float32(math.NaN())},
		"nested": models.Result{"list": []float64{1, math.NaN(), -3}},
		"date":   d,
		"flag":   true,
		"label":  "12.5 days",
	}

	out, ok := Tree(in).(map[string]any)
	require.True(t, ok)

	assert.Equal(t, map[string]any{"2023-12-31": 0.0}, out["series"])
	assert.Equal(t, map[string]any{"2023": 0.0}, out["years"])
	assert.Equal(t, map[string]any{"list": []any{1.0, 0.0, -3.0}}, out["nested"])
	assert.Equal(t, "2023-12-31", out["date"])
	assert.Equal(t, true, out["flag"])
	assert.Equal(t, "12.5 days", out["label"])
}

func TestTreeSeriesAndStructs(t *testing.T) {
	d := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	s := models.Series{{Date: d, Value: math.NaN()}}
	assert.Equal(t, map[string]any{"2024-03-31": 0.0}, Tree(s))

	type summary struct {
		Price  float64  `json:"price"`
		Cap    *float64 `json:"market_cap,omitempty"`
		Hidden string   `json:"-"`
		Raw    float64
		note   string
	}
	out := Tree(summary{Price: math.Inf(-1), Cap: models.Float(10), Raw: 2, note: "x"})
	assert.Equal(t, map[string]any{"price": 0.0, "market_cap": 10.0, "Raw": 2.0}, out)
}

func TestTreeErrors(t *testing.T) {
	out := Tree(models.Result{"roe": models.Unavailable("read metric", "no row")})
	marker := out.(map[string]any)["roe"].(map[string]any)
	assert.Equal(t, "DataUnavailable", marker["kind"])

	out = Tree(errors.New("boom"))
	assert.Equal(t, "UnexpectedFailure", out.(map[string]any)["kind"])
}

func TestTreeNils(t *testing.T) {
	assert.Nil(t, Tree(nil))
	var p *float64
	assert.Nil(t, Tree(p))
	var m map[string]float64
	assert.Equal(t, map[string]any{}, Tree(m))
	var l []float64
	assert.Equal(t, []any{}, Tree(l))
}

func TestTreeRoundTrip(t *testing.T) {
	d := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)
	in := models.Result{
		"Liquidity data": models.Result{
			"Current ratio data": map[string]float64{"2023-12-31": 1.5, "2022-12-31": math.NaN()},
			"Quick ratio data":   models.ErrorMarker(models.Undefined("quick ratio", "zero")),
		},
		"History": map[time.Time]float64{d: math.Inf(-1)},
	}

	_, err := json.Marshal(in)
	require.Error(t, err, "raw results are not JSON safe")

	clean := Tree(in)
	b, err := json.Marshal(clean)
	require.NoError(t, err)

	var back any
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, clean, back)
}
