package fundamental

import (
	"math"

	"github.com/seenimoa/stockstrip/internal/metrics"
	"github.com/seenimoa/stockstrip/pkg/models"
	"github.com/seenimoa/stockstrip/pkg/utils"
)

func sum(v ...float64) float64 {
	t := 0.0
	for _, x := range v {
		t += x
	}
	return t
}

func diff(v ...float64) float64 { return v[0] - v[1] }

func product(v ...float64) float64 { return v[0] * v[1] }

// nonZero fails with UndefinedRatio when den is zero on every date.
func nonZero(op string, den models.Series) error {
	if den.AllZero() {
		return models.Undefined(op, "denominator is zero on every date")
	}
	return nil
}

// nonEmpty fails with InsufficientHistory when s has no dates.
func nonEmpty(op string, s models.Series) (models.Series, error) {
	if len(s) == 0 {
		return nil, models.Insufficient(op, "no valid dates")
	}
	return s, nil
}

// divide is num / den on common dates. Isolated zero denominators yield
// non-finite cells that the sanitizer later zeroes.
func divide(op string, num, den models.Series) (models.Series, error) {
	if err := nonZero(op, den); err != nil {
		return nil, err
	}
	return nonEmpty(op, metrics.Div(num, den))
}

// entry renders a sub-series of a group, or its failure inline.
func entry(s models.Series, err error) any {
	if err != nil {
		return models.ErrorMarker(err)
	}
	return s.Map()
}

func daysLabels(s models.Series) map[string]string {
	out := make(map[string]string, len(s))
	for _, p := range s {
		out[p.Date.Format(models.DateLayout)] = utils.FormatDays(p.Value)
	}
	return out
}

func pctChange(old, new_ float64) float64 {
	return (new_ - old) / old * 100
}

func cagr(start, end float64, years float64) float64 {
	return (math.Pow(end/start, 1/years) - 1) * 100
}
