// Package filings picks the accession numbers and report dates a ratio
// computation is restricted to.
package filings

import (
	"sort"
	"strings"

	"github.com/seenimoa/stockstrip/pkg/models"
)

// Select filters index to form and returns one accession per report date,
// newest report date first. When form has no filings the selector falls
// back to 20-F once. Filings without a report date are ignored. Among
// filings sharing a report date the latest filing date wins, and a tie
// goes to the later position in index.
func Select(index models.FilingIndex, form models.FormType) (*models.Selection, error) {
	sel := pick(index, form)
	used := form
	if len(sel) == 0 && form != models.Form20F {
		sel = pick(index, models.Form20F)
		used = models.Form20F
	}
	if len(sel) == 0 {
		return nil, models.Unavailable("select filings", "no %s or %s filings with a report date", form, models.Form20F)
	}

	sort.Slice(sel, func(i, j int) bool { return sel[i].ReportDate.After(sel[j].ReportDate) })
	return &models.Selection{Requested: form, Form: used, Filings: sel}, nil
}

func pick(index models.FilingIndex, form models.FormType) []models.SelectedFiling {
	type candidate struct {
		filing models.Filing
		pos    int
	}
	best := make(map[string]candidate)
	for i, f := range index {
		if !strings.EqualFold(strings.TrimSpace(f.Form), string(form)) || f.ReportDate.IsZero() || f.AccessionNumber == "" {
			continue
		}
		key := f.ReportDate.Format(models.DateLayout)
		cur, ok := best[key]
		if !ok || !f.FilingDate.Before(cur.filing.FilingDate) {
			best[key] = candidate{filing: f, pos: i}
		}
	}

	out := make([]models.SelectedFiling, 0, len(best))
	for _, c := range best {
		out = append(out, models.SelectedFiling{
			ReportDate:      c.filing.ReportDate,
			AccessionNumber: c.filing.AccessionNumber,
		})
	}
	return out
}
