// Package pivot reshapes a fact table into a metric x period matrix
// restricted to one filing selection.
package pivot

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/seenimoa/stockstrip/pkg/models"
)

type cellKey struct {
	name string
	end  time.Time
}

// Build keeps the facts whose accession is selected and whose period end
// is a selected report date, then pivots them by human label.
//
// Quarterly selections keep the last retained fact per (name, period end)
// in table order. Annual selections average colliding facts. When two
// fact names share a label, the first name in sorted order owns the row.
func Build(stock string, table *models.FactTable, sel *models.Selection) (*models.PivotedMatrix, error) {
	if table == nil || sel == nil {
		return nil, models.Unavailable("pivot", "no facts or filing selection for %s", stock)
	}

	accns := sel.Accessions()
	dates := sel.ReportDates()
	quarterly := sel.Form.Quarterly()

	cells := make(map[cellKey][]float64)
	var order []cellKey
	for _, f := range table.Facts {
		if _, ok := accns[f.AccessionNumber]; !ok {
			continue
		}
		if _, ok := dates[f.PeriodEnd.Format(models.DateLayout)]; !ok {
			continue
		}
		k := cellKey{name: f.Name, end: f.PeriodEnd}
		if _, ok := cells[k]; !ok {
			order = append(order, k)
		}
		if quarterly {
			cells[k] = []float64{f.Value}
			continue
		}
		cells[k] = append(cells[k], f.Value)
	}
	if len(cells) == 0 {
		return nil, models.Unavailable("pivot", "no %s facts for %s match the selected filings", sel.Form, stock)
	}

	owner := labelOwners(order, table)

	m := models.NewPivotedMatrix(stock, sel.Form)
	m.Selection = *sel
	for _, k := range order {
		label := table.Label(k.name)
		if owner[label] != k.name {
			continue
		}
		m.Set(label, k.end, stat.Mean(cells[k], nil))
	}
	return m, nil
}

// labelOwners maps each label to the sorted-first fact name carrying it.
func labelOwners(keys []cellKey, table *models.FactTable) map[string]string {
	names := make(map[string]struct{})
	for _, k := range keys {
		names[k.name] = struct{}{}
	}
	sorted := make([]string, 0, len(names))
	for n := range names {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)

	owner := make(map[string]string, len(sorted))
	for _, n := range sorted {
		label := table.Label(n)
		if _, taken := owner[label]; !taken {
			owner[label] = n
		}
	}
	return owner
}
