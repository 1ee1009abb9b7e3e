// Package xbrl flattens an EDGAR company-facts document into a canonical,
// de-duplicated fact table.
package xbrl

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/seenimoa/stockstrip/pkg/models"
	"github.com/seenimoa/stockstrip/pkg/utils"
)

// Normalize flattens one taxonomy of doc into a FactTable. An empty
// taxonomy selects us-gaap.
//
// Concepts are visited in sorted name order, units in sorted order, and
// entries in document order. The first disclosure of each
// (name, period end, value) wins; values are compared as exact decimals.
// Entries with an unusable end date or value are skipped and counted.
func Normalize(doc *models.FactsDocument, taxonomy string) (*models.FactTable, error) {
	if taxonomy == "" {
		taxonomy = models.DefaultTaxonomy
	}
	if doc == nil {
		return nil, models.Unavailable("normalize facts", "no facts document")
	}
	concepts, ok := doc.Facts[taxonomy]
	if !ok || len(concepts) == 0 {
		return nil, models.Unavailable("normalize facts", "taxonomy %q not present", taxonomy)
	}

	table := &models.FactTable{
		Taxonomy: taxonomy,
		Labels:   make(map[string]string, len(concepts)),
	}
	seen := make(map[factKey]struct{})

	for _, name := range sortedKeys(concepts) {
		concept := concepts[name]
		label := strings.TrimSpace(concept.Label)
		if label == "" {
			label = name
		}
		table.Labels[name] = label

		for _, unit := range sortedKeys(concept.Units) {
			for _, e := range concept.Units[unit] {
				f, exact, ok := toFact(name, unit, e)
				if !ok {
					table.Skipped++
					continue
				}
				key := factKey{name: name, end: f.PeriodEnd, value: exact}
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				table.Facts = append(table.Facts, f)
			}
		}
	}

	sort.SliceStable(table.Facts, func(i, j int) bool {
		return table.Facts[i].PeriodEnd.Before(table.Facts[j].PeriodEnd)
	})
	return table, nil
}

type factKey struct {
	name  string
	end   time.Time
	value string
}

func toFact(name, unit string, e models.FactEntry) (models.Fact, string, bool) {
	end, ok := utils.ParseDate(e.End)
	if !ok {
		return models.Fact{}, "", false
	}
	val, err := decimal.NewFromString(strings.TrimSpace(e.Val.String()))
	if err != nil {
		return models.Fact{}, "", false
	}
	exact := val.String()

	f := models.Fact{
		Name:            name,
		Unit:            unit,
		PeriodEnd:       end,
		Value:           val.InexactFloat64(),
		Exact:           exact,
		AccessionNumber: e.Accn,
		FiscalYear:      e.FY,
		FiscalPeriod:    e.FP,
		Form:            e.Form,
		Filed:           e.Filed,
		Frame:           e.Frame,
	}
	if start, ok := utils.ParseDate(e.Start); ok {
		f.PeriodStart = &start
	}
	return f, exact, true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
