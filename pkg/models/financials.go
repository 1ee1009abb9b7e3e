package models

import (
	"encoding/json"
	"time"
)

// DefaultTaxonomy is the XBRL taxonomy the ratio catalog reads from.
const DefaultTaxonomy = "us-gaap"

// FactsDocument mirrors the EDGAR companyfacts payload:
// taxonomy -> concept -> units -> disclosures.
type FactsDocument struct {
	CIK        int                               `json:"cik"`
	EntityName string                            `json:"entityName"`
	Facts      map[string]map[string]FactConcept `json:"facts"`
}

// FactConcept is one XBRL element with its disclosures grouped by unit.
type FactConcept struct {
	Label       string                 `json:"label"`
	Description string                 `json:"description"`
	Units       map[string][]FactEntry `json:"units"` // "USD", "shares", "USD/shares"
}

// FactEntry is a single disclosure as it appears on the wire.
type FactEntry struct {
	Start string      `json:"start,omitempty"`
	End   string      `json:"end"`
	Val   json.Number `json:"val"`
	Accn  string      `json:"accn"`
	FY    int         `json:"fy,omitempty"`
	FP    string      `json:"fp,omitempty"` // "Q1", "Q2", "Q3", "FY"
	Form  string      `json:"form,omitempty"`
	Filed string      `json:"filed,omitempty"`
	Frame string      `json:"frame,omitempty"`
}

// Fact is one normalized disclosure. PeriodStart is nil for instant
// (balance-sheet) facts.
type Fact struct {
	Name            string     `json:"name"`
	Unit            string     `json:"unit"`
	PeriodStart     *time.Time `json:"period_start,omitempty"`
	PeriodEnd       time.Time  `json:"period_end"`
	Value           float64    `json:"value"`
	Exact           string     `json:"exact"` // decimal text of the disclosed value
	AccessionNumber string     `json:"accession_number"`
	FiscalYear      int        `json:"fiscal_year,omitempty"`
	FiscalPeriod    string     `json:"fiscal_period,omitempty"`
	Form            string     `json:"form,omitempty"`
	Filed           string     `json:"filed,omitempty"`
	Frame           string     `json:"frame,omitempty"`
}

// IsInstant reports whether the fact describes a point in time.
func (f Fact) IsInstant() bool { return f.PeriodStart == nil }

// FactTable is the flat, de-duplicated output of the fact normalizer,
// ordered by period end.
type FactTable struct {
	Taxonomy string            `json:"taxonomy"`
	Facts    []Fact            `json:"facts"`
	Labels   map[string]string `json:"labels"`  // fact name -> human label
	Skipped  int               `json:"skipped"` // entries with an unusable end date or value
}

// Label returns the human label for a fact name, or the name itself.
func (t *FactTable) Label(name string) string {
	if l, ok := t.Labels[name]; ok && l != "" {
		return l
	}
	return name
}
