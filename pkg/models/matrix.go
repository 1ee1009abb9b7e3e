package models

import (
	"sort"
	"time"
)

// PivotedMatrix is a metric x period table restricted to one filing
// selection. Cells are keyed by human label, then by period end
// (DateLayout).
type PivotedMatrix struct {
	Stock     string                        `json:"stock" msgpack:"stock"`
	Form      FormType                      `json:"form" msgpack:"form"`
	Selection Selection                     `json:"selection" msgpack:"selection"`
	Columns   []time.Time                   `json:"columns" msgpack:"columns"` // newest first
	Cells     map[string]map[string]float64 `json:"cells" msgpack:"cells"`
}

// NewPivotedMatrix returns an empty matrix for stock and form.
func NewPivotedMatrix(stock string, form FormType) *PivotedMatrix {
	return &PivotedMatrix{
		Stock: stock,
		Form:  form,
		Cells: make(map[string]map[string]float64),
	}
}

// Set stores a cell, registering the column if it is new.
func (m *PivotedMatrix) Set(label string, period time.Time, v float64) {
	row, ok := m.Cells[label]
	if !ok {
		row = make(map[string]float64)
		m.Cells[label] = row
	}
	row[dateKey(period)] = v
	for _, c := range m.Columns {
		if c.Equal(period) {
			return
		}
	}
	m.Columns = append(m.Columns, period)
	sort.Slice(m.Columns, func(i, j int) bool { return m.Columns[i].After(m.Columns[j]) })
}

// Value returns the cell at (label, period).
func (m *PivotedMatrix) Value(label string, period time.Time) (float64, bool) {
	row, ok := m.Cells[label]
	if !ok {
		return 0, false
	}
	v, ok := row[dateKey(period)]
	return v, ok
}

// Has reports whether the matrix carries a row for label.
func (m *PivotedMatrix) Has(label string) bool {
	_, ok := m.Cells[label]
	return ok
}

// Labels returns the row labels in sorted order.
func (m *PivotedMatrix) Labels() []string {
	out := make([]string, 0, len(m.Cells))
	for l := range m.Cells {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Row returns the populated cells of one row as a date-keyed map.
func (m *PivotedMatrix) Row(label string) (map[time.Time]float64, bool) {
	row, ok := m.Cells[label]
	if !ok {
		return nil, false
	}
	out := make(map[time.Time]float64, len(row))
	for _, c := range m.Columns {
		if v, ok := row[dateKey(c)]; ok {
			out[c] = v
		}
	}
	return out, true
}

// dateKey is the cell key of a period end. Dates are calendar days in UTC;
// a decoder may hand them back in the local zone.
func dateKey(t time.Time) string { return t.UTC().Format(DateLayout) }

// SelectedFiling pairs a report date with the accession chosen for it.
type SelectedFiling struct {
	ReportDate      time.Time `json:"report_date" msgpack:"report_date"`
	AccessionNumber string    `json:"accession_number" msgpack:"accession_number"`
}

// Selection is the filing set a matrix is restricted to, newest report
// date first. Form is the form actually used, which differs from
// Requested after a 20-F fallback.
type Selection struct {
	Requested FormType         `json:"requested" msgpack:"requested"`
	Form      FormType         `json:"form" msgpack:"form"`
	Filings   []SelectedFiling `json:"filings" msgpack:"filings"`
}

// Accessions returns the selected accession numbers as a set.
func (s *Selection) Accessions() map[string]struct{} {
	out := make(map[string]struct{}, len(s.Filings))
	for _, f := range s.Filings {
		out[f.AccessionNumber] = struct{}{}
	}
	return out
}

// ReportDates returns the selected report dates as a set keyed by
// DateLayout.
func (s *Selection) ReportDates() map[string]struct{} {
	out := make(map[string]struct{}, len(s.Filings))
	for _, f := range s.Filings {
		out[dateKey(f.ReportDate)] = struct{}{}
	}
	return out
}
