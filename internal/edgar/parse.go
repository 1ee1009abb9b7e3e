package edgar

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/seenimoa/stockstrip/pkg/models"
	"github.com/seenimoa/stockstrip/pkg/utils"
)

func decodeFacts(r io.Reader) (*models.FactsDocument, error) {
	var doc models.FactsDocument
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse company facts: %w", err)
	}
	return &doc, nil
}

func decodeSubmissions(r io.Reader) (*submissions, error) {
	var s submissions
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("parse submissions: %w", err)
	}
	return &s, nil
}

// filingIndex converts the column arrays into rows, in EDGAR order. Rows
// with a missing column or an unparseable report date are dropped.
func (s *submissions) filingIndex() models.FilingIndex {
	rec := s.Filings.Recent
	n := len(rec.AccessionNumber)
	for _, col := range [][]string{rec.FilingDate, rec.ReportDate, rec.Form} {
		if len(col) < n {
			n = len(col)
		}
	}

	out := make(models.FilingIndex, 0, n)
	for i := 0; i < n; i++ {
		report, ok := utils.ParseDate(rec.ReportDate[i])
		if !ok {
			continue
		}
		filed, _ := utils.ParseDate(rec.FilingDate[i])
		f := models.Filing{
			AccessionNumber: rec.AccessionNumber[i],
			Form:            rec.Form[i],
			ReportDate:      report,
			FilingDate:      filed,
		}
		if i < len(rec.PrimaryDocument) {
			f.PrimaryDocument = rec.PrimaryDocument[i]
		}
		out = append(out, f)
	}
	return out
}

func (s *submissions) profile() *models.CompanyProfile {
	p := &models.CompanyProfile{
		CIK:                 utils.PadCIK(s.CIK),
		Name:                s.Name,
		Tickers:             s.Tickers,
		Description:         s.Description,
		SIC:                 s.SIC,
		SICDescription:      s.SICDescription,
		FormerNames:         make([]models.FormerName, 0, len(s.FormerNames)),
		InsiderTransactions: s.InsiderFlag != 0,
	}
	for _, fn := range s.FormerNames {
		p.FormerNames = append(p.FormerNames, models.FormerName(fn))
	}
	return p
}
