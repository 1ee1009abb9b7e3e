package models

import (
	"fmt"
	"strings"
	"time"
)

// --- SEC Filings ---

// FormType is an SEC form code.
type FormType string

const (
	Form10K FormType = "10-K" // annual report
	Form10Q FormType = "10-Q" // quarterly report
	Form20F FormType = "20-F" // foreign private issuer annual report
)

// ParseFormType accepts "10-K", "10k", "[10-Q]", "annual", "quarterly".
func ParseFormType(s string) (FormType, error) {
	v := strings.ToUpper(strings.Trim(strings.TrimSpace(s), "[]"))
	switch v {
	case "10-K", "10K", "ANNUAL", "K":
		return Form10K, nil
	case "10-Q", "10Q", "QUARTERLY", "Q":
		return Form10Q, nil
	case "20-F", "20F":
		return Form20F, nil
	}
	return "", fmt.Errorf("unknown report type %q (want 10-K or 10-Q)", s)
}

// Quarterly reports whether the form is a quarterly report.
func (f FormType) Quarterly() bool { return f == Form10Q }

// Filing is one row of a company's filing index.
type Filing struct {
	AccessionNumber string    `json:"accession_number"`
	Form            string    `json:"form"` // "10-K", "10-Q", "8-K", "S-1", etc.
	ReportDate      time.Time `json:"report_date"`
	FilingDate      time.Time `json:"filing_date"`
	PrimaryDocument string    `json:"primary_document,omitempty"`
}

// FilingIndex is the ordered list of a company's filings, most recent
// first as EDGAR returns it.
type FilingIndex []Filing

// CIKMapping represents a mapping from ticker/name to CIK number.
type CIKMapping struct {
	CIK    string `json:"cik"`
	Symbol string `json:"symbol,omitempty"`
	Name   string `json:"name"`
}

// FormerName is a previous registrant name.
type FormerName struct {
	Name string `json:"name"`
	From string `json:"from"`
	To   string `json:"to"`
}

// CompanyProfile is the descriptive part of an EDGAR submissions record.
type CompanyProfile struct {
	CIK                 string       `json:"cik"`
	Name                string       `json:"name"`
	Tickers             []string     `json:"tickers,omitempty"`
	Description         string       `json:"description"`
	SIC                 string       `json:"sector"`
	SICDescription      string       `json:"sector_description"`
	FormerNames         []FormerName `json:"former_names"`
	InsiderTransactions bool         `json:"insider_transaction"`
}
