package edgar

// tickerEntry is one row of company_tickers.json.
type tickerEntry struct {
	CIKStr int    `json:"cik_str"`
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
}

// submissions is the subset of data.sec.gov/submissions/CIK##########.json
// the engine reads.
type submissions struct {
	CIK            string       `json:"cik"`
	Name           string       `json:"name"`
	Tickers        []string     `json:"tickers"`
	Description    string       `json:"description"`
	SIC            string       `json:"sic"`
	SICDescription string       `json:"sicDescription"`
	FormerNames    []formerName `json:"formerNames"`
	InsiderFlag    int          `json:"insiderTransactionForIssuerExists"`
	Filings        struct {
		Recent filingSet `json:"recent"`
	} `json:"filings"`
}

type formerName struct {
	Name string `json:"name"`
	From string `json:"from"`
	To   string `json:"to"`
}

// filingSet holds the recent filings as parallel column arrays.
type filingSet struct {
	AccessionNumber []string `json:"accessionNumber"`
	FilingDate      []string `json:"filingDate"`
	ReportDate      []string `json:"reportDate"`
	Form            []string `json:"form"`
	PrimaryDocument []string `json:"primaryDocument"`
}
