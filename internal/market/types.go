package market

// --- Yahoo Finance v8 chart ---

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *apiError     `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta       chartMeta  `json:"meta"`
	Timestamp  []int64    `json:"timestamp"`
	Indicators indicators `json:"indicators"`
	Events     struct {
		Dividends map[string]dividendEvent `json:"dividends"`
	} `json:"events"`
}

type chartMeta struct {
	Symbol             string  `json:"symbol"`
	Currency           string  `json:"currency"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
}

type indicators struct {
	Quote []ohlcv `json:"quote"`
}

type ohlcv struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}

type dividendEvent struct {
	Amount float64 `json:"amount"`
	Date   int64   `json:"date"`
}

// --- Yahoo Finance v7 quote ---

type quoteResponse struct {
	QuoteResponse struct {
		Result []quoteResult `json:"result"`
		Error  *apiError     `json:"error"`
	} `json:"quoteResponse"`
}

type quoteResult struct {
	Symbol             string   `json:"symbol"`
	ShortName          string   `json:"shortName"`
	LongName           string   `json:"longName"`
	Currency           string   `json:"currency"`
	RegularMarketPrice *float64 `json:"regularMarketPrice"`
	TrailingEPS        *float64 `json:"epsTrailingTwelveMonths"`
	ForwardEPS         *float64 `json:"epsForward"`
	MarketCap          *float64 `json:"marketCap"`
	SharesOutstanding  *float64 `json:"sharesOutstanding"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}
