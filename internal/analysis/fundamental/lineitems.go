package fundamental

// XBRL labels the catalog reads, as they appear in us-gaap company facts.
const (
	lblAssets              = "Assets"
	lblLiabilities         = "Liabilities"
	lblLiabNoncurrent      = "Liabilities, Noncurrent"
	lblEquity              = "Stockholders' Equity Attributable to Parent"
	lblNetIncome           = "Net Income (Loss) Attributable to Parent"
	lblNonoperating        = "Nonoperating Income (Expense)"
	lblIncomeTax           = "Income Tax Expense (Benefit)"
	lblPretaxContinuingOps = "Income (Loss) from Continuing Operations before Income Taxes, Noncontrolling Interest"
	lblCurrentLiabilities  = "Liabilities, Current"
	lblCurrentAssets       = "Assets, Current"
	lblCash                = "Cash and Cash Equivalents, at Carrying Value"
	lblMarketableCurrent   = "Marketable Securities, Current"
	lblNontradeReceivables = "Nontrade Receivables, Current"
	lblCOGS                = "Cost of Goods and Services Sold"
	lblInventory           = "Inventory, Net"
	lblRevenueContract     = "Revenue from Contract with Customer, Excluding Assessed Tax"
	lblRevenues            = "Revenues"
	lblReceivablesChange   = "Increase (Decrease) in Accounts Receivable"
	lblPayables            = "Accounts Payable, Current"
	lblPayablesAccrued     = "Accounts Payable and Accrued Liabilities, Current"
	lblRetainedEarnings    = "Retained Earnings (Accumulated Deficit)"
	lblDividends           = "Dividends"
	lblComprehensiveIncome = "Comprehensive Income (Loss), Net of Tax, Attributable to Parent"
	lblDilutedEPS          = "Earnings Per Share, Diluted"
)

// Candidate label lists for metrics reported under more than one element.
var (
	revenueLabels  = []string{lblRevenueContract, lblRevenues}
	payablesLabels = []string{lblPayables, lblPayablesAccrued}
)

const daysPerYear = 365.0
