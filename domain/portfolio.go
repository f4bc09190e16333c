package domain

// PortfolioResult is the outcome of totalling several independent loans.
type PortfolioResult struct {
	Loans               []LoanResult `json:"loans"`
	TotalMonthlyPayment float64      `json:"total_monthly_payment"`
}
