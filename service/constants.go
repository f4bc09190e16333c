package service

// MaxInterestRate and MaxTermYears together keep the first month's principal
// well above float64 precision relative to the balance, so every schedule
// pays down strictly month by month.
const (
	MaxLoanAmount     = 1_000_000_000.0 // 1 billion
	MaxInterestRate   = 40.0            // 40% a year
	MaxTermYears      = 50
	MaxLoansPerTotal  = 50
	MaxTermRangeYears = 40 // widest min..max span the recommender evaluates

	cachePrefixLoan = "loan"
)

// Limits bounds the loans a service will compute. Zero fields fall back to
// the package defaults.
type Limits struct {
	MaxPrincipal      float64
	MaxInterestRate   float64
	MaxTermYears      int
	MaxLoansPerTotal  int
	MaxTermRangeYears int
}

// DefaultLimits returns the built-in bounds.
func DefaultLimits() Limits {
	return Limits{
		MaxPrincipal:      MaxLoanAmount,
		MaxInterestRate:   MaxInterestRate,
		MaxTermYears:      MaxTermYears,
		MaxLoansPerTotal:  MaxLoansPerTotal,
		MaxTermRangeYears: MaxTermRangeYears,
	}
}

func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.MaxPrincipal <= 0 {
		l.MaxPrincipal = d.MaxPrincipal
	}
	if l.MaxInterestRate <= 0 {
		l.MaxInterestRate = d.MaxInterestRate
	}
	if l.MaxTermYears <= 0 {
		l.MaxTermYears = d.MaxTermYears
	}
	if l.MaxLoansPerTotal <= 0 {
		l.MaxLoansPerTotal = d.MaxLoansPerTotal
	}
	if l.MaxTermRangeYears <= 0 {
		l.MaxTermRangeYears = d.MaxTermRangeYears
	}
	return l
}
