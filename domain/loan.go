package domain

import (
	"fmt"
	"math"
)

// MaxLoanTermYears bounds the schedule length any loan can ask for.
const MaxLoanTermYears = 1200

// Loan holds the terms of a fixed-rate amortizing loan. It is never mutated
// after construction.
type Loan struct {
	Principal                 float64 `json:"principal" validate:"gt=0"`
	AnnualInterestRatePercent float64 `json:"interest_rate" validate:"gte=0"`
	TermYears                 int     `json:"term_years" validate:"gt=0"`
}

// NewLoan builds a Loan and validates its terms.
func NewLoan(principal, annualInterestRatePercent float64, termYears int) (Loan, error) {
	loan := Loan{
		Principal:                 principal,
		AnnualInterestRatePercent: annualInterestRatePercent,
		TermYears:                 termYears,
	}
	if err := loan.Validate(); err != nil {
		return Loan{}, err
	}
	return loan, nil
}

// MonthlyRate is the periodic rate as a fraction, e.g. 6% a year -> 0.005.
func (l Loan) MonthlyRate() float64 {
	return l.AnnualInterestRatePercent / 12 / 100
}

// PaymentCount is the number of monthly payments over the life of the loan.
func (l Loan) PaymentCount() int {
	return l.TermYears * 12
}

// Validate rejects terms the amortization formula cannot handle, including
// NaN and infinite values coming from failed parses.
func (l Loan) Validate() error {
	if math.IsNaN(l.Principal) || math.IsInf(l.Principal, 0) {
		return NewLoanTermsError("principal", "must be a finite number")
	}
	if l.Principal <= 0 {
		return NewLoanTermsError("principal", "must be greater than zero")
	}
	if math.IsNaN(l.AnnualInterestRatePercent) || math.IsInf(l.AnnualInterestRatePercent, 0) {
		return NewLoanTermsError("interest_rate", "must be a finite number")
	}
	if l.AnnualInterestRatePercent < 0 {
		return NewLoanTermsError("interest_rate", "must not be negative")
	}
	if l.TermYears <= 0 {
		return NewLoanTermsError("term_years", "must be greater than zero")
	}
	if l.TermYears > MaxLoanTermYears {
		return NewLoanTermsError("term_years", fmt.Sprintf("must not exceed %d years", MaxLoanTermYears))
	}
	return nil
}

// AmortizationEntry is one row of an amortization schedule.
type AmortizationEntry struct {
	Month            int     `json:"month"`
	PrincipalPortion float64 `json:"principal"`
	InterestPortion  float64 `json:"interest"`
	RemainingBalance float64 `json:"balance"`
}

// LoanResult is the display summary of a calculation. Amounts are rounded to
// two decimals.
type LoanResult struct {
	MonthlyPayment float64 `json:"monthly_payment"`
	TotalPayment   float64 `json:"total_payment"`
	TotalInterest  float64 `json:"total_interest"`
	PaymentCount   int     `json:"payment_count"`
}
