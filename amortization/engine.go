// Package amortization computes fixed-rate loan payments and schedules.
//
// Every function here is a pure function of its inputs: no I/O, no logging,
// no rounding. Rounding to currency precision belongs to whoever displays the
// numbers.
package amortization

import (
	"fmt"
	"math"

	"unburyme/domain"
)

// Summary aggregates the lifetime cost of a loan.
type Summary struct {
	MonthlyPayment float64
	TotalPayment   float64
	TotalInterest  float64
	PaymentCount   int
}

// MonthlyPayment returns the fixed payment due every month:
//
//	P * r / (1 - (1+r)^-n)
//
// A zero rate would make that 0/0, so it amortizes linearly as P / n.
func MonthlyPayment(loan domain.Loan) (float64, error) {
	if err := loan.Validate(); err != nil {
		return 0, err
	}
	return monthlyPayment(loan), nil
}

// discount returns 1 - (1+r)^-k. It goes through log1p/expm1 so that rates
// too small to change 1+r in float64 still produce a non-zero result.
func discount(rate float64, k int) float64 {
	return -math.Expm1(-float64(k) * math.Log1p(rate))
}

func monthlyPayment(loan domain.Loan) float64 {
	n := loan.PaymentCount()
	rate := loan.MonthlyRate()
	if rate == 0 {
		return loan.Principal / float64(n)
	}
	d := discount(rate, n)
	if d == 0 {
		return loan.Principal / float64(n)
	}
	return loan.Principal * rate / d
}

// Schedule returns one entry per month, in month order, tracking the
// remaining balance from the principal down to zero.
//
// The balance after month k is taken from the closed form
//
//	P * (1 - (1+r)^-(n-k)) / (1 - (1+r)^-n)
//
// rather than by subtracting each month's principal from a running total,
// which would grow rounding error by a factor of (1+r) every month.
func Schedule(loan domain.Loan) ([]domain.AmortizationEntry, error) {
	if err := loan.Validate(); err != nil {
		return nil, err
	}

	n := loan.PaymentCount()
	rate := loan.MonthlyRate()
	payment := monthlyPayment(loan)
	total := discount(rate, n)
	linear := rate == 0 || total == 0

	schedule := make([]domain.AmortizationEntry, 0, n)
	previous := loan.Principal
	for month := 1; month <= n; month++ {
		var balance, principal, interest float64
		if linear {
			balance = loan.Principal * float64(n-month) / float64(n)
			principal = payment
		} else {
			balance = loan.Principal * (discount(rate, n-month) / total)
			principal = previous - balance
			interest = payment - principal
		}
		schedule = append(schedule, domain.AmortizationEntry{
			Month:            month,
			PrincipalPortion: principal,
			InterestPortion:  interest,
			RemainingBalance: balance,
		})
		previous = balance
	}
	return schedule, nil
}

// Summarize returns the payment together with the total paid and the total
// interest over the life of the loan.
func Summarize(loan domain.Loan) (Summary, error) {
	if err := loan.Validate(); err != nil {
		return Summary{}, err
	}
	payment := monthlyPayment(loan)
	n := loan.PaymentCount()
	total := payment * float64(n)
	return Summary{
		MonthlyPayment: payment,
		TotalPayment:   total,
		TotalInterest:  total - loan.Principal,
		PaymentCount:   n,
	}, nil
}

// TotalMonthlyPayment sums the monthly payment of each loan, computed
// independently. The first invalid loan fails the total.
func TotalMonthlyPayment(loans []domain.Loan) (float64, error) {
	var total float64
	for i, loan := range loans {
		payment, err := MonthlyPayment(loan)
		if err != nil {
			return 0, fmt.Errorf("loan %d: %w", i, err)
		}
		total += payment
	}
	return total, nil
}
