package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unburyme/amortization"
	"unburyme/domain"
)

func TestPortfolioTotal_SumsIndependentPayments(t *testing.T) {
	svc := NewPortfolioService(newTestLoanService(&MockLoanRepository{}, nil), nil)
	a := domain.Loan{Principal: 50000, AnnualInterestRatePercent: 5, TermYears: 15}
	b := domain.Loan{Principal: 20000, AnnualInterestRatePercent: 4, TermYears: 5}

	result, err := svc.Total(context.Background(), []domain.Loan{a, b})
	require.NoError(t, err)

	pa, err := amortization.MonthlyPayment(a)
	require.NoError(t, err)
	pb, err := amortization.MonthlyPayment(b)
	require.NoError(t, err)

	assert.Equal(t, roundTo2Decimals(pa+pb), result.TotalMonthlyPayment)
	require.Len(t, result.Loans, 2)
	assert.Equal(t, roundTo2Decimals(pa), result.Loans[0].MonthlyPayment)
	assert.Equal(t, roundTo2Decimals(pb), result.Loans[1].MonthlyPayment)
}

func TestPortfolioTotal_PreservesOrder(t *testing.T) {
	svc := NewPortfolioService(newTestLoanService(&MockLoanRepository{}, nil), nil)
	loans := make([]domain.Loan, 20)
	for i := range loans {
		loans[i] = domain.Loan{Principal: float64(1200 * (i + 1)), AnnualInterestRatePercent: 0, TermYears: 1}
	}

	result, err := svc.Total(context.Background(), loans)

	require.NoError(t, err)
	for i, r := range result.Loans {
		assert.Equal(t, float64(100*(i+1)), r.MonthlyPayment)
	}
	assert.Equal(t, 21000.0, result.TotalMonthlyPayment)
}

func TestPortfolioTotal_Empty(t *testing.T) {
	svc := NewPortfolioService(newTestLoanService(&MockLoanRepository{}, nil), nil)

	result, err := svc.Total(context.Background(), nil)

	require.NoError(t, err)
	assert.Zero(t, result.TotalMonthlyPayment)
	assert.Empty(t, result.Loans)
}

func TestPortfolioTotal_InvalidLoan(t *testing.T) {
	svc := NewPortfolioService(newTestLoanService(&MockLoanRepository{}, nil), nil)

	_, err := svc.Total(context.Background(), []domain.Loan{
		{Principal: 1000, AnnualInterestRatePercent: 1, TermYears: 1},
		{Principal: -5, AnnualInterestRatePercent: 1, TermYears: 1},
	})

	require.ErrorIs(t, err, domain.ErrInvalidLoanTerms)
	assert.Contains(t, err.Error(), "loan 1")
}

func TestPortfolioTotal_TooManyLoans(t *testing.T) {
	loanService := NewLoanService(&MockLoanRepository{}, nil, Limits{MaxLoansPerTotal: 2}, nil)
	svc := NewPortfolioService(loanService, nil)
	loan := domain.Loan{Principal: 1000, AnnualInterestRatePercent: 1, TermYears: 1}

	_, err := svc.Total(context.Background(), []domain.Loan{loan, loan, loan})

	assert.ErrorIs(t, err, domain.ErrLimitExceeded)
}

func TestPortfolioTotal_CancelledContext(t *testing.T) {
	svc := NewPortfolioService(newTestLoanService(&MockLoanRepository{}, nil), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Total(ctx, []domain.Loan{{Principal: 1000, AnnualInterestRatePercent: 1, TermYears: 1}})

	assert.ErrorIs(t, err, context.Canceled)
}
