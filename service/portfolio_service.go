package service

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"unburyme/amortization"
	"unburyme/domain"
	"unburyme/logger"
)

// portfolioWorkers caps how many loans are computed at once.
const portfolioWorkers = 8

// PortfolioService totals the monthly payments of several independent loans.
type PortfolioService struct {
	loanService *LoanService
	log         *slog.Logger
}

func NewPortfolioService(loanService *LoanService, log *slog.Logger) *PortfolioService {
	if log == nil {
		log = slog.Default()
	}
	return &PortfolioService{
		loanService: loanService,
		log:         log.With(logger.FieldComponent, logger.ComponentPortfolio),
	}
}

// Total computes every loan independently and sums the unrounded payments.
// The sum is taken in input order so the result does not depend on
// scheduling.
func (s *PortfolioService) Total(ctx context.Context, loans []domain.Loan) (domain.PortfolioResult, error) {
	limits := s.loanService.Limits()
	if len(loans) > limits.MaxLoansPerTotal {
		return domain.PortfolioResult{}, fmt.Errorf("%w: %d loans exceeds the maximum of %d",
			domain.ErrLimitExceeded, len(loans), limits.MaxLoansPerTotal)
	}

	summaries := make([]amortization.Summary, len(loans))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(portfolioWorkers)
	for i, loan := range loans {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := s.loanService.CheckLimits(loan); err != nil {
				return fmt.Errorf("loan %d: %w", i, err)
			}
			summary, err := amortization.Summarize(loan)
			if err != nil {
				return fmt.Errorf("loan %d: %w", i, err)
			}
			summaries[i] = summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.PortfolioResult{}, err
	}

	result := domain.PortfolioResult{Loans: make([]domain.LoanResult, len(loans))}
	var total float64
	for i, summary := range summaries {
		total += summary.MonthlyPayment
		result.Loans[i] = displayResult(summary)
	}
	result.TotalMonthlyPayment = roundTo2Decimals(total)

	logger.ForComponent(ctx, s.log, logger.ComponentPortfolio).DebugContext(ctx, "portfolio totalled",
		"loans", len(loans),
		"total_monthly_payment", result.TotalMonthlyPayment)

	return result, nil
}
