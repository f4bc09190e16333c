package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"

	"unburyme/amortization"
	"unburyme/domain"
	"unburyme/logger"
	"unburyme/repository"
)

// roundTo2Decimals rounds a value for display.
func roundTo2Decimals(value float64) float64 {
	return math.Round(value*100) / 100
}

type LoanService struct {
	repo   repository.LoanRepository
	cache  repository.CacheRepository
	limits Limits
	log    *slog.Logger
}

// NewLoanService creates a new LoanService. A nil cache disables caching and
// a nil logger means slog.Default().
func NewLoanService(
	repo repository.LoanRepository,
	cache repository.CacheRepository,
	limits Limits,
	log *slog.Logger,
) *LoanService {
	if cache == nil {
		cache = repository.NoopCache{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &LoanService{
		repo:   repo,
		cache:  cache,
		limits: limits.withDefaults(),
		log:    log.With(logger.FieldComponent, logger.ComponentLoan),
	}
}

// Limits returns the bounds in effect.
func (s *LoanService) Limits() Limits {
	return s.limits
}

// CheckLimits validates the loan terms and then the configured bounds.
func (s *LoanService) CheckLimits(loan domain.Loan) error {
	if err := loan.Validate(); err != nil {
		return err
	}
	if loan.Principal > s.limits.MaxPrincipal {
		return fmt.Errorf("%w: principal exceeds the maximum of %.2f", domain.ErrLimitExceeded, s.limits.MaxPrincipal)
	}
	if loan.AnnualInterestRatePercent > s.limits.MaxInterestRate {
		return fmt.Errorf("%w: interest rate exceeds the maximum of %.2f%%", domain.ErrLimitExceeded, s.limits.MaxInterestRate)
	}
	if loan.TermYears > s.limits.MaxTermYears {
		return fmt.Errorf("%w: term exceeds the maximum of %d years", domain.ErrLimitExceeded, s.limits.MaxTermYears)
	}
	return nil
}

// CalculateLoan computes the monthly payment and lifetime totals, rounded for
// display, and records the calculation.
func (s *LoanService) CalculateLoan(ctx context.Context, loan domain.Loan) (domain.LoanResult, error) {
	if err := s.CheckLimits(loan); err != nil {
		return domain.LoanResult{}, err
	}

	log := logger.ForComponent(ctx, s.log, logger.ComponentLoan).With(
		logger.FieldPrincipal, loan.Principal,
		logger.FieldRate, loan.AnnualInterestRatePercent,
		logger.FieldTermYears, loan.TermYears,
	)

	key := repository.CacheKey(cachePrefixLoan, loan)
	result, hit := s.cached(ctx, key)
	if !hit {
		summary, err := amortization.Summarize(loan)
		if err != nil {
			return domain.LoanResult{}, err
		}
		result = displayResult(summary)
		s.store(ctx, log, key, result)
	}
	log.DebugContext(ctx, "loan calculated",
		logger.FieldCacheHit, hit,
		"monthly_payment", result.MonthlyPayment)

	// History is best effort.
	if err := s.repo.Save(ctx, domain.NewCalculation(loan, result)); err != nil {
		log.WarnContext(ctx, "failed to save loan calculation", logger.FieldError, err)
	}

	return result, nil
}

// Schedule returns the raw, unrounded amortization schedule.
func (s *LoanService) Schedule(ctx context.Context, loan domain.Loan) ([]domain.AmortizationEntry, error) {
	if err := s.CheckLimits(loan); err != nil {
		return nil, err
	}
	return amortization.Schedule(loan)
}

// History returns the most recent calculations.
func (s *LoanService) History(ctx context.Context, limit int) ([]domain.Calculation, error) {
	calcs, err := s.repo.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("load calculation history: %w", err)
	}
	return calcs, nil
}

func (s *LoanService) cached(ctx context.Context, key string) (domain.LoanResult, bool) {
	raw, ok := s.cache.Get(ctx, key)
	if !ok {
		return domain.LoanResult{}, false
	}
	var result domain.LoanResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		s.log.WarnContext(ctx, "discarding unreadable cache entry", "key", key, logger.FieldError, err)
		return domain.LoanResult{}, false
	}
	return result, true
}

func (s *LoanService) store(ctx context.Context, log *slog.Logger, key string, result domain.LoanResult) {
	raw, err := json.Marshal(result)
	if err != nil {
		log.WarnContext(ctx, "failed to encode loan result for cache", logger.FieldError, err)
		return
	}
	if err := s.cache.Set(ctx, key, string(raw)); err != nil {
		log.WarnContext(ctx, "failed to cache loan result", logger.FieldError, err)
	}
}

func displayResult(summary amortization.Summary) domain.LoanResult {
	return domain.LoanResult{
		MonthlyPayment: roundTo2Decimals(summary.MonthlyPayment),
		TotalPayment:   roundTo2Decimals(summary.TotalPayment),
		TotalInterest:  roundTo2Decimals(summary.TotalInterest),
		PaymentCount:   summary.PaymentCount,
	}
}
