package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"unburyme/amortization"
	"unburyme/domain"
	"unburyme/logger"
)

// ErrNoViableTerm is returned when every term in range costs more per month
// than the borrower can pay.
var ErrNoViableTerm = errors.New("no term fits the maximum monthly payment")

type TermRecommendationService struct {
	loanService *LoanService
	log         *slog.Logger
}

func NewTermRecommendationService(loanService *LoanService, log *slog.Logger) *TermRecommendationService {
	if log == nil {
		log = slog.Default()
	}
	return &TermRecommendationService{
		loanService: loanService,
		log:         log.With(logger.FieldComponent, logger.ComponentRecommend),
	}
}

// RecommendTerm evaluates every whole-year term in range and ranks the ones
// whose payment fits the budget.
func (s *TermRecommendationService) RecommendTerm(
	ctx context.Context,
	input domain.TermRecommendationInput,
) (domain.TermRecommendationResult, error) {
	if err := s.validate(input); err != nil {
		return domain.TermRecommendationResult{}, err
	}

	log := logger.ForComponent(ctx, s.log, logger.ComponentRecommend)
	recommendations := []domain.TermRecommendation{}

	for term := input.MinTermYears; term <= input.MaxTermYears; term++ {
		loan := domain.Loan{
			Principal:                 input.Principal,
			AnnualInterestRatePercent: input.AnnualInterestRatePercent,
			TermYears:                 term,
		}

		summary, err := amortization.Summarize(loan)
		if err != nil {
			log.WarnContext(ctx, "failed to calculate loan for term",
				logger.FieldTermYears, term, logger.FieldError, err)
			continue
		}

		result := displayResult(summary)
		if result.MonthlyPayment > input.MaxMonthlyPayment {
			continue
		}

		recommendations = append(recommendations, domain.TermRecommendation{
			TermYears:      term,
			MonthlyPayment: result.MonthlyPayment,
			TotalInterest:  result.TotalInterest,
			Score:          calculateScore(result, input, term),
			Reason:         generateReason(input.Preference),
		})
	}

	if len(recommendations) == 0 {
		return domain.TermRecommendationResult{}, ErrNoViableTerm
	}

	// Highest score first; shorter term wins a tie.
	sort.SliceStable(recommendations, func(i, j int) bool {
		if recommendations[i].Score != recommendations[j].Score {
			return recommendations[i].Score > recommendations[j].Score
		}
		return recommendations[i].TermYears < recommendations[j].TermYears
	})

	top := &recommendations[0]
	top.Reason = explain(*top, input.Preference)

	log.DebugContext(ctx, "term recommended",
		logger.FieldTermYears, top.TermYears,
		"candidates", len(recommendations))

	return domain.TermRecommendationResult{
		RecommendedTermYears: top.TermYears,
		Recommendations:      recommendations,
	}, nil
}

func (s *TermRecommendationService) validate(input domain.TermRecommendationInput) error {
	base := domain.Loan{
		Principal:                 input.Principal,
		AnnualInterestRatePercent: input.AnnualInterestRatePercent,
		TermYears:                 input.MinTermYears,
	}
	if err := base.Validate(); err != nil {
		return err
	}
	if input.MaxTermYears <= 0 {
		return domain.NewLoanTermsError("max_term_years", "must be greater than zero")
	}
	if input.MinTermYears > input.MaxTermYears {
		return domain.NewLoanTermsError("min_term_years", "must not exceed max_term_years")
	}
	if math.IsNaN(input.MaxMonthlyPayment) || math.IsInf(input.MaxMonthlyPayment, 0) {
		return domain.NewLoanTermsError("max_monthly_payment", "must be a finite number")
	}
	if input.MaxMonthlyPayment <= 0 {
		return domain.NewLoanTermsError("max_monthly_payment", "must be greater than zero")
	}
	switch input.Preference {
	case domain.PreferenceMinimizeInterest, domain.PreferenceMinimizePayment, domain.PreferenceBalanced:
	default:
		return domain.NewLoanTermsError("preference", "must be one of minimize_interest, minimize_payment, balanced")
	}

	limits := s.loanService.Limits()
	longest := base
	longest.TermYears = input.MaxTermYears
	if err := s.loanService.CheckLimits(longest); err != nil {
		return err
	}
	if input.MaxTermYears-input.MinTermYears > limits.MaxTermRangeYears {
		return fmt.Errorf("%w: term range exceeds the maximum of %d years",
			domain.ErrLimitExceeded, limits.MaxTermRangeYears)
	}
	return nil
}

// calculateScore rates a term from 0 to 10, weighting interest, payment and
// term length by preference.
func calculateScore(result domain.LoanResult, input domain.TermRecommendationInput, term int) float64 {
	rate := input.AnnualInterestRatePercent / 100
	maxPossibleInterest := input.Principal * rate * float64(input.MaxTermYears)
	minPossibleInterest := input.Principal * rate * float64(input.MinTermYears)
	interestRange := maxPossibleInterest - minPossibleInterest

	paymentFloor := input.Principal / float64(input.MaxTermYears*12)
	paymentRange := input.MaxMonthlyPayment - paymentFloor

	var interestScore, paymentScore float64
	termScore := 10.0

	if interestRange > 0 {
		interestScore = 10.0 * (1.0 - (result.TotalInterest-minPossibleInterest)/interestRange)
	}
	if paymentRange > 0 {
		paymentScore = 10.0 * (1.0 - (result.MonthlyPayment-paymentFloor)/paymentRange)
	}
	if span := input.MaxTermYears - input.MinTermYears; span > 0 {
		termScore = 10.0 * (1.0 - float64(term-input.MinTermYears)/float64(span))
	}

	var score float64
	switch input.Preference {
	case domain.PreferenceMinimizeInterest:
		score = 0.6*interestScore + 0.2*paymentScore + 0.2*termScore
	case domain.PreferenceMinimizePayment:
		score = 0.2*interestScore + 0.6*paymentScore + 0.2*termScore
	case domain.PreferenceBalanced:
		score = 0.4*interestScore + 0.4*paymentScore + 0.2*termScore
	}

	return roundTo2Decimals(score)
}

func generateReason(preference string) string {
	switch preference {
	case domain.PreferenceMinimizeInterest:
		return "Term optimized to minimize total interest cost"
	case domain.PreferenceMinimizePayment:
		return "Term optimized to minimize the monthly payment"
	case domain.PreferenceBalanced:
		return "Balance between monthly payment and total cost"
	}
	return "Recommendation based on the provided parameters"
}

func explain(rec domain.TermRecommendation, preference string) string {
	switch preference {
	case domain.PreferenceMinimizeInterest:
		return fmt.Sprintf("A %d-year term keeps total interest to %.2f at a monthly payment of %.2f.",
			rec.TermYears, rec.TotalInterest, rec.MonthlyPayment)
	case domain.PreferenceMinimizePayment:
		return fmt.Sprintf("A %d-year term lowers the monthly payment to %.2f, with %.2f paid in interest overall.",
			rec.TermYears, rec.MonthlyPayment, rec.TotalInterest)
	default:
		return fmt.Sprintf("A %d-year term balances a monthly payment of %.2f against %.2f in total interest.",
			rec.TermYears, rec.MonthlyPayment, rec.TotalInterest)
	}
}
