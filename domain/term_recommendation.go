package domain

// Preferences accepted by the term recommender.
const (
	PreferenceMinimizeInterest = "minimize_interest"
	PreferenceMinimizePayment  = "minimize_payment"
	PreferenceBalanced         = "balanced"
)

type TermRecommendationInput struct {
	Principal                 float64 `json:"principal" validate:"gt=0"`
	AnnualInterestRatePercent float64 `json:"interest_rate" validate:"gte=0"`
	MinTermYears              int     `json:"min_term_years" validate:"gt=0"`
	MaxTermYears              int     `json:"max_term_years" validate:"gt=0,gtefield=MinTermYears"`
	MaxMonthlyPayment         float64 `json:"max_monthly_payment" validate:"gt=0"`
	Preference                string  `json:"preference" validate:"oneof=minimize_interest minimize_payment balanced"`
}

type TermRecommendation struct {
	TermYears      int     `json:"term_years"`
	MonthlyPayment float64 `json:"monthly_payment"`
	TotalInterest  float64 `json:"total_interest"`
	Score          float64 `json:"score"`
	Reason         string  `json:"reason"`
}

type TermRecommendationResult struct {
	RecommendedTermYears int                  `json:"recommended_term_years"`
	Recommendations      []TermRecommendation `json:"recommendations"`
}
