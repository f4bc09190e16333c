package presentation

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"unburyme/domain"
	"unburyme/logger"
)

// LoanCalculator is the engine-backed service the Calculator drives.
type LoanCalculator interface {
	CalculateLoan(ctx context.Context, loan domain.Loan) (domain.LoanResult, error)
	Schedule(ctx context.Context, loan domain.Loan) ([]domain.AmortizationEntry, error)
}

// PortfolioCalculator totals several loans.
type PortfolioCalculator interface {
	Total(ctx context.Context, loans []domain.Loan) (domain.PortfolioResult, error)
}

// FormInput carries the raw text of the three calculator fields.
type FormInput struct {
	Principal    string
	InterestRate string
	Term         string
}

// ParseForm converts form text into a validated Loan. Empty or non-numeric
// fields are rejected rather than becoming NaN.
func ParseForm(form FormInput) (domain.Loan, error) {
	principal, err := strconv.ParseFloat(strings.TrimSpace(form.Principal), 64)
	if err != nil {
		return domain.Loan{}, domain.NewLoanTermsError("principal", "is not a number")
	}
	rate, err := strconv.ParseFloat(strings.TrimSpace(form.InterestRate), 64)
	if err != nil {
		return domain.Loan{}, domain.NewLoanTermsError("interest_rate", "is not a number")
	}
	term, err := strconv.Atoi(strings.TrimSpace(form.Term))
	if err != nil {
		return domain.Loan{}, domain.NewLoanTermsError("term_years", "is not a whole number of years")
	}
	return domain.NewLoan(principal, rate, term)
}

// BalanceSeries charts the remaining balance month by month.
func BalanceSeries(schedule []domain.AmortizationEntry) domain.Series {
	series := domain.Series{
		Label:  "Remaining Balance",
		Labels: make([]string, len(schedule)),
		Values: make([]float64, len(schedule)),
	}
	for i, entry := range schedule {
		series.Labels[i] = fmt.Sprintf("Month %d", entry.Month)
		series.Values[i] = entry.RemainingBalance
	}
	return series
}

// FormatPayment renders an amount with two decimals.
func FormatPayment(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

// FormatLoanDetails renders the terms of a loan alongside its payment.
func FormatLoanDetails(loan domain.Loan, monthlyPayment float64) string {
	return fmt.Sprintf("Principal: %s\nInterest Rate: %s\nTerm: %d\nMonthly Payment: %s",
		strconv.FormatFloat(loan.Principal, 'f', -1, 64),
		strconv.FormatFloat(loan.AnnualInterestRatePercent, 'f', -1, 64),
		loan.TermYears,
		FormatPayment(monthlyPayment))
}

// FormatTotal renders the combined monthly payment of several loans.
func FormatTotal(total float64) string {
	return "Total Monthly Payment: " + FormatPayment(total)
}

// Calculator binds form input to the loan services and pushes results to a
// Display and a Renderer.
type Calculator struct {
	title     string
	loans     LoanCalculator
	portfolio PortfolioCalculator
	renderer  Renderer
	display   Display
	chartOpts domain.ChartOptions
	log       *slog.Logger
}

// NewCalculator wires a Calculator. portfolio may be nil when totals are not
// offered.
func NewCalculator(
	title string,
	loans LoanCalculator,
	portfolio PortfolioCalculator,
	renderer Renderer,
	display Display,
	log *slog.Logger,
) *Calculator {
	if log == nil {
		log = slog.Default()
	}
	return &Calculator{
		title:     title,
		loans:     loans,
		portfolio: portfolio,
		renderer:  renderer,
		display:   display,
		chartOpts: DefaultChartOptions(),
		log:       log.With(logger.FieldComponent, logger.ComponentCalculator),
	}
}

// Initialize shows the application title.
func (c *Calculator) Initialize() error {
	return c.display.Show(SlotTitle, c.title)
}

// Calculate parses the form, shows the monthly payment and renders the
// balance chart. Invalid input is shown to the user and returned.
func (c *Calculator) Calculate(ctx context.Context, form FormInput) (domain.LoanResult, error) {
	loan, err := ParseForm(form)
	if err != nil {
		return domain.LoanResult{}, c.fail(ctx, err)
	}

	result, err := c.loans.CalculateLoan(ctx, loan)
	if err != nil {
		return domain.LoanResult{}, c.fail(ctx, err)
	}
	if err := c.display.Show(SlotMonthlyPayment, FormatPayment(result.MonthlyPayment)); err != nil {
		return result, fmt.Errorf("display monthly payment: %w", err)
	}
	if err := c.display.Show(SlotLoanDetails, FormatLoanDetails(loan, result.MonthlyPayment)); err != nil {
		return result, fmt.Errorf("display loan details: %w", err)
	}

	schedule, err := c.loans.Schedule(ctx, loan)
	if err != nil {
		return result, fmt.Errorf("build schedule: %w", err)
	}
	if err := c.renderer.Render(ctx, BalanceSeries(schedule), c.chartOpts); err != nil {
		return result, fmt.Errorf("render balance chart: %w", err)
	}
	return result, nil
}

// ShowTotal parses several forms and shows their combined monthly payment.
func (c *Calculator) ShowTotal(ctx context.Context, forms []FormInput) (domain.PortfolioResult, error) {
	if c.portfolio == nil {
		return domain.PortfolioResult{}, fmt.Errorf("calculator has no portfolio service")
	}

	loans := make([]domain.Loan, 0, len(forms))
	for i, form := range forms {
		loan, err := ParseForm(form)
		if err != nil {
			return domain.PortfolioResult{}, c.fail(ctx, fmt.Errorf("loan %d: %w", i, err))
		}
		loans = append(loans, loan)
	}

	result, err := c.portfolio.Total(ctx, loans)
	if err != nil {
		return domain.PortfolioResult{}, c.fail(ctx, err)
	}
	if err := c.display.Show(SlotTotal, FormatTotal(result.TotalMonthlyPayment)); err != nil {
		return result, fmt.Errorf("display total: %w", err)
	}
	return result, nil
}

func (c *Calculator) fail(ctx context.Context, err error) error {
	logger.ForComponent(ctx, c.log, logger.ComponentCalculator).InfoContext(ctx, "calculation rejected", logger.FieldError, err)
	if showErr := c.display.Show(SlotError, "Invalid input: "+err.Error()); showErr != nil {
		return fmt.Errorf("%w (display failed: %v)", err, showErr)
	}
	return err
}

// WriterDisplay prints each slot's content on its own line. The title is
// underlined; other slots are printed as-is.
type WriterDisplay struct {
	w io.Writer
}

func NewWriterDisplay(w io.Writer) *WriterDisplay {
	return &WriterDisplay{w: w}
}

func (d *WriterDisplay) Show(slot string, content string) error {
	var err error
	switch slot {
	case SlotTitle:
		_, err = fmt.Fprintf(d.w, "%s\n%s\n", content, strings.Repeat("=", len(content)))
	case SlotMonthlyPayment:
		_, err = fmt.Fprintf(d.w, "Monthly Payment: %s\n", content)
	default:
		_, err = fmt.Fprintln(d.w, content)
	}
	return err
}
