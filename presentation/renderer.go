// Package presentation turns engine output into something a person can read:
// form parsing, formatted results and balance charts. Rendering is an
// injected capability so the engine never depends on a chart library.
package presentation

import (
	"context"

	"unburyme/domain"
)

// Renderer draws a series.
type Renderer interface {
	Render(ctx context.Context, series domain.Series, opts domain.ChartOptions) error
}

// Display receives formatted text for a named output slot such as
// "monthlyPayment".
type Display interface {
	Show(slot string, content string) error
}

// Output slots written by the Calculator.
const (
	SlotTitle          = "appTitle"
	SlotMonthlyPayment = "monthlyPayment"
	SlotLoanDetails    = "loanDetails"
	SlotTotal          = "totalResults"
	SlotError          = "error"
)

// DefaultChartOptions matches the balance chart of the web calculator.
func DefaultChartOptions() domain.ChartOptions {
	return domain.ChartOptions{
		Type:        "line",
		BorderColor: "rgba(75, 192, 192, 1)",
		BorderWidth: 1,
		BeginAtZero: true,
	}
}
