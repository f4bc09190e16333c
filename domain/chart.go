package domain

// Series is a labelled sequence of points handed to a chart renderer.
// Labels and Values are parallel.
type Series struct {
	Label  string
	Labels []string
	Values []float64
}

// ChartOptions controls how a Series is drawn.
type ChartOptions struct {
	Type        string
	BorderColor string
	BorderWidth int
	BeginAtZero bool
}
