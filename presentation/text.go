package presentation

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	"unburyme/domain"
)

const defaultTextWidth = 50

// TextRenderer draws a series as a horizontal bar chart for terminals. With a
// Step above one only every Step-th point (and the last) is drawn.
type TextRenderer struct {
	w     io.Writer
	Width int
	Step  int
}

func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w, Width: defaultTextWidth, Step: 1}
}

func (r *TextRenderer) Render(_ context.Context, series domain.Series, opts domain.ChartOptions) error {
	if len(series.Labels) != len(series.Values) {
		return fmt.Errorf("chart series has %d labels but %d values", len(series.Labels), len(series.Values))
	}

	width := r.Width
	if width <= 0 {
		width = defaultTextWidth
	}
	step := r.Step
	if step <= 0 {
		step = 1
	}

	var lo, hi float64
	labelWidth := 0
	for i, v := range series.Values {
		if i == 0 || v > hi {
			hi = v
		}
		if i == 0 || v < lo {
			lo = v
		}
		labelWidth = max(labelWidth, len(series.Labels[i]))
	}
	if opts.BeginAtZero {
		lo = math.Min(lo, 0)
	}
	span := hi - lo

	var b strings.Builder
	if series.Label != "" {
		fmt.Fprintf(&b, "%s\n", series.Label)
	}
	last := len(series.Values) - 1
	for i, v := range series.Values {
		if i%step != 0 && i != last {
			continue
		}
		bar := 0
		if span > 0 {
			bar = int(math.Round((v - lo) / span * float64(width)))
		}
		fmt.Fprintf(&b, "%-*s |%s %.2f\n", labelWidth, series.Labels[i], strings.Repeat("#", bar), v)
	}

	if _, err := io.WriteString(r.w, b.String()); err != nil {
		return fmt.Errorf("write text chart: %w", err)
	}
	return nil
}
