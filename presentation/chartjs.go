package presentation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"unburyme/domain"
)

// ChartJSConfig is the configuration object accepted by Chart.js.
type ChartJSConfig struct {
	Type    string         `json:"type"`
	Data    ChartJSData    `json:"data"`
	Options ChartJSOptions `json:"options"`
}

type ChartJSData struct {
	Labels   []string         `json:"labels"`
	Datasets []ChartJSDataset `json:"datasets"`
}

type ChartJSDataset struct {
	Label       string    `json:"label"`
	Data        []float64 `json:"data"`
	BorderColor string    `json:"borderColor,omitempty"`
	BorderWidth int       `json:"borderWidth,omitempty"`
}

type ChartJSOptions struct {
	Scales ChartJSScales `json:"scales"`
}

type ChartJSScales struct {
	Y ChartJSAxis `json:"y"`
}

type ChartJSAxis struct {
	BeginAtZero bool `json:"beginAtZero"`
}

// NewChartJSConfig builds a single-dataset chart configuration.
func NewChartJSConfig(series domain.Series, opts domain.ChartOptions) ChartJSConfig {
	chartType := opts.Type
	if chartType == "" {
		chartType = "line"
	}
	return ChartJSConfig{
		Type: chartType,
		Data: ChartJSData{
			Labels: series.Labels,
			Datasets: []ChartJSDataset{{
				Label:       series.Label,
				Data:        series.Values,
				BorderColor: opts.BorderColor,
				BorderWidth: opts.BorderWidth,
			}},
		},
		Options: ChartJSOptions{
			Scales: ChartJSScales{Y: ChartJSAxis{BeginAtZero: opts.BeginAtZero}},
		},
	}
}

// ChartJSRenderer writes a Chart.js configuration as JSON.
type ChartJSRenderer struct {
	w io.Writer
}

func NewChartJSRenderer(w io.Writer) *ChartJSRenderer {
	return &ChartJSRenderer{w: w}
}

func (r *ChartJSRenderer) Render(_ context.Context, series domain.Series, opts domain.ChartOptions) error {
	if len(series.Labels) != len(series.Values) {
		return fmt.Errorf("chart series has %d labels but %d values", len(series.Labels), len(series.Values))
	}
	if err := json.NewEncoder(r.w).Encode(NewChartJSConfig(series, opts)); err != nil {
		return fmt.Errorf("encode chart config: %w", err)
	}
	return nil
}
