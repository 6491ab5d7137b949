package domain

import "fmt"

// ChartType is the rendering hint for extracted chart data.
type ChartType string

const (
	ChartTypeBar  ChartType = "bar"
	ChartTypePie  ChartType = "pie"
	ChartTypeLine ChartType = "line"
)

// ChartData is numerical data extracted from report text, validated at the
// model boundary before it is allowed to propagate inward.
type ChartData struct {
	Title  string    `json:"title"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
	Type   ChartType `json:"type"`
}

// Empty reports whether the extraction found no chart-worthy data.
// The model signals this with an empty JSON object.
func (c ChartData) Empty() bool {
	return len(c.Labels) == 0 && len(c.Values) == 0
}

// Validate checks structural consistency of extracted chart data.
func (c ChartData) Validate() error {
	if len(c.Labels) != len(c.Values) {
		return fmt.Errorf("%w: %d labels but %d values", ErrInvalidInput, len(c.Labels), len(c.Values))
	}
	if len(c.Values) == 0 {
		return fmt.Errorf("%w: chart data has no values", ErrInvalidInput)
	}
	switch c.Type {
	case ChartTypeBar, ChartTypePie, ChartTypeLine:
		return nil
	default:
		return fmt.Errorf("%w: unknown chart type %q", ErrInvalidInput, c.Type)
	}
}
