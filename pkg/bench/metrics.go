package bench

import "strconv"

// Row is one measured metric: a scenario tag, a metric name, its value, and
// the unit the value is expressed in ("ns" or "bytes").
type Row struct {
	Scenario string
	Metric   string
	Value    float64
	Unit     string
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
