package stats

import (
	"errors"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary condenses a reward series into the headline figures shown in run
// listings.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`
}

// Summarize computes the summary of series. The sample standard deviation of
// a single observation is reported as zero.
func Summarize(series []float64) (Summary, error) {
	if len(series) == 0 {
		return Summary{}, errors.New("series is empty")
	}

	sorted := append([]float64(nil), series...)
	sort.Float64s(sorted)

	summary := Summary{
		Count:  len(sorted),
		Mean:   stat.Mean(sorted, nil),
		Min:    sorted[0],
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Max:    sorted[len(sorted)-1],
	}
	if len(sorted) > 1 {
		summary.Std = stat.StdDev(sorted, nil)
	}
	return summary, nil
}
