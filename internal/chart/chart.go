// Package chart flattens aggregated summaries into the shapes charting
// frontends consume: labeled slices for pie charts and ordered points for
// trend lines.
package chart

import "gider/internal/core"

// Slice is one pie segment.
type Slice struct {
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Percent float64 `json:"percent"`
}

// PieSeries mirrors the category distribution. Categories keep their
// summary order, so two renders of the same summary look identical.
type PieSeries struct {
	Slices []Slice `json:"slices"`
}

// Point is one month on the trend line.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// TrendSeries carries the chronological monthly totals plus the peak
// month annotation.
type TrendSeries struct {
	Points    []Point `json:"points"`
	PeakLabel string  `json:"peakLabel"`
	PeakValue float64 `json:"peakValue"`
}

// Pie converts per-category totals into pie slices. Percentages are
// computed against the overall total, so expenses whose category never
// matched leave the slices summing below 100.
func Pie(s core.Summary) PieSeries {
	slices := make([]Slice, 0, len(s.Distribution))
	for _, c := range s.Distribution {
		slice := Slice{Label: c.Name, Value: c.Amount.Lira()}
		if s.Total.Cents > 0 {
			slice.Percent = float64(c.Amount.Cents) / float64(s.Total.Cents) * 100
		}
		slices = append(slices, slice)
	}
	return PieSeries{Slices: slices}
}

// Trend converts the monthly buckets into chronological points.
func Trend(s core.Summary) TrendSeries {
	points := make([]Point, 0, len(s.Monthly))
	for _, b := range s.Monthly {
		points = append(points, Point{Label: b.Label, Value: b.Total.Lira()})
	}
	return TrendSeries{
		Points:    points,
		PeakLabel: s.Peak.Label,
		PeakValue: s.Peak.Total.Lira(),
	}
}
