package chart

import (
	"math"
	"testing"
	"time"

	"gider/internal/core"
)

func TestPiePercentages(t *testing.T) {
	s := core.Summary{
		Total: core.Money{Cents: 40000},
		Distribution: []core.CategoryAmount{
			{Name: "Market", Amount: core.Money{Cents: 10000}},
			{Name: "Kira", Amount: core.Money{Cents: 30000}},
		},
	}
	pie := Pie(s)
	if len(pie.Slices) != 2 {
		t.Fatalf("expected 2 slices, got %d", len(pie.Slices))
	}
	if pie.Slices[0].Label != "Market" || pie.Slices[0].Value != 100.0 {
		t.Fatalf("unexpected first slice: %+v", pie.Slices[0])
	}
	if math.Abs(pie.Slices[0].Percent-25) > 1e-9 || math.Abs(pie.Slices[1].Percent-75) > 1e-9 {
		t.Fatalf("unexpected percentages: %+v", pie.Slices)
	}
}

func TestPieZeroTotal(t *testing.T) {
	s := core.Summary{
		Distribution: []core.CategoryAmount{{Name: "Market"}},
	}
	pie := Pie(s)
	if pie.Slices[0].Percent != 0 {
		t.Fatalf("zero total must yield zero percent, got %v", pie.Slices[0].Percent)
	}
}

func TestPieUnmatchedSpendingShrinksPercentages(t *testing.T) {
	// 100 lira total but only 60 attributed to a known category.
	s := core.Summary{
		Total: core.Money{Cents: 10000},
		Distribution: []core.CategoryAmount{
			{Name: "Market", Amount: core.Money{Cents: 6000}},
		},
	}
	pie := Pie(s)
	if math.Abs(pie.Slices[0].Percent-60) > 1e-9 {
		t.Fatalf("expected 60%%, got %v", pie.Slices[0].Percent)
	}
}

func TestTrendKeepsOrderAndPeak(t *testing.T) {
	s := core.Summary{
		Monthly: []core.MonthBucket{
			{Year: 2024, Month: time.January, Label: "Jan 2024", Total: core.Money{Cents: 15000}},
			{Year: 2024, Month: time.February, Label: "Feb 2024", Total: core.Money{Cents: 20000}},
		},
		Peak: core.MonthBucket{Year: 2024, Month: time.February, Label: "Feb 2024", Total: core.Money{Cents: 20000}},
	}
	trend := Trend(s)
	if len(trend.Points) != 2 || trend.Points[0].Label != "Jan 2024" || trend.Points[1].Value != 200.0 {
		t.Fatalf("unexpected points: %+v", trend.Points)
	}
	if trend.PeakLabel != "Feb 2024" || trend.PeakValue != 200.0 {
		t.Fatalf("unexpected peak: %q %v", trend.PeakLabel, trend.PeakValue)
	}
}

func TestTrendEmptySummaryUsesSentinelPeak(t *testing.T) {
	summary := core.Aggregate(nil, nil)
	trend := Trend(summary)
	if len(trend.Points) != 0 {
		t.Fatalf("expected no points, got %d", len(trend.Points))
	}
	if trend.PeakLabel != core.NoPeakLabel || trend.PeakValue != 0 {
		t.Fatalf("unexpected sentinel peak: %q %v", trend.PeakLabel, trend.PeakValue)
	}
}
