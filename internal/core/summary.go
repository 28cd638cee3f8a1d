package core

import (
	"sort"
	"time"
)

// NoPeakLabel is the placeholder shown when no month carries any spend.
const NoPeakLabel = "--"

type (
	// CategoryAmount is one category's accumulated spend for a data set.
	CategoryAmount struct {
		Name   string
		Amount Money
	}

	// MonthBucket accumulates spend for one calendar month. Label is the
	// human-readable form ("Jan 2024"); ordering always uses Year and
	// Month, never the label string.
	MonthBucket struct {
		Year  int
		Month time.Month
		Label string
		Total Money
	}

	// Summary is the derived dashboard state computed from one fetch of
	// expenses and categories.
	Summary struct {
		Total         Money
		CategoryCount int
		Distribution  []CategoryAmount
		Monthly       []MonthBucket
		Peak          MonthBucket
	}
)

// Aggregate computes the dashboard summary from raw fetched records.
//
// Total sums every expense amount regardless of category or date.
// Distribution carries one entry per known category, in input order,
// zero-valued when nothing was spent on it. Expenses referencing an
// unknown category contribute to Total only: the backend does not enforce
// referential integrity and the remainder is deliberately not reconciled.
// Expenses without a usable date (zero time) are likewise excluded from
// the monthly series but kept in Total.
func Aggregate(expenses []Expense, categories []Category) Summary {
	s := Summary{CategoryCount: len(categories)}

	dist := make([]CategoryAmount, len(categories))
	byID := make(map[string]int, len(categories))
	for i, c := range categories {
		dist[i] = CategoryAmount{Name: c.Name}
		byID[c.ID] = i
	}

	type monthKey struct {
		year  int
		month time.Month
	}
	buckets := make(map[monthKey]*MonthBucket)

	for _, e := range expenses {
		s.Total.Cents += e.Amount.Cents

		if i, ok := byID[e.CategoryID]; ok {
			dist[i].Amount.Cents += e.Amount.Cents
		}

		if e.Date.IsZero() {
			continue
		}
		k := monthKey{e.Date.Year(), e.Date.Month()}
		b, ok := buckets[k]
		if !ok {
			b = &MonthBucket{Year: k.year, Month: k.month, Label: monthLabel(k.year, k.month)}
			buckets[k] = b
		}
		b.Total.Cents += e.Amount.Cents
	}

	monthly := make([]MonthBucket, 0, len(buckets))
	for _, b := range buckets {
		monthly = append(monthly, *b)
	}
	sort.Slice(monthly, func(i, j int) bool {
		if monthly[i].Year != monthly[j].Year {
			return monthly[i].Year < monthly[j].Year
		}
		return monthly[i].Month < monthly[j].Month
	})

	s.Distribution = dist
	s.Monthly = monthly
	s.Peak = peakMonth(monthly)
	return s
}

// peakMonth reduces left to right over the chronological series; ties keep
// the earlier bucket. An empty series yields the zero-valued sentinel.
func peakMonth(monthly []MonthBucket) MonthBucket {
	if len(monthly) == 0 {
		return MonthBucket{Label: NoPeakLabel}
	}
	peak := monthly[0]
	for _, b := range monthly[1:] {
		if b.Total.Cents > peak.Total.Cents {
			peak = b
		}
	}
	return peak
}

func monthLabel(year int, month time.Month) string {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format("Jan 2006")
}
