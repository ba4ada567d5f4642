// Package stats aggregates a normalized day program into the figures shown
// on the daily report: per-airline flight and passenger totals, special
// flight tallies, and curve summaries.
package stats

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/bastienlm/planche/core/model"
)

// CategoryCount aggregates flights and passengers for one airline category.
type CategoryCount struct {
	Category string `json:"category"`
	Flights  int    `json:"flights"`
	Pax      int    `json:"pax"`
}

// DayStats summarizes a normalized day program.
type DayStats struct {
	Flights       int             `json:"flights"`
	Pax           int             `json:"pax"`
	Arrivals      int             `json:"arrivals"`
	Departures    int             `json:"departures"`
	DepartureOnly int             `json:"departure_only"` // départs secs
	ArrivalOnly   int             `json:"arrival_only"`   // night stops
	ByCategory    []CategoryCount `json:"by_category"`
}

// Collect tallies the day program. Uncategorized intervals are counted in
// the totals but not in the per-category list.
func Collect(intervals []model.Interval) DayStats {
	s := DayStats{Flights: len(intervals)}
	byCat := make(map[string]*CategoryCount)
	for _, iv := range intervals {
		s.Pax += iv.Pax
		switch iv.Kind {
		case model.KindTurnaround:
			s.Arrivals++
			s.Departures++
		case model.KindArrivalOnly:
			s.Arrivals++
			s.ArrivalOnly++
		case model.KindDepartureOnly:
			s.Departures++
			s.DepartureOnly++
		}
		if iv.Category == "" {
			continue
		}
		cc, ok := byCat[iv.Category]
		if !ok {
			cc = &CategoryCount{Category: iv.Category}
			byCat[iv.Category] = cc
		}
		cc.Flights++
		cc.Pax += iv.Pax
	}
	for _, cc := range byCat {
		s.ByCategory = append(s.ByCategory, *cc)
	}
	sort.Slice(s.ByCategory, func(i, j int) bool {
		if s.ByCategory[i].Flights != s.ByCategory[j].Flights {
			return s.ByCategory[i].Flights > s.ByCategory[j].Flights
		}
		return s.ByCategory[i].Category < s.ByCategory[j].Category
	})
	return s
}

// SeriesSummary describes an occupancy or demand curve.
type SeriesSummary struct {
	Peak float64 `json:"peak"`
	Mean float64 `json:"mean"`
	P95  float64 `json:"p95"`
}

// Summarize computes peak, mean and 95th percentile of a curve. The zero
// summary is returned for an empty series.
func Summarize(values []float64) SeriesSummary {
	if len(values) == 0 {
		return SeriesSummary{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return SeriesSummary{
		Peak: floats.Max(sorted),
		Mean: stat.Mean(sorted, nil),
		P95:  stat.Quantile(0.95, stat.Empirical, sorted, nil),
	}
}

// SummarizeCounts is Summarize over an integer curve.
func SummarizeCounts(counts []int) SeriesSummary {
	values := make([]float64, len(counts))
	for i, n := range counts {
		values[i] = float64(n)
	}
	return Summarize(values)
}
