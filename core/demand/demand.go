// Package demand turns occupancy into a weighted equipment requirement, e.g.
// how many stepladders the ramp needs per quarter hour. Weights come from
// configuration; the core knows the mechanism, never the airline names.
package demand

import (
	"time"

	"github.com/bastienlm/planche/core/model"
	"github.com/bastienlm/planche/core/occupancy"
)

// WeightTable maps airline categories to an equipment weight. Categories
// absent from the table, and intervals with no category at all, use Default.
type WeightTable struct {
	Categories map[string]float64 `json:"categories"`
	Default    float64            `json:"default"`
}

// SetDefaults applies sane defaults.
func (w *WeightTable) SetDefaults() {
	if w.Default == 0 {
		w.Default = 1
	}
}

// Weight returns the weight for one category.
func (w WeightTable) Weight(category string) float64 {
	if category != "" {
		if v, ok := w.Categories[category]; ok {
			return v
		}
	}
	return w.Default
}

// Point carries the occupancy count and the weighted demand at one instant.
type Point struct {
	At     time.Time `json:"at"`
	Count  int       `json:"count"`
	Demand float64   `json:"demand"`
}

// At computes the weighted demand for each sample instant: the sum of
// Weight(category) over every interval active there. Samples must be
// non-decreasing.
func At(samples []time.Time, intervals []model.Interval, weights WeightTable) []float64 {
	cur := occupancy.NewCursor(intervals)
	out := make([]float64, len(samples))
	for i, t := range samples {
		cur.AdvanceTo(t)
		out[i] = weigh(cur, weights)
	}
	return out
}

// Series computes count and weighted demand in a single sweep, for callers
// that need both on the same grid.
func Series(samples []time.Time, intervals []model.Interval, weights WeightTable) []Point {
	cur := occupancy.NewCursor(intervals)
	out := make([]Point, len(samples))
	for i, t := range samples {
		cur.AdvanceTo(t)
		out[i] = Point{At: t, Count: cur.Total(), Demand: weigh(cur, weights)}
	}
	return out
}

func weigh(cur *occupancy.Cursor, weights WeightTable) float64 {
	total := 0.0
	cur.Each(func(category string, count int) {
		total += weights.Weight(category) * float64(count)
	})
	return total
}
