// Package occupancy computes how many intervals are active at given sample
// instants. The sampler is a boundary sweep: interval starts and ends are
// sorted once, then a cursor advances through them alongside the ordered
// samples, so a full day curve costs O((n+m) log(n+m)) instead of O(n·m).
package occupancy

import (
	"sort"
	"time"

	"github.com/bastienlm/planche/core/model"
)

type boundary struct {
	at       time.Time
	category string
}

// Cursor sweeps interval boundaries in time order, maintaining the set of
// active intervals. Samples must be fed in non-decreasing order; the cursor
// never moves backwards. Coverage is inclusive on both ends: an interval
// starting exactly at the sample instant is active, and one ending exactly
// there still is.
type Cursor struct {
	starts []boundary
	ends   []boundary
	si, ei int
	total  int
	active map[string]int
}

// NewCursor builds a sweep cursor over the given intervals. The interval
// slice is read once and not retained.
func NewCursor(intervals []model.Interval) *Cursor {
	c := &Cursor{
		starts: make([]boundary, 0, len(intervals)),
		ends:   make([]boundary, 0, len(intervals)),
		active: make(map[string]int),
	}
	for _, iv := range intervals {
		c.starts = append(c.starts, boundary{at: iv.Start, category: iv.Category})
		c.ends = append(c.ends, boundary{at: iv.End, category: iv.Category})
	}
	sort.Slice(c.starts, func(i, j int) bool { return c.starts[i].at.Before(c.starts[j].at) })
	sort.Slice(c.ends, func(i, j int) bool { return c.ends[i].at.Before(c.ends[j].at) })
	return c
}

// AdvanceTo moves the sweep to instant t: intervals with start <= t enter,
// intervals with end < t leave.
func (c *Cursor) AdvanceTo(t time.Time) {
	for c.si < len(c.starts) && !c.starts[c.si].at.After(t) {
		c.total++
		c.active[c.starts[c.si].category]++
		c.si++
	}
	for c.ei < len(c.ends) && c.ends[c.ei].at.Before(t) {
		c.total--
		cat := c.ends[c.ei].category
		if c.active[cat]--; c.active[cat] == 0 {
			delete(c.active, cat)
		}
		c.ei++
	}
}

// Total returns the number of intervals active at the current position.
func (c *Cursor) Total() int { return c.total }

// CountFor returns the active count for one category. The empty category
// selects uncategorized intervals.
func (c *Cursor) CountFor(category string) int { return c.active[category] }

// Breakdown returns a copy of the active counts per category. Uncategorized
// intervals are part of Total but never of the breakdown.
func (c *Cursor) Breakdown() map[string]int {
	out := make(map[string]int, len(c.active))
	for cat, n := range c.active {
		if cat == "" {
			continue
		}
		out[cat] = n
	}
	return out
}

// Each calls fn for every active category, including the empty one for
// uncategorized intervals. Iteration order is unspecified.
func (c *Cursor) Each(fn func(category string, count int)) {
	for cat, n := range c.active {
		fn(cat, n)
	}
}

// Counts returns the number of intervals covering each sample instant, in
// sample order. Samples must be non-decreasing.
func Counts(samples []time.Time, intervals []model.Interval) []int {
	cur := NewCursor(intervals)
	out := make([]int, len(samples))
	for i, t := range samples {
		cur.AdvanceTo(t)
		out[i] = cur.Total()
	}
	return out
}

// CountsFor is Counts restricted to one category, without re-deriving the
// interval set.
func CountsFor(samples []time.Time, intervals []model.Interval, category string) []int {
	cur := NewCursor(intervals)
	out := make([]int, len(samples))
	for i, t := range samples {
		cur.AdvanceTo(t)
		out[i] = cur.CountFor(category)
	}
	return out
}

// Points returns one sample point per instant with the full per-category
// breakdown.
func Points(samples []time.Time, intervals []model.Interval) []model.SamplePoint {
	cur := NewCursor(intervals)
	out := make([]model.SamplePoint, len(samples))
	for i, t := range samples {
		cur.AdvanceTo(t)
		out[i] = model.SamplePoint{At: t, Count: cur.Total(), ByCategory: cur.Breakdown()}
	}
	return out
}

// CountAt is the single-instant linear scan. It is the reference the sweep
// is tested against and stays adequate for one-off queries.
func CountAt(t time.Time, intervals []model.Interval) int {
	n := 0
	for _, iv := range intervals {
		if iv.Covers(t) {
			n++
		}
	}
	return n
}

// Grid returns sample instants from `from` to `to` inclusive, at the given
// step.
func Grid(from, to time.Time, step time.Duration) []time.Time {
	if step <= 0 || to.Before(from) {
		return nil
	}
	out := make([]time.Time, 0, int(to.Sub(from)/step)+1)
	for t := from; !t.After(to); t = t.Add(step) {
		out = append(out, t)
	}
	return out
}
