// Package schedule partitions ground intervals into vacation lines for the
// flight board. Two policies exist: a plain greedy coloring that only
// forbids overlap on a line, and a windowed policy that additionally bounds
// each line to a shift amplitude and enforces a minimum gap between flights
// sharing a line. Both produce the same assignment shape, so renderers stay
// policy-agnostic.
package schedule

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bastienlm/planche/core/model"
)

// Policy selects the line-building algorithm.
type Policy int

const (
	// PolicyWindowed groups flights into amplitude-bounded lines separated
	// by a minimum gap. Default.
	PolicyWindowed Policy = iota
	// PolicyGreedy packs each flight onto the first line where it does not
	// overlap, with no bound on line duration.
	PolicyGreedy
)

// String returns the configuration name of the policy.
func (p Policy) String() string {
	switch p {
	case PolicyWindowed:
		return "windowed"
	case PolicyGreedy:
		return "greedy"
	default:
		return "unknown"
	}
}

// ParsePolicy resolves a configuration value to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "windowed":
		return PolicyWindowed, nil
	case "greedy":
		return PolicyGreedy, nil
	default:
		return 0, fmt.Errorf("unknown schedule policy %q", s)
	}
}

// Config defines scheduling parameters loaded from configuration.
type Config struct {
	Policy         string `json:"policy"`
	AmplitudeHours int    `json:"amplitude_hours"`
	MinGapMinutes  int    `json:"min_gap_minutes"`
}

// SetDefaults applies sane defaults: an 8 hour shift and a 10 minute gap.
func (c *Config) SetDefaults() {
	if c.Policy == "" {
		c.Policy = PolicyWindowed.String()
	}
	if c.AmplitudeHours == 0 {
		c.AmplitudeHours = 8
	}
	if c.MinGapMinutes == 0 {
		c.MinGapMinutes = 10
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if _, err := ParsePolicy(c.Policy); err != nil {
		return err
	}
	if c.AmplitudeHours <= 0 {
		return fmt.Errorf("amplitude_hours must be positive")
	}
	if c.MinGapMinutes < 0 {
		return fmt.Errorf("min_gap_minutes must not be negative")
	}
	return nil
}

// Amplitude returns the configured shift length.
func (c Config) Amplitude() time.Duration {
	return time.Duration(c.AmplitudeHours) * time.Hour
}

// MinGap returns the configured minimum gap between flights on a line.
func (c Config) MinGap() time.Duration {
	return time.Duration(c.MinGapMinutes) * time.Minute
}

// Line is the state of one vacation line: its anchor, validity window and
// members in assignment order. WindowEnd is zero under the greedy policy,
// which has no duration bound.
type Line struct {
	Index     int       `json:"index"`
	AnchorID  string    `json:"anchor_id"`
	Start     time.Time `json:"start"`
	WindowEnd time.Time `json:"window_end,omitempty"`
	Members   []string  `json:"members"`
}

type lineState struct {
	windowEnd time.Time
	members   []model.Interval
}

// Plan partitions intervals into vacation lines and returns both the flat
// assignments and the per-line state for rendering. Every interval lands on
// exactly one line; the interval slice itself is never mutated.
func Plan(intervals []model.Interval, cfg Config) ([]model.TrackAssignment, []Line, error) {
	policy, err := ParsePolicy(cfg.Policy)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	for _, iv := range intervals {
		// A reversed span here is a programming error upstream, not data.
		if err := iv.Validate(); err != nil {
			return nil, nil, err
		}
	}

	var lines []lineState
	switch policy {
	case PolicyGreedy:
		lines = planGreedy(intervals)
	default:
		lines = planWindowed(intervals, cfg.Amplitude(), cfg.MinGap())
	}

	assignments := make([]model.TrackAssignment, 0, len(intervals))
	out := make([]Line, len(lines))
	for idx, ln := range lines {
		members := make([]string, len(ln.members))
		for i, iv := range ln.members {
			members[i] = iv.ID
			assignments = append(assignments, model.TrackAssignment{IntervalID: iv.ID, Line: idx})
		}
		out[idx] = Line{
			Index:     idx,
			AnchorID:  ln.members[0].ID,
			Start:     ln.members[0].Start,
			WindowEnd: ln.windowEnd,
			Members:   members,
		}
	}
	return assignments, out, nil
}

// Assign is Plan without the line state, for callers that only need the
// interval to line mapping.
func Assign(intervals []model.Interval, cfg Config) ([]model.TrackAssignment, error) {
	assignments, _, err := Plan(intervals, cfg)
	return assignments, err
}

// planGreedy processes intervals in ingestion order and puts each one on the
// first line holding no overlapping member. Opening a new line is always
// possible, so every interval is assignable and the number of lines never
// exceeds the peak number of simultaneous intervals.
func planGreedy(intervals []model.Interval) []lineState {
	var lines []lineState
	for _, iv := range intervals {
		placed := false
		for idx := range lines {
			if !conflictsStrict(&lines[idx], iv) {
				lines[idx].members = append(lines[idx].members, iv)
				placed = true
				break
			}
		}
		if !placed {
			lines = append(lines, lineState{members: []model.Interval{iv}})
		}
	}
	return lines
}

func conflictsStrict(ln *lineState, iv model.Interval) bool {
	for _, m := range ln.members {
		if iv.Overlaps(m) {
			return true
		}
	}
	return false
}

// planWindowed works in rounds over start-sorted intervals. The earliest
// unassigned interval anchors a new line whose validity window is
// [anchor.Start, anchor.Start+amplitude]; one scan over the remaining
// intervals fills the line with every flight that ends inside the window and
// keeps at least the minimum gap to every member. Each round assigns at
// least its anchor, so the process always terminates.
func planWindowed(intervals []model.Interval, amplitude, gap time.Duration) []lineState {
	order := make([]model.Interval, len(intervals))
	copy(order, intervals)
	sort.SliceStable(order, func(i, j int) bool { return order[i].Start.Before(order[j].Start) })

	assigned := make([]bool, len(order))
	remaining := len(order)
	var lines []lineState

	for remaining > 0 {
		anchorIdx := -1
		for i := range order {
			if !assigned[i] {
				anchorIdx = i
				break
			}
		}
		anchor := order[anchorIdx]
		ln := lineState{
			windowEnd: anchor.Start.Add(amplitude),
			members:   []model.Interval{anchor},
		}
		assigned[anchorIdx] = true
		remaining--

		for j := anchorIdx + 1; j < len(order); j++ {
			if assigned[j] {
				continue
			}
			iv := order[j]
			if iv.End.After(ln.windowEnd) {
				continue
			}
			if conflictsGap(&ln, iv, gap) {
				continue
			}
			ln.members = append(ln.members, iv)
			assigned[j] = true
			remaining--
		}
		lines = append(lines, ln)
	}
	return lines
}

// conflictsGap applies the gap-adjusted overlap test: two flights may share
// a line only when separated by at least the minimum gap on both sides.
func conflictsGap(ln *lineState, iv model.Interval, gap time.Duration) bool {
	for _, m := range ln.members {
		if iv.Start.Add(-gap).Before(m.End) && iv.End.Add(gap).After(m.Start) {
			return true
		}
	}
	return false
}
