package model

import (
	"fmt"
	"time"
)

// Kind classifies how an interval was derived from its source row.
type Kind int

const (
	// KindTurnaround covers rows with both an arrival and a departure.
	KindTurnaround Kind = iota
	// KindDepartureOnly is a departure with no inbound leg ("départ sec").
	KindDepartureOnly
	// KindArrivalOnly is an arrival with no outbound leg ("night stop").
	KindArrivalOnly
)

// String returns a human-readable representation of the interval kind.
func (k Kind) String() string {
	switch k {
	case KindTurnaround:
		return "turnaround"
	case KindDepartureOnly:
		return "departure_only"
	case KindArrivalOnly:
		return "arrival_only"
	default:
		return "unknown"
	}
}

// Interval is an immutable ground-occupancy span. Start and End are both
// inclusive; Start never exceeds End. Auxiliary fields pass through from the
// source row for reporting and are not interpreted by the core.
type Interval struct {
	ID            string    `json:"id"`
	Category      string    `json:"category,omitempty"` // airline prefix; empty when unresolved
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	Kind          Kind      `json:"kind"`
	ArrivalCode   string    `json:"arrival_code,omitempty"`
	DepartureCode string    `json:"departure_code,omitempty"`
	Origin        string    `json:"origin,omitempty"`
	Destination   string    `json:"destination,omitempty"`
	Pax           int       `json:"pax,omitempty"`
}

// Covers reports whether t falls within the interval, boundaries included.
func (iv Interval) Covers(t time.Time) bool {
	return !t.Before(iv.Start) && !t.After(iv.End)
}

// Overlaps reports whether the two spans share any strictly positive
// duration. Touching boundaries do not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Duration returns the length of the span.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Label returns the flight code shown on the board: the departure code when
// present, the arrival code otherwise.
func (iv Interval) Label() string {
	if iv.DepartureCode != "" {
		return iv.DepartureCode
	}
	return iv.ArrivalCode
}

// Validate checks the start/end contract.
func (iv Interval) Validate() error {
	if iv.Start.After(iv.End) {
		return fmt.Errorf("interval %s: start %v after end %v", iv.ID, iv.Start, iv.End)
	}
	return nil
}

// TrackAssignment places one interval on a vacation line.
type TrackAssignment struct {
	IntervalID string `json:"interval_id"`
	Line       int    `json:"line"`
}

// SamplePoint is the occupancy count at one sample instant. ByCategory is
// only populated when a breakdown was requested; uncategorized intervals
// count toward Count but never appear in the breakdown.
type SamplePoint struct {
	At         time.Time      `json:"at"`
	Count      int            `json:"count"`
	ByCategory map[string]int `json:"by_category,omitempty"`
}
