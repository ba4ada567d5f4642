package schedule

import (
	"testing"
	"time"

	"github.com/bastienlm/planche/core/model"
)

var day = time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time { return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }

func span(id string, sh, sm, eh, em int) model.Interval {
	return model.Interval{ID: id, Start: at(sh, sm), End: at(eh, em)}
}

func windowed(amplitudeHours, gapMinutes int) Config {
	return Config{Policy: "windowed", AmplitudeHours: amplitudeHours, MinGapMinutes: gapMinutes}
}

func lineOf(t *testing.T, assignments []model.TrackAssignment, id string) int {
	t.Helper()
	for _, a := range assignments {
		if a.IntervalID == id {
			return a.Line
		}
	}
	t.Fatalf("interval %s not assigned", id)
	return -1
}

func TestWindowedReferenceScenario(t *testing.T) {
	// A anchors line 0; B is closer than the gap to A; C fits after A.
	intervals := []model.Interval{
		span("A", 8, 0, 8, 40),
		span("B", 8, 20, 9, 0),
		span("C", 9, 10, 9, 50),
	}
	assignments, lines, err := Plan(intervals, windowed(8, 10))
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if got := lineOf(t, assignments, "A"); got != 0 {
		t.Fatalf("A on line %d, want 0", got)
	}
	if got := lineOf(t, assignments, "C"); got != 0 {
		t.Fatalf("C on line %d, want 0", got)
	}
	if got := lineOf(t, assignments, "B"); got != 1 {
		t.Fatalf("B on line %d, want 1", got)
	}
	if len(lines) != 2 {
		t.Fatalf("%d lines, want 2", len(lines))
	}
	if lines[0].AnchorID != "A" || lines[1].AnchorID != "B" {
		t.Fatalf("anchors = %s, %s", lines[0].AnchorID, lines[1].AnchorID)
	}
	if !lines[0].WindowEnd.Equal(at(16, 0)) {
		t.Fatalf("line 0 window end = %v, want 16:00", lines[0].WindowEnd)
	}
}

func TestWindowedInvariants(t *testing.T) {
	intervals := []model.Interval{
		span("a", 6, 0, 6, 30),
		span("b", 6, 15, 7, 0),
		span("c", 6, 50, 7, 20),
		span("d", 7, 45, 8, 30),
		span("e", 13, 50, 14, 20),
		span("f", 14, 45, 15, 10),
		span("g", 20, 0, 20, 40),
	}
	cfg := windowed(8, 10)
	assignments, lines, err := Plan(intervals, cfg)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(assignments) != len(intervals) {
		t.Fatalf("%d assignments for %d intervals", len(assignments), len(intervals))
	}
	byID := make(map[string]model.Interval)
	for _, iv := range intervals {
		byID[iv.ID] = iv
	}
	for _, ln := range lines {
		for i, id := range ln.Members {
			iv := byID[id]
			if iv.End.After(ln.WindowEnd) {
				t.Fatalf("line %d: %s ends %v after window end %v", ln.Index, id, iv.End, ln.WindowEnd)
			}
			for _, otherID := range ln.Members[:i] {
				other := byID[otherID]
				if iv.Start.Add(-cfg.MinGap()).Before(other.End) && iv.End.Add(cfg.MinGap()).After(other.Start) {
					t.Fatalf("line %d: %s and %s closer than the minimum gap", ln.Index, id, otherID)
				}
			}
		}
	}
}

func TestWindowedAmplitudeSplitsLongDay(t *testing.T) {
	// Second flight ends past the anchor's 4h window and must open a line
	// even though it does not overlap the first.
	intervals := []model.Interval{
		span("early", 6, 0, 6, 30),
		span("late", 10, 45, 11, 30),
	}
	assignments, _, err := Plan(intervals, windowed(4, 10))
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if lineOf(t, assignments, "early") == lineOf(t, assignments, "late") {
		t.Fatalf("flight ending outside the window joined the line")
	}
}

func TestGreedyNoOverlapPerLine(t *testing.T) {
	intervals := []model.Interval{
		span("a", 8, 0, 9, 0),
		span("b", 8, 30, 9, 30),
		span("c", 9, 0, 10, 0), // touches a; touching is not overlap
		span("d", 8, 45, 9, 15),
	}
	assignments, lines, err := Plan(intervals, Config{Policy: "greedy", AmplitudeHours: 8, MinGapMinutes: 10})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	byID := make(map[string]model.Interval)
	for _, iv := range intervals {
		byID[iv.ID] = iv
	}
	for _, ln := range lines {
		for i, id := range ln.Members {
			for _, otherID := range ln.Members[:i] {
				if byID[id].Overlaps(byID[otherID]) {
					t.Fatalf("line %d: %s overlaps %s", ln.Index, id, otherID)
				}
			}
		}
	}
	if got := lineOf(t, assignments, "c"); got != 0 {
		t.Fatalf("c on line %d, want 0 next to a", got)
	}
}

func TestGreedyLineCountBoundedByPeak(t *testing.T) {
	// Three mutually overlapping flights, then three disjoint ones.
	intervals := []model.Interval{
		span("a", 8, 0, 10, 0),
		span("b", 8, 30, 10, 30),
		span("c", 9, 0, 11, 0),
		span("d", 12, 0, 12, 30),
		span("e", 13, 0, 13, 30),
		span("f", 14, 0, 14, 30),
	}
	_, lines, err := Plan(intervals, Config{Policy: "greedy", AmplitudeHours: 8, MinGapMinutes: 10})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("%d lines, want 3 (the peak)", len(lines))
	}
}

func TestTotality(t *testing.T) {
	intervals := []model.Interval{
		span("a", 8, 0, 8, 40),
		span("b", 8, 20, 9, 0),
		span("c", 9, 10, 9, 50),
		span("d", 9, 10, 9, 50), // identical twin of c
	}
	for _, policy := range []string{"greedy", "windowed"} {
		assignments, lines, err := Plan(intervals, Config{Policy: policy, AmplitudeHours: 8, MinGapMinutes: 10})
		if err != nil {
			t.Fatalf("%s: plan: %v", policy, err)
		}
		seen := make(map[string]int)
		for _, a := range assignments {
			seen[a.IntervalID]++
		}
		for _, iv := range intervals {
			if seen[iv.ID] != 1 {
				t.Fatalf("%s: interval %s assigned %d times", policy, iv.ID, seen[iv.ID])
			}
		}
		if len(lines) > len(intervals) {
			t.Fatalf("%s: %d lines for %d intervals", policy, len(lines), len(intervals))
		}
	}
}

func TestPlanDeterministic(t *testing.T) {
	intervals := []model.Interval{
		span("a", 8, 0, 8, 40),
		span("b", 8, 0, 8, 40), // same start, stable tiebreak on input order
		span("c", 8, 55, 9, 20),
	}
	first, _, err := Plan(intervals, windowed(8, 10))
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	for run := 0; run < 5; run++ {
		again, _, err := Plan(intervals, windowed(8, 10))
		if err != nil {
			t.Fatalf("plan: %v", err)
		}
		for i := range first {
			if first[i] != again[i] {
				t.Fatalf("run %d: assignment %d differs", run, i)
			}
		}
	}
}

func TestPlanRejectsReversedInterval(t *testing.T) {
	intervals := []model.Interval{{ID: "bad", Start: at(10, 0), End: at(9, 0)}}
	if _, _, err := Plan(intervals, windowed(8, 10)); err == nil {
		t.Fatalf("expected contract error")
	}
}

func TestPlanEmptyInput(t *testing.T) {
	assignments, lines, err := Plan(nil, windowed(8, 10))
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(assignments) != 0 || len(lines) != 0 {
		t.Fatalf("expected empty plan")
	}
}

func TestConfigValidation(t *testing.T) {
	var c Config
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		t.Fatalf("validate defaults: %v", err)
	}
	if c.Policy != "windowed" || c.AmplitudeHours != 8 || c.MinGapMinutes != 10 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if err := (Config{Policy: "round-robin", AmplitudeHours: 8}).Validate(); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
	if err := (Config{Policy: "windowed", AmplitudeHours: -1}).Validate(); err == nil {
		t.Fatalf("expected error for negative amplitude")
	}
}
