package test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bastienlm/planche/core/demand"
	coremetrics "github.com/bastienlm/planche/core/metrics"
	"github.com/bastienlm/planche/core/normalize"
	"github.com/bastienlm/planche/core/occupancy"
	"github.com/bastienlm/planche/core/schedule"
	"github.com/bastienlm/planche/core/stats"
	"github.com/bastienlm/planche/infra/metrics"
	"github.com/bastienlm/planche/infra/mqtt"
	"github.com/bastienlm/planche/ingest"
)

const dayProgram = `DATE,VOLA,HA,VOLD,HD,ORG,DEST,PAX
2026-07-14,FR1204,08:00,FR1205,08:40,BVA,BGY,180
2026-07-14,W62301,08:20,W62302,09:00,BUD,BVA,120
2026-07-14,FR7788,09:10,FR7789,09:50,STN,BVA,150
2026-07-14,TO3344,21:40,-,-,ORY,,90
2026-07-14,-,-,FR9000,06:10,,OPO,85
`

// TestBoardPipeline runs the whole chain on an in-memory day program:
// ingest, normalize, plan, sample, aggregate, record, publish.
func TestBoardPipeline(t *testing.T) {
	rows, err := ingest.Read(strings.NewReader(dayProgram))
	require.NoError(t, err)
	require.Len(t, rows, 5)

	date := time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC)
	day := ingest.FilterDate(rows, date)
	require.Len(t, day, 5)

	var ncfg normalize.Config
	ncfg.SetDefaults()
	res := normalize.Normalize(day, ncfg)
	require.Len(t, res.Intervals, 5)
	assert.Zero(t, res.Dropped)

	var scfg schedule.Config
	scfg.SetDefaults()
	assignments, lines, err := schedule.Plan(res.Intervals, scfg)
	require.NoError(t, err)
	require.Len(t, assignments, 5)

	// Every interval lands on exactly one line.
	seen := map[string]int{}
	for _, a := range assignments {
		seen[a.IntervalID]++
	}
	for _, iv := range res.Intervals {
		assert.Equal(t, 1, seen[iv.ID], iv.ID)
	}

	// The 21:40 night stop cannot fit a window anchored on morning flights.
	assert.GreaterOrEqual(t, len(lines), 2)

	from := time.Date(2026, 7, 14, 5, 0, 0, 0, time.UTC)
	to := time.Date(2026, 7, 14, 23, 59, 0, 0, time.UTC)
	grid := occupancy.Grid(from, to, time.Minute)
	counts := occupancy.Counts(grid, res.Intervals)
	summary := stats.SummarizeCounts(counts)
	assert.InDelta(t, 2.0, summary.Peak, 1e-9)

	weights := demand.WeightTable{Categories: map[string]float64{"FR": 1}, Default: 2}
	points := demand.Series(occupancy.Grid(from, to, 15*time.Minute), res.Intervals, weights)
	require.NotEmpty(t, points)
	// At 08:30 both morning turnarounds are active: FR weighs 1, W6 weighs 2.
	var at0830 demand.Point
	for _, p := range points {
		if p.At.Equal(time.Date(2026, 7, 14, 8, 30, 0, 0, time.UTC)) {
			at0830 = p
		}
	}
	assert.Equal(t, 2, at0830.Count)
	assert.InDelta(t, 3.0, at0830.Demand, 1e-9)

	day14 := stats.Collect(res.Intervals)
	assert.Equal(t, 5, day14.Flights)
	assert.Equal(t, 625, day14.Pax)
	assert.Equal(t, 1, day14.ArrivalOnly)
	assert.Equal(t, 1, day14.DepartureOnly)

	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSink(reg)
	require.NoError(t, err)
	require.NoError(t, sink.RecordBoard(coremetrics.BoardSummary{
		Date:          date,
		Flights:       day14.Flights,
		Lines:         len(lines),
		PeakOccupancy: int(summary.Peak),
		TotalPax:      day14.Pax,
	}))
	expected := `
# HELP planche_board_flights Number of flights on the computed day board
# TYPE planche_board_flights gauge
planche_board_flights{date="2026-07-14"} 5
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "planche_board_flights"))

	publisher := mqtt.NewMockPublisher()
	payload, err := json.Marshal(map[string]any{"date": date, "lines": len(lines)})
	require.NoError(t, err)
	require.NoError(t, publisher.PublishBoard(payload))
	require.Len(t, publisher.Payloads, 1)
}
