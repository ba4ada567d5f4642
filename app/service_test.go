package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bastienlm/planche/config"
)

const program = `DATE,VOLA,HA,VOLD,HD,ORG,DEST,PAX
2026-07-14,FR1204,08:00,FR1205,08:40,BVA,BGY,180
2026-07-14,W62301,08:20,W62302,09:00,BUD,BVA,120
2026-07-14,FR7788,09:10,FR7789,09:50,STN,BVA,150
2026-07-14,-,-,FR9000,10:30,,OPO,90
2026-07-15,FR1204,08:00,FR1205,08:40,BVA,BGY,180
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	input := filepath.Join(dir, "program.csv")
	require.NoError(t, os.WriteFile(input, []byte(program), 0o644))

	cfg := &config.Config{
		Input: input,
		Date:  "2026-07-14",
		Export: config.ExportConfig{
			Dir:    filepath.Join(dir, "out"),
			Format: "csv",
		},
	}
	cfg.SetDefaults()
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestServiceCompute(t *testing.T) {
	svc, err := New(testConfig(t))
	require.NoError(t, err)
	defer svc.Close()

	board, err := svc.Compute()
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC), board.Date)
	assert.Equal(t, 4, board.Stats.Flights)
	assert.Equal(t, 540, board.Stats.Pax)
	assert.Equal(t, 1, board.Stats.DepartureOnly)
	assert.Len(t, board.Assignments, 4)
	assert.NotEmpty(t, board.Lines)
	// Three turnarounds overlap pairwise at most two at a time.
	assert.Equal(t, 2, board.PeakOccupancy())
	assert.NotEmpty(t, board.Occupancy)
	assert.NotEmpty(t, board.Demand)
	assert.InDelta(t, 2.0, board.OccupancySummary.Peak, 1e-9)
}

func TestServiceComputeFirstDayWhenDateUnset(t *testing.T) {
	cfg := testConfig(t)
	cfg.Date = ""
	svc, err := New(cfg)
	require.NoError(t, err)
	defer svc.Close()

	board, err := svc.Compute()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC), board.Date)
	assert.Equal(t, 4, board.Stats.Flights)
}

func TestServicePublishWritesExports(t *testing.T) {
	cfg := testConfig(t)
	svc, err := New(cfg)
	require.NoError(t, err)
	defer svc.Close()

	board, err := svc.Compute()
	require.NoError(t, err)
	require.NoError(t, svc.Publish(board))

	for _, name := range []string{"assignments.csv", "series.csv"} {
		_, err := os.Stat(filepath.Join(cfg.Export.Dir, name))
		assert.NoError(t, err, name)
	}
}

func TestServiceComputeMissingInput(t *testing.T) {
	cfg := testConfig(t)
	cfg.Input = filepath.Join(t.TempDir(), "missing.csv")
	svc, err := New(cfg)
	require.NoError(t, err)
	defer svc.Close()

	_, err = svc.Compute()
	assert.Error(t, err)
}
