package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bastienlm/planche/core/schedule"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
input: program.csv
date: "2026-07-14"
normalize:
  default_turnaround_minutes: 35
schedule:
  policy: greedy
  min_gap_minutes: 5
weights:
  categories:
    FR: 1
  default: 2
export:
  dir: out
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "program.csv", cfg.Input)
	assert.Equal(t, "2026-07-14", cfg.Date)
	assert.Equal(t, 35, cfg.Normalize.DefaultTurnaroundMinutes)
	assert.Equal(t, schedule.PolicyGreedy.String(), cfg.Schedule.Policy)
	assert.Equal(t, 5*time.Minute, cfg.Schedule.MinGap())
	assert.Equal(t, 1.0, cfg.Weights.Weight("FR"))
	assert.Equal(t, 2.0, cfg.Weights.Weight("TO"))
	assert.Equal(t, "json", cfg.Export.Format)
	assert.True(t, cfg.Export.Enabled())
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "config.json", `{"input":"program.csv"}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Normalize.DefaultTurnaroundMinutes)
	assert.Equal(t, schedule.PolicyWindowed.String(), cfg.Schedule.Policy)
	assert.Equal(t, 8*time.Hour, cfg.Schedule.Amplitude())
	assert.Equal(t, "05:00", cfg.Sampling.DayStart)
	assert.Equal(t, "23:59", cfg.Sampling.DayEnd)
	assert.Equal(t, time.Minute, cfg.Sampling.OccupancyStep())
	assert.Equal(t, 15*time.Minute, cfg.Sampling.DemandStep())
	assert.Equal(t, "csv", cfg.Export.Format)
	assert.False(t, cfg.Export.Enabled())
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PLANCHE_SCHEDULE__AMPLITUDE_HOURS", "10")
	path := writeConfig(t, "config.yaml", "input: program.csv\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Hour, cfg.Schedule.Amplitude())
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	path := writeConfig(t, "config.toml", "input = 'x'")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsInvalidSection(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
input: program.csv
sampling:
  day_start: "23:00"
  day_end: "06:00"
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestSamplingWindow(t *testing.T) {
	var s SamplingConfig
	s.SetDefaults()
	day := time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC)

	from, to, err := s.Window(day)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 7, 14, 5, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 7, 14, 23, 59, 0, 0, time.UTC), to)
}
