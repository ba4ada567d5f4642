package config

import (
	"fmt"
	"time"
)

// SamplingConfig defines the sample grids for the occupancy and demand
// curves. The day window is expressed as clock values applied to the
// computed date.
type SamplingConfig struct {
	DayStart             string `json:"day_start"` // e.g. "05:00"
	DayEnd               string `json:"day_end"`   // e.g. "23:59"
	OccupancyStepMinutes int    `json:"occupancy_step_minutes"`
	DemandStepMinutes    int    `json:"demand_step_minutes"`
}

// SetDefaults applies the operational defaults: a 05:00-23:59 window,
// occupancy every minute, demand every quarter hour.
func (c *SamplingConfig) SetDefaults() {
	if c.DayStart == "" {
		c.DayStart = "05:00"
	}
	if c.DayEnd == "" {
		c.DayEnd = "23:59"
	}
	if c.OccupancyStepMinutes == 0 {
		c.OccupancyStepMinutes = 1
	}
	if c.DemandStepMinutes == 0 {
		c.DemandStepMinutes = 15
	}
}

// Validate checks the window and cadences.
func (c SamplingConfig) Validate() error {
	start, err := parseClock(c.DayStart)
	if err != nil {
		return fmt.Errorf("day_start: %w", err)
	}
	end, err := parseClock(c.DayEnd)
	if err != nil {
		return fmt.Errorf("day_end: %w", err)
	}
	if !start.Before(end) {
		return fmt.Errorf("day_start %s must precede day_end %s", c.DayStart, c.DayEnd)
	}
	if c.OccupancyStepMinutes <= 0 || c.DemandStepMinutes <= 0 {
		return fmt.Errorf("sampling steps must be positive")
	}
	return nil
}

// Window anchors the configured clock window to one calendar day.
func (c SamplingConfig) Window(date time.Time) (time.Time, time.Time, error) {
	start, err := parseClock(c.DayStart)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseClock(c.DayEnd)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	from := time.Date(date.Year(), date.Month(), date.Day(), start.Hour(), start.Minute(), 0, 0, date.Location())
	to := time.Date(date.Year(), date.Month(), date.Day(), end.Hour(), end.Minute(), 0, 0, date.Location())
	return from, to, nil
}

// OccupancyStep returns the occupancy cadence.
func (c SamplingConfig) OccupancyStep() time.Duration {
	return time.Duration(c.OccupancyStepMinutes) * time.Minute
}

// DemandStep returns the demand cadence.
func (c SamplingConfig) DemandStep() time.Duration {
	return time.Duration(c.DemandStepMinutes) * time.Minute
}

func parseClock(s string) (time.Time, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized clock value %q", s)
	}
	return t, nil
}
