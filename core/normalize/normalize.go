// Package normalize turns raw day-program rows into canonical ground
// intervals. Rows missing one instant get the other synthesized from the
// configured default turnaround; rows missing both are dropped and counted.
// Every outcome is non-fatal: the batch always completes.
package normalize

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/bastienlm/planche/core/model"
)

// Config holds normalization tunables.
type Config struct {
	// DefaultTurnaroundMinutes is the synthetic ground time used when a row
	// carries only one of its two instants.
	DefaultTurnaroundMinutes int `json:"default_turnaround_minutes"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.DefaultTurnaroundMinutes == 0 {
		c.DefaultTurnaroundMinutes = 30
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.DefaultTurnaroundMinutes <= 0 {
		return fmt.Errorf("default_turnaround_minutes must be positive")
	}
	return nil
}

// Turnaround returns the configured default turnaround as a duration.
func (c Config) Turnaround() time.Duration {
	return time.Duration(c.DefaultTurnaroundMinutes) * time.Minute
}

// Result is the outcome of normalizing a day program. The counters are
// diagnostics only; no error condition aborts the run.
type Result struct {
	Intervals []model.Interval
	// Dropped counts rows that yielded no interval: neither instant usable,
	// or a departure preceding its own arrival.
	Dropped int
	// UnparsableTimes counts non-empty time cells matching no known layout.
	// Such a value is treated as absent for its field.
	UnparsableTimes int
	// UnresolvedCategories counts intervals kept with an empty category.
	UnresolvedCategories int
}

type parseStatus int

const (
	statusAbsent parseStatus = iota
	statusParsed
	statusUnparsable
)

var clockLayouts = []string{"15:04:05", "15:04"}

// parseClock interprets a raw time cell. The "-" placeholder and the empty
// string are absent. Bare digit strings are read as HHMM ("0830", "830").
func parseClock(raw string) (hour, minute, second int, status parseStatus) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "-" {
		return 0, 0, 0, statusAbsent
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Hour(), t.Minute(), t.Second(), statusParsed
		}
	}
	if isDigits(raw) && len(raw) >= 3 && len(raw) <= 4 {
		padded := strings.Repeat("0", 4-len(raw)) + raw
		if t, err := time.Parse("1504", padded); err == nil {
			return t.Hour(), t.Minute(), 0, statusParsed
		}
	}
	return 0, 0, 0, statusUnparsable
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// resolveInstant anchors a row-side time value to the row's calendar date.
// A structured instant wins over the raw cell; only its clock part is kept.
func resolveInstant(structured *time.Time, raw string, date time.Time) (time.Time, parseStatus) {
	if structured != nil {
		h, m, s := structured.Clock()
		return atClock(date, h, m, s), statusParsed
	}
	h, m, s, status := parseClock(raw)
	if status != statusParsed {
		return time.Time{}, status
	}
	return atClock(date, h, m, s), statusParsed
}

func atClock(date time.Time, hour, minute, second int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, second, 0, date.Location())
}

// CategoryOf extracts the airline category from the flight codes: the
// leading alphabetic run of the departure-side code, falling back to the
// arrival side. The preference order is fixed.
func CategoryOf(departureCode, arrivalCode string) string {
	if c := alphaPrefix(departureCode); c != "" {
		return c
	}
	return alphaPrefix(arrivalCode)
}

func alphaPrefix(s string) string {
	s = strings.TrimSpace(s)
	for i, r := range s {
		if !unicode.IsLetter(r) {
			return s[:i]
		}
	}
	return s
}

// Normalize derives zero or one interval per row. Intervals come out in row
// order and are never mutated afterwards.
func Normalize(rows []model.FlightRow, cfg Config) Result {
	turnaround := cfg.Turnaround()
	res := Result{Intervals: make([]model.Interval, 0, len(rows))}

	for i, row := range rows {
		arrival, arrStatus := resolveInstant(row.ArrivalAt, row.ArrivalTime, row.Date)
		departure, depStatus := resolveInstant(row.DepartureAt, row.DepartureTime, row.Date)
		if arrStatus == statusUnparsable {
			res.UnparsableTimes++
		}
		if depStatus == statusUnparsable {
			res.UnparsableTimes++
		}

		var start, end time.Time
		var kind model.Kind
		switch {
		case arrStatus == statusParsed && depStatus == statusParsed:
			if departure.Before(arrival) {
				// A departure before its own arrival would violate the
				// interval contract downstream.
				res.Dropped++
				continue
			}
			start, end, kind = arrival, departure, model.KindTurnaround
		case arrStatus == statusParsed:
			start, end, kind = arrival, arrival.Add(turnaround), model.KindArrivalOnly
		case depStatus == statusParsed:
			start, end, kind = departure.Add(-turnaround), departure, model.KindDepartureOnly
		default:
			res.Dropped++
			continue
		}

		category := CategoryOf(row.DepartureCode, row.ArrivalCode)
		if category == "" {
			res.UnresolvedCategories++
		}

		res.Intervals = append(res.Intervals, model.Interval{
			ID:            intervalID(row, i),
			Category:      category,
			Start:         start,
			End:           end,
			Kind:          kind,
			ArrivalCode:   strings.TrimSpace(row.ArrivalCode),
			DepartureCode: strings.TrimSpace(row.DepartureCode),
			Origin:        row.Origin,
			Destination:   row.Destination,
			Pax:           row.Pax,
		})
	}
	return res
}

// intervalID builds a stable identifier from the row's flight code and
// ordinal. Rows with no code at all get a random identifier.
func intervalID(row model.FlightRow, ordinal int) string {
	label := strings.TrimSpace(row.DepartureCode)
	if label == "" || label == "-" {
		label = strings.TrimSpace(row.ArrivalCode)
	}
	if label == "" || label == "-" {
		return uuid.NewString()
	}
	return fmt.Sprintf("%s#%d", label, ordinal)
}
