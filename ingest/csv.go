// Package ingest reads day-program CSV files into raw flight rows. Column
// names follow the operational export: DATE, VOLA/HA for the arrival side,
// VOLD/HD for the departure side, plus optional ORG, DEST and PAX. Headers
// are matched case-insensitively and unknown columns are ignored.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bastienlm/planche/core/model"
)

var dateLayouts = []string{"2006-01-02", "02/01/2006", "2006-01-02 15:04:05"}

// Read parses a day program from r. DATE is the only mandatory column; time
// and code cells stay raw for the normalizer to interpret.
func Read(r io.Reader) ([]model.FlightRow, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToUpper(strings.TrimSpace(name))] = i
	}
	_, ok := cols["DATE"]
	if !ok {
		return nil, fmt.Errorf("missing DATE column")
	}

	cell := func(record []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var rows []model.FlightRow
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		date, err := parseDate(cell(record, "DATE"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		row := model.FlightRow{
			Date:          date,
			ArrivalCode:   cell(record, "VOLA"),
			DepartureCode: cell(record, "VOLD"),
			ArrivalTime:   cell(record, "HA"),
			DepartureTime: cell(record, "HD"),
			Origin:        cell(record, "ORG"),
			Destination:   cell(record, "DEST"),
		}
		if pax := cell(record, "PAX"); pax != "" {
			if n, err := strconv.Atoi(pax); err == nil {
				row.Pax = n
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ReadFile reads a day program from the given path.
func ReadFile(path string) ([]model.FlightRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rows, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

// Dates returns the distinct calendar days present in the rows, in first
// appearance order.
func Dates(rows []model.FlightRow) []time.Time {
	var out []time.Time
	seen := make(map[string]bool)
	for _, row := range rows {
		key := row.Date.Format("2006-01-02")
		if !seen[key] {
			seen[key] = true
			out = append(out, row.Date)
		}
	}
	return out
}

// FilterDate keeps the rows belonging to one calendar day.
func FilterDate(rows []model.FlightRow, date time.Time) []model.FlightRow {
	y, m, d := date.Date()
	var out []model.FlightRow
	for _, row := range rows {
		ry, rm, rd := row.Date.Date()
		if ry == y && rm == m && rd == d {
			out = append(out, row)
		}
	}
	return out
}
