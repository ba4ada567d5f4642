// Package export writes computed board results in CSV or JSON form for the
// rendering collaborators.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/bastienlm/planche/core/demand"
	"github.com/bastienlm/planche/core/model"
)

// WriteAssignmentsJSON writes the vacation line assignments to w in JSON
// format.
func WriteAssignmentsJSON(w io.Writer, assignments []model.TrackAssignment) error {
	enc := json.NewEncoder(w)
	return enc.Encode(assignments)
}

// WriteAssignmentsCSV writes the vacation line assignments to w in CSV
// format.
func WriteAssignmentsCSV(w io.Writer, assignments []model.TrackAssignment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"interval_id", "line"}); err != nil {
		return err
	}
	for _, a := range assignments {
		if err := cw.Write([]string{a.IntervalID, strconv.Itoa(a.Line)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSeriesJSON writes a combined occupancy and demand curve to w in JSON
// format.
func WriteSeriesJSON(w io.Writer, points []demand.Point) error {
	enc := json.NewEncoder(w)
	return enc.Encode(points)
}

// WriteSeriesCSV writes a combined occupancy and demand curve to w in CSV
// format.
func WriteSeriesCSV(w io.Writer, points []demand.Point) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "count", "demand"}); err != nil {
		return err
	}
	for _, p := range points {
		rec := []string{
			p.At.Format(time.RFC3339),
			strconv.Itoa(p.Count),
			strconv.FormatFloat(p.Demand, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
