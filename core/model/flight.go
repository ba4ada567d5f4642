package model

import "time"

// FlightRow is one line of the ingested day program, before normalization.
// Time values are kept raw: either the textual cell from the source file or
// an already structured instant supplied by the caller. A row carries at
// most one arrival and one departure; either side may be absent.
type FlightRow struct {
	Date          time.Time // calendar day the row belongs to
	ArrivalCode   string    // flight code on the arrival side, e.g. "FR1806"
	DepartureCode string    // flight code on the departure side
	ArrivalTime   string    // raw arrival time cell ("08:30:00", "08:30", "0830")
	DepartureTime string    // raw departure time cell
	ArrivalAt     *time.Time
	DepartureAt   *time.Time
	Origin        string
	Destination   string
	Pax           int
}

// HasArrival reports whether the row carries any arrival value, raw or
// structured.
func (r FlightRow) HasArrival() bool {
	return r.ArrivalAt != nil || r.ArrivalTime != ""
}

// HasDeparture reports whether the row carries any departure value.
func (r FlightRow) HasDeparture() bool {
	return r.DepartureAt != nil || r.DepartureTime != ""
}
