package metrics

import "time"

// BoardSummary is recorded once per computed day board.
type BoardSummary struct {
	Date                 time.Time
	Flights              int
	DroppedRows          int
	UnparsableTimes      int
	UnresolvedCategories int
	Lines                int
	PeakOccupancy        int
	TotalPax             int
}

// SeriesSample is a single point of a computed curve.
type SeriesSample struct {
	At    time.Time
	Value float64
}

// Sink records computed board results for observability purposes.
type Sink interface {
	RecordBoard(s BoardSummary) error
}

// SeriesRecorder is implemented by sinks able to store whole curves.
type SeriesRecorder interface {
	RecordSeries(name string, date time.Time, samples []SeriesSample) error
}

// Closer is implemented by sinks holding external connections.
type Closer interface {
	Close()
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordBoard(BoardSummary) error { return nil }

func (NopSink) RecordSeries(string, time.Time, []SeriesSample) error { return nil }

// Config holds metrics sink settings.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusPort    string `json:"prometheus_port"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.PrometheusPort == "" {
		c.PrometheusPort = ":9090"
	}
}
