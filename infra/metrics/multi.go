package metrics

import (
	"time"

	coremetrics "github.com/bastienlm/planche/core/metrics"
)

// MultiSink fans board records out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordBoard forwards the record to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordBoard(b coremetrics.BoardSummary) error {
	for _, s := range m.Sinks {
		if err := s.RecordBoard(b); err != nil {
			return err
		}
	}
	return nil
}

// RecordSeries forwards curves to sinks able to store them.
func (m *MultiSink) RecordSeries(name string, date time.Time, samples []coremetrics.SeriesSample) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.SeriesRecorder); ok {
			if err := rec.RecordSeries(name, date, samples); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close releases sinks holding external connections.
func (m *MultiSink) Close() {
	for _, s := range m.Sinks {
		if c, ok := s.(coremetrics.Closer); ok {
			c.Close()
		}
	}
}
