package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/bastienlm/planche/core/metrics"
)

// PromSink exposes the latest computed board figures as Prometheus metrics.
type PromSink struct {
	flights     *prometheus.GaugeVec
	lines       *prometheus.GaugeVec
	peak        *prometheus.GaugeVec
	pax         *prometheus.GaugeVec
	droppedRows *prometheus.CounterVec
}

// NewPromSink registers board metrics on the provided Prometheus registerer.
// If reg is nil, the default registerer is used. If the collectors are
// already registered, the existing ones are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		flights: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "planche_board_flights",
			Help: "Number of flights on the computed day board",
		}, []string{"date"}),
		lines: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "planche_board_lines",
			Help: "Number of vacation lines on the computed day board",
		}, []string{"date"}),
		peak: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "planche_board_peak_occupancy",
			Help: "Peak number of simultaneous flights on the computed day board",
		}, []string{"date"}),
		pax: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "planche_board_pax_total",
			Help: "Total passengers on the computed day board",
		}, []string{"date"}),
		droppedRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planche_normalize_anomalies_total",
			Help: "Rows dropped or degraded during normalization, by reason",
		}, []string{"reason"}),
	}

	collectors := []prometheus.Collector{s.flights, s.lines, s.peak, s.pax, s.droppedRows}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				return nil, err
			}
			switch i {
			case 0:
				s.flights = are.ExistingCollector.(*prometheus.GaugeVec)
			case 1:
				s.lines = are.ExistingCollector.(*prometheus.GaugeVec)
			case 2:
				s.peak = are.ExistingCollector.(*prometheus.GaugeVec)
			case 3:
				s.pax = are.ExistingCollector.(*prometheus.GaugeVec)
			case 4:
				s.droppedRows = are.ExistingCollector.(*prometheus.CounterVec)
			}
		}
	}
	return s, nil
}

// RecordBoard publishes the board figures for the computed date.
func (s *PromSink) RecordBoard(b coremetrics.BoardSummary) error {
	date := b.Date.Format("2006-01-02")
	s.flights.WithLabelValues(date).Set(float64(b.Flights))
	s.lines.WithLabelValues(date).Set(float64(b.Lines))
	s.peak.WithLabelValues(date).Set(float64(b.PeakOccupancy))
	s.pax.WithLabelValues(date).Set(float64(b.TotalPax))
	s.droppedRows.WithLabelValues("dropped").Add(float64(b.DroppedRows))
	s.droppedRows.WithLabelValues("unparsable_time").Add(float64(b.UnparsableTimes))
	s.droppedRows.WithLabelValues("unresolved_category").Add(float64(b.UnresolvedCategories))
	return nil
}
