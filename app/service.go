package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bastienlm/planche/config"
	"github.com/bastienlm/planche/core/demand"
	coremetrics "github.com/bastienlm/planche/core/metrics"
	"github.com/bastienlm/planche/core/model"
	"github.com/bastienlm/planche/core/normalize"
	"github.com/bastienlm/planche/core/occupancy"
	"github.com/bastienlm/planche/core/schedule"
	"github.com/bastienlm/planche/core/stats"
	"github.com/bastienlm/planche/infra/logger"
	"github.com/bastienlm/planche/infra/metrics"
	"github.com/bastienlm/planche/infra/mqtt"
	"github.com/bastienlm/planche/ingest"
	"github.com/bastienlm/planche/pkg/export"
)

// Service ties the pipeline together: it reads the day program, computes
// the board and pushes the result to the configured sinks.
type Service struct {
	cfg         *config.Config
	log         logger.Logger
	sink        coremetrics.Sink
	publisher   mqtt.Publisher
	promEnabled bool
	promPort    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(nil)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	var sink coremetrics.Sink = coremetrics.NopSink{}
	switch len(sinks) {
	case 0:
	case 1:
		sink = sinks[0]
	default:
		sink = metrics.NewMultiSink(sinks...)
	}

	var publisher mqtt.Publisher
	if cfg.MQTT.Enabled {
		p, err := mqtt.NewPahoPublisher(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		publisher = p
	}

	return &Service{
		cfg:         cfg,
		log:         logg,
		sink:        sink,
		publisher:   publisher,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promPort:    cfg.Metrics.PrometheusPort,
	}, nil
}

// Compute runs the pipeline once: ingest, normalize, schedule, sample.
func (s *Service) Compute() (*Board, error) {
	rows, err := ingest.ReadFile(s.cfg.Input)
	if err != nil {
		return nil, fmt.Errorf("read program: %w", err)
	}

	date, err := s.resolveDate(rows)
	if err != nil {
		return nil, err
	}
	day := ingest.FilterDate(rows, date)
	s.log.Infof("computing board for %s: %d rows", date.Format("2006-01-02"), len(day))

	res := normalize.Normalize(day, s.cfg.Normalize)
	if res.Dropped > 0 || res.UnparsableTimes > 0 {
		s.log.Warnf("normalization anomalies: %d dropped, %d unparsable times, %d unresolved categories",
			res.Dropped, res.UnparsableTimes, res.UnresolvedCategories)
	}

	assignments, lines, err := schedule.Plan(res.Intervals, s.cfg.Schedule)
	if err != nil {
		return nil, fmt.Errorf("plan lines: %w", err)
	}

	from, to, err := s.cfg.Sampling.Window(date)
	if err != nil {
		return nil, err
	}
	occPoints := occupancy.Points(occupancy.Grid(from, to, s.cfg.Sampling.OccupancyStep()), res.Intervals)
	demPoints := demand.Series(occupancy.Grid(from, to, s.cfg.Sampling.DemandStep()), res.Intervals, s.cfg.Weights)

	counts := make([]int, len(occPoints))
	for i, p := range occPoints {
		counts[i] = p.Count
	}
	demands := make([]float64, len(demPoints))
	for i, p := range demPoints {
		demands[i] = p.Demand
	}

	board := &Board{
		Date:                 date,
		Stats:                stats.Collect(res.Intervals),
		Assignments:          assignments,
		Lines:                lines,
		Occupancy:            occPoints,
		Demand:               demPoints,
		OccupancySummary:     stats.SummarizeCounts(counts),
		DemandSummary:        stats.Summarize(demands),
		DroppedRows:          res.Dropped,
		UnparsableTimes:      res.UnparsableTimes,
		UnresolvedCategories: res.UnresolvedCategories,
	}
	s.log.Infof("board ready: %d flights on %d lines, peak occupancy %d",
		board.Stats.Flights, len(board.Lines), board.PeakOccupancy())
	return board, nil
}

// Publish records the board on the metrics sinks, writes the export files
// and pushes the board over MQTT when a publisher is configured.
func (s *Service) Publish(board *Board) error {
	if err := s.sink.RecordBoard(coremetrics.BoardSummary{
		Date:                 board.Date,
		Flights:              board.Stats.Flights,
		DroppedRows:          board.DroppedRows,
		UnparsableTimes:      board.UnparsableTimes,
		UnresolvedCategories: board.UnresolvedCategories,
		Lines:                len(board.Lines),
		PeakOccupancy:        board.PeakOccupancy(),
		TotalPax:             board.Stats.Pax,
	}); err != nil {
		s.log.Errorf("record board: %v", err)
	}
	if rec, ok := s.sink.(coremetrics.SeriesRecorder); ok {
		if err := rec.RecordSeries("occupancy", board.Date, occupancySamples(board.Occupancy)); err != nil {
			s.log.Errorf("record occupancy series: %v", err)
		}
		if err := rec.RecordSeries("demand", board.Date, demandSamples(board.Demand)); err != nil {
			s.log.Errorf("record demand series: %v", err)
		}
	}

	if s.cfg.Export.Enabled() {
		if err := s.export(board); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	}

	if s.publisher != nil {
		payload, err := json.Marshal(board)
		if err != nil {
			return fmt.Errorf("marshal board: %w", err)
		}
		if err := s.publisher.PublishBoard(payload); err != nil {
			return fmt.Errorf("publish board: %w", err)
		}
	}
	return nil
}

// Run computes and publishes the board, then serves the Prometheus endpoint
// until the context is cancelled when one is configured.
func (s *Service) Run(ctx context.Context) error {
	board, err := s.Compute()
	if err != nil {
		return err
	}
	if err := s.Publish(board); err != nil {
		return err
	}
	if s.promEnabled {
		return metrics.StartPromServer(ctx, s.promPort)
	}
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() {
	if s.publisher != nil {
		s.publisher.Close()
	}
	if c, ok := s.sink.(coremetrics.Closer); ok {
		c.Close()
	}
}

func (s *Service) resolveDate(rows []model.FlightRow) (time.Time, error) {
	if s.cfg.Date != "" {
		date, err := time.Parse("2006-01-02", s.cfg.Date)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q: %w", s.cfg.Date, err)
		}
		return date, nil
	}
	dates := ingest.Dates(rows)
	if len(dates) == 0 {
		return time.Time{}, fmt.Errorf("program %s holds no rows", s.cfg.Input)
	}
	return dates[0], nil
}

func (s *Service) export(board *Board) error {
	if err := os.MkdirAll(s.cfg.Export.Dir, 0o755); err != nil {
		return err
	}
	format := s.cfg.Export.Format
	if err := s.writeFile("assignments."+format, func(f *os.File) error {
		if format == "json" {
			return export.WriteAssignmentsJSON(f, board.Assignments)
		}
		return export.WriteAssignmentsCSV(f, board.Assignments)
	}); err != nil {
		return err
	}
	return s.writeFile("series."+format, func(f *os.File) error {
		if format == "json" {
			return export.WriteSeriesJSON(f, board.Demand)
		}
		return export.WriteSeriesCSV(f, board.Demand)
	})
}

func (s *Service) writeFile(name string, write func(*os.File) error) error {
	path := filepath.Join(s.cfg.Export.Dir, name)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if err := f.Close(); err != nil {
			s.log.Errorf("close %s: %v", path, err)
		}
	}()
	if err := write(f); err != nil {
		return err
	}
	s.log.Infof("wrote %s", path)
	return nil
}

func occupancySamples(points []model.SamplePoint) []coremetrics.SeriesSample {
	out := make([]coremetrics.SeriesSample, len(points))
	for i, p := range points {
		out[i] = coremetrics.SeriesSample{At: p.At, Value: float64(p.Count)}
	}
	return out
}

func demandSamples(points []demand.Point) []coremetrics.SeriesSample {
	out := make([]coremetrics.SeriesSample, len(points))
	for i, p := range points {
		out[i] = coremetrics.SeriesSample{At: p.At, Value: p.Demand}
	}
	return out
}
