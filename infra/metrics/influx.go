package metrics

import (
	"context"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/bastienlm/planche/core/metrics"
	"github.com/bastienlm/planche/infra/logger"
)

// InfluxSink writes board summaries and sample curves to an InfluxDB
// instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB
// endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and returns
// a NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg coremetrics.Config) coremetrics.Sink {
	sink := NewInfluxSink(cfg.InfluxURL, cfg.InfluxToken, cfg.InfluxOrg, cfg.InfluxBucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordBoard writes the board summary as a single point.
func (s *InfluxSink) RecordBoard(b coremetrics.BoardSummary) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("board").
		AddTag("date", b.Date.Format("2006-01-02")).
		AddField("flights", b.Flights).
		AddField("dropped_rows", b.DroppedRows).
		AddField("unparsable_times", b.UnparsableTimes).
		AddField("unresolved_categories", b.UnresolvedCategories).
		AddField("lines", b.Lines).
		AddField("peak_occupancy", b.PeakOccupancy).
		AddField("pax_total", b.TotalPax).
		SetTime(b.Date)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordSeries writes one curve as timestamped points under the given
// measurement name.
func (s *InfluxSink) RecordSeries(name string, date time.Time, samples []coremetrics.SeriesSample) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	day := date.Format("2006-01-02")
	for _, sample := range samples {
		p := write.NewPointWithMeasurement(name).
			AddTag("date", day).
			AddField("value", sample.Value).
			SetTime(sample.At)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying HTTP client.
func (s *InfluxSink) Close() {
	s.client.Close()
}
