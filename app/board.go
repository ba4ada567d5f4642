package app

import (
	"time"

	"github.com/bastienlm/planche/core/demand"
	"github.com/bastienlm/planche/core/model"
	"github.com/bastienlm/planche/core/schedule"
	"github.com/bastienlm/planche/core/stats"
)

// Board is the full result of computing one day program: the vacation
// lines, the sampled curves and the day figures. It is what gets exported
// and published.
type Board struct {
	Date                 time.Time               `json:"date"`
	Stats                stats.DayStats          `json:"stats"`
	Assignments          []model.TrackAssignment `json:"assignments"`
	Lines                []schedule.Line         `json:"lines"`
	Occupancy            []model.SamplePoint     `json:"occupancy"`
	Demand               []demand.Point          `json:"demand"`
	OccupancySummary     stats.SeriesSummary     `json:"occupancy_summary"`
	DemandSummary        stats.SeriesSummary     `json:"demand_summary"`
	DroppedRows          int                     `json:"dropped_rows"`
	UnparsableTimes      int                     `json:"unparsable_times"`
	UnresolvedCategories int                     `json:"unresolved_categories"`
}

// PeakOccupancy returns the highest sampled occupancy count.
func (b *Board) PeakOccupancy() int {
	peak := 0
	for _, p := range b.Occupancy {
		if p.Count > peak {
			peak = p.Count
		}
	}
	return peak
}
