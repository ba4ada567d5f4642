package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/bastienlm/planche/app"
)

var occupancyCmd = &cobra.Command{
	Use:   "occupancy",
	Short: "Compute a day board and print the demand curve",
	RunE:  runOccupancy,
}

func init() {
	rootCmd.AddCommand(occupancyCmd)
}

func runOccupancy(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	board, err := svc.Compute()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, p := range board.Demand {
		fmt.Fprintf(out, "%s  count %2d  demand %5.1f\n", p.At.Format("15:04"), p.Count, p.Demand)
	}

	// Category breakdown at the occupancy peak.
	peakIdx := 0
	for i, p := range board.Occupancy {
		if p.Count > board.Occupancy[peakIdx].Count {
			peakIdx = i
		}
	}
	if len(board.Occupancy) > 0 {
		peak := board.Occupancy[peakIdx]
		cats := make([]string, 0, len(peak.ByCategory))
		for cat := range peak.ByCategory {
			cats = append(cats, cat)
		}
		sort.Strings(cats)
		fmt.Fprintf(out, "peak %d at %s", peak.Count, peak.At.Format("15:04"))
		for _, cat := range cats {
			fmt.Fprintf(out, "  %s=%d", cat, peak.ByCategory[cat])
		}
		fmt.Fprintln(out)
	}
	return nil
}
