package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bastienlm/planche/app"
)

var policyFlag string

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Compute a day board and print the vacation lines",
	RunE:  runBoard,
}

func init() {
	boardCmd.Flags().StringVar(&policyFlag, "policy", "", "line policy: windowed or greedy (overrides configuration)")
	rootCmd.AddCommand(boardCmd)
}

func runBoard(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if policyFlag != "" {
		cfg.Schedule.Policy = policyFlag
		if err := cfg.Schedule.Validate(); err != nil {
			return err
		}
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
	fmt.Fprintf(out, "%s: %d flights, %d pax, %d arrivals, %d departures\n",
		board.Date.Format("2006-01-02"), board.Stats.Flights, board.Stats.Pax,
		board.Stats.Arrivals, board.Stats.Departures)
	fmt.Fprintf(out, "peak occupancy %d, demand p95 %.1f\n",
		board.PeakOccupancy(), board.DemandSummary.P95)
	for _, line := range board.Lines {
		fmt.Fprintf(out, "line %2d  start %s  %s\n",
			line.Index, line.Start.Format("15:04"), strings.Join(line.Members, " "))
	}
	return nil
}
