package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bastienlm/planche/app"
	"github.com/bastienlm/planche/config"
)

var (
	cfgPath   string
	inputPath string
	dateFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "planche",
	Short: "Flight board computer: vacation lines and occupancy curves for a day program",
	RunE:  run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
	rootCmd.PersistentFlags().StringVarP(&inputPath, "input", "i", "", "day program CSV (overrides configuration)")
	rootCmd.PersistentFlags().StringVarP(&dateFlag, "date", "d", "", "day to compute, 2006-01-02 (overrides configuration)")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if inputPath != "" {
		cfg.Input = inputPath
	}
	if dateFlag != "" {
		cfg.Date = dateFlag
	}
	return cfg, nil
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()
	return svc.Run(ctx)
}
