package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/LdDl/coin-counter/coins"
	"github.com/LdDl/coin-counter/config"
	"github.com/LdDl/coin-counter/logger"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	framesDir string
	showCoins bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process frames from a directory and print the tally",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return errors.Wrap(err, "Can't validate config")
		}
		processor, err := coins.NewProcessor(cfg.CoinsConfig(),
			coins.WithLogger(logger.Logger.Named("coins")),
		)
		if err != nil {
			return err
		}
		source, err := coins.NewDirSource(framesDir)
		if err != nil {
			return err
		}
		logger.Logger.Infow("Processing frames",
			logger.FieldSource, framesDir,
			logger.FieldFrames, source.Len(),
		)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		report, err := processor.Run(ctx, source)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				return err
			}
			logger.Logger.Warnw("Processing interrupted",
				logger.FieldFrames, report.Frames,
				logger.FieldError, err,
			)
		}
		printReport(cmd.OutOrStdout(), report, showCoins)
		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&framesDir, "frames", "f", "", "Directory with frames, processed in file name order")
	runCmd.Flags().BoolVar(&showCoins, "coins", false, "Print every counted coin with its smoothed position")
	_ = runCmd.MarkFlagRequired("frames")
}

func printReport(w io.Writer, report coins.Report, withCoins bool) {
	fmt.Fprintf(w, "Frames processed: %d\n", report.Frames)
	for _, d := range coins.Denominations() {
		fmt.Fprintf(w, "%4s: %d\n", d.Code, report.Counts[d.Code])
	}
	fmt.Fprintf(w, "Total coins: %d | Total value: %s EUR\n", report.Total, report.Value())
	if len(report.Diameters) > 0 {
		fmt.Fprintln(w, "Measured diameters, px:")
		for _, s := range report.Diameters {
			fmt.Fprintf(w, "%4s: mean %.1f, std %.1f, n %d\n", s.Denomination.Code, s.Mean, s.StdDev, s.Count)
		}
	}
	if !withCoins || len(report.Coins) == 0 {
		return
	}
	fmt.Fprintln(w, "Counted coins:")
	for _, c := range report.Coins {
		state := "gone"
		if c.Tracked {
			state = "tracked"
		}
		fmt.Fprintf(w, "%4s: frame %d, d %.1f, at (%.0f, %.0f), trail %d, %s\n",
			c.Denomination.Code, c.Frame, c.Diameter, c.Estimate.X, c.Estimate.Y, len(c.Trail), state)
	}
}
