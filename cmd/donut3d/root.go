package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/phanxgames/donut3d"
)

var rootCmd = &cobra.Command{
	Use:   "donut3d",
	Short: "donut3d renders weighted records as a 3-D donut chart",
	Long: `donut3d turns a YAML list of {name, value, color} records into an X3D
scene: one torus slice per record, optionally labeled.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
		donut3d.SetLogger(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log render statistics")
	rootCmd.PersistentFlags().String("width", "", "CSS width of the X3D canvas")
	rootCmd.PersistentFlags().String("height", "", "CSS height of the X3D canvas")
	rootCmd.PersistentFlags().String("labels", "", `Label format, e.g. "%s (%.0f%%)"; empty disables labels`)
}

// configFromFlags builds the render config shared by every command.
func configFromFlags(cmd *cobra.Command, records []donut3d.Record) donut3d.Config {
	cfg := donut3d.DefaultConfig().WithData(records).WithTransitionDuration(0)
	if w, _ := cmd.Flags().GetString("width"); w != "" {
		cfg = cfg.WithWidth(w)
	}
	if h, _ := cmd.Flags().GetString("height"); h != "" {
		cfg = cfg.WithHeight(h)
	}
	if format, _ := cmd.Flags().GetString("labels"); format != "" {
		cfg = cfg.WithLabelFormat(func(name string, _, pct float64) string {
			return fmt.Sprintf(format, name, pct)
		})
	}
	return cfg
}

// loadRecords reads records from path, or stdin when path is "-" or empty.
func loadRecords(path string) ([]donut3d.Record, error) {
	if path == "" || path == "-" {
		return donut3d.LoadRecords(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return donut3d.LoadRecords(f)
}
