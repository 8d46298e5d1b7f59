package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phanxgames/donut3d"
)

var validateCmd = &cobra.Command{
	Use:   "validate [data.yaml]",
	Short: "Check a data file without rendering it",
	Long:  `Loads the records, resolves every color and checks every value, then prints the computed segments.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) > 0 {
			path = args[0]
		}
		records, err := loadRecords(path)
		if err != nil {
			return err
		}
		cfg := configFromFlags(cmd, records)
		if err := cfg.Validate(); err != nil {
			return err
		}
		segments, err := donut3d.Compute(cfg.Data, cfg.LabelFormat)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for i, s := range segments {
			fmt.Fprintf(out, "%d\t%s\t%g\t%.1f%%\tstart=%.4f\tsweep=%.4f\n", i, s.Name, s.Value, s.Percentage, s.StartAngle, s.SweepAngle)
		}
		fmt.Fprintf(out, "%d records ok\n", len(segments))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
