package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phanxgames/donut3d"
	"github.com/phanxgames/donut3d/x3d"
)

var renderCmd = &cobra.Command{
	Use:   "render [data.yaml]",
	Short: "Write the X3D document for a data file to stdout",
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

		doc := x3d.NewDocument()
		if err := donut3d.NewChart(doc).Render(configFromFlags(cmd, records)); err != nil {
			return fmt.Errorf("render: %w", err)
		}

		w := bufio.NewWriter(os.Stdout)
		enc := x3d.NewEncoder(w)
		if compact, _ := cmd.Flags().GetBool("compact"); compact {
			enc.SetIndent("")
		}
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return w.Flush()
	},
}

func init() {
	renderCmd.Flags().Bool("compact", false, "Write the document on a single line")
	rootCmd.AddCommand(renderCmd)
}
