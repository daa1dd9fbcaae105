package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/cellwear/nandsim/pkg/db"
	"github.com/cellwear/nandsim/pkg/report"
	"github.com/cellwear/nandsim/pkg/sim"
)

func reportCmd() *cobra.Command {
	var (
		format   string
		output   string
		archFile string
	)

	cmd := &cobra.Command{
		Use:   "report [run-id...]",
		Short: "Generate an endurance comparison report",
		Long: `Generate an HTML or SVG comparison report from stored runs.

Without run IDs the report covers the latest successful run of every
registered architecture.

Examples:
  # Compare the latest run of each architecture
  nandsim report

  # Compare specific runs
  nandsim report 12 14 15 --output comparison.html

  # Emit only the chart
  nandsim report --format svg --output curves.svg`,
		RunE: func(_ *cobra.Command, args []string) error {
			if format != "html" && format != "svg" {
				return fmt.Errorf("format must be either 'html' or 'svg'")
			}

			if archFile != "" {
				if err := sim.LoadArchFile(sim.Default(), archFile); err != nil {
					return err
				}
			}

			// Open database
			database, err := db.Open(getDBPath())
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = database.Close() }()

			// Resolve run IDs
			var runIDs []int64
			if len(args) > 0 {
				for _, arg := range args {
					id, err := strconv.ParseInt(arg, 10, 64)
					if err != nil {
						return fmt.Errorf("invalid run ID: %s", arg)
					}
					runIDs = append(runIDs, id)
				}
			} else {
				for _, cfg := range sim.All() {
					run, err := database.LatestRun(cfg.Name)
					if err != nil {
						fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", cfg.Name, err)
						continue
					}
					runIDs = append(runIDs, run.ID)
				}
				if len(runIDs) == 0 {
					return fmt.Errorf("no stored runs to report on; run 'nandsim run' first")
				}
			}

			// Create report generator
			generator := report.NewGenerator(database)

			// Generate output filename if not specified
			if output == "" {
				timestamp := time.Now().Format("20060102_150405")
				output = fmt.Sprintf("nandsim_report_%s.%s", timestamp, format)
			}

			// Generate report
			var content string
			switch format {
			case "html":
				content, err = generator.GenerateHTML(runIDs)
				if err != nil {
					return fmt.Errorf("failed to generate HTML report: %w", err)
				}
			case "svg":
				content, err = generator.GenerateSVG(runIDs)
				if err != nil {
					return fmt.Errorf("failed to generate SVG chart: %w", err)
				}
			}

			if err := os.WriteFile(output, []byte(content), 0o600); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}

			fmt.Printf("Report written to %s (%d run(s))\n", output, len(runIDs))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "html", "Report format: html or svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: timestamped name)")
	cmd.Flags().StringVar(&archFile, "arch-file", "", "YAML file with additional architectures")

	return cmd
}
