package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cellwear/nandsim/pkg/db"
)

var (
	exportRunID  int64
	exportOutput string
	exportAll    bool
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export simulated BER curves",
		Long:  "Export stored BER curves in various formats",
	}

	cmd.AddCommand(exportCSVCmd())
	cmd.AddCommand(exportJSONCmd())

	return cmd
}

func exportCSVCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "csv",
		Short: "Export curves to CSV format",
		Long: `Export stored BER curves to CSV format.

Examples:
  # Export a specific run to file
  nandsim export csv --run 42 --out slc.csv

  # Export a specific run to stdout
  nandsim export csv --run 42

  # Export all runs
  nandsim export csv --all --out all-curves.csv`,
		RunE: runExportCSV,
	}

	cmd.Flags().Int64Var(&exportRunID, "run", 0, "Run ID to export")
	cmd.Flags().StringVarP(&exportOutput, "out", "o", "", "Output file (default: stdout)")
	cmd.Flags().BoolVar(&exportAll, "all", false, "Export all runs")

	return cmd
}

func exportJSONCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "json",
		Short: "Export curves to JSON format",
		Long: `Export stored BER curves to JSON format.

Examples:
  # Export a specific run to file
  nandsim export json --run 42 --out slc.json

  # Export a specific run to stdout
  nandsim export json --run 42`,
		RunE: runExportJSON,
	}

	cmd.Flags().Int64Var(&exportRunID, "run", 0, "Run ID to export")
	cmd.Flags().StringVarP(&exportOutput, "out", "o", "", "Output file (default: stdout)")

	return cmd
}

func runExportCSV(_ *cobra.Command, _ []string) error {
	// Validate flags
	if !exportAll && exportRunID == 0 {
		return fmt.Errorf("either --run or --all must be specified")
	}

	// Open database
	database, err := db.Open(getDBPath())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = database.Close() }()

	// Prepare output writer
	var out *os.File
	if exportOutput == "" {
		out = os.Stdout
	} else {
		out, err = os.Create(exportOutput) // #nosec G304 -- exportOutput is a user-specified output file path from command line flag
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = out.Close() }()
	}

	// Export data
	if exportAll {
		if err := database.ExportAllCSV(out); err != nil {
			return fmt.Errorf("failed to export CSV: %w", err)
		}
		if exportOutput != "" {
			fmt.Printf("Exported all runs to %s\n", exportOutput)
		}
	} else {
		// Check if run exists
		if _, err := database.GetRun(exportRunID); err != nil {
			return fmt.Errorf("run %d not found", exportRunID)
		}

		if err := database.ExportCSV(out, exportRunID); err != nil {
			return fmt.Errorf("failed to export CSV: %w", err)
		}
		if exportOutput != "" {
			fmt.Printf("Exported run %d to %s\n", exportRunID, exportOutput)
		}
	}

	return nil
}

func runExportJSON(_ *cobra.Command, _ []string) error {
	// Validate flags
	if exportRunID == 0 {
		return fmt.Errorf("--run must be specified")
	}

	// Open database
	database, err := db.Open(getDBPath())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = database.Close() }()

	// Check if run exists
	if _, err := database.GetRun(exportRunID); err != nil {
		return fmt.Errorf("run %d not found", exportRunID)
	}

	// Prepare output writer
	var out *os.File
	if exportOutput == "" {
		out = os.Stdout
	} else {
		out, err = os.Create(exportOutput) // #nosec G304 -- exportOutput is a user-specified output file path from command line flag
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = out.Close() }()
	}

	// Export data
	if err := database.ExportJSON(out, exportRunID); err != nil {
		return fmt.Errorf("failed to export JSON: %w", err)
	}

	if exportOutput != "" {
		fmt.Printf("Exported run %d to %s\n", exportRunID, exportOutput)
	}

	return nil
}

// Helper command to list runs
func listCmd() *cobra.Command {
	var (
		listArch    string
		listLimit   int
		listSuccess bool
		listFailed  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List simulation runs",
		Long: `List simulation runs from the database.

Examples:
  # List all runs
  nandsim list

  # List only TLC runs
  nandsim list --arch "TLC (Triple-Level Cell)"

  # List only failed runs
  nandsim list --failed

  # List last 10 runs
  nandsim list --limit 10`,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Open database
			database, err := db.Open(getDBPath())
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = database.Close() }()

			// Build filter
			filter := db.RunFilter{
				Architecture: listArch,
				Limit:        listLimit,
			}

			if listSuccess && !listFailed {
				success := true
				filter.Success = &success
			} else if listFailed && !listSuccess {
				success := false
				filter.Success = &success
			}

			// Get runs
			runs, err := database.ListRuns(filter)
			if err != nil {
				return fmt.Errorf("failed to list runs: %w", err)
			}

			if len(runs) == 0 {
				fmt.Println("No runs found")
				return nil
			}

			// Display runs
			fmt.Printf("%-6s %-28s %-12s %-20s %-10s %-8s\n",
				"ID", "Architecture", "Seed", "Start Time", "Duration", "Status")
			fmt.Println(strings.Repeat("-", 90))

			for _, run := range runs {
				duration := "-"
				status := "running"

				if run.EndTime != nil {
					duration = fmt.Sprintf("%.2fs", run.Duration().Seconds())
					if run.Success {
						status = "success"
					} else {
						status = "failed"
					}
				}

				fmt.Printf("%-6d %-28s %-12d %-20s %-10s %-8s\n",
					run.ID,
					run.Architecture,
					run.Seed,
					run.StartTime.Format("2006-01-02 15:04:05"),
					duration,
					status,
				)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&listArch, "arch", "a", "", "Filter by architecture name")
	cmd.Flags().IntVarP(&listLimit, "limit", "n", 50, "Maximum number of runs to show")
	cmd.Flags().BoolVar(&listSuccess, "success", false, "Show only successful runs")
	cmd.Flags().BoolVar(&listFailed, "failed", false, "Show only failed runs")

	return cmd
}

// Helper command to show run details
func showCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [run-id]",
		Short: "Show detailed run information",
		Long: `Show detailed information about a specific simulation run.

Examples:
  # Show run details
  nandsim show 42

  # Show run with the full BER curve
  nandsim show 42 -v`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Parse run ID
			runID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid run ID: %s", args[0])
			}

			// Open database
			database, err := db.Open(getDBPath())
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = database.Close() }()

			// Get run
			run, err := database.GetRun(runID)
			if err != nil {
				return fmt.Errorf("run %d not found", runID)
			}

			// Get curve
			curve, err := database.GetCurve(runID)
			if err != nil {
				return fmt.Errorf("failed to get curve: %w", err)
			}

			// Display run information
			fmt.Printf("Run ID: %d\n", run.ID)
			fmt.Printf("Architecture: %s\n", run.Architecture)
			fmt.Printf("Seed: %d\n", run.Seed)
			fmt.Printf("Start Time: %s\n", run.StartTime.Format("2006-01-02 15:04:05"))

			if run.EndTime != nil {
				fmt.Printf("End Time: %s\n", run.EndTime.Format("2006-01-02 15:04:05"))
				fmt.Printf("Duration: %.2f seconds\n", run.Duration().Seconds())
			} else {
				fmt.Printf("End Time: (still running)\n")
			}

			fmt.Printf("Success: %v\n", run.Success)

			if run.Error != "" {
				fmt.Printf("Error: %s\n", run.Error)
			}

			// Display parameters
			if len(run.Params) > 0 {
				fmt.Printf("\nParameters:\n")
				for k, v := range run.Params {
					fmt.Printf("  %s: %v\n", k, v)
				}
			}

			// Display curve summary, or the full curve when verbose
			if len(curve) > 0 {
				fmt.Printf("\nCurve: %d checkpoints, final BER %.6f\n", len(curve), curve[len(curve)-1].BER)

				verbose, _ := cmd.Flags().GetBool("verbose")
				if verbose {
					fmt.Printf("\n%-12s %s\n", "Cycle", "BER")
					for _, pt := range curve {
						fmt.Printf("%-12d %.6f\n", pt.Cycle, pt.BER)
					}
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolP("verbose", "v", false, "Show the full BER curve")

	return cmd
}
