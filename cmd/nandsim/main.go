package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cellwear/nandsim/internal/version"
)

// Build variables set by ldflags
var (
	buildVersion string
	buildCommit  string
	buildTime    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "nandsim",
		Short: "NAND flash endurance Monte Carlo simulator",
		Long: `nandsim estimates how the Bit Error Rate of a NAND flash block evolves
with cumulative Program/Erase cycles. Each architecture (SLC, MLC, TLC, ...)
is modeled as a population of cells whose endurance thresholds are drawn
from a Normal distribution; the BER curve is the cumulative failure
fraction over a cycle sweep.`,
		Version: version.GetVersion(buildVersion, buildCommit, buildTime),
	}

	// Add commands
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(reportCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(version.GetDetailedVersion(buildVersion, buildCommit, buildTime))
		},
	}
}
