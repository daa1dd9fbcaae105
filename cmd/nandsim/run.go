package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cellwear/nandsim/pkg/db"
	"github.com/cellwear/nandsim/pkg/sim"
)

var (
	runSeed        int64
	runCells       int
	runCheckpoints int
	runMaxCycles   int
	runSpacing     string
	runArchFile    string
	runDryRun      bool
	runList        bool
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [architecture]",
		Short: "Run an endurance simulation",
		Long: `Simulate the BER curve of one architecture, or of every registered
architecture when none is named.

Examples:
  # List registered architectures
  nandsim run --list

  # Simulate all architectures with a reproducible seed
  nandsim run --seed 42

  # Simulate TLC with a larger population
  nandsim run tlc --cells 200000

  # Merge custom architectures from a YAML table first
  nandsim run qlc --arch-file archs.yaml

  # Show what would run without running it
  nandsim run slc --dry-run`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSimulation,
	}

	cmd.Flags().Int64Var(&runSeed, "seed", 0, "Random seed (omit for a time-based, non-reproducible seed)")
	cmd.Flags().IntVar(&runCells, "cells", 0, "Population size override")
	cmd.Flags().IntVarP(&runCheckpoints, "checkpoints", "n", sim.DefaultCheckpoints, "Number of cycle checkpoints")
	cmd.Flags().IntVar(&runMaxCycles, "max-cycles", 0, "Cycle sweep bound override")
	cmd.Flags().StringVar(&runSpacing, "spacing", "", "Checkpoint spacing: log or linear")
	cmd.Flags().StringVar(&runArchFile, "arch-file", "", "YAML file with additional architectures")
	cmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Show what would be simulated without running")
	cmd.Flags().BoolVarP(&runList, "list", "l", false, "List registered architectures")

	return cmd
}

func runSimulation(cmd *cobra.Command, args []string) error {
	if runArchFile != "" {
		if err := sim.LoadArchFile(sim.Default(), runArchFile); err != nil {
			return err
		}
	}

	// Handle list flag
	if runList {
		return listArchitectures()
	}

	// Resolve the set of architectures to simulate
	var configs []sim.ArchConfig
	if len(args) > 0 {
		cfg, err := sim.Get(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Fprintf(os.Stderr, "\nRegistered architectures:\n")
			listArchitectures()
			return err
		}
		configs = []sim.ArchConfig{cfg}
	} else {
		configs = sim.All()
	}

	// Apply overrides
	for i := range configs {
		if runCells > 0 {
			configs[i].PopulationSize = runCells
		}
		if runMaxCycles > 0 {
			configs[i].MaxCycles = runMaxCycles
		}
		if runSpacing != "" {
			configs[i].Spacing = sim.Spacing(runSpacing)
		}
		configs[i] = configs[i].Normalize()
		if err := configs[i].Validate(); err != nil {
			return err
		}
	}

	seed := runSeed
	if !cmd.Flags().Changed("seed") {
		seed = time.Now().UnixNano()
	}

	// Dry run mode
	if runDryRun {
		fmt.Printf("Would simulate %d architecture(s) with seed %d:\n", len(configs), seed)
		for _, cfg := range configs {
			fmt.Printf("  %-28s mean=%.0f std=%.0f cells=%d max_cycles=%d spacing=%s\n",
				cfg.Name, cfg.MeanEndurance, cfg.StdDev, cfg.PopulationSize, cfg.MaxCycles, cfg.Spacing)
		}
		return nil
	}

	// Open database
	database, err := db.Open(getDBPath())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = database.Close() }()

	fmt.Println("NAND Flash Endurance Monte Carlo Simulator")
	fmt.Printf("Seed: %d\n\n", seed)

	for i, cfg := range configs {
		if err := simulateOne(database, cfg, seed+int64(i), runCheckpoints); err != nil {
			return err
		}
	}

	return nil
}

// simulateOne runs a single architecture and persists its run and curve.
func simulateOne(database *db.DB, cfg sim.ArchConfig, seed int64, checkpoints int) error {
	fmt.Printf("--- %s ---\n", cfg.Name)
	fmt.Printf("Modeling %d cells, endurance ~ N(%.0f, %.0f), sweeping to %d cycles\n",
		cfg.PopulationSize, cfg.MeanEndurance, cfg.StdDev, cfg.MaxCycles)

	run, err := database.CreateRun(cfg.Name, configParams(cfg, checkpoints), seed)
	if err != nil {
		return fmt.Errorf("failed to create run record: %w", err)
	}

	result, simErr := sim.Run(cfg, seed, checkpoints)

	now := time.Now()
	run.EndTime = &now
	run.Success = simErr == nil
	if simErr != nil {
		run.Error = simErr.Error()
	}
	if err := database.UpdateRun(run); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to update run record: %v\n", err)
	}
	if simErr != nil {
		return fmt.Errorf("simulation of %s failed: %w", cfg.Name, simErr)
	}

	points := make([]db.CurvePoint, len(result.Curve))
	for i, pt := range result.Curve {
		points[i] = db.CurvePoint{Cycle: pt.Cycle, BER: pt.BER}
	}
	if err := database.SaveCurve(run.ID, points); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to save curve: %v\n", err)
	}

	// Progress summary at roughly every tenth checkpoint.
	interval := len(result.Curve) / 10
	if interval < 1 {
		interval = 1
	}
	for i := interval - 1; i < len(result.Curve); i += interval {
		pt := result.Curve[i]
		fmt.Printf("  Cycle %d/%d | BER: %.6f\n", pt.Cycle, cfg.MaxCycles, pt.BER)
	}

	fmt.Printf("Completed in %s (run ID: %d)\n\n", result.Elapsed.Round(time.Millisecond), run.ID)
	return nil
}

// configParams flattens a config into the stored run parameters.
func configParams(cfg sim.ArchConfig, checkpoints int) db.JSONData {
	return db.JSONData{
		"mean_endurance":  cfg.MeanEndurance,
		"std_dev":         cfg.StdDev,
		"max_cycles":      cfg.MaxCycles,
		"population_size": cfg.PopulationSize,
		"spacing":         string(cfg.Spacing),
		"checkpoints":     checkpoints,
	}
}

func listArchitectures() error {
	keys := sim.List()

	if len(keys) == 0 {
		fmt.Println("No architectures registered")
		return nil
	}

	fmt.Println("Registered architectures:")
	for _, key := range keys {
		cfg, err := sim.Get(key)
		if err != nil {
			continue
		}
		fmt.Printf("  %-6s %-28s mean=%.0f std=%.0f\n", key, cfg.Name, cfg.MeanEndurance, cfg.StdDev)
	}

	return nil
}
