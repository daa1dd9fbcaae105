package main

import (
	"os"
	"path/filepath"
)

// getDBPath returns the path to the nandsim database file
func getDBPath() string {
	// Check environment variable first
	if dbPath := os.Getenv("NANDSIM_DB_PATH"); dbPath != "" {
		return dbPath
	}

	// Default to user's home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory
		return "nandsim.db"
	}

	// Create .nandsim directory if it doesn't exist
	simDir := filepath.Join(homeDir, ".nandsim")
	if err := os.MkdirAll(simDir, 0o755); err == nil {
		return filepath.Join(simDir, "nandsim.db")
	}

	// Fallback to current directory
	return "nandsim.db"
}
