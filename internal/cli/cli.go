// Package cli provides the command-line interface for CoinPulse
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dyike/CoinPulse/internal/logger"
)

// Run starts the CLI application
func Run() {
	rootCmd := NewRootCmd()
	defer logger.Sync()

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
