// Package main is the entry point for the awaitkit CLI.
//
// The CLI exposes the polling helpers for shell use: poll a table until
// an item appears, or until a query matches, then print the result as
// JSON.
//
// Usage:
//
//	awaitkit get --table orders --pk ORDER#1            # poll one item
//	awaitkit query --table orders --key-condition ...   # poll a query
//	awaitkit version                                    # show version info
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "awaitkit",
	Short: "Poll DynamoDB-backed serverless workflows from the shell",
	Long: `awaitkit polls DynamoDB until expected records appear.

It retries a point lookup or a query on a fixed interval until data shows
up or the attempt budget runs out, then prints the result as JSON. AWS
credentials and region resolve the standard way (environment, shared
config, instance role).`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("awaitkit %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

// newLogger creates a JSON logger for CLI use; results go to stdout,
// logs to stderr.
func newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// printJSON writes v to stdout, indented.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}
