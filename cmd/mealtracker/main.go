// Package main provides the mealtracker CLI: the HTTP API server, client
// commands for logging meals and the terminal dashboard.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}
