// Package main provides the entry point for the JobSense HTTP API server and
// ingestion CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jobsense",
	Short: "JobSense job ingestion and matching service",
	Long:  "JobSense ingests postings from remote job boards, embeds them via an external embedding service, and ranks them against resumes by cosine similarity.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
