package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobsense/internal/ingestion"
)

var ingestSource string

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Run a one-shot ingestion pass",
	Long:  "Fetch postings from the registered job boards, embed them, and store them, then print the per-source outcomes as JSON.",
	RunE:  runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestSource, "source", "s", "", "Ingest only this source (default: all registered sources)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	result := a.orchestrator.Run(ctx, ingestSource)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	if result.Status == ingestion.StatusFailed || result.Status == ingestion.StatusNotFound {
		return fmt.Errorf("ingestion did not succeed: %s", result.Status)
	}
	return nil
}
