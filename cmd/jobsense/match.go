package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobsense/internal/matching"
)

var (
	matchResumeFile string
	matchTopN       int
	matchRemoteOnly bool
	matchExperience string
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match a resume against stored postings",
	Long:  "Embed a resume text file and print the top matching postings as JSON.",
	RunE:  runMatch,
}

func init() {
	matchCmd.Flags().StringVarP(&matchResumeFile, "resume-file", "r", "", "Path to a plain-text resume file (required)")
	matchCmd.Flags().IntVarP(&matchTopN, "top-n", "n", 7, "Maximum number of matches to return")
	matchCmd.Flags().BoolVar(&matchRemoteOnly, "remote-only", false, "Only consider remote postings")
	matchCmd.Flags().StringVar(&matchExperience, "experience-level", "", "Only consider postings with this experience level")

	matchCmd.MarkFlagRequired("resume-file")

	rootCmd.AddCommand(matchCmd)
}

func runMatch(_ *cobra.Command, _ []string) error {
	text, err := os.ReadFile(matchResumeFile)
	if err != nil {
		return fmt.Errorf("failed to read resume file: %w", err)
	}

	ctx := context.Background()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	query, err := a.processor.EmbedText(ctx, string(text))
	if err != nil {
		return fmt.Errorf("failed to embed resume: %w", err)
	}

	matches, err := a.engine.Match(ctx, query, matching.Preferences{
		RemoteOnly:      matchRemoteOnly,
		ExperienceLevel: matchExperience,
	}, matchTopN)
	if err != nil {
		return fmt.Errorf("failed to match postings: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(matches)
}
