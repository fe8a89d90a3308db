package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-auditor/internal/fetch"
	"github.com/jonathan/resume-auditor/internal/matching"
	"github.com/jonathan/resume-auditor/internal/observability"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Compare an analyzed resume with a job description",
	Long: "Reports matching and missing keywords for a job description, read from a file (plain text or saved HTML) " +
		"or fetched from a job board URL. With --apply the tailored sections are written to the state file.",
	RunE: runMatch,
}

var (
	matchState  string
	matchJob    string
	matchJobURL string
	matchBrowse bool
	matchOut    string
	matchApply  bool
	matchAPIKey string
)

func init() {
	matchCmd.Flags().StringVarP(&matchState, "state", "s", "", "Path to state JSON file (required)")
	matchCmd.Flags().StringVarP(&matchJob, "job", "j", "", "Path to job description file")
	matchCmd.Flags().StringVar(&matchJobURL, "job-url", "", "URL of the job posting to fetch")
	matchCmd.Flags().BoolVar(&matchBrowse, "browser", false, "Render the posting in headless Chrome when the page is client-side rendered")
	matchCmd.Flags().StringVarP(&matchOut, "out", "o", "", "Path to write the match result JSON")
	matchCmd.Flags().BoolVar(&matchApply, "apply", false, "Apply the tailored sections to the state file")
	matchCmd.Flags().StringVar(&matchAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	markRequired(matchCmd, "state")
	matchCmd.MarkFlagsOneRequired("job", "job-url")
	matchCmd.MarkFlagsMutuallyExclusive("job", "job-url")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	state, err := readState(matchState)
	if err != nil {
		return err
	}
	ctx := context.Background()
	jd, err := readJobDescription(ctx, cmd)
	if err != nil {
		return err
	}

	client, err := openClient(ctx, matchAPIKey)
	if err != nil {
		return err
	}
	defer client.Close()

	result, err := matching.NewMatcher(client).Match(ctx, state.ResumeText, state.Sections, jd)
	if err != nil {
		return fmt.Errorf("failed to match job description: %w", err)
	}

	out := cmd.OutOrStdout()
	if verbose {
		observability.NewPrinter(out).PrintJobMatch(result)
	}
	_, _ = fmt.Fprintf(out, "Match: %d%%\n", result.MatchPercentage)
	_, _ = fmt.Fprintf(out, "Matching: %s\n", strings.Join(result.MatchingKeywords, ", "))
	_, _ = fmt.Fprintf(out, "Missing: %s\n", strings.Join(result.MissingKeywords, ", "))
	if result.MatchFeedback != "" {
		_, _ = fmt.Fprintf(out, "%s\n", result.MatchFeedback)
	}

	if matchOut != "" {
		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		if err := writeFile(matchOut, jsonBytes); err != nil {
			return err
		}
	}

	if matchApply {
		next, err := state.ApplyTailoring(result.TailoredSections)
		if err != nil {
			return err
		}
		if err := writeState(matchState, next); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "Applied tailored sections to %s\n", matchState)
	}
	return nil
}

func readJobDescription(ctx context.Context, cmd *cobra.Command) (string, error) {
	if matchJobURL == "" {
		data, err := os.ReadFile(matchJob)
		if err != nil {
			return "", fmt.Errorf("failed to read job description: %w", err)
		}
		return string(data), nil
	}

	posting, err := fetch.JobPosting(ctx, matchJobURL, &fetch.Options{Browser: matchBrowse})
	if err != nil {
		return "", err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Fetched %s posting (%d chars)\n", posting.Platform, len(posting.Text))
	return posting.Text, nil
}
