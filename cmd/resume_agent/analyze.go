package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-auditor/internal/analysis"
	"github.com/jonathan/resume-auditor/internal/observability"
	"github.com/jonathan/resume-auditor/internal/scoring"
	"github.com/jonathan/resume-auditor/internal/session"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Extract and audit a resume file",
	Long:  "Extracts text from a PDF, DOCX or TXT resume, audits it with the model and writes a session state file used by the other commands.",
	RunE:  runAnalyze,
}

var (
	analyzeFile   string
	analyzeState  string
	analyzeAPIKey string
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "Path to resume file: .pdf, .docx, .txt or .md (required)")
	analyzeCmd.Flags().StringVarP(&analyzeState, "state", "s", "", "Path to output state JSON file (required)")
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	markRequired(analyzeCmd, "file", "state")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	data, err := os.ReadFile(analyzeFile)
	if err != nil {
		return fmt.Errorf("failed to read resume file: %w", err)
	}

	ctx := context.Background()
	client, err := openClient(ctx, analyzeAPIKey)
	if err != nil {
		return err
	}
	defer client.Close()

	text, result, err := analysis.NewAnalyzer(client).AnalyzeDocument(ctx, filepath.Base(analyzeFile), data)
	if err != nil {
		return fmt.Errorf("failed to analyze resume: %w", err)
	}

	if err := writeState(analyzeState, session.DefaultState().Uploaded(text, result)); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if verbose {
		observability.NewPrinter(out).PrintAnalysis(result)
	}
	_, _ = fmt.Fprintf(out, "Detected role: %s\n", result.DetectedRole)
	_, _ = fmt.Fprintf(out, "ATS score: %d (%s)\n", result.OverallScore, scoring.GradeFor(result.OverallScore))
	_, _ = fmt.Fprintf(out, "Sections: %d\n", len(result.StructuredSections))
	_, _ = fmt.Fprintf(out, "Output: %s\n", analyzeState)
	return nil
}
