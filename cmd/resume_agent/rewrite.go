package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-auditor/internal/observability"
	"github.com/jonathan/resume-auditor/internal/rewriting"
	"github.com/jonathan/resume-auditor/internal/types"
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite",
	Short: "Rewrite every section of an analyzed resume",
	Long:  "Rewrites all sections concurrently in one mode and stores the result in the state file. Sections that fail keep their content.",
	RunE:  runRewrite,
}

var (
	rewriteState       string
	rewriteMode        string
	rewriteConcurrency int
	rewriteAPIKey      string
)

func init() {
	rewriteCmd.Flags().StringVarP(&rewriteState, "state", "s", "", "Path to state JSON file (required)")
	rewriteCmd.Flags().StringVarP(&rewriteMode, "mode", "m", string(types.ModeATSOptimized), "Rewrite mode: professional or atsOptimized")
	rewriteCmd.Flags().IntVar(&rewriteConcurrency, "concurrency", rewriting.DefaultConcurrency, "Parallel section rewrites")
	rewriteCmd.Flags().StringVar(&rewriteAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	markRequired(rewriteCmd, "state")
	rootCmd.AddCommand(rewriteCmd)
}

func runRewrite(cmd *cobra.Command, _ []string) error {
	mode := types.RewriteMode(rewriteMode)
	if !mode.Valid() {
		return fmt.Errorf("invalid --mode %q (want professional or atsOptimized)", rewriteMode)
	}

	state, err := readState(rewriteState)
	if err != nil {
		return err
	}

	ctx := context.Background()
	client, err := openClient(ctx, rewriteAPIKey)
	if err != nil {
		return err
	}
	defer client.Close()

	result, err := rewriting.NewRewriter(client).WithConcurrency(rewriteConcurrency).RewriteAll(ctx, state.Sections, mode)
	if err != nil {
		return fmt.Errorf("failed to rewrite sections: %w", err)
	}

	if err := writeState(rewriteState, state.WithSections(result.Sections)); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if verbose {
		observability.NewPrinter(out).PrintRewrite(state.Sections, result)
	}
	_, _ = fmt.Fprintf(out, "Successfully rewritten %d sections, %d kept unchanged\n", result.Rewritten, result.Failed)
	for _, o := range result.Outcomes {
		if !o.OK() {
			_, _ = fmt.Fprintf(out, "  kept %s: %v\n", o.SectionID, o.Err)
		}
	}
	_, _ = fmt.Fprintf(out, "Output: %s\n", rewriteState)
	return nil
}
