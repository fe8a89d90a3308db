package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-auditor/internal/rewriting"
	"github.com/jonathan/resume-auditor/internal/types"
)

var improveCmd = &cobra.Command{
	Use:   "improve",
	Short: "Suggest professional and ATS-optimized rewrites for one section",
	Long:  "Asks the model for both rewrite variants of one section. With --apply the chosen variant is written back to the state file.",
	RunE:  runImprove,
}

var (
	improveState   string
	improveSection string
	improveApply   string
	improveAPIKey  string
)

func init() {
	improveCmd.Flags().StringVarP(&improveState, "state", "s", "", "Path to state JSON file (required)")
	improveCmd.Flags().StringVar(&improveSection, "section", "", "Section ID to improve (required)")
	improveCmd.Flags().StringVar(&improveApply, "apply", "", "Apply a variant: professional or atsOptimized")
	improveCmd.Flags().StringVar(&improveAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	markRequired(improveCmd, "state", "section")
	rootCmd.AddCommand(improveCmd)
}

func runImprove(cmd *cobra.Command, _ []string) error {
	apply := types.RewriteMode(improveApply)
	if apply != "" && !apply.Valid() {
		return fmt.Errorf("invalid --apply %q (want professional or atsOptimized)", improveApply)
	}

	state, err := readState(improveState)
	if err != nil {
		return err
	}
	idx := types.FindSection(state.Sections, improveSection)
	if idx < 0 {
		return &rewriting.SectionNotFoundError{ID: improveSection}
	}
	section := state.Sections[idx]

	ctx := context.Background()
	client, err := openClient(ctx, improveAPIKey)
	if err != nil {
		return err
	}
	defer client.Close()

	improved, err := rewriting.NewRewriter(client).ImproveSection(ctx, section.Title, section.Content)
	if err != nil {
		return fmt.Errorf("failed to improve section: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, mode := range []types.RewriteMode{types.ModeProfessional, types.ModeATSOptimized} {
		content := improved.Pick(mode)
		q := rewriting.Assess(section.Title, content)
		_, _ = fmt.Fprintf(out, "== %s (%d bullets, %d quantified) ==\n%s\n\n", mode, q.Bullets, q.QuantifiedLines, content)
	}

	if apply == "" {
		return nil
	}
	sections, err := rewriting.ApplyToSection(state.Sections, improveSection, improved.Pick(apply))
	if err != nil {
		return err
	}
	if err := writeState(improveState, state.WithSections(sections)); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Applied %s variant to section %s\n", apply, improveSection)
	return nil
}
