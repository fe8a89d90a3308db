package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-auditor/internal/scoring"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Print the ATS score breakdown of an analyzed resume",
	Long:  "Recomputes the ATS compliance score from a state file and prints each contributing term.",
	RunE:  runScore,
}

var (
	scoreState string
	scoreJSON  bool
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreState, "state", "s", "", "Path to state JSON file (required)")
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "Print the breakdown as JSON")
	markRequired(scoreCmd, "state")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	state, err := readState(scoreState)
	if err != nil {
		return err
	}

	breakdown := scoring.Explain(state.Analysis)
	out := cmd.OutOrStdout()
	if scoreJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(breakdown)
	}

	_, _ = fmt.Fprint(out, breakdown.Summary())
	_, _ = fmt.Fprintf(out, "Grade: %s\n", scoring.GradeFor(breakdown.Total))
	_, _ = fmt.Fprintf(out, "Quantified bullets: %d%%\n", scoring.QuantifiedPercent(state.Analysis.Metrics))
	return nil
}
