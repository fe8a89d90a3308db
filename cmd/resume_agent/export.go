package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-auditor/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the current sections as TXT, PDF or DOCX",
	RunE:  runExport,
}

var (
	exportState  string
	exportFormat string
	exportOut    string
)

func init() {
	exportCmd.Flags().StringVarP(&exportState, "state", "s", "", "Path to state JSON file (required)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "pdf", "Output format: txt, pdf or docx")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output path (defaults to ATS_Optimized_Resume.<format>)")
	markRequired(exportCmd, "state")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}
	exporter, err := export.ForFormat(format)
	if err != nil {
		return err
	}

	state, err := readState(exportState)
	if err != nil {
		return err
	}

	data, err := export.Render(exporter, state.Sections)
	if err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}

	path := exportOut
	if path == "" {
		path = exporter.Filename()
	}
	if err := writeFile(path, data); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Output: %s (%d bytes)\n", path, len(data))
	return nil
}
