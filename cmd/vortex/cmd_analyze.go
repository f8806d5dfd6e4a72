package main

import (
	"fmt"

	"github.com/couchcryptid/vortex/internal/domain"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text-file...]",
	Short: "Extract and score a capture in one step",
	Long: `Analyze extracts the fields from OCR text or screenshots (see extract),
applies any --set corrections and prints the scored result.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runAnalyze,
}

var (
	analyzeImages    imageFlags
	analyzeOverrides []string
)

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeImages.bind(analyzeCmd)
	analyzeCmd.Flags().StringArrayVar(&analyzeOverrides, "set", nil, "correct an extracted field, e.g. --set cape=3000 (repeatable)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	overrides, err := parseOverrides(analyzeOverrides)
	if err != nil {
		return err
	}
	c, err := readCapture(cmd, args, analyzeImages)
	if err != nil {
		return err
	}
	c.Overrides = overrides

	fields := domain.Extract(captureText(c)).WithOverrides(c.Overrides)
	analysis := domain.AnalyzeFields(c.ID, fields, c.CapturedAt, captureText(c))
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), analysis)
	}

	out := cmd.OutOrStdout()
	if err := renderFields(out, analysis.Fields); err != nil {
		return err
	}
	fmt.Fprintln(out)
	return renderResult(out, analysis.Result)
}
