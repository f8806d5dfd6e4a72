package main

import (
	"github.com/couchcryptid/vortex/internal/domain"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract [text-file...]",
	Short: "Read sounding fields from OCR text or screenshots",
	Long: `Extract prints the numeric fields found in OCR text. Text comes from one
or two files (thermodynamics, then composites) or stdin. With --thermo and
--comp the two screenshots are OCR'd first.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runExtract,
}

var extractImages imageFlags

func init() {
	rootCmd.AddCommand(extractCmd)
	extractImages.bind(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	c, err := readCapture(cmd, args, extractImages)
	if err != nil {
		return err
	}
	fields := domain.Extract(captureText(c))
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), fields)
	}
	return renderFields(cmd.OutOrStdout(), fields)
}
