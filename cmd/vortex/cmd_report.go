package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/couchcryptid/vortex/internal/adapter/webhook"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Send an OCR error report to the webhook",
	Long: `Report posts your message, the raw OCR text and the two screenshots to the
configured webhook so a bad read can be reproduced. Without --raw the
screenshots are OCR'd to fill in the raw text.`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

var (
	reportImages  imageFlags
	reportMessage string
	reportRawFile string
)

func init() {
	rootCmd.AddCommand(reportCmd)
	reportImages.bind(reportCmd)
	reportCmd.Flags().StringVarP(&reportMessage, "message", "m", "", "what went wrong")
	reportCmd.Flags().StringVar(&reportRawFile, "raw", "", "file holding the raw OCR text")
}

func runReport(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	rep := webhook.Report{Message: reportMessage}
	if reportImages.thermo != "" {
		if rep.Thermodynamics, err = os.ReadFile(reportImages.thermo); err != nil {
			return err
		}
	}
	if reportImages.comp != "" {
		if rep.Composites, err = os.ReadFile(reportImages.comp); err != nil {
			return err
		}
	}

	switch {
	case reportRawFile != "":
		raw, err := os.ReadFile(reportRawFile)
		if err != nil {
			return err
		}
		rep.RawText = string(raw)
	case reportImages.thermo != "" && reportImages.comp != "":
		c, err := recognizeImages(cmd.Context(), reportImages)
		if err != nil {
			return fmt.Errorf("ocr for raw text: %w", err)
		}
		rep.RawText = c.Text()
	}

	reporter := webhook.NewReporter(cfg.WebhookURL, cfg.WebhookTimeout, slog.Default(), nil)
	id, err := reporter.Send(cmd.Context(), rep)
	if errors.Is(err, webhook.ErrWebhookNotConfigured) {
		return fmt.Errorf("%w: run 'vortex webhook set <url>' or set WEBHOOK_URL", err)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "report %s sent\n", id)
	return nil
}
