package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	kafkaadapter "github.com/couchcryptid/vortex/internal/adapter/kafka"
	"github.com/couchcryptid/vortex/internal/domain"
	"github.com/spf13/cobra"
)

var publishCmd = &cobra.Command{
	Use:   "publish <capture.json>...",
	Short: "Publish saved captures to the source topic",
	Long: `Publish sends capture documents to KAFKA_SOURCE_TOPIC for a running vortexd
to analyze. A capture without an id takes its file name; one without a
captured_at time is stamped now.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPublish,
}

func init() {
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	captures := make([]domain.Capture, 0, len(args))
	for _, path := range args {
		c, err := readCaptureFile(path)
		if err != nil {
			return err
		}
		captures = append(captures, c)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	pub := kafkaadapter.NewCapturePublisher(cfg, slog.Default())
	defer pub.Close()

	if err := pub.Publish(cmd.Context(), captures); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "published %d captures to %s\n", len(captures), cfg.KafkaSourceTopic)
	return nil
}

func readCaptureFile(path string) (domain.Capture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Capture{}, err
	}
	var c domain.Capture
	if err := json.Unmarshal(data, &c); err != nil {
		return domain.Capture{}, fmt.Errorf("parse %s: %w", path, err)
	}
	for f := range c.Overrides {
		if _, ok := domain.ParseField(string(f)); !ok {
			return domain.Capture{}, fmt.Errorf("parse %s: unknown override field %q", path, f)
		}
	}
	if c.ID == "" {
		c.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if c.CapturedAt.IsZero() {
		c.CapturedAt = time.Now().UTC()
	}
	return c, nil
}
