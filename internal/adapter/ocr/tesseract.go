package ocr

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/couchcryptid/vortex/internal/config"
	"github.com/couchcryptid/vortex/internal/observability"
)

// TesseractRecognizer shells out to the tesseract CLI in single-block mode.
type TesseractRecognizer struct {
	cmd     string
	timeout time.Duration
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewTesseractRecognizer creates a recognizer that runs cmd, resolved on PATH
// when it is not a path.
func NewTesseractRecognizer(cmd string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *TesseractRecognizer {
	return &TesseractRecognizer{
		cmd:     cmd,
		timeout: timeout,
		logger:  logger,
		metrics: metrics,
	}
}

// Recognize preprocesses the image, writes it to a temp file and reads
// tesseract's stdout.
func (t *TesseractRecognizer) Recognize(ctx context.Context, img []byte) (text string, err error) {
	if len(img) == 0 {
		return "", ErrEmptyImage
	}
	start := time.Now()
	defer func() { observe(t.metrics, config.OCREngineTesseract, start, text, err) }()

	processed, err := Preprocess(img)
	if err != nil {
		return "", err
	}

	f, err := os.CreateTemp("", "vortex-ocr-*.png")
	if err != nil {
		return "", fmt.Errorf("create temp image: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(processed); err != nil {
		f.Close()
		return "", fmt.Errorf("write temp image: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("write temp image: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, t.cmd, f.Name(), "stdout", "--psm", "6")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	t.logger.Debug("running tesseract", "cmd", cmd.String())

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
