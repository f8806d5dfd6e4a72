// Package ocr turns screenshot regions into text for the field extractor.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/vortex/internal/config"
	"github.com/couchcryptid/vortex/internal/domain"
	"github.com/couchcryptid/vortex/internal/observability"
	"golang.org/x/sync/errgroup"
)

// ErrEmptyImage is returned when a recognizer is handed no image bytes.
var ErrEmptyImage = errors.New("empty image")

// Recognizer reads the text in one encoded image (PNG, JPEG or GIF).
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// New builds the recognizer selected by OCR_ENGINE, wrapped in the content
// hash cache. The returned close func releases engine resources.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (Recognizer, func() error, error) {
	var (
		inner   Recognizer
		closeFn = func() error { return nil }
	)

	switch cfg.OCREngine {
	case config.OCREngineVision:
		v, err := NewVisionRecognizer(ctx, cfg.OCRTimeout, logger, metrics)
		if err != nil {
			return nil, nil, err
		}
		inner, closeFn = v, v.Close
	case config.OCREngineTesseract:
		inner = NewTesseractRecognizer(cfg.TesseractCmd, cfg.OCRTimeout, logger, metrics)
	default:
		return nil, nil, fmt.Errorf("unknown ocr engine %q", cfg.OCREngine)
	}

	logger.Info("ocr engine ready", "engine", cfg.OCREngine, "cache_size", cfg.OCRCacheSize, "timeout", cfg.OCRTimeout)
	return NewCachedRecognizer(inner, cfg.OCRCacheSize, metrics), closeFn, nil
}

// RecognizePair reads the thermodynamics and composites regions concurrently
// and returns them as a capture stamped with capturedAt.
func RecognizePair(ctx context.Context, r Recognizer, id string, thermo, composites []byte, capturedAt time.Time) (domain.Capture, error) {
	var thermoText, compText string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		text, err := r.Recognize(gctx, thermo)
		if err != nil {
			return fmt.Errorf("thermodynamics: %w", err)
		}
		thermoText = text
		return nil
	})
	g.Go(func() error {
		text, err := r.Recognize(gctx, composites)
		if err != nil {
			return fmt.Errorf("composites: %w", err)
		}
		compText = text
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.Capture{}, err
	}

	return domain.Capture{
		ID:             id,
		Thermodynamics: thermoText,
		Composites:     compText,
		CapturedAt:     capturedAt,
	}, nil
}

// observe records one engine call.
func observe(metrics *observability.Metrics, engine string, start time.Time, text string, err error) {
	if metrics == nil {
		return
	}
	metrics.OCRDuration.WithLabelValues(engine).Observe(time.Since(start).Seconds())
	outcome := "success"
	switch {
	case err != nil:
		outcome = "error"
	case text == "":
		outcome = "empty"
	}
	metrics.OCRRequests.WithLabelValues(engine, outcome).Inc()
}
