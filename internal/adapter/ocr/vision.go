package ocr

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	vision "cloud.google.com/go/vision/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/couchcryptid/vortex/internal/config"
	"github.com/couchcryptid/vortex/internal/observability"
)

// imageContext pins English so numeric labels are not read as another script.
var imageContext = &visionpb.ImageContext{LanguageHints: []string{"en"}}

// VisionRecognizer reads text with Google Cloud Vision document detection.
// Credentials come from the standard application default chain.
type VisionRecognizer struct {
	client  *vision.ImageAnnotatorClient
	timeout time.Duration
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewVisionRecognizer dials the Vision API.
func NewVisionRecognizer(ctx context.Context, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) (*VisionRecognizer, error) {
	client, err := vision.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create vision client: %w", err)
	}
	return &VisionRecognizer{
		client:  client,
		timeout: timeout,
		logger:  logger,
		metrics: metrics,
	}, nil
}

// Recognize sends the image unmodified. Document detection copes with the
// colored overlay, so the Tesseract preprocessing is skipped.
func (v *VisionRecognizer) Recognize(ctx context.Context, img []byte) (text string, err error) {
	if len(img) == 0 {
		return "", ErrEmptyImage
	}
	start := time.Now()
	defer func() { observe(v.metrics, config.OCREngineVision, start, text, err) }()

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	image, err := vision.NewImageFromReader(bytes.NewReader(img))
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}

	annotation, err := v.client.DetectDocumentText(ctx, image, imageContext)
	if err != nil {
		return "", fmt.Errorf("vision detect text: %w", err)
	}
	if annotation == nil {
		v.logger.Debug("vision returned no text")
		return "", nil
	}
	return annotation.GetText(), nil
}

func (v *VisionRecognizer) Close() error {
	return v.client.Close()
}
