package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/vortex/internal/domain"
	"github.com/couchcryptid/vortex/internal/observability"
)

// CaptureAnalyzer implements Transformer by running the domain extractor and
// scorer over each capture message.
type CaptureAnalyzer struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewAnalyzer creates a CaptureAnalyzer.
func NewAnalyzer(logger *slog.Logger, metrics *observability.Metrics) *CaptureAnalyzer {
	return &CaptureAnalyzer{
		logger:  logger,
		metrics: metrics,
	}
}

func (a *CaptureAnalyzer) Transform(_ context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	capture, err := domain.ParseCapture(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	analysis := domain.Analyze(capture)
	a.metrics.Analyses.WithLabelValues(analysis.Result.Intensity.String()).Inc()
	a.logger.Debug("capture analyzed",
		"capture_id", analysis.CaptureID,
		"analysis_id", analysis.ID,
		"intensity", analysis.Result.Intensity.String(),
		"power", analysis.Result.Power,
	)

	return domain.SerializeAnalysis(analysis)
}
