package domain

import (
	"context"
	"time"
)

// RawEvent represents an unprocessed message from the capture topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Capture is one OCR run over the two screenshot regions, plus any values a
// reviewer corrected before scoring.
type Capture struct {
	ID             string           `json:"id"`
	Thermodynamics string           `json:"thermodynamics"`
	Composites     string           `json:"composites"`
	Overrides      map[Field]string `json:"overrides,omitempty"`
	CapturedAt     time.Time        `json:"captured_at"`
}

// Text joins the two OCR texts the way the extractor expects them.
func (c Capture) Text() string {
	return c.Thermodynamics + "\n" + c.Composites
}

// Analysis is the scored outcome of a capture.
type Analysis struct {
	ID           string          `json:"id"`
	CaptureID    string          `json:"capture_id,omitempty"`
	Fields       ExtractedFields `json:"fields"`
	Inputs       Inputs          `json:"inputs"`
	Result       ScoreResult     `json:"result"`
	Distribution []ShapeShare    `json:"distribution"`
	CapturedAt   time.Time       `json:"captured_at"`
	AnalyzedAt   time.Time       `json:"analyzed_at"`
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
