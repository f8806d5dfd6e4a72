package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// ParseCapture deserializes a RawEvent's value into a Capture. A capture with
// no ID takes the message key, and a zero capture time takes the message
// timestamp.
func ParseCapture(raw RawEvent) (Capture, error) {
	var c Capture
	if err := json.Unmarshal(raw.Value, &c); err != nil {
		return Capture{}, fmt.Errorf("parse capture: %w", err)
	}
	if c.ID == "" {
		c.ID = string(raw.Key)
	}
	if c.CapturedAt.IsZero() {
		c.CapturedAt = raw.Timestamp
	}
	for k := range c.Overrides {
		if _, ok := ParseField(string(k)); !ok {
			return Capture{}, fmt.Errorf("parse capture: unknown override field %q", k)
		}
	}
	return c, nil
}

// Analyze extracts, applies reviewer overrides, coerces and scores a capture.
func Analyze(c Capture) Analysis {
	text := c.Text()
	fields := Extract(text).WithOverrides(c.Overrides)
	return AnalyzeFields(c.ID, fields, c.CapturedAt, text)
}

// AnalyzeFields scores an already extracted (and possibly reviewed) record.
// seed feeds the deterministic ID together with the capture ID.
func AnalyzeFields(captureID string, fields ExtractedFields, capturedAt time.Time, seed string) Analysis {
	in := CoerceInputs(fields)
	result := Score(in)
	return Analysis{
		ID:           generateID(captureID, seed),
		CaptureID:    captureID,
		Fields:       fields,
		Inputs:       in,
		Result:       result,
		Distribution: result.Distribution(),
		CapturedAt:   capturedAt,
		AnalyzedAt:   clock.Now().UTC(),
	}
}

// SerializeAnalysis marshals an analysis into an OutputEvent keyed by its ID.
func SerializeAnalysis(a Analysis) (OutputEvent, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize analysis: %w", err)
	}
	return OutputEvent{
		Key:   []byte(a.ID),
		Value: data,
		Headers: map[string]string{
			"intensity":   a.Result.Intensity.String(),
			"analyzed_at": a.AnalyzedAt.Format(time.RFC3339),
		},
	}, nil
}

// generateID derives a deterministic analysis ID so replaying a capture yields
// the same key downstream.
func generateID(captureID, seed string) string {
	hash := sha256.Sum256([]byte(captureID + "|" + seed))
	return "analysis-" + hex.EncodeToString(hash[:8])
}
