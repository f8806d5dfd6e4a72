package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCaptureID = "cap-123"

func freezeClock(t *testing.T) clockwork.Clock {
	t.Helper()
	fake := clockwork.NewFakeClockAt(time.Date(2025, time.May, 6, 21, 30, 0, 0, time.UTC))
	SetClock(fake)
	t.Cleanup(func() {
		SetClock(nil)
	})
	return fake
}

func TestParseCapture(t *testing.T) {
	ts := time.Date(2025, time.May, 6, 21, 0, 0, 0, time.UTC)

	t.Run("full capture", func(t *testing.T) {
		data := []byte(`{"id":"cap-1","thermodynamics":"SRH 250","composites":"STP 4","overrides":{"speed":"45"}}`)
		c, err := ParseCapture(RawEvent{Key: []byte("key-1"), Value: data, Timestamp: ts})

		require.NoError(t, err)
		assert.Equal(t, "cap-1", c.ID)
		assert.Equal(t, "SRH 250", c.Thermodynamics)
		assert.Equal(t, "STP 4", c.Composites)
		assert.Equal(t, "45", c.Overrides[FieldSpeed])
		assert.Equal(t, ts, c.CapturedAt)
	})

	t.Run("id falls back to key", func(t *testing.T) {
		c, err := ParseCapture(RawEvent{Key: []byte("key-2"), Value: []byte(`{}`)})
		require.NoError(t, err)
		assert.Equal(t, "key-2", c.ID)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := ParseCapture(RawEvent{Value: []byte("{not json")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse capture")
	})

	t.Run("unknown override", func(t *testing.T) {
		_, err := ParseCapture(RawEvent{Value: []byte(`{"overrides":{"humidity":"50"}}`)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "humidity")
	})
}

func TestAnalyze(t *testing.T) {
	fake := freezeClock(t)

	c := Capture{
		ID:             testCaptureID,
		Thermodynamics: "TEMPERATURE 20\nDEWPOINT 10\nCAPE 2000\n0-3KM LAPSE 11\nSFC RH 40\n500MB RH 50\nPWAT 1.5",
		Composites:     "SRH 300\nSTP 3\nVTP 2",
	}

	a := Analyze(c)

	assert.Equal(t, testCaptureID, a.CaptureID)
	assert.True(t, strings.HasPrefix(a.ID, "analysis-"))
	assert.Equal(t, fake.Now(), a.AnalyzedAt)
	assert.Equal(t, c.Text(), a.Fields.Get(FieldRaw))
	assert.InDelta(t, scenarioInputs.Lapse, a.Inputs.Lapse, epsilon)
	assert.InDelta(t, DefaultSpeed, a.Inputs.Speed, epsilon)
	assert.Equal(t, EF3, a.Result.Intensity)
	require.Len(t, a.Distribution, 6)
	assert.Equal(t, Sidewinder, a.Distribution[0].Shape)
}

func TestAnalyze_OverridesWin(t *testing.T) {
	freezeClock(t)

	c := Capture{
		ID:             testCaptureID,
		Thermodynamics: "CAPE 100",
		Composites:     "SRH 50",
		Overrides:      map[Field]string{FieldCAPE: "6000", FieldSRH: "500"},
	}

	a := Analyze(c)

	assert.Equal(t, "6000", a.Fields.Get(FieldCAPE))
	assert.InDelta(t, 6000, a.Inputs.CAPE, epsilon)
	// 6000*500/250000 = 12
	assert.InDelta(t, 12, a.Result.Power, epsilon)
	assert.Equal(t, EF4, a.Result.Intensity)
}

func TestAnalyze_DeterministicID(t *testing.T) {
	freezeClock(t)

	c := Capture{ID: testCaptureID, Thermodynamics: "SRH 250", Composites: "STP 1"}
	first := Analyze(c)
	second := Analyze(c)
	assert.Equal(t, first.ID, second.ID)

	c.Composites = "STP 2"
	assert.NotEqual(t, first.ID, Analyze(c).ID)
}

func TestSerializeAnalysis(t *testing.T) {
	fake := freezeClock(t)

	a := Analyze(Capture{ID: testCaptureID, Thermodynamics: "CAPE 2000", Composites: "SRH 300"})
	out, err := SerializeAnalysis(a)
	require.NoError(t, err)

	assert.Equal(t, []byte(a.ID), out.Key)
	assert.Equal(t, a.Result.Intensity.String(), out.Headers["intensity"])
	assert.Equal(t, fake.Now().Format(time.RFC3339), out.Headers["analyzed_at"])

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out.Value, &decoded))
	assert.Equal(t, testCaptureID, decoded["capture_id"])
	fields, ok := decoded["fields"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "2000", fields["cape"])
}
