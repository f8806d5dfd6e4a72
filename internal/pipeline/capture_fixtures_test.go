package pipeline_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/couchcryptid/vortex/internal/domain"
	"github.com/couchcryptid/vortex/internal/observability"
	"github.com/couchcryptid/vortex/internal/pipeline"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureFixtures are OCR texts in the shape the screen reader produces,
// including the misreads it is known for.
var captureFixtures = []struct {
	name      string
	capture   domain.Capture
	wantInput domain.Inputs
	want      domain.EFRating
}{
	{
		name: "weak",
		capture: domain.Capture{
			Thermodynamics: "TEMP 24\nDEW POINT 14\nCAPE 800\n0-3 LAPSE 6.5\nSFC RH 55\n500MB RH 40\nPWAT 1.1",
			Composites:     "SRH 100\nSTP 0.5\nVTP 0.2",
		},
		wantInput: domain.Inputs{
			Temp: 24, Dew: 14, CAPE: 800, Lapse: 6.5, RH: 55, MidRH: 40,
			PWAT: 1.1, SRH: 100, STP: 0.5, VTP: 0.2, Speed: domain.DefaultSpeed,
		},
		want: domain.EF0,
	},
	{
		name: "zero misreads and pwat repair",
		capture: domain.Capture{
			Thermodynamics: "TEMPERATURE 22\nDEWPOINT 16\nCAPE 15OO\n0-3KM LAPSE 8.5\nSURFACE RH 70\n500MB RH 65\nPWAT 7.6",
			Composites:     "SRH 250\nSTP 2\nVTP 1.5",
		},
		wantInput: domain.Inputs{
			Temp: 22, Dew: 16, CAPE: 1500, Lapse: 8.5, RH: 70, MidRH: 65,
			PWAT: 1.6, SRH: 250, STP: 2, VTP: 1.5, Speed: domain.DefaultSpeed,
		},
		want: domain.EF2,
	},
	{
		name: "violent",
		capture: domain.Capture{
			Thermodynamics: "TEMP 27\nDEWPOINT 22\nCAPE 4000\n0-3 LAPSE 9\nSFC RH 80\n500MB RH 85\nPWAT 2.1",
			Composites:     "SRH 500\nS.T.P 10\nVTP 4",
		},
		wantInput: domain.Inputs{
			Temp: 27, Dew: 22, CAPE: 4000, Lapse: 9, RH: 80, MidRH: 85,
			PWAT: 2.1, SRH: 500, STP: 10, VTP: 4, Speed: domain.DefaultSpeed,
		},
		want: domain.EF5,
	},
	{
		name: "reviewer override",
		capture: domain.Capture{
			Thermodynamics: "TEMP 25\nDEWPOINT 18\nCAPE 1000\n0-3 LAPSE 8\nSFC RH 60\n500MB RH 60\nPWAT 1.4",
			Composites:     "SRH 400\nSTP 5\nVTP 2",
			Overrides:      map[domain.Field]string{domain.FieldCAPE: "3000"},
		},
		wantInput: domain.Inputs{
			Temp: 25, Dew: 18, CAPE: 3000, Lapse: 8, RH: 60, MidRH: 60,
			PWAT: 1.4, SRH: 400, STP: 5, VTP: 2, Speed: domain.DefaultSpeed,
		},
		want: domain.EF4,
	},
	{
		name:      "blank screen",
		capture:   domain.Capture{},
		wantInput: domain.Inputs{Speed: domain.DefaultSpeed},
		want:      domain.EF0,
	},
}

func TestCaptureAnalyzer_Fixtures(t *testing.T) {
	analyzer := pipeline.NewAnalyzer(discardLogger(), observability.NewMetricsForTesting())
	capturedAt := time.Date(2025, time.May, 6, 21, 0, 0, 0, time.UTC)

	for i, tc := range captureFixtures {
		t.Run(tc.name, func(t *testing.T) {
			c := tc.capture
			c.ID = "fixture-" + string(rune('a'+i))
			c.CapturedAt = capturedAt
			payload, err := json.Marshal(c)
			require.NoError(t, err)

			out, err := analyzer.Transform(context.Background(), domain.RawEvent{
				Key:   []byte(c.ID),
				Value: payload,
				Topic: "storm-captures",
			})
			require.NoError(t, err)
			assert.Equal(t, tc.want.String(), out.Headers["intensity"])
			assert.NotEmpty(t, out.Headers["analyzed_at"])

			var analysis domain.Analysis
			require.NoError(t, json.Unmarshal(out.Value, &analysis))
			assert.Equal(t, c.ID, analysis.CaptureID)
			assert.Equal(t, tc.want, analysis.Result.Intensity)
			assert.True(t, capturedAt.Equal(analysis.CapturedAt))
			if diff := cmp.Diff(tc.wantInput, analysis.Inputs); diff != "" {
				t.Errorf("inputs mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, c.Text(), analysis.Fields.Get(domain.FieldRaw))
			assert.Len(t, analysis.Distribution, len(domain.Shapes))
		})
	}
}

func TestCaptureAnalyzer_ReplayIsStable(t *testing.T) {
	analyzer := pipeline.NewAnalyzer(discardLogger(), observability.NewMetricsForTesting())
	raw := makeCaptureEvent(t, "cap-replay", "CAPE 2000\n0-3 LAPSE 9", "SRH 300\nSTP 3")

	first, err := analyzer.Transform(context.Background(), raw)
	require.NoError(t, err)
	second, err := analyzer.Transform(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, first.Key, second.Key)
}
