//go:build vision

package ocr

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"testing"
	"time"

	"github.com/couchcryptid/vortex/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the real Cloud Vision API and require application default
// credentials (GOOGLE_APPLICATION_CREDENTIALS).
// Run with: go test -tags=vision ./internal/adapter/ocr/ -v -count=1

func smokeRecognizer(t *testing.T) *VisionRecognizer {
	t.Helper()
	if os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" {
		t.Fatal("GOOGLE_APPLICATION_CREDENTIALS must be set to run smoke tests")
	}
	r, err := NewVisionRecognizer(context.Background(), 30*time.Second, discardLogger(), observability.NewMetricsForTesting())
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestSmoke_VisionBlankImage(t *testing.T) {
	r := smokeRecognizer(t)

	img := image.NewGray(image.Rect(0, 0, 64, 32))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	text, err := r.Recognize(context.Background(), buf.Bytes())
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestSmoke_VisionCached(t *testing.T) {
	cached := NewCachedRecognizer(smokeRecognizer(t), 10, observability.NewMetricsForTesting())
	img := panelPNG(t, 120, 40)

	t1, err := cached.Recognize(context.Background(), img)
	require.NoError(t, err)
	t2, err := cached.Recognize(context.Background(), img)
	require.NoError(t, err)
	assert.Equal(t, t1, t2)
}
