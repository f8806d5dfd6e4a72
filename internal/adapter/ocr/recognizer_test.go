package ocr

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/couchcryptid/vortex/internal/config"
	"github.com/couchcryptid/vortex/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeTesseract writes a shell script that checks it was called the way
// tesseract is and prints body.
func fakeTesseract(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tesseract needs a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "tesseract")
	script := "#!/bin/sh\n" +
		"[ -f \"$1\" ] || { echo \"missing image\" >&2; exit 3; }\n" +
		"[ \"$2\" = stdout ] && [ \"$3\" = --psm ] && [ \"$4\" = 6 ] || { echo \"bad args: $*\" >&2; exit 2; }\n" +
		body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestTesseractRecognizer_Recognize(t *testing.T) {
	cmd := fakeTesseract(t, `printf 'CAPE 2000\nSRH 300\n'`)
	metrics := observability.NewMetricsForTesting()
	r := NewTesseractRecognizer(cmd, 5*time.Second, discardLogger(), metrics)

	text, err := r.Recognize(context.Background(), panelPNG(t, 20, 9))
	require.NoError(t, err)
	assert.Equal(t, "CAPE 2000\nSRH 300\n", text)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.OCRRequests.WithLabelValues(config.OCREngineTesseract, "success")), 0)
}

func TestTesseractRecognizer_CommandFails(t *testing.T) {
	cmd := fakeTesseract(t, `echo "leptonica exploded" >&2; exit 1`)
	metrics := observability.NewMetricsForTesting()
	r := NewTesseractRecognizer(cmd, 5*time.Second, discardLogger(), metrics)

	_, err := r.Recognize(context.Background(), panelPNG(t, 20, 9))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leptonica exploded")
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.OCRRequests.WithLabelValues(config.OCREngineTesseract, "error")), 0)
}

func TestTesseractRecognizer_BadImage(t *testing.T) {
	r := NewTesseractRecognizer("tesseract", time.Second, discardLogger(), nil)

	_, err := r.Recognize(context.Background(), nil)
	require.ErrorIs(t, err, ErrEmptyImage)

	_, err = r.Recognize(context.Background(), []byte("garbage"))
	require.Error(t, err)
}

func TestRecognizePair(t *testing.T) {
	inner := &countingRecognizer{texts: map[string]string{
		"thermo": "TEMP 20",
		"comp":   "STP 3",
	}}
	at := time.Date(2025, time.May, 6, 21, 0, 0, 0, time.UTC)

	c, err := RecognizePair(context.Background(), inner, "cap-1", []byte("thermo"), []byte("comp"), at)
	require.NoError(t, err)
	assert.Equal(t, "cap-1", c.ID)
	assert.Equal(t, "TEMP 20", c.Thermodynamics)
	assert.Equal(t, "STP 3", c.Composites)
	assert.Equal(t, at, c.CapturedAt)
	assert.Equal(t, 2, inner.calls)
}

func TestRecognizePair_Error(t *testing.T) {
	inner := &countingRecognizer{err: errors.New("engine down")}

	_, err := RecognizePair(context.Background(), inner, "cap-1", []byte("a"), []byte("b"), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "engine down")
}

func TestNew_Tesseract(t *testing.T) {
	cfg := &config.Config{
		OCREngine:    config.OCREngineTesseract,
		TesseractCmd: "tesseract",
		OCRTimeout:   time.Second,
		OCRCacheSize: 4,
	}

	r, closeFn, err := New(context.Background(), cfg, discardLogger(), observability.NewMetricsForTesting())
	require.NoError(t, err)
	require.NoError(t, closeFn())

	cached, ok := r.(*CachedRecognizer)
	require.True(t, ok)
	assert.IsType(t, &TesseractRecognizer{}, cached.inner)
}

func TestNew_UnknownEngine(t *testing.T) {
	cfg := &config.Config{OCREngine: "easyocr"}

	_, _, err := New(context.Background(), cfg, discardLogger(), nil)
	require.Error(t, err)
}
