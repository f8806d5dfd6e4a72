//go:build webhook

package webhook

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/couchcryptid/vortex/internal/observability"
	"github.com/stretchr/testify/require"
)

// These tests post to a real webhook and require WEBHOOK_URL.
// Run with: go test -tags=webhook ./internal/adapter/webhook/ -v -count=1

func TestSmoke_SendReport(t *testing.T) {
	url := os.Getenv("WEBHOOK_URL")
	if url == "" {
		t.Fatal("WEBHOOK_URL must be set to run smoke tests")
	}
	r := NewReporter(url, 10*time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)), observability.NewMetricsForTesting())

	id, err := r.Send(context.Background(), Report{
		Message: "smoke test, please ignore",
		RawText: "TEMP 20\nCAPE 2000",
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)
}
