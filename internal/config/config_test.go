package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	defaultBroker  = "localhost:9092"
	testWebhookURL = "https://discord.com/api/webhooks/123/abc"
)

// isolate points the webhook file at an empty temp dir so a stray vortex.yaml
// in the package directory cannot leak into the test.
func isolate(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vortex.yaml")
	t.Setenv("VORTEX_CONFIG_FILE", path)
	t.Setenv("WEBHOOK_URL", "")
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "storm-captures", cfg.KafkaSourceTopic)
	assert.Equal(t, "storm-analyses", cfg.KafkaSinkTopic)
	assert.Equal(t, "vortex", cfg.KafkaGroupID)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.BatchFlushInterval)
	assert.Equal(t, OCREngineTesseract, cfg.OCREngine)
	assert.Equal(t, "tesseract", cfg.TesseractCmd)
	assert.Equal(t, 30*time.Second, cfg.OCRTimeout)
	assert.Equal(t, 256, cfg.OCRCacheSize)
	assert.Equal(t, 10*time.Second, cfg.WebhookTimeout)
	assert.Equal(t, path, cfg.ConfigFile)
	assert.Empty(t, cfg.WebhookURL)
}

func TestLoad_CustomEnv(t *testing.T) {
	isolate(t)
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SOURCE_TOPIC", "custom-source")
	t.Setenv("KAFKA_SINK_TOPIC", "custom-sink")
	t.Setenv("KAFKA_GROUP_ID", "custom-group")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("BATCH_SIZE", "100")
	t.Setenv("BATCH_FLUSH_INTERVAL", "1s")
	t.Setenv("OCR_ENGINE", "vision")
	t.Setenv("TESSERACT_CMD", "/opt/tesseract/bin/tesseract")
	t.Setenv("OCR_TIMEOUT", "5s")
	t.Setenv("OCR_CACHE_SIZE", "32")
	t.Setenv("WEBHOOK_URL", testWebhookURL)
	t.Setenv("WEBHOOK_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-source", cfg.KafkaSourceTopic)
	assert.Equal(t, "custom-sink", cfg.KafkaSinkTopic)
	assert.Equal(t, "custom-group", cfg.KafkaGroupID)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 1*time.Second, cfg.BatchFlushInterval)
	assert.Equal(t, OCREngineVision, cfg.OCREngine)
	assert.Equal(t, "/opt/tesseract/bin/tesseract", cfg.TesseractCmd)
	assert.Equal(t, 5*time.Second, cfg.OCRTimeout)
	assert.Equal(t, 32, cfg.OCRCacheSize)
	assert.Equal(t, testWebhookURL, cfg.WebhookURL)
	assert.Equal(t, 3*time.Second, cfg.WebhookTimeout)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	isolate(t)
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidBatchSize(t *testing.T) {
	isolate(t)
	t.Setenv("BATCH_SIZE", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_SIZE")
}

func TestLoad_InvalidOCRTimeout(t *testing.T) {
	isolate(t)
	t.Setenv("OCR_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OCR_TIMEOUT")
}

func TestLoad_InvalidWebhookTimeout(t *testing.T) {
	isolate(t)
	t.Setenv("WEBHOOK_TIMEOUT", "soon")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WEBHOOK_TIMEOUT")
}

func TestLoad_InvalidOCREngine(t *testing.T) {
	isolate(t)
	t.Setenv("OCR_ENGINE", "easyocr")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OCR_ENGINE")
}

func TestLoad_BadCacheSizeFallsBack(t *testing.T) {
	isolate(t)
	t.Setenv("OCR_CACHE_SIZE", "-4")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 256, cfg.OCRCacheSize)
}

func TestLoad_WebhookFromFile(t *testing.T) {
	path := isolate(t)
	require.NoError(t, SaveWebhook(path, testWebhookURL))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, testWebhookURL, cfg.WebhookURL)
}

func TestLoad_WebhookEnvOverridesFile(t *testing.T) {
	path := isolate(t)
	require.NoError(t, SaveWebhook(path, "https://example.com/from-file"))
	t.Setenv("WEBHOOK_URL", testWebhookURL)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, testWebhookURL, cfg.WebhookURL)
}

func TestLoadWebhook_LegacyJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"webhook": "`+testWebhookURL+`"}`), 0o600))

	url, err := LoadWebhook(path)
	require.NoError(t, err)
	assert.Equal(t, testWebhookURL, url)
}

func TestLoadWebhook_MissingFile(t *testing.T) {
	url, err := LoadWebhook(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Empty(t, url)
}

func TestLoadWebhook_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vortex.yaml")
	require.NoError(t, os.WriteFile(path, []byte("webhook: [unterminated"), 0o600))

	_, err := LoadWebhook(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestSaveWebhook_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vortex.yaml")
	require.NoError(t, SaveWebhook(path, "https://example.com/one"))
	require.NoError(t, SaveWebhook(path, " https://example.com/two "))

	url, err := LoadWebhook(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/two", url)
}
