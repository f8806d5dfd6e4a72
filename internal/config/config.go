package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Supported OCR engines.
const (
	OCREngineTesseract = "tesseract"
	OCREngineVision    = "vision"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// OCR engine configuration.
	OCREngine    string
	TesseractCmd string
	OCRTimeout   time.Duration
	OCRCacheSize int

	// Error report webhook. The URL comes from WEBHOOK_URL, falling back to
	// the webhook file.
	WebhookURL     string
	WebhookTimeout time.Duration
	ConfigFile     string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	ocrTimeout, err := parsePositiveDuration("OCR_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	webhookTimeout, err := parsePositiveDuration("WEBHOOK_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "storm-captures"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "storm-analyses"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "vortex"),
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		OCREngine:    sharedcfg.EnvOrDefault("OCR_ENGINE", OCREngineTesseract),
		TesseractCmd: sharedcfg.EnvOrDefault("TESSERACT_CMD", "tesseract"),
		OCRTimeout:   ocrTimeout,
		OCRCacheSize: parseOCRCacheSize(),

		WebhookTimeout: webhookTimeout,
		ConfigFile:     sharedcfg.EnvOrDefault("VORTEX_CONFIG_FILE", DefaultConfigFile),
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}
	if cfg.OCREngine != OCREngineTesseract && cfg.OCREngine != OCREngineVision {
		return nil, fmt.Errorf("invalid OCR_ENGINE %q: want %s or %s", cfg.OCREngine, OCREngineTesseract, OCREngineVision)
	}

	webhook, err := ResolveWebhookURL(cfg.ConfigFile)
	if err != nil {
		return nil, err
	}
	cfg.WebhookURL = webhook

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseOCRCacheSize() int {
	if s := os.Getenv("OCR_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 256
}
