package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is where the webhook URL is persisted. Older JSON files of
// the form {"webhook": "..."} are valid YAML and load unchanged.
const DefaultConfigFile = "vortex.yaml"

// fileConfig is the on-disk settings document.
type fileConfig struct {
	Webhook string `yaml:"webhook"`
}

// ResolveWebhookURL returns WEBHOOK_URL when set, otherwise the webhook stored
// in path. A missing file is not an error.
func ResolveWebhookURL(path string) (string, error) {
	if v := strings.TrimSpace(os.Getenv("WEBHOOK_URL")); v != "" {
		return v, nil
	}
	return LoadWebhook(path)
}

// LoadWebhook reads the webhook URL from the settings file.
func LoadWebhook(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return "", fmt.Errorf("parse config file %s: %w", path, err)
	}
	return strings.TrimSpace(fc.Webhook), nil
}

// SaveWebhook writes the webhook URL to the settings file, replacing it.
func SaveWebhook(path, url string) error {
	data, err := yaml.Marshal(fileConfig{Webhook: strings.TrimSpace(url)})
	if err != nil {
		return fmt.Errorf("encode config file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config file %s: %w", path, err)
	}
	return nil
}
