// Package webhook posts OCR error reports to a Discord-compatible webhook.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/couchcryptid/vortex/internal/observability"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// ErrWebhookNotConfigured is returned by Send when no webhook URL is set.
var ErrWebhookNotConfigured = errors.New("webhook url not configured")

const (
	reportTitle    = "VORTEX OCR Error Report"
	reportColor    = 0xFFFFFF
	maxRawChars    = 1000
	defaultMessage = "No message provided."
)

// Attachment file names, kept short because they show in the Discord client.
const (
	thermoFile    = "t.png"
	compositeFile = "c.png"
)

// Report is a user's complaint about a bad read, with the evidence needed to
// reproduce it.
type Report struct {
	Message        string
	RawText        string
	Thermodynamics []byte // PNG
	Composites     []byte // PNG
}

// Reporter sends reports to one webhook URL.
type Reporter struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
	clock      clockwork.Clock
}

// NewReporter creates a reporter. An empty url is allowed; Send then fails
// with ErrWebhookNotConfigured.
func NewReporter(url string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Reporter {
	return &Reporter{
		url: strings.TrimSpace(url),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: metrics,
		clock:   clockwork.NewRealClock(),
	}
}

// Configured reports whether a webhook URL is set.
func (r *Reporter) Configured() bool {
	return r.url != ""
}

// Send posts the report as a multipart form: a payload_json part holding the
// embed, plus the two capture images. It returns the generated report ID.
func (r *Reporter) Send(ctx context.Context, rep Report) (string, error) {
	if !r.Configured() {
		return "", ErrWebhookNotConfigured
	}

	id := uuid.NewString()
	body, contentType, err := r.encode(id, rep)
	if err != nil {
		r.record("error")
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, body)
	if err != nil {
		r.record("error")
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.record("error")
		return "", fmt.Errorf("post report: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		r.record("error")
		return "", fmt.Errorf("webhook error: status %d: %s", resp.StatusCode, msg)
	}

	r.record("sent")
	r.logger.Info("error report sent", "report_id", id, "status", resp.StatusCode)
	return id, nil
}

func (r *Reporter) record(outcome string) {
	if r.metrics != nil {
		r.metrics.Reports.WithLabelValues(outcome).Inc()
	}
}

func (r *Reporter) encode(id string, rep Report) (*bytes.Buffer, string, error) {
	doc, err := json.Marshal(payload{Embeds: []embed{r.embedFor(id, rep)}})
	if err != nil {
		return nil, "", fmt.Errorf("encode payload: %w", err)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("payload_json", string(doc)); err != nil {
		return nil, "", fmt.Errorf("write payload: %w", err)
	}
	for _, f := range []struct {
		name string
		data []byte
	}{
		{thermoFile, rep.Thermodynamics},
		{compositeFile, rep.Composites},
	} {
		if len(f.data) == 0 {
			continue
		}
		if err := writePNG(mw, f.name, f.data); err != nil {
			return nil, "", err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}

func (r *Reporter) embedFor(id string, rep Report) embed {
	message := strings.TrimSpace(rep.Message)
	if message == "" {
		message = defaultMessage
	}
	raw := rep.RawText
	if raw == "" {
		raw = "N/A"
	}
	return embed{
		Title: reportTitle,
		Description: "**User Feedback:**\n> " + message +
			"\n\n**Raw OCR Data:**\n```\n" + truncate(raw, maxRawChars) + "```",
		Color:     reportColor,
		Timestamp: r.clock.Now().UTC().Format(time.RFC3339),
		Footer:    &footer{Text: "report " + id},
	}
}

func writePNG(mw *multipart.Writer, name string, data []byte) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, name, name))
	h.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create part %s: %w", name, err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("write part %s: %w", name, err)
	}
	return nil
}

// truncate keeps the first n characters of s.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// Discord webhook payload types.

type payload struct {
	Embeds []embed `json:"embeds"`
}

type embed struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Color       int     `json:"color"`
	Timestamp   string  `json:"timestamp,omitempty"`
	Footer      *footer `json:"footer,omitempty"`
}

type footer struct {
	Text string `json:"text"`
}
