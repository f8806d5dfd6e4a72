package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/couchcryptid/vortex/internal/adapter/ocr"
	"github.com/couchcryptid/vortex/internal/adapter/webhook"
	"github.com/couchcryptid/vortex/internal/domain"
	"github.com/google/uuid"
)

// maxBodyBytes bounds request bodies, which carry at most two screenshots.
const maxBodyBytes = 10 << 20

// Multipart form names.
const (
	formThermodynamics = "thermodynamics"
	formComposites     = "composites"
	formMessage        = "message"
	formRaw            = "raw"
)

type extractRequest struct {
	Text           string `json:"text"`
	Thermodynamics string `json:"thermodynamics"`
	Composites     string `json:"composites"`
}

type extractResponse struct {
	Fields domain.ExtractedFields `json:"fields"`
}

type scoreRequest struct {
	Fields map[string]string `json:"fields"`
}

type scoreResponse struct {
	Inputs       domain.Inputs       `json:"inputs"`
	Result       domain.ScoreResult  `json:"result"`
	Distribution []domain.ShapeShare `json:"distribution"`
}

type reportResponse struct {
	ID string `json:"id"`
}

// handleExtract reads fields from OCR text. "text" wins over the two region
// texts when both are sent.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	text := req.Text
	if text == "" {
		text = domain.Capture{Thermodynamics: req.Thermodynamics, Composites: req.Composites}.Text()
	}
	sharedobs.WriteJSON(w, http.StatusOK, extractResponse{Fields: domain.Extract(text)})
}

// handleScore coerces reviewed field strings and scores them.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	fields := domain.NewExtractedFields()
	for name, value := range req.Fields {
		f, ok := domain.ParseField(name)
		if !ok {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown field %q", name))
			return
		}
		fields[f] = value
	}

	in := domain.CoerceInputs(fields)
	result := domain.Score(in)
	s.countAnalysis(result.Intensity)
	sharedobs.WriteJSON(w, http.StatusOK, scoreResponse{
		Inputs:       in,
		Result:       result,
		Distribution: result.Distribution(),
	})
}

// handleAnalyze accepts either a JSON capture or a multipart upload of the two
// screenshot regions, which are OCR'd first.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var capture domain.Capture

	if isMultipart(r) {
		if s.deps.Recognizer == nil {
			writeError(w, http.StatusServiceUnavailable, "ocr is not enabled")
			return
		}
		thermo, comp, ok := s.readImages(w, r, true)
		if !ok {
			return
		}
		c, err := ocr.RecognizePair(r.Context(), s.deps.Recognizer, uuid.NewString(), thermo, comp, s.clock.Now().UTC())
		if err != nil {
			s.logger.Error("ocr failed", "error", err)
			writeError(w, http.StatusBadGateway, "ocr failed: "+err.Error())
			return
		}
		capture = c
	} else {
		if !s.decodeJSON(w, r, &capture) {
			return
		}
		for name := range capture.Overrides {
			if _, ok := domain.ParseField(string(name)); !ok {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown override field %q", name))
				return
			}
		}
		if capture.ID == "" {
			capture.ID = uuid.NewString()
		}
		if capture.CapturedAt.IsZero() {
			capture.CapturedAt = s.clock.Now().UTC()
		}
	}

	analysis := domain.Analyze(capture)
	s.countAnalysis(analysis.Result.Intensity)
	s.logger.Debug("capture analyzed", "capture_id", capture.ID, "intensity", analysis.Result.Intensity.String())
	sharedobs.WriteJSON(w, http.StatusOK, analysis)
}

// handleReport forwards a multipart error report to the webhook.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if s.deps.Reporter == nil {
		writeError(w, http.StatusServiceUnavailable, webhook.ErrWebhookNotConfigured.Error())
		return
	}
	if !isMultipart(r) {
		writeError(w, http.StatusUnsupportedMediaType, "expected multipart/form-data")
		return
	}
	thermo, comp, ok := s.readImages(w, r, false)
	if !ok {
		return
	}

	id, err := s.deps.Reporter.Send(r.Context(), webhook.Report{
		Message:        r.FormValue(formMessage),
		RawText:        r.FormValue(formRaw),
		Thermodynamics: thermo,
		Composites:     comp,
	})
	switch {
	case errors.Is(err, webhook.ErrWebhookNotConfigured):
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	case err != nil:
		s.logger.Error("send report failed", "error", err)
		writeError(w, http.StatusBadGateway, "send report failed")
		return
	}
	sharedobs.WriteJSON(w, http.StatusAccepted, reportResponse{ID: id})
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// readImages parses the multipart form and returns the two region images.
// When required is false, missing images come back nil.
func (s *Server) readImages(w http.ResponseWriter, r *http.Request, required bool) (thermo, comp []byte, ok bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body: "+err.Error())
		return nil, nil, false
	}

	read := func(name string) ([]byte, error) {
		f, _, err := r.FormFile(name)
		if errors.Is(err, http.ErrMissingFile) {
			if required {
				return nil, fmt.Errorf("missing %s image", name)
			}
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(f)
	}

	thermo, err := read(formThermodynamics)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, nil, false
	}
	comp, err = read(formComposites)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, nil, false
	}
	return thermo, comp, true
}

func (s *Server) countAnalysis(rating domain.EFRating) {
	if s.deps.Metrics != nil {
		s.deps.Metrics.Analyses.WithLabelValues(rating.String()).Inc()
	}
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && strings.HasPrefix(mediaType, "multipart/")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": msg})
}
