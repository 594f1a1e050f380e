package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/ppiankov/privdiag/internal/cache"
	"github.com/ppiankov/privdiag/internal/facts"
	"github.com/ppiankov/privdiag/internal/logger"
	"github.com/ppiankov/privdiag/internal/model"
	"github.com/ppiankov/privdiag/internal/nfc"
	"github.com/ppiankov/privdiag/internal/pipeline"
	"github.com/ppiankov/privdiag/internal/score"
	"github.com/ppiankov/privdiag/internal/validate"
)

// maxBodyBytes bounds request bodies; snapshots and tag dumps are small
const maxBodyBytes = 1 << 20

// Handlers serves the privacy and NFC endpoints
type Handlers struct {
	pipeline  *pipeline.Pipeline
	scorer    *score.Scorer
	logger    *logger.Logger
	version   string
	startTime time.Time
}

// NewHandlers creates handlers backed by p
func NewHandlers(p *pipeline.Pipeline, version string, log *logger.Logger) *Handlers {
	return &Handlers{
		pipeline:  p,
		scorer:    score.NewScorer(),
		logger:    log.WithComponent("api"),
		version:   version,
		startTime: time.Now(),
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Uptime    string `json:"uptime"`
	Timestamp string `json:"timestamp"`
}

// ScoreResponse is returned by POST /api/v1/privacy/score
type ScoreResponse struct {
	Score    model.ScoreResult `json:"score"`
	Emulator string            `json:"emulator"`
}

// DeviceReportResponse is returned by POST /api/v1/privacy/report
type DeviceReportResponse struct {
	Report *model.DeviceReport `json:"report"`
	Text   string              `json:"text"`
}

// TagReportResponse is returned by POST /api/v1/nfc/report
type TagReportResponse struct {
	Report *nfc.TagReport `json:"report"`
	Text   string         `json:"text"`
}

// ValidationResponse lists the issues that rejected a request
type ValidationResponse struct {
	Error  string           `json:"error"`
	Issues []validate.Issue `json:"issues"`
}

// Health handles GET /health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Version:   h.version,
		Uptime:    time.Since(h.startTime).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Score handles POST /api/v1/privacy/score
func (h *Handlers) Score(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.decodeSnapshot(w, r)
	if !ok {
		return
	}

	factSet := snap.FactSet(h.requestLogger(r))
	h.respondJSON(w, http.StatusOK, ScoreResponse{
		Score:    h.scorer.Calculate(factSet),
		Emulator: score.DetectEmulator(factSet),
	})
}

// Report handles POST /api/v1/privacy/report
func (h *Handlers) Report(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.decodeSnapshot(w, r)
	if !ok {
		return
	}

	name := "api"
	if snap.Device != "" {
		name = "api:" + snap.Device
	}
	provider := facts.NewSnapshotProvider(name, snap, h.requestLogger(r))

	dr, err := h.pipeline.ScanDevice(r.Context(), provider)
	if err != nil {
		h.logger.Error().Err(err).Msg("device report failed")
		h.respondError(w, http.StatusInternalServerError, "failed to build report")
		return
	}

	h.respondJSON(w, http.StatusOK, DeviceReportResponse{
		Report: dr,
		Text:   h.pipeline.Renderer().RenderText(dr),
	})
}

// LastReport handles GET /api/v1/privacy/last
func (h *Handlers) LastReport(w http.ResponseWriter, r *http.Request) {
	store := h.pipeline.Store()
	if store == nil {
		h.respondError(w, http.StatusNotFound, "report store disabled")
		return
	}

	dr, err := store.LastDevice()
	if errors.Is(err, cache.ErrNoReport) {
		h.respondError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load last report")
		h.respondError(w, http.StatusInternalServerError, "failed to load report")
		return
	}

	h.respondJSON(w, http.StatusOK, DeviceReportResponse{
		Report: dr,
		Text:   h.pipeline.Renderer().RenderText(dr),
	})
}

// TagReport handles POST /api/v1/nfc/report
func (h *Handlers) TagReport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.respondBodyError(w, err, "failed to read request body")
		return
	}

	tag, err := nfc.ParseTag(body)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid tag descriptor")
		return
	}

	tr, err := h.pipeline.ScanTag(tag)
	var verr *pipeline.ValidationError
	if errors.As(err, &verr) {
		h.respondJSON(w, http.StatusUnprocessableEntity, ValidationResponse{
			Error:  "invalid tag descriptor",
			Issues: verr.Issues,
		})
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("tag report failed")
		h.respondError(w, http.StatusInternalServerError, "failed to build tag report")
		return
	}

	h.respondJSON(w, http.StatusOK, TagReportResponse{Report: tr, Text: tr.Text()})
}

func (h *Handlers) decodeSnapshot(w http.ResponseWriter, r *http.Request) (*facts.Snapshot, bool) {
	var snap facts.Snapshot
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber() // numeric identifiers keep their digits
	if err := dec.Decode(&snap); err != nil {
		h.respondBodyError(w, err, "invalid request body")
		return nil, false
	}
	if snap.Facts == nil {
		h.respondError(w, http.StatusBadRequest, "facts is required")
		return nil, false
	}
	return &snap, true
}

// respondBodyError answers 413 for an oversized body and 400 otherwise
func (h *Handlers) respondBodyError(w http.ResponseWriter, err error, msg string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		h.respondError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	h.respondError(w, http.StatusBadRequest, msg)
}

func (h *Handlers) requestLogger(r *http.Request) *logger.Logger {
	return h.logger.WithRequestID(middleware.GetReqID(r.Context()))
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Warn().Err(err).Msg("failed to write response")
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
