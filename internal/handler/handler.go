package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	formgen "github.com/w-h-a/formgen"
	"github.com/w-h-a/formgen/generator"
	schemagenerator "github.com/w-h-a/formgen/schema_generator"
)

type generateRequest struct {
	Prompt  string `json:"prompt"`
	OwnerId string `json:"ownerId"`
}

type embedRequest struct {
	Id   string `json:"id"`
	Text string `json:"text"`
}

type Handler struct {
	service *formgen.Service
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	generated, contextUsed, err := h.service.Generate(r.Context(), req.Prompt, req.OwnerId)
	if err != nil {
		status, message := classify(err)
		writeError(w, status, message)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"schema":      generated,
		"contextUsed": contextUsed,
	})
}

func (h *Handler) Embed(w http.ResponseWriter, r *http.Request) {
	var req embedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	if len(req.Id) == 0 || len(req.Text) == 0 {
		writeError(w, http.StatusBadRequest, "id and text are required")
		return
	}

	dimensions, err := h.service.IndexForm(r.Context(), req.Id, req.Text)
	if err != nil {
		status, message := classify(err)
		writeError(w, status, message)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"dimensions": dimensions,
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// classify maps pipeline failures to statuses and messages the caller can
// act on: user input problems are 400s, everything upstream is a 500 with a
// message that distinguishes rate limits from quota from the rest.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, formgen.ErrEmptyPrompt):
		return http.StatusBadRequest, "prompt is required"
	case errors.Is(err, formgen.ErrNoEmbedder):
		return http.StatusInternalServerError, "embedding provider not configured"
	case errors.Is(err, schemagenerator.ErrNotConfigured):
		return http.StatusInternalServerError, "completion provider not configured"
	case errors.Is(err, generator.ErrRateLimited):
		return http.StatusInternalServerError, "the completion provider is rate limiting requests, try again shortly"
	case errors.Is(err, generator.ErrQuotaExhausted):
		return http.StatusInternalServerError, "the completion provider quota is exhausted"
	case errors.Is(err, schemagenerator.ErrInvalidSchema):
		return http.StatusInternalServerError, "could not produce a valid schema"
	default:
		return http.StatusInternalServerError, "schema generation failed"
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		slog.InfoContext(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.status,
			"duration", time.Since(start),
		)
	})
}

func NewRouter(service *formgen.Service) http.Handler {
	h := &Handler{service: service}

	r := mux.NewRouter()
	r.Use(logRequests)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/generate", h.Generate).Methods(http.MethodPost)
	api.HandleFunc("/embeddings", h.Embed).Methods(http.MethodPost)
	api.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	return r
}
