package mcp

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const sessionHeader = "Mcp-Session-Id"

// Handler serves the streamable HTTP protocol endpoint. The backing server
// exposes zero callable tools; every tools/call attempt fails with a
// method-not-found protocol error. Sessions live only for operator tooling
// that may attach later.
type Handler struct {
	registry *Registry
	log      *slog.Logger
	name     string
	version  string
	clock    func() time.Time
}

func NewHandler(registry *Registry, name, version string, log *slog.Logger) *Handler {
	h := &Handler{
		registry: registry,
		log:      log.With(slog.String("component", "mcp")),
		name:     name,
		version:  version,
		clock:    func() time.Time { return time.Now().UTC() },
	}
	h.initMetrics()
	return h
}

func (h *Handler) initMetrics() {
	meter := otel.Meter("github.com/mdwillman/avalogica-capture-analysis-mcp/mcp")
	gauge, err := meter.Int64ObservableGauge("mcp.sessions.active",
		metric.WithDescription("Live protocol sessions"))
	if err != nil {
		h.log.Warn("failed to initialize metrics", slog.String("error", err.Error()))
		return
	}
	_, err = meter.RegisterCallback(func(_ context.Context, obs metric.Observer) error {
		obs.ObserveInt64(gauge, int64(h.registry.Len()))
		return nil
	}, gauge)
	if err != nil {
		h.log.Warn("failed to register metrics callback", slog.String("error", err.Error()))
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(sessionHeader)

	switch r.Method {
	case http.MethodPost:
		h.handlePost(w, r, sessionID)
	case http.MethodDelete:
		h.handleDelete(w, sessionID)
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
}

func (h *Handler) handlePost(w http.ResponseWriter, r *http.Request, sessionID string) {
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errResponse(nil, codeParseError, "Parse error"))
		return
	}

	if sessionID != "" {
		session, ok := h.registry.Get(sessionID)
		if !ok {
			http.Error(w, "Session not found", http.StatusNotFound)
			return
		}
		h.dispatch(w, session, req)
		return
	}

	if req.Method != "initialize" {
		writeJSON(w, http.StatusBadRequest,
			errResponse(req.ID, codeInvalidRequest, "Server not initialized"))
		return
	}

	session := &Session{ID: uuid.NewString(), CreatedAt: h.clock()}
	h.registry.Add(session)
	h.log.Info("session created", slog.String("session_id", session.ID))

	w.Header().Set(sessionHeader, session.ID)
	writeJSON(w, http.StatusOK, okResponse(req.ID, h.initializeResult()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, sessionID string) {
	if sessionID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request"})
		return
	}
	if _, ok := h.registry.Get(sessionID); !ok {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	h.registry.Remove(sessionID)
	h.log.Info("session closed", slog.String("session_id", sessionID))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) dispatch(w http.ResponseWriter, session *Session, req request) {
	switch req.Method {
	case "initialize":
		writeJSON(w, http.StatusOK, okResponse(req.ID, h.initializeResult()))
	case "notifications/initialized":
		session.Initialized = true
		w.WriteHeader(http.StatusAccepted)
	case "ping":
		writeJSON(w, http.StatusOK, okResponse(req.ID, map[string]any{}))
	case "tools/list":
		writeJSON(w, http.StatusOK, okResponse(req.ID, toolsListResult{Tools: []any{}}))
	default:
		// Zero tools are registered, so tools/call lands here as well.
		if req.isNotification() {
			w.WriteHeader(http.StatusAccepted)
			return
		}
		writeJSON(w, http.StatusOK, errResponse(req.ID, codeMethodNotFound, "Method not found"))
	}
}

func (h *Handler) initializeResult() initializeResult {
	return initializeResult{
		ProtocolVersion: protocolVersion,
		Capabilities:    map[string]any{"tools": map[string]any{}},
		ServerInfo:      serverInfo{Name: h.name, Version: h.version},
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
