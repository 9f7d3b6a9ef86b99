package mcp

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestHandler() (*Handler, *Registry) {
	registry := NewRegistry()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(registry, "avalogica-capture-analysis-mcp", "0.1.0", log), registry
}

func post(h *Handler, sessionID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body))
	if sessionID != "" {
		req.Header.Set(sessionHeader, sessionID)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func initialize(t *testing.T, h *Handler) string {
	t.Helper()
	rec := post(h, "", `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("initialize failed with %d: %s", rec.Code, rec.Body.String())
	}
	sessionID := rec.Header().Get(sessionHeader)
	if sessionID == "" {
		t.Fatal("initialize must assign a session id")
	}
	return sessionID
}

func TestInitializeCreatesSession(t *testing.T) {
	h, registry := newTestHandler()

	rec := post(h, "", `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	if registry.Len() != 1 {
		t.Fatalf("expected one live session, got %d", registry.Len())
	}

	var resp struct {
		Result struct {
			ProtocolVersion string `json:"protocolVersion"`
			ServerInfo      struct {
				Name string `json:"name"`
			} `json:"serverInfo"`
		} `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Result.ProtocolVersion == "" {
		t.Fatal("missing protocol version")
	}
	if resp.Result.ServerInfo.Name != "avalogica-capture-analysis-mcp" {
		t.Fatalf("unexpected server name: %q", resp.Result.ServerInfo.Name)
	}
}

func TestUnknownSessionIs404(t *testing.T) {
	h, _ := newTestHandler()

	rec := post(h, "no-such-session", `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown session, got %d", rec.Code)
	}
}

func TestNonInitializeWithoutSessionRejected(t *testing.T) {
	h, registry := newTestHandler()

	rec := post(h, "", `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if registry.Len() != 0 {
		t.Fatal("no session may be created for a non-initialize first message")
	}
}

func TestToolsListIsEmpty(t *testing.T) {
	h, _ := newTestHandler()
	sessionID := initialize(t, h)

	rec := post(h, sessionID, `{"jsonrpc":"2.0","id":3,"method":"tools/list"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	var resp struct {
		Result struct {
			Tools []any `json:"tools"`
		} `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Result.Tools) != 0 {
		t.Fatalf("the tool surface must be empty, got %v", resp.Result.Tools)
	}
	if !strings.Contains(rec.Body.String(), `"tools":[]`) {
		t.Fatalf("tools must serialize as an empty array: %s", rec.Body.String())
	}
}

func TestToolsCallIsMethodNotFound(t *testing.T) {
	h, _ := newTestHandler()
	sessionID := initialize(t, h)

	rec := post(h, sessionID, `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"anything"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("protocol errors ride a 200, got %d", rec.Code)
	}
	var resp struct {
		Error *struct {
			Code int `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != codeMethodNotFound {
		t.Fatalf("expected method-not-found, got %s", rec.Body.String())
	}
}

func TestInitializedNotificationAccepted(t *testing.T) {
	h, registry := newTestHandler()
	sessionID := initialize(t, h)

	rec := post(h, sessionID, `{"jsonrpc":"2.0","method":"notifications/initialized"}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202 for the initialized notification, got %d", rec.Code)
	}
	session, _ := registry.Get(sessionID)
	if !session.Initialized {
		t.Fatal("session must record the initialized handshake")
	}
}

func TestDeleteRemovesSession(t *testing.T) {
	h, registry := newTestHandler()
	sessionID := initialize(t, h)

	req := httptest.NewRequest(http.MethodDelete, "/mcp", nil)
	req.Header.Set(sessionHeader, sessionID)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if registry.Len() != 0 {
		t.Fatal("session must be removed on close")
	}

	rec = post(h, sessionID, `{"jsonrpc":"2.0","id":5,"method":"tools/list"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("closed session must be unknown, got %d", rec.Code)
	}
}

func TestMalformedBodyIsParseError(t *testing.T) {
	h, _ := newTestHandler()

	rec := post(h, "", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed JSON, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "-32700") {
		t.Fatalf("expected a parse error code: %s", rec.Body.String())
	}
}
