package speech

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubIdentity struct{}

func (stubIdentity) AccessToken(context.Context) (string, error) { return "tok", nil }
func (stubIdentity) ProjectID(context.Context) (string, error)   { return "proj-1", nil }

func TestTranscribeConcatenatesBestAlternatives(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/projects/proj-1/locations/global/recognizers/_:recognize" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var req recognizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.URI != "gs://bucket/captures/abc/audio.m4a" {
			t.Errorf("unexpected uri: %s", req.URI)
		}
		if len(req.Config.LanguageCodes) != 1 || req.Config.LanguageCodes[0] != "en-US" {
			t.Errorf("unexpected language codes: %v", req.Config.LanguageCodes)
		}
		if req.Config.Model != "latest_long" {
			t.Errorf("unexpected model: %s", req.Config.Model)
		}
		_, _ = w.Write([]byte(`{
			"results": [
				{"alternatives": [{"transcript": "I would go"}, {"transcript": "ignored"}]},
				{"alternatives": []},
				{"alternatives": [{"transcript": "to the quiet corner."}]}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, stubIdentity{})
	got, err := c.Transcribe(context.Background(), "gs://bucket/captures/abc/audio.m4a", "en-US", "latest_long")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "I would go to the quiet corner." {
		t.Fatalf("unexpected transcript: %q", got)
	}
}

func TestTranscribeEmptyResultFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"results": [{"alternatives": [{"transcript": "   "}]}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, stubIdentity{})
	_, err := c.Transcribe(context.Background(), "gs://bucket/obj", "en-US", "latest_long")
	if !errors.Is(err, ErrEmptyTranscript) {
		t.Fatalf("expected ErrEmptyTranscript, got %v", err)
	}
}

func TestTranscribeBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, stubIdentity{})
	_, err := c.Transcribe(context.Background(), "gs://bucket/obj", "en-US", "latest_long")
	if err == nil {
		t.Fatal("expected an error")
	}
	if errors.Is(err, ErrEmptyTranscript) {
		t.Fatalf("backend failures must not classify as empty transcript: %v", err)
	}
}
