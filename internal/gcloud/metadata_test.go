package gcloud

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func decodeJSONBody(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func TestMetadataIdentity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Metadata-Flavor") != "Google" {
			t.Errorf("missing Metadata-Flavor header")
		}
		switch r.URL.Path {
		case "/computeMetadata/v1/instance/service-accounts/default/token":
			_, _ = w.Write([]byte(`{"access_token":"tok-123","expires_in":3599,"token_type":"Bearer"}`))
		case "/computeMetadata/v1/instance/service-accounts/default/email":
			_, _ = w.Write([]byte("svc@project.iam.gserviceaccount.com\n"))
		case "/computeMetadata/v1/project/project-id":
			_, _ = w.Write([]byte("proj-1"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	m := NewMetadata(srv.URL)
	ctx := context.Background()

	token, err := m.AccessToken(ctx)
	if err != nil || token != "tok-123" {
		t.Fatalf("access token: got %q, %v", token, err)
	}
	email, err := m.ServiceAccountEmail(ctx)
	if err != nil || email != "svc@project.iam.gserviceaccount.com" {
		t.Fatalf("email: got %q, %v", email, err)
	}
	project, err := m.ProjectID(ctx)
	if err != nil || project != "proj-1" {
		t.Fatalf("project: got %q, %v", project, err)
	}
}

func TestMetadataErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no service account", http.StatusNotFound)
	}))
	defer srv.Close()

	m := NewMetadata(srv.URL)
	if _, err := m.AccessToken(context.Background()); err == nil {
		t.Fatal("expected an error for non-2xx metadata response")
	}
}

type fixedTokens string

func (f fixedTokens) AccessToken(context.Context) (string, error) { return string(f), nil }

func TestSignBlob(t *testing.T) {
	payload := []byte("string-to-sign")
	signature := []byte{0x01, 0x02, 0x03}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/projects/-/serviceAccounts/svc@proj.iam.gserviceaccount.com:signBlob" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("unexpected authorization: %q", r.Header.Get("Authorization"))
		}
		var req signBlobRequest
		if err := decodeJSONBody(r, &req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Payload != base64.StdEncoding.EncodeToString(payload) {
			t.Errorf("payload not base64 of the raw bytes: %q", req.Payload)
		}
		_, _ = w.Write([]byte(`{"signedBlob":"` + base64.StdEncoding.EncodeToString(signature) + `"}`))
	}))
	defer srv.Close()

	s := NewIAMSigner(srv.URL, fixedTokens("tok"))
	got, err := s.SignBlob(context.Background(), "svc@proj.iam.gserviceaccount.com", payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != string(signature) {
		t.Fatalf("unexpected signature bytes: %v", got)
	}
}
