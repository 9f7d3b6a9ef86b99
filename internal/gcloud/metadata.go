package gcloud

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultMetadataURL is the compute metadata server. It is only reachable over
// plain HTTP from inside the runtime environment.
const DefaultMetadataURL = "http://metadata.google.internal"

// Metadata resolves the runtime service identity from the metadata server:
// access tokens, the service-account email and the project id. No caching is
// done; every call is a fresh round-trip.
type Metadata struct {
	baseURL string
	client  *http.Client
}

func NewMetadata(baseURL string) *Metadata {
	if baseURL == "" {
		baseURL = DefaultMetadataURL
	}
	return &Metadata{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// AccessToken returns a bearer token for the default runtime service account.
func (m *Metadata) AccessToken(ctx context.Context) (string, error) {
	raw, err := m.fetch(ctx, "instance/service-accounts/default/token")
	if err != nil {
		return "", err
	}
	var tok tokenResponse
	if err := json.Unmarshal([]byte(raw), &tok); err != nil {
		return "", fmt.Errorf("decode metadata token: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("metadata server returned an empty access token")
	}
	return tok.AccessToken, nil
}

// ServiceAccountEmail returns the email of the default runtime service account.
func (m *Metadata) ServiceAccountEmail(ctx context.Context) (string, error) {
	return m.fetch(ctx, "instance/service-accounts/default/email")
}

// ProjectID returns the project the runtime executes in.
func (m *Metadata) ProjectID(ctx context.Context) (string, error) {
	return m.fetch(ctx, "project/project-id")
}

func (m *Metadata) fetch(ctx context.Context, path string) (string, error) {
	url := m.baseURL + "/computeMetadata/v1/" + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Metadata-Flavor", "Google")

	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("metadata request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read metadata response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("metadata HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return strings.TrimSpace(string(body)), nil
}
