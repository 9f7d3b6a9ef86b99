package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mdwillman/avalogica-capture-analysis-mcp/internal/gcloud"
)

// ErrObjectNotFound marks a missing object: terminal and user-correctable, the
// client should re-upload before retrying analyze.
var ErrObjectNotFound = errors.New("object not found in bucket")

// ObjectMetadata is the trimmed metadata returned by the existence probe.
type ObjectMetadata struct {
	Name        string `json:"name"`
	Size        string `json:"size,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Updated     string `json:"updated,omitempty"`
}

// Validator confirms an object exists before analysis proceeds. A 404-class
// storage response maps to ErrObjectNotFound; any other failure is transient
// and surfaced to the caller as an upstream error.
type Validator struct {
	baseURL string
	tokens  gcloud.TokenSource
	client  *http.Client
}

func NewValidator(baseURL string, tokens gcloud.TokenSource) *Validator {
	if baseURL == "" {
		baseURL = "https://storage.googleapis.com"
	}
	return &Validator{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// AssertObjectExists performs a single metadata read for bucket/objectPath.
func (v *Validator) AssertObjectExists(ctx context.Context, bucket, objectPath string) (ObjectMetadata, error) {
	token, err := v.tokens.AccessToken(ctx)
	if err != nil {
		return ObjectMetadata{}, fmt.Errorf("resolve access token: %w", err)
	}

	// The JSON API wants the full object name as a single encoded segment,
	// '/' included.
	endpoint := fmt.Sprintf("%s/storage/v1/b/%s/o/%s?fields=name,size,contentType,updated",
		v.baseURL, percentEncode(bucket), percentEncode(objectPath))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ObjectMetadata{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := v.client.Do(req)
	if err != nil {
		return ObjectMetadata{}, fmt.Errorf("object metadata request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ObjectMetadata{}, fmt.Errorf("read object metadata response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return ObjectMetadata{}, fmt.Errorf("%w: gs://%s/%s", ErrObjectNotFound, bucket, objectPath)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ObjectMetadata{}, fmt.Errorf("object metadata HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var meta ObjectMetadata
	if err := json.Unmarshal(body, &meta); err != nil {
		return ObjectMetadata{}, fmt.Errorf("decode object metadata: %w", err)
	}
	return meta, nil
}
