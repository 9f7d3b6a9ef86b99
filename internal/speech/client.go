package speech

import (
	"bytes"
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

// ErrEmptyTranscript marks a recognition round-trip that produced no usable
// text. The analyze operation treats this as terminal: no degraded scoring is
// attempted on empty input.
var ErrEmptyTranscript = errors.New("no transcript returned from speech recognition")

// Identity bundles the pieces of runtime identity the recognize call needs.
type Identity interface {
	gcloud.TokenSource
	ProjectID(ctx context.Context) (string, error)
}

// Client performs synchronous Speech-to-Text v2 recognition of an object
// already sitting in storage. One request, no retries; recognition is billed
// per attempt.
type Client struct {
	baseURL  string
	identity Identity
	client   *http.Client
}

func NewClient(baseURL string, identity Identity) *Client {
	if baseURL == "" {
		baseURL = "https://speech.googleapis.com"
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		identity: identity,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

type recognizeRequest struct {
	Config recognitionConfig `json:"config"`
	URI    string            `json:"uri"`
}

type recognitionConfig struct {
	AutoDecodingConfig struct{}          `json:"autoDecodingConfig"`
	LanguageCodes      []string          `json:"languageCodes"`
	Model              string            `json:"model"`
	Features           recognizeFeatures `json:"features"`
}

type recognizeFeatures struct {
	EnableAutomaticPunctuation bool `json:"enableAutomaticPunctuation"`
}

type recognizeResponse struct {
	Results []struct {
		Alternatives []struct {
			Transcript string `json:"transcript"`
		} `json:"alternatives"`
	} `json:"results"`
	Metadata struct {
		RequestID           string `json:"requestId"`
		TotalBilledDuration string `json:"totalBilledDuration"`
	} `json:"metadata"`
}

// Transcribe submits storageURI for recognition and returns the trimmed,
// space-joined concatenation of each result's best alternative.
func (c *Client) Transcribe(ctx context.Context, storageURI, languageCode, model string) (string, error) {
	token, err := c.identity.AccessToken(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve access token: %w", err)
	}
	project, err := c.identity.ProjectID(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve project id: %w", err)
	}

	payload := recognizeRequest{URI: storageURI}
	payload.Config.LanguageCodes = []string{languageCode}
	payload.Config.Model = model
	payload.Config.Features.EnableAutomaticPunctuation = true

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	// The implicit recognizer "_" in the global location; per-request config
	// replaces a provisioned recognizer.
	endpoint := fmt.Sprintf("%s/v2/projects/%s/locations/global/recognizers/_:recognize", c.baseURL, project)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("recognize request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read recognize response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("recognize HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var decoded recognizeResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("decode recognize response: %w", err)
	}

	parts := make([]string, 0, len(decoded.Results))
	for _, result := range decoded.Results {
		if len(result.Alternatives) == 0 {
			continue
		}
		if text := result.Alternatives[0].Transcript; text != "" {
			parts = append(parts, text)
		}
	}
	transcript := strings.TrimSpace(strings.Join(parts, " "))
	if transcript == "" {
		return "", ErrEmptyTranscript
	}
	return transcript, nil
}
