package gcloud

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultIAMCredentialsURL is the IAM Credentials API endpoint used for
// signBlob. The private key never leaves Google; we only submit digests.
const DefaultIAMCredentialsURL = "https://iamcredentials.googleapis.com"

// TokenSource supplies bearer tokens for Google API calls.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// IAMSigner signs arbitrary payloads with a service account's system-managed
// private key via the IAM Credentials signBlob operation.
type IAMSigner struct {
	baseURL string
	tokens  TokenSource
	client  *http.Client
}

func NewIAMSigner(baseURL string, tokens TokenSource) *IAMSigner {
	if baseURL == "" {
		baseURL = DefaultIAMCredentialsURL
	}
	return &IAMSigner{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type signBlobRequest struct {
	Payload string `json:"payload"`
}

type signBlobResponse struct {
	SignedBlob string `json:"signedBlob"`
}

// SignBlob returns the raw signature bytes for payload, signed by the given
// service account.
func (s *IAMSigner) SignBlob(ctx context.Context, serviceAccount string, payload []byte) ([]byte, error) {
	body, err := json.Marshal(signBlobRequest{Payload: base64.StdEncoding.EncodeToString(payload)})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.AccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve access token: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/projects/-/serviceAccounts/%s:signBlob",
		s.baseURL, url.PathEscape(serviceAccount))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("signBlob request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read signBlob response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("signBlob HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var decoded signBlobResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode signBlob response: %w", err)
	}
	signature, err := base64.StdEncoding.DecodeString(decoded.SignedBlob)
	if err != nil {
		return nil, fmt.Errorf("decode signature: %w", err)
	}
	return signature, nil
}
