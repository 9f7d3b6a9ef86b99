package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	signingAlgorithm = "GOOG4-RSA-SHA256"
	signingService   = "storage"
	requestType      = "goog4_request"
	unsignedPayload  = "UNSIGNED-PAYLOAD"
)

// IdentitySource resolves the email of the signing service account.
type IdentitySource interface {
	ServiceAccountEmail(ctx context.Context) (string, error)
}

// BlobSigner produces an asymmetric signature over raw bytes with the service
// account's private key. The key is never held locally.
type BlobSigner interface {
	SignBlob(ctx context.Context, serviceAccount string, payload []byte) ([]byte, error)
}

// UploadCredential is a time-limited, method- and path-scoped signed URL for a
// single PUT to object storage.
type UploadCredential struct {
	URL       string
	ExpiresAt time.Time
}

// Signer issues V4-style signed upload URLs. Steps 1-4 of the protocol
// (canonicalization and hashing) are fully deterministic for a fixed clock;
// only the final signBlob call leaves the process.
type Signer struct {
	identity IdentitySource
	blobs    BlobSigner
	host     string
	region   string
	clock    func() time.Time
}

func NewSigner(identity IdentitySource, blobs BlobSigner, host, region string) *Signer {
	if host == "" {
		host = "storage.googleapis.com"
	}
	if region == "" {
		region = "auto"
	}
	return &Signer{
		identity: identity,
		blobs:    blobs,
		host:     host,
		region:   region,
		clock:    time.Now,
	}
}

// IssueUploadCredential builds and signs a PUT URL for bucket/objectPath that
// accepts the given content type until the TTL elapses. On any failure no
// partial credential is returned.
func (s *Signer) IssueUploadCredential(ctx context.Context, bucket, objectPath, contentType string, ttl time.Duration) (UploadCredential, error) {
	email, err := s.identity.ServiceAccountEmail(ctx)
	if err != nil {
		return UploadCredential{}, fmt.Errorf("resolve signing identity: %w", err)
	}

	now := s.clock().UTC()
	canonicalURI, canonicalQuery, stringToSign := s.buildStringToSign(email, bucket, objectPath, contentType, ttl, now)

	signature, err := s.blobs.SignBlob(ctx, email, []byte(stringToSign))
	if err != nil {
		return UploadCredential{}, fmt.Errorf("sign upload request: %w", err)
	}

	url := fmt.Sprintf("https://%s%s?%s&X-Goog-Signature=%s",
		s.host, canonicalURI, canonicalQuery, hex.EncodeToString(signature))

	return UploadCredential{URL: url, ExpiresAt: now.Add(ttl)}, nil
}

// buildStringToSign performs the deterministic part of the protocol: the
// canonical request, its digest and the final string-to-sign.
func (s *Signer) buildStringToSign(email, bucket, objectPath, contentType string, ttl time.Duration, now time.Time) (canonicalURI, canonicalQuery, stringToSign string) {
	datestamp := now.Format("20060102")
	requestTimestamp := now.Format("20060102T150405Z")
	scope := strings.Join([]string{datestamp, s.region, signingService, requestType}, "/")
	credential := email + "/" + scope

	const signedHeaders = "content-type;host"
	canonicalHeaders := "content-type:" + contentType + "\nhost:" + s.host + "\n"

	params := map[string]string{
		"X-Goog-Algorithm":     signingAlgorithm,
		"X-Goog-Credential":    credential,
		"X-Goog-Date":          requestTimestamp,
		"X-Goog-Expires":       strconv.Itoa(int(ttl / time.Second)),
		"X-Goog-SignedHeaders": signedHeaders,
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, percentEncode(k)+"="+percentEncode(params[k]))
	}
	canonicalQuery = strings.Join(pairs, "&")

	canonicalURI = "/" + bucket + "/" + encodeObjectPath(objectPath)

	canonicalRequest := strings.Join([]string{
		"PUT",
		canonicalURI,
		canonicalQuery,
		canonicalHeaders,
		signedHeaders,
		unsignedPayload,
	}, "\n")

	digest := sha256.Sum256([]byte(canonicalRequest))
	stringToSign = strings.Join([]string{
		signingAlgorithm,
		requestTimestamp,
		scope,
		hex.EncodeToString(digest[:]),
	}, "\n")
	return canonicalURI, canonicalQuery, stringToSign
}

// encodeObjectPath percent-encodes each path segment while keeping the '/'
// separators intact.
func encodeObjectPath(objectPath string) string {
	segments := strings.Split(objectPath, "/")
	for i, seg := range segments {
		segments[i] = percentEncode(seg)
	}
	return strings.Join(segments, "/")
}

// percentEncode applies strict RFC 3986 encoding: everything outside the
// unreserved set becomes %XX. Query values in the signed URL must match the
// canonicalization byte for byte, so the laxer stdlib query escaping is not
// usable here.
func percentEncode(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9',
			c == '-', c == '.', c == '_', c == '~':
			b.WriteByte(c)
		default:
			b.WriteString(fmt.Sprintf("%%%02X", c))
		}
	}
	return b.String()
}
