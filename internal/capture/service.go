package capture

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/mdwillman/avalogica-capture-analysis-mcp/internal/domain"
	"github.com/mdwillman/avalogica-capture-analysis-mcp/internal/prompts"
	"github.com/mdwillman/avalogica-capture-analysis-mcp/internal/scoring"
	"github.com/mdwillman/avalogica-capture-analysis-mcp/internal/storage"
)

const (
	defaultContentType = "audio/mp4"
	defaultExtension   = "m4a"
	sharedSecretHeader = "X-Capture-Shared-Secret"

	signDeadline       = 10 * time.Second
	probeDeadline      = 10 * time.Second
	transcribeDeadline = 60 * time.Second

	// Lifecycle notification subjects; fire-and-forget, never read back.
	subjectInitialized = "avalogica.capture.initialized"
	subjectAnalyzed    = "avalogica.capture.analyzed"
)

var (
	analyzePathRe = regexp.MustCompile(`^/v1/captures/([^/]+):analyze$`)
	getPathRe     = regexp.MustCompile(`^/v1/captures/([^/]+)$`)
)

// CredentialIssuer issues a time-limited upload URL for one object.
type CredentialIssuer interface {
	IssueUploadCredential(ctx context.Context, bucket, objectPath, contentType string, ttl time.Duration) (storage.UploadCredential, error)
}

// ObjectValidator probes storage for an uploaded object before analysis runs.
type ObjectValidator interface {
	AssertObjectExists(ctx context.Context, bucket, objectPath string) (storage.ObjectMetadata, error)
}

// Transcriber turns a storage-referenced audio object into text.
type Transcriber interface {
	Transcribe(ctx context.Context, storageURI, languageCode, model string) (string, error)
}

// EventPublisher fans capture lifecycle events out to interested consumers.
// Implementations must tolerate being nil-valued behind the interface.
type EventPublisher interface {
	PublishEvent(subject string, payload any) error
}

// Options carries the request-independent settings of the capture API.
type Options struct {
	Bucket                 string
	SharedSecret           string
	DefaultLanguage        string
	DefaultModel           string
	UploadTTL              time.Duration
	IncludeTranscriptDebug bool
}

// Service handles the capture HTTP API: init issues an upload credential,
// analyze runs validate → transcribe → score, get serves the legacy stub.
// Each call is stateless; the client carries captureId and objectPath forward.
type Service struct {
	opts        Options
	signer      CredentialIssuer
	objects     ObjectValidator
	transcriber Transcriber
	events      EventPublisher
	log         *slog.Logger
	clock       func() time.Time

	mu       sync.Mutex
	inFlight map[string]struct{}

	meter           metric.Meter
	initCounter     metric.Int64Counter
	analyzeCounter  metric.Int64Counter
	analyzeDuration metric.Float64Histogram
}

func NewService(opts Options, signer CredentialIssuer, objects ObjectValidator, transcriber Transcriber, events EventPublisher, log *slog.Logger) *Service {
	if opts.DefaultLanguage == "" {
		opts.DefaultLanguage = "en-US"
	}
	if opts.DefaultModel == "" {
		opts.DefaultModel = "latest_long"
	}
	if opts.UploadTTL <= 0 {
		opts.UploadTTL = 10 * time.Minute
	}
	s := &Service{
		opts:        opts,
		signer:      signer,
		objects:     objects,
		transcriber: transcriber,
		events:      events,
		log:         log.With(slog.String("component", "capture")),
		clock:       func() time.Time { return time.Now().UTC() },
		inFlight:    make(map[string]struct{}),
		meter:       otel.Meter("github.com/mdwillman/avalogica-capture-analysis-mcp/capture"),
	}
	if err := s.initMetrics(); err != nil {
		s.log.Warn("failed to initialize metrics", slog.String("error", err.Error()))
	}
	return s
}

func (s *Service) initMetrics() error {
	var err error
	s.initCounter, err = s.meter.Int64Counter("capture.init.total",
		metric.WithDescription("Capture init requests by outcome"))
	if err != nil {
		return err
	}
	s.analyzeCounter, err = s.meter.Int64Counter("capture.analyze.total",
		metric.WithDescription("Capture analyze requests by outcome"))
	if err != nil {
		return err
	}
	s.analyzeDuration, err = s.meter.Float64Histogram("capture.analyze.duration_ms",
		metric.WithDescription("End-to-end analyze latency in milliseconds"))
	return err
}

// Register wires the capture routes onto mux. The colon suffixes are literal
// path bytes, so init matches exactly and the rest dispatch by regexp under
// the /v1/captures/ prefix.
func (s *Service) Register(mux *http.ServeMux) {
	mux.HandleFunc("/v1/captures:init", s.handleInit)
	mux.HandleFunc("/v1/captures/", s.handleCapturePath)
}

func (s *Service) handleCapturePath(w http.ResponseWriter, r *http.Request) {
	if m := analyzePathRe.FindStringSubmatch(r.URL.Path); m != nil && r.Method == http.MethodPost {
		s.handleAnalyze(w, r, m[1])
		return
	}
	if m := getPathRe.FindStringSubmatch(r.URL.Path); m != nil && r.Method == http.MethodGet {
		s.handleGet(w, r, m[1])
		return
	}
	notFound(w)
}

type initRequest struct {
	ContentType string `json:"contentType"`
	Extension   string `json:"extension"`
}

type uploadInstruction struct {
	Method     string            `json:"method"`
	URL        string            `json:"url"`
	Headers    map[string]string `json:"headers"`
	ObjectPath string            `json:"objectPath"`
	ExpiresAt  time.Time         `json:"expiresAt"`
}

type initResponse struct {
	CaptureID string            `json:"captureId"`
	Status    string            `json:"status"`
	Upload    uploadInstruction `json:"upload"`
}

func (s *Service) handleInit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		notFound(w)
		return
	}
	if !s.authorized(r) {
		s.countInit("unauthorized")
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "Unauthorized"})
		return
	}
	if s.opts.Bucket == "" {
		s.countInit("config_error")
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Missing capture audio bucket configuration"})
		return
	}

	captureID := uuid.NewString()

	// Body is optional; malformed JSON falls back to the defaults.
	contentType, extension := defaultContentType, defaultExtension
	var body initRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&body); err == nil {
		if body.ContentType != "" {
			contentType = body.ContentType
		}
		if body.Extension != "" {
			extension = body.Extension
		}
	}

	objectPath := fmt.Sprintf("captures/%s/audio.%s", captureID, extension)

	ctx, cancel := context.WithTimeout(r.Context(), signDeadline)
	defer cancel()
	cred, err := s.signer.IssueUploadCredential(ctx, s.opts.Bucket, objectPath, contentType, s.opts.UploadTTL)
	if err != nil {
		s.countInit("sign_error")
		s.log.Error("failed to issue upload credential",
			slog.String("capture_id", captureID),
			slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody{
			Error:   "Failed to generate upload URL",
			Details: err.Error(),
		})
		return
	}

	s.countInit("ok")
	s.publishEvent(subjectInitialized, map[string]any{
		"captureId":  captureID,
		"objectPath": objectPath,
		"expiresAt":  cred.ExpiresAt,
	})
	writeJSON(w, http.StatusOK, initResponse{
		CaptureID: captureID,
		Status:    "initialized",
		Upload: uploadInstruction{
			Method:     http.MethodPut,
			URL:        cred.URL,
			Headers:    map[string]string{"Content-Type": contentType},
			ObjectPath: objectPath,
			ExpiresAt:  cred.ExpiresAt,
		},
	})
}

type analyzeRequest struct {
	ObjectPath        string `json:"objectPath"`
	ContentType       string `json:"contentType"`
	Language          string `json:"language"`
	Model             string `json:"model"`
	IncludeTranscript bool   `json:"includeTranscript"`
	PromptID          string `json:"promptId"`
}

type analyzeDebug struct {
	Transcript string                `json:"transcript"`
	Language   string                `json:"language"`
	Model      string                `json:"model"`
	GCSUri     string                `json:"gcsUri"`
	PromptID   string                `json:"promptId,omitempty"`
	SubAxes    scoring.SubAxisMatrix `json:"subAxes,omitempty"`
}

type analyzeResponse struct {
	DimensionState scoring.DimensionState   `json:"dimensionState"`
	Evidence       []scoring.EvidenceRecord `json:"evidence"`
	Debug          *analyzeDebug            `json:"debug,omitempty"`
}

func (s *Service) handleAnalyze(w http.ResponseWriter, r *http.Request, captureID string) {
	if !s.authorized(r) {
		s.countAnalyze("unauthorized")
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "Unauthorized"})
		return
	}
	if s.opts.Bucket == "" {
		s.countAnalyze("config_error")
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Missing capture audio bucket configuration"})
		return
	}

	if !s.beginAnalyze(captureID) {
		s.countAnalyze("conflict")
		writeJSON(w, http.StatusConflict, errorBody{Error: "Analysis already in progress for this capture"})
		return
	}
	defer s.endAnalyze(captureID)

	started := s.clock()

	var body analyzeRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		s.countAnalyze("bad_request")
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid JSON body", Details: err.Error()})
		return
	}

	objectPath := strings.TrimSpace(body.ObjectPath)
	if objectPath == "" {
		s.countAnalyze("bad_request")
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Missing required field: objectPath"})
		return
	}

	// Resolve the optional prompt before any billable work happens.
	var promptSpec *domain.PromptSpec
	if pid := strings.TrimSpace(body.PromptID); pid != "" {
		spec, err := prompts.Get(pid)
		if err != nil {
			s.countAnalyze("bad_request")
			writeJSON(w, http.StatusBadRequest, unknownPromptBody{
				Error:    "Unknown promptId",
				PromptID: pid,
				Details:  err.Error(),
			})
			return
		}
		promptSpec = &spec
	}

	probeCtx, cancelProbe := context.WithTimeout(r.Context(), probeDeadline)
	defer cancelProbe()
	if _, err := s.objects.AssertObjectExists(probeCtx, s.opts.Bucket, objectPath); err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			s.countAnalyze("not_found")
			writeJSON(w, http.StatusNotFound, notFoundBody{
				Error:      "Audio object not found in bucket",
				Bucket:     s.opts.Bucket,
				ObjectPath: objectPath,
			})
			return
		}
		s.countAnalyze("probe_error")
		writeJSON(w, http.StatusInternalServerError, errorBody{
			Error:   "Failed to validate audio object",
			Details: err.Error(),
		})
		return
	}

	language := valueOrDefault(body.Language, s.opts.DefaultLanguage)
	model := valueOrDefault(body.Model, s.opts.DefaultModel)
	storageURI := fmt.Sprintf("gs://%s/%s", s.opts.Bucket, objectPath)

	recognizeCtx, cancelRecognize := context.WithTimeout(r.Context(), transcribeDeadline)
	defer cancelRecognize()
	transcript, err := s.transcriber.Transcribe(recognizeCtx, storageURI, language, model)
	if err != nil {
		s.countAnalyze("transcribe_error")
		s.log.Error("transcription failed",
			slog.String("capture_id", captureID),
			slog.String("language", language),
			slog.String("model", model),
			slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody{
			Error:   "Transcription failed",
			Details: err.Error(),
		})
		return
	}
	s.log.Info("transcription complete",
		slog.String("capture_id", captureID),
		slog.String("language", language),
		slog.String("model", model),
		slog.Int("chars", len(transcript)))

	includeDebug := body.IncludeTranscript || s.opts.IncludeTranscriptDebug

	req := scoring.Request{
		Transcript:      transcript,
		SourceType:      "audio",
		SourceSessionID: captureID,
		IncludeDebug:    includeDebug,
		Now:             s.clock(),
	}
	req.Prompt = promptSpec
	result := scoring.Score(req)

	resp := analyzeResponse{
		DimensionState: result.DimensionState,
		Evidence:       result.Evidence,
	}
	if includeDebug {
		debug := &analyzeDebug{
			Transcript: transcript,
			Language:   language,
			Model:      model,
			GCSUri:     storageURI,
		}
		if result.Debug != nil {
			debug.PromptID = result.Debug.PromptID
			debug.SubAxes = result.Debug.SubAxes
		}
		resp.Debug = debug
	}

	s.countAnalyze("ok")
	s.recordAnalyzeDuration(started)
	s.publishEvent(subjectAnalyzed, map[string]any{
		"captureId":      captureID,
		"objectPath":     objectPath,
		"mbtiGuess":      result.DimensionState.MBTIGuess,
		"mbtiConfidence": result.DimensionState.MBTIConfidence,
	})
	writeJSON(w, http.StatusOK, resp)
}

func (s *Service) handleGet(w http.ResponseWriter, r *http.Request, captureID string) {
	if !s.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "Unauthorized"})
		return
	}
	writeJSON(w, http.StatusOK, buildLegacyDoneResponse(captureID, s.clock()))
}

// beginAnalyze installs the in-flight marker for captureID. At most one
// analyze runs per capture at a time.
func (s *Service) beginAnalyze(captureID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[captureID]; busy {
		return false
	}
	s.inFlight[captureID] = struct{}{}
	return true
}

func (s *Service) endAnalyze(captureID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, captureID)
}

func (s *Service) authorized(r *http.Request) bool {
	if s.opts.SharedSecret == "" {
		return true
	}
	return r.Header.Get(sharedSecretHeader) == s.opts.SharedSecret
}

func (s *Service) publishEvent(subject string, payload any) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishEvent(subject, payload); err != nil {
		s.log.Warn("failed to publish capture event",
			slog.String("subject", subject),
			slog.String("error", err.Error()))
	}
}

func (s *Service) countInit(outcome string) {
	if s.initCounter == nil {
		return
	}
	s.initCounter.Add(context.Background(), 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (s *Service) countAnalyze(outcome string) {
	if s.analyzeCounter == nil {
		return
	}
	s.analyzeCounter.Add(context.Background(), 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (s *Service) recordAnalyzeDuration(started time.Time) {
	if s.analyzeDuration == nil {
		return
	}
	s.analyzeDuration.Record(context.Background(), float64(s.clock().Sub(started).Milliseconds()))
}

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type notFoundBody struct {
	Error      string `json:"error"`
	Bucket     string `json:"bucket"`
	ObjectPath string `json:"objectPath"`
}

type unknownPromptBody struct {
	Error    string `json:"error"`
	PromptID string `json:"promptId"`
	Details  string `json:"details"`
}

func valueOrDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func notFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte("Not Found"))
}
