package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mdwillman/avalogica-capture-analysis-mcp/internal/bus"
	"github.com/mdwillman/avalogica-capture-analysis-mcp/internal/capture"
	"github.com/mdwillman/avalogica-capture-analysis-mcp/internal/config"
	"github.com/mdwillman/avalogica-capture-analysis-mcp/internal/gcloud"
	"github.com/mdwillman/avalogica-capture-analysis-mcp/internal/mcp"
	"github.com/mdwillman/avalogica-capture-analysis-mcp/internal/speech"
	"github.com/mdwillman/avalogica-capture-analysis-mcp/internal/storage"
)

const Version = "0.1.0"

// Runtime assembles the capture analysis service: identity clients, the
// capture HTTP API, the protocol session transport, telemetry, and the
// optional event bus.
type Runtime struct {
	cfg         config.Config
	logger      *slog.Logger
	httpServer  *http.Server
	metricsSrv  *http.Server
	busClient   *bus.Client
	tracerClose func(context.Context) error
	ready       atomic.Bool
	wg          sync.WaitGroup
}

func New(cfg config.Config, logger *slog.Logger) *Runtime {
	return &Runtime{
		cfg:    cfg,
		logger: logger,
	}
}

func (r *Runtime) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	shutdownTelemetry, metricHandler, err := setupTelemetry(r.cfg, r.logger)
	if err != nil {
		return fmt.Errorf("failed to setup telemetry: %w", err)
	}
	r.tracerClose = shutdownTelemetry

	if r.cfg.Bus.Enabled {
		client, err := bus.Connect(ctx, r.cfg.Bus, r.logger)
		if err != nil {
			return fmt.Errorf("failed to connect event bus: %w", err)
		}
		r.busClient = client
	}

	metadata := gcloud.NewMetadata(r.cfg.Google.MetadataEndpoint)
	signer := storage.NewSigner(
		metadata,
		gcloud.NewIAMSigner(r.cfg.Google.IAMEndpoint, metadata),
		"",
		r.cfg.Storage.Region,
	)
	validator := storage.NewValidator(r.cfg.Storage.Endpoint, metadata)
	transcriber := speech.NewClient(r.cfg.Speech.Endpoint, metadata)

	captureSvc := capture.NewService(capture.Options{
		Bucket:                 r.cfg.Storage.Bucket,
		SharedSecret:           r.cfg.Capture.SharedSecret,
		DefaultLanguage:        r.cfg.Speech.Language,
		DefaultModel:           r.cfg.Speech.Model,
		UploadTTL:              time.Duration(r.cfg.Capture.UploadTTLSeconds) * time.Second,
		IncludeTranscriptDebug: r.cfg.Capture.IncludeTranscriptDebug,
	}, signer, validator, transcriber, r.eventPublisher(), r.logger)

	sessions := mcp.NewRegistry()
	mcpHandler := mcp.NewHandler(sessions, r.cfg.ServiceName, Version, r.logger)

	mux := http.NewServeMux()
	captureSvc.Register(mux)
	mux.Handle("/mcp", mcpHandler)
	mux.HandleFunc("/health", r.handleHealth)
	mux.HandleFunc("/", handleNotFound)

	addr := fmt.Sprintf("%s:%d", r.cfg.EffectiveBind(), r.cfg.HTTP.Port)
	r.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := r.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			r.logger.Error("http server failed", slog.String("error", err.Error()))
		}
	}()

	if metricHandler != nil {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", metricHandler)
		r.metricsSrv = &http.Server{
			Addr:              r.cfg.Telemetry.PrometheusBind,
			Handler:           metricsMux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			if err := r.metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				r.logger.Error("metrics server failed", slog.String("error", err.Error()))
			}
		}()
	}

	r.ready.Store(true)
	r.logger.Info("service started",
		slog.String("addr", addr),
		slog.String("environment", r.cfg.Environment),
		slog.Bool("bus", r.cfg.Bus.Enabled))
	if !r.cfg.IsProduction() {
		r.logger.Info("protocol endpoint ready",
			slog.String("url", fmt.Sprintf("http://localhost:%d/mcp", r.cfg.HTTP.Port)))
	}

	<-ctx.Done()
	r.logger.Info("service stopping")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := r.httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Error("http shutdown error", slog.String("error", err.Error()))
	}
	if r.metricsSrv != nil {
		if err := r.metricsSrv.Shutdown(shutdownCtx); err != nil {
			r.logger.Error("metrics shutdown error", slog.String("error", err.Error()))
		}
	}
	r.wg.Wait()

	r.busClient.Close()

	if r.tracerClose != nil {
		if err := r.tracerClose(shutdownCtx); err != nil {
			r.logger.Error("telemetry shutdown error", slog.String("error", err.Error()))
		}
	}

	return nil
}

// eventPublisher hides the nil bus behind a nil interface so the capture
// service can skip publishing entirely when the bus is disabled.
func (r *Runtime) eventPublisher() capture.EventPublisher {
	if r.busClient == nil {
		return nil
	}
	return r.busClient
}

func (r *Runtime) handleHealth(w http.ResponseWriter, _ *http.Request) {
	status := "healthy"
	code := http.StatusOK
	if !r.ready.Load() {
		status = "starting"
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":    status,
		"service":   r.cfg.ServiceName,
		"version":   Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func handleNotFound(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte("Not Found"))
}
