package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type TelemetryConfig struct {
	LogLevel       string `yaml:"log_level"`
	OTLPEndpoint   string `yaml:"otlp_endpoint"`
	OTLPInsecure   bool   `yaml:"otlp_insecure"`
	PrometheusBind string `yaml:"prometheus_bind"`
}

type HTTPConfig struct {
	Bind string `yaml:"bind"`
	Port int    `yaml:"port"`
}

type Config struct {
	ServiceName string          `yaml:"service_name"`
	Environment string          `yaml:"environment"`
	HTTP        HTTPConfig      `yaml:"http"`
	Telemetry   TelemetryConfig `yaml:"telemetry"`
	Capture     CaptureConfig   `yaml:"capture"`
	Storage     StorageConfig   `yaml:"storage"`
	Speech      SpeechConfig    `yaml:"speech"`
	Google      GoogleConfig    `yaml:"google"`
	Bus         BusConfig       `yaml:"bus"`
}

type CaptureConfig struct {
	// SharedSecret guards the capture API and the session transport. When
	// set, requests must carry it in X-Capture-Shared-Secret (HTTP API) or
	// Authorization: Bearer (session transport).
	SharedSecret           string `yaml:"shared_secret"`
	IncludeTranscriptDebug bool   `yaml:"include_transcript_debug"`
	UploadTTLSeconds       int    `yaml:"upload_ttl_seconds"`
}

type StorageConfig struct {
	Bucket   string `yaml:"bucket"`
	Endpoint string `yaml:"endpoint"`
	Region   string `yaml:"region"`
}

type SpeechConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	Language string `yaml:"language"`
}

type GoogleConfig struct {
	Project          string `yaml:"project"`
	Region           string `yaml:"region"`
	MetadataEndpoint string `yaml:"metadata_endpoint"`
	IAMEndpoint      string `yaml:"iam_endpoint"`
}

type BusConfig struct {
	Enabled        bool     `yaml:"enabled"`
	Servers        []string `yaml:"servers"`
	Username       string   `yaml:"username"`
	Password       string   `yaml:"password"`
	Token          string   `yaml:"token"`
	TLSInsecure    bool     `yaml:"tls_insecure"`
	ConnectTimeout int      `yaml:"connect_timeout_ms"`
}

func Default() Config {
	return Config{
		ServiceName: "avalogica-capture-analysis-mcp",
		Environment: "development",
		HTTP: HTTPConfig{
			Port: 8080,
		},
		Telemetry: TelemetryConfig{
			LogLevel:       "info",
			OTLPEndpoint:   "",
			OTLPInsecure:   true,
			PrometheusBind: ":9091",
		},
		Capture: CaptureConfig{
			UploadTTLSeconds: 600,
		},
		Storage: StorageConfig{
			Region: "auto",
		},
		Speech: SpeechConfig{
			Model:    "latest_long",
			Language: "en-US",
		},
		Bus: BusConfig{
			Enabled:        false,
			Servers:        []string{"nats://localhost:4222"},
			ConnectTimeout: 2000,
		},
	}
}

func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return cfg, fmt.Errorf("config file not found: %w", err)
			}
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// IsProduction reports whether the service runs in production mode.
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// EffectiveBind resolves the listen address when http.bind is unset:
// all interfaces in production, loopback in development.
func (c Config) EffectiveBind() string {
	if c.HTTP.Bind != "" {
		return c.HTTP.Bind
	}
	if c.IsProduction() {
		return "0.0.0.0"
	}
	return "localhost"
}

func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.ServiceName, "AVALOGICA_SERVICE_NAME")
	overrideString(&cfg.Environment, "AVALOGICA_ENVIRONMENT")
	overrideString(&cfg.HTTP.Bind, "AVALOGICA_HTTP_BIND")
	overrideInt(&cfg.HTTP.Port, "AVALOGICA_HTTP_PORT")
	overrideString(&cfg.Telemetry.LogLevel, "AVALOGICA_TELEMETRY_LOG_LEVEL")
	overrideString(&cfg.Telemetry.OTLPEndpoint, "AVALOGICA_TELEMETRY_OTLP_ENDPOINT")
	overrideBool(&cfg.Telemetry.OTLPInsecure, "AVALOGICA_TELEMETRY_OTLP_INSECURE")
	overrideString(&cfg.Telemetry.PrometheusBind, "AVALOGICA_TELEMETRY_PROMETHEUS_BIND")
	overrideString(&cfg.Capture.SharedSecret, "AVALOGICA_CAPTURE_SHARED_SECRET")
	overrideBool(&cfg.Capture.IncludeTranscriptDebug, "AVALOGICA_CAPTURE_INCLUDE_TRANSCRIPT_DEBUG")
	overrideInt(&cfg.Capture.UploadTTLSeconds, "AVALOGICA_CAPTURE_UPLOAD_TTL_SECONDS")
	overrideString(&cfg.Storage.Bucket, "AVALOGICA_STORAGE_BUCKET")
	overrideString(&cfg.Storage.Endpoint, "AVALOGICA_STORAGE_ENDPOINT")
	overrideString(&cfg.Storage.Region, "AVALOGICA_STORAGE_REGION")
	overrideString(&cfg.Speech.Endpoint, "AVALOGICA_SPEECH_ENDPOINT")
	overrideString(&cfg.Speech.Model, "AVALOGICA_SPEECH_MODEL")
	overrideString(&cfg.Speech.Language, "AVALOGICA_SPEECH_LANGUAGE")
	overrideString(&cfg.Google.Project, "AVALOGICA_GOOGLE_PROJECT")
	overrideString(&cfg.Google.Region, "AVALOGICA_GOOGLE_REGION")
	overrideString(&cfg.Google.MetadataEndpoint, "AVALOGICA_GOOGLE_METADATA_ENDPOINT")
	overrideString(&cfg.Google.IAMEndpoint, "AVALOGICA_GOOGLE_IAM_ENDPOINT")
	overrideBool(&cfg.Bus.Enabled, "AVALOGICA_BUS_ENABLED")
	overrideStringSlice(&cfg.Bus.Servers, "AVALOGICA_BUS_SERVERS")
	overrideString(&cfg.Bus.Username, "AVALOGICA_BUS_USERNAME")
	overrideString(&cfg.Bus.Password, "AVALOGICA_BUS_PASSWORD")
	overrideString(&cfg.Bus.Token, "AVALOGICA_BUS_TOKEN")
	overrideBool(&cfg.Bus.TLSInsecure, "AVALOGICA_BUS_TLS_INSECURE")
	overrideInt(&cfg.Bus.ConnectTimeout, "AVALOGICA_BUS_CONNECT_TIMEOUT_MS")

	// Deployment conventions carried over from the hosting platform.
	overrideInt(&cfg.HTTP.Port, "PORT")
	overrideString(&cfg.Capture.SharedSecret, "CAPTURE_API_SHARED_SECRET")
	overrideString(&cfg.Storage.Bucket, "CAPTURE_AUDIO_BUCKET")
	overrideString(&cfg.Speech.Model, "SPEECH_MODEL")
	overrideBool(&cfg.Capture.IncludeTranscriptDebug, "INCLUDE_TRANSCRIPT_DEBUG")
	overrideString(&cfg.Google.Project, "GOOGLE_CLOUD_PROJECT")
	overrideString(&cfg.Google.Region, "GOOGLE_CLOUD_REGION")
}

func overrideString(target *string, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok && strings.TrimSpace(value) != "" {
		*target = value
	}
}

func overrideInt(target *int, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			*target = parsed
		}
	}
}

func overrideBool(target *bool, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			*target = parsed
		}
	}
}

func overrideStringSlice(target *[]string, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		parts := strings.Split(value, ",")
		var trimmed []string
		for _, p := range parts {
			if s := strings.TrimSpace(p); s != "" {
				trimmed = append(trimmed, s)
			}
		}
		if len(trimmed) > 0 {
			*target = trimmed
		}
	}
}

func validate(cfg Config) error {
	if cfg.ServiceName == "" {
		return errors.New("service_name must not be empty")
	}
	switch cfg.Environment {
	case "development", "production":
		// ok
	default:
		return errors.New("environment must be one of development|production")
	}
	if cfg.HTTP.Port <= 0 || cfg.HTTP.Port > 65535 {
		return errors.New("http.port must be between 1 and 65535")
	}
	switch cfg.Telemetry.LogLevel {
	case "debug", "info", "warn", "error":
		// ok
	default:
		return errors.New("telemetry.log_level must be one of debug|info|warn|error")
	}
	if cfg.Telemetry.PrometheusBind == "" {
		return errors.New("telemetry.prometheus_bind must not be empty")
	}
	if cfg.Capture.UploadTTLSeconds <= 0 {
		return errors.New("capture.upload_ttl_seconds must be positive")
	}
	if cfg.Speech.Model == "" {
		return errors.New("speech.model must not be empty")
	}
	if cfg.Speech.Language == "" {
		return errors.New("speech.language must not be empty")
	}
	if cfg.Bus.Enabled && len(cfg.Bus.Servers) == 0 {
		return errors.New("bus.servers must not be empty when the bus is enabled")
	}
	return nil
}
