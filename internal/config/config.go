package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all service settings in correct types.
type Config struct {
	Port string

	// Persistence backends
	JobStoreBackend string // "fs" or "redis"
	JobsDir         string
	RedisAddr       string
	RedisPassword   string

	UploadBackend  string // "local" or "s3"
	UploadsDir     string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	// Model services
	ASRURL        string
	EmbedURL      string
	LLMGatewayURL string
	LLMAPIKey     string
	LLMModel      string

	// Optional pipeline stages
	EnableKeywords     bool
	EnableSegmentation bool
	EnableQuiz         bool
	EnableMetrics      bool

	KeywordsTopN int

	// Optional ground-truth transcript file for WER scoring.
	ReferenceTranscriptFile string
}

// Load reads configuration from the environment with typed fallbacks.
func Load() (*Config, error) {
	cfg := &Config{
		Port: envOr("PORT", "8080"),

		JobStoreBackend: envOr("JOB_STORE", "fs"),
		JobsDir:         envOr("JOBS_DIR", "data/jobs"),
		RedisAddr:       envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),

		UploadBackend:  envOr("UPLOAD_STORE", "local"),
		UploadsDir:     envOr("UPLOADS_DIR", "data/uploads"),
		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    envOr("MINIO_BUCKET", "lecture-uploads"),
		MinioUseSSL:    envAsBool("MINIO_USE_SSL", false),

		ASRURL:        envOr("ASR_URL", "http://localhost:9000"),
		EmbedURL:      envOr("EMBED_URL", "http://localhost:9001"),
		LLMGatewayURL: os.Getenv("LLM_GATEWAY_URL"),
		LLMAPIKey:     os.Getenv("LLM_API_KEY"),
		LLMModel:      envOr("LLM_MODEL", "google/flan-t5-base"),

		EnableKeywords:     envAsBool("ENABLE_KEYWORDS", true),
		EnableSegmentation: envAsBool("ENABLE_SEGMENTATION", true),
		EnableQuiz:         envAsBool("ENABLE_QUIZ", true),
		EnableMetrics:      envAsBool("ENABLE_METRICS", true),

		KeywordsTopN: envAsInt("KEYWORDS_TOP_N", 10),

		ReferenceTranscriptFile: os.Getenv("REFERENCE_TRANSCRIPT_FILE"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.JobStoreBackend {
	case "fs":
		if err := os.MkdirAll(c.JobsDir, 0o755); err != nil {
			return fmt.Errorf("create jobs dir: %w", err)
		}
	case "redis":
	default:
		return fmt.Errorf("unknown JOB_STORE backend: %q", c.JobStoreBackend)
	}

	switch c.UploadBackend {
	case "local":
		if err := os.MkdirAll(c.UploadsDir, 0o755); err != nil {
			return fmt.Errorf("create uploads dir: %w", err)
		}
	case "s3":
		if c.MinioEndpoint == "" {
			return fmt.Errorf("UPLOAD_STORE=s3 requires MINIO_ENDPOINT")
		}
	default:
		return fmt.Errorf("unknown UPLOAD_STORE backend: %q", c.UploadBackend)
	}

	if c.KeywordsTopN < 1 {
		c.KeywordsTopN = 10
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envAsInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func envAsBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}
