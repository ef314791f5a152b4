package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"lecture-insights-go/internal/api"
	"lecture-insights-go/internal/asr"
	"lecture-insights-go/internal/config"
	"lecture-insights-go/internal/evaluator"
	"lecture-insights-go/internal/gateway"
	"lecture-insights-go/internal/jobstore"
	"lecture-insights-go/internal/llm"
	"lecture-insights-go/internal/logger"
	"lecture-insights-go/internal/nlp"
	"lecture-insights-go/internal/pipeline"
	"lecture-insights-go/internal/quiz"
	"lecture-insights-go/internal/summarizer"
	"lecture-insights-go/internal/uploads"
)

func main() {
	_ = godotenv.Load() // loads .env

	log := logger.New()
	log.WithField("service", "lecture-insights-go").Info("starting service")

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	ctx := context.Background()

	store, err := newJobStore(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("job store init failed")
	}
	log.WithField("backend", cfg.JobStoreBackend).Info("job store ready")

	uploadStore, err := newUploadStore(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("upload store init failed")
	}
	log.WithField("backend", cfg.UploadBackend).Info("upload store ready")

	reg := newRegistry(cfg)
	stages := pipeline.Stages(pipeline.Toggles{
		Keywords:     cfg.EnableKeywords,
		Segmentation: cfg.EnableSegmentation,
		Quiz:         cfg.EnableQuiz,
		Metrics:      cfg.EnableMetrics,
	})

	orch := pipeline.NewOrchestrator(store, uploadStore, reg, stages, cfg.KeywordsTopN, log)
	if cfg.ReferenceTranscriptFile != "" {
		ref, err := os.ReadFile(cfg.ReferenceTranscriptFile)
		if err != nil {
			log.WithError(err).Fatal("cannot read reference transcript")
		}
		orch.SetReferenceTranscript(string(ref))
	}
	gw := gateway.New(store, uploadStore, orch, log)
	handler := api.NewHandler(gw, store, log)

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      api.NewRouter(handler, log),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.WithField("addr", addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server terminated")
	}
}

func newJobStore(ctx context.Context, cfg *config.Config) (jobstore.Store, error) {
	switch cfg.JobStoreBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis connection failed: %w", err)
		}
		return jobstore.NewRedisStore(client), nil
	default:
		return jobstore.NewFSStore(cfg.JobsDir)
	}
}

func newUploadStore(ctx context.Context, cfg *config.Config) (uploads.Store, error) {
	switch cfg.UploadBackend {
	case "s3":
		return uploads.NewMinioStore(ctx, uploads.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
	default:
		return uploads.NewLocalStore(cfg.UploadsDir)
	}
}

// newRegistry binds each stage kind to its lazily-constructed
// implementation. Nothing talks to a model service until the first job
// reaches the matching stage.
func newRegistry(cfg *config.Config) *pipeline.Registry {
	embedder := nlp.NewHTTPEmbedder(cfg.EmbedURL)

	return &pipeline.Registry{
		NewTranscriber: func() (pipeline.Transcriber, error) {
			return asr.NewClient(cfg.ASRURL), nil
		},
		NewCleaner: func() (pipeline.Cleaner, error) {
			return nlp.NewCleaner(), nil
		},
		NewKeywordExtractor: func() (pipeline.KeywordExtractor, error) {
			return nlp.NewKeywordExtractor(embedder), nil
		},
		NewSegmenter: func() (pipeline.Segmenter, error) {
			return nlp.NewSegmenter(embedder), nil
		},
		NewSummarizer: func() (pipeline.Summarizer, error) {
			client, err := llm.NewClient(cfg.LLMGatewayURL, cfg.LLMAPIKey, cfg.LLMModel)
			if err != nil {
				return nil, err
			}
			return summarizer.NewService(client), nil
		},
		NewQuizGenerator: func() (pipeline.QuizGenerator, error) {
			client, err := llm.NewClient(cfg.LLMGatewayURL, cfg.LLMAPIKey, cfg.LLMModel)
			if err != nil {
				return nil, err
			}
			return quiz.NewService(client), nil
		},
		NewEvaluator: func() (pipeline.Evaluator, error) {
			return evaluator.NewService(), nil
		},
	}
}
