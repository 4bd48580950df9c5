package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"minutes/internal/api/server"
	v1routes "minutes/internal/api/v1/routes"
	"minutes/internal/api/v1/services"
	"minutes/internal/app/api"
	"minutes/internal/app/api/assemblyai"
	"minutes/internal/app/api/chunked"
	openaiapi "minutes/internal/app/api/openai"
	"minutes/internal/app/api/openai/chat"
	"minutes/internal/app/api/openai/whisper"
	"minutes/internal/app/audio"
	"minutes/internal/app/export"
	"minutes/internal/app/metrics"
	"minutes/internal/app/pipeline"
	"minutes/internal/app/repository"
	"minutes/internal/app/repository/pg"
	"minutes/internal/app/repository/sqlite"
	"minutes/internal/app/storage"
	"minutes/internal/config"
)

// Application bundles everything the serve and one-shot commands run.
type Application struct {
	Config    *config.Config
	Server    *server.Server
	Container *v1routes.ServiceContainer
	DAO       repository.TranscriptionDAO
	Logger    *zap.Logger
}

func newApplication(cfg *config.Config, srv *server.Server, container *v1routes.ServiceContainer,
	dao repository.TranscriptionDAO, logger *zap.Logger) *Application {
	return &Application{Config: cfg, Server: srv, Container: container, DAO: dao, Logger: logger}
}

// Stores groups the input and output buckets. Output stays nil when the
// output bucket is unconfigured or unreachable.
type Stores struct {
	Input  storage.ObjectStore
	Output storage.ObjectStore
}

func provideZapLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	var logger *zap.Logger
	var err error
	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, func() { _ = logger.Sync() }, nil
}

func provideSlogLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}

func provideRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

func provideMetrics(reg *prometheus.Registry) *metrics.Metrics {
	return metrics.New(reg)
}

// provideStores connects to MinIO and ensures the buckets. The input bucket
// is required; a broken output bucket only disables uploads of exports.
func provideStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Stores, error) {
	client, err := storage.NewMinioClient(cfg)
	if err != nil {
		return nil, err
	}

	input, err := storage.NewMinioStore(ctx, client, cfg.InputBucket, logger)
	if err != nil {
		return nil, fmt.Errorf("input bucket unavailable: %w", err)
	}

	stores := &Stores{Input: input}
	if cfg.OutputBucket == "" {
		return stores, nil
	}
	output, err := storage.NewMinioStore(ctx, client, cfg.OutputBucket, logger)
	if err != nil {
		logger.Warn("output bucket unavailable, exports stay local",
			zap.String("bucket", cfg.OutputBucket), zap.Error(err))
		return stores, nil
	}
	stores.Output = output
	return stores, nil
}

func provideHostedProvider(cfg *config.Config, logger *zap.Logger) api.SpeechProvider {
	if !cfg.HostedSTTConfigured() {
		return nil
	}
	return assemblyai.NewClient(cfg.AssemblyAIAPIKey, cfg.AssemblyAIBaseURL, logger)
}

func provideChunkedFallback(cfg *config.Config, logger *zap.Logger) pipeline.ChunkedTranscriber {
	if !cfg.WhisperFallbackConfigured() {
		return nil
	}
	client := openaiapi.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)
	segments := whisper.NewRemoteTranscriber(client, cfg.SpeechModel)
	return chunked.NewTranscriber(segments, audio.NewFFmpegSplitter(logger, cfg.MinSegmentSeconds), cfg.ProviderMaxBytes, logger)
}

func provideSummarizer(cfg *config.Config) (api.Summarizer, error) {
	if !cfg.SummarizerConfigured() {
		return nil, nil
	}
	prompts, err := config.LoadPrompts(cfg.PromptsFile)
	if err != nil {
		return nil, err
	}
	client := openaiapi.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)
	return chat.NewMeetingSummarizer(client, cfg.TextModel, prompts), nil
}

func providePipeline(stores *Stores, hosted api.SpeechProvider, fallback pipeline.ChunkedTranscriber,
	cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) *pipeline.Pipeline {
	return pipeline.New(stores.Input, hosted, fallback, cfg.InputPrefix, m, logger)
}

func provideDAO(cfg *config.Config, logger *zap.Logger) (repository.TranscriptionDAO, func(), error) {
	var dao repository.TranscriptionDAO
	var err error
	if cfg.DatabaseDSN != "" {
		logger.Info("using postgres storage")
		dao, err = pg.NewPostgresDB(cfg.DatabaseDSN)
	} else {
		dbPath := filepath.Join(cfg.DataDir, "minutes.db")
		logger.Info("using sqlite storage", zap.String("path", dbPath))
		dao, err = sqlite.NewSQLiteDB(dbPath)
	}
	if err != nil {
		return nil, nil, err
	}
	return dao, func() { _ = dao.Close() }, nil
}

func provideExportWriter(stores *Stores, logger *zap.Logger) *export.Writer {
	return export.NewWriter(stores.Output, "", logger)
}

func provideServiceContainer(
	cfg *config.Config,
	pipe *pipeline.Pipeline,
	dao repository.TranscriptionDAO,
	summarizer api.Summarizer,
	exporter *export.Writer,
	stores *Stores,
	m *metrics.Metrics,
	logger *zap.Logger,
) *v1routes.ServiceContainer {
	return &v1routes.ServiceContainer{
		TranscriptionService: services.NewTranscriptionService(pipe, dao, summarizer, exporter, cfg.InputBucket, m, logger),
		StorageService:       services.NewStorageService(stores.Input, cfg.InputPrefix, cfg.PresignExpiry, logger),
		MaxUploadBytes:       cfg.MaxUploadBytes,
	}
}

func provideServerConfig(cfg *config.Config) server.Config {
	return server.Config{
		Host:        cfg.Host,
		Port:        cfg.Port,
		ReadTimeout: 30 * time.Second,
		// Transcription runs synchronously inside the request.
		WriteTimeout: 30 * time.Minute,
		IdleTimeout:  120 * time.Second,
		Environment:  cfg.Environment,
	}
}
