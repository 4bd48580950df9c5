package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the service reads from the environment.
type Config struct {
	Environment string
	Host        string
	Port        string

	DataDir     string
	DatabaseDSN string // postgres DSN; empty means sqlite under DataDir

	OpenAIAPIKey  string
	OpenAIBaseURL string
	SpeechModel   string
	TextModel     string

	AssemblyAIAPIKey  string
	AssemblyAIBaseURL string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	InputBucket    string
	InputPrefix    string
	OutputBucket   string
	PresignExpiry  time.Duration

	ProviderMaxBytes   int64
	MinSegmentSeconds  int
	MaxUploadBytes     int64
	UseWhisperFallback bool

	PromptsFile string
}

// LoadEnv loads a .env file if one exists. Missing files are not an error;
// variables may be set system-wide.
func LoadEnv() error {
	for _, envPath := range []string{".env", ".env.local", "../.env"} {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			break
		}
	}
	return nil
}

// Load reads the configuration from the environment. It only fails on
// malformed values; missing provider credentials merely disable the
// corresponding provider.
func Load() (*Config, error) {
	if err := LoadEnv(); err != nil {
		return nil, err
	}

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Host:        getEnv("HOST", "0.0.0.0"),
		Port:        getEnv("PORT", "8000"),

		DataDir:     getEnv("DATA_DIR", "data"),
		DatabaseDSN: strings.TrimSpace(os.Getenv("DATABASE_DSN")),

		OpenAIAPIKey:  strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		SpeechModel:   getEnv("OPENAI_SPEECH_MODEL", "whisper-1"),
		TextModel:     getEnv("TEXT_MODEL_NAME", "gpt-4o-mini"),

		AssemblyAIAPIKey:  strings.TrimSpace(os.Getenv("ASSEMBLYAI_API_KEY")),
		AssemblyAIBaseURL: getEnv("ASSEMBLYAI_BASE_URL", "https://api.assemblyai.com"),

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),

		InputBucket:  getEnv("INPUT_BUCKET", "minutes-inputs"),
		InputPrefix:  strings.TrimSuffix(getEnv("INPUT_PREFIX", "inputs"), "/"),
		OutputBucket: getEnv("OUTPUT_BUCKET", "minutes-outputs"),

		PromptsFile: os.Getenv("PROMPTS_FILE"),
	}

	var err error
	if cfg.MinioUseSSL, err = getEnvBool("MINIO_USE_SSL", false); err != nil {
		return nil, err
	}
	if cfg.UseWhisperFallback, err = getEnvBool("USE_OPENAI_TRANSCRIBE", true); err != nil {
		return nil, err
	}
	if cfg.ProviderMaxBytes, err = getEnvInt64("PROVIDER_MAX_BYTES", 25_000_000); err != nil {
		return nil, err
	}
	if cfg.MaxUploadBytes, err = getEnvInt64("MAX_FILE_SIZE_BYTES", 100*1024*1024); err != nil {
		return nil, err
	}
	minSeg, err := getEnvInt64("MIN_SEGMENT_SECONDS", 5)
	if err != nil {
		return nil, err
	}
	cfg.MinSegmentSeconds = int(minSeg)

	presign, err := getEnvInt64("PRESIGN_URL_EXPIRES", 900)
	if err != nil {
		return nil, err
	}
	cfg.PresignExpiry = time.Duration(presign) * time.Second

	return cfg, nil
}

// HostedSTTConfigured reports whether the preferred speech provider can run.
func (c *Config) HostedSTTConfigured() bool {
	return c.AssemblyAIAPIKey != ""
}

// WhisperFallbackConfigured reports whether the chunked fallback can run.
func (c *Config) WhisperFallbackConfigured() bool {
	return c.UseWhisperFallback && c.OpenAIAPIKey != ""
}

// SummarizerConfigured reports whether summary generation can run.
func (c *Config) SummarizerConfigured() bool {
	return c.OpenAIAPIKey != ""
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) (int64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", key, v, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch v {
	case "":
		return fallback, nil
	case "1", "true", "yes":
		return true, nil
	case "0", "false", "no":
		return false, nil
	}
	return false, fmt.Errorf("invalid %s=%q: expected boolean", key, v)
}
