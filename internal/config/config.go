package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Ai        AIConfig
	Keys      APIKeys
	Speech    SpeechConfig
	Language  LanguageConfig
	Data      DataConfig
	Session   SessionConfig
	Backend   BackendConfig
	Admin     AdminConfig
	Telemetry TelemetryConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	AuditLogFilePath   string
	CorsAllowedOrigins string
	NatsURL            string // empty disables event forwarding
	RedisURL           string
	RateLimitPerSecond int
	RateLimitBurst     int
}

type DatabaseConfig struct {
	Connection string // empty disables the profile audit store
}

type AIConfig struct {
	LLMProvider       string // "ollama", "huggingface", "openai", "groq", "gemini"
	LLMModel          string
	LLMBaseURL        string
	EmbeddingProvider string // "ollama", "gemini", "jina", or "local" for offline runs
	EmbeddingModel    string
	OllamaBaseURL     string
	FaqStore          string // "memory" or "pgvector"
	FaqTopK           int
}

type APIKeys struct {
	OpenAI       string
	Groq         string
	HuggingFace  string
	GoogleGemini string
	Jina         string
	GoogleCloud  string
	ElevenLabs   string
}

type SpeechConfig struct {
	STTProvider       string // "whisper" or "none"
	TTSProvider       string // "google", "elevenlabs" or "none"
	ElevenLabsVoiceID string
	AudioStore        string // "local" or "s3"
	AudioDir          string
	S3Bucket          string
	S3Region          string
}

type LanguageConfig struct {
	Translator string // "google" or "llm"
	Supported  []string
}

type DataConfig struct {
	Dir           string
	FaqFile       string
	DialogFile    string
	RebuttalsFile string
	RootNodeID    string
	Watch         bool
}

type SessionConfig struct {
	Backend    string // "memory" or "redis"
	TTL        time.Duration
	MaxEntries int
}

type BackendConfig struct {
	LLMTimeout         time.Duration
	TranslateTimeout   time.Duration
	SpeechTimeout      time.Duration
	EmbeddingTimeout   time.Duration
	BreakerMinRequests int
	BreakerCooldown    time.Duration
}

type AdminConfig struct {
	PasswordHash string // bcrypt
	JwtSecret    string
	TokenTTL     time.Duration
}

type TelemetryConfig struct {
	OtelEnabled  bool
	OtelEndpoint string
	ServiceName  string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "5000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:5000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			AuditLogFilePath:   getEnv("AUDIT_LOG_FILE_PATH", "logs/customer_audit.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			RateLimitPerSecond: getEnvAsInt("RATE_LIMIT_PER_SECOND", 10),
			RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 20),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			LLMProvider:       getEnv("LLM_PROVIDER", "groq"),
			LLMModel:          getEnv("LLM_MODEL", "llama3-70b-8192"),
			LLMBaseURL:        getEnv("LLM_BASE_URL", ""),
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", ""),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			FaqStore:          getEnv("FAQ_STORE", "memory"),
			FaqTopK:           getEnvAsInt("FAQ_TOP_K", 3),
		},
		Keys: APIKeys{
			OpenAI:       getEnv("OPENAI_API_KEY", ""),
			Groq:         getEnv("GROQ_API_KEY", ""),
			HuggingFace:  getEnv("HUGGINGFACE_API_KEY", ""),
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			Jina:         getEnv("JINA_API_KEY", ""),
			GoogleCloud:  getEnv("GOOGLE_CLOUD_API_KEY", ""),
			ElevenLabs:   getEnv("ELEVENLABS_API_KEY", ""),
		},
		Speech: SpeechConfig{
			STTProvider:       getEnv("STT_PROVIDER", "whisper"),
			TTSProvider:       getEnv("TTS_PROVIDER", "google"),
			ElevenLabsVoiceID: getEnv("ELEVENLABS_VOICE_ID", ""),
			AudioStore:        getEnv("AUDIO_STORE", "local"),
			AudioDir:          getEnv("AUDIO_DIR", "./audio"),
			S3Bucket:          getEnv("AWS_BUCKET_NAME", ""),
			S3Region:          getEnv("AWS_REGION", "ap-south-1"),
		},
		Language: LanguageConfig{
			Translator: getEnv("TRANSLATOR", "google"),
			Supported:  getEnvAsList("SUPPORTED_LANGUAGES", []string{"en", "hi", "mr", "gu"}),
		},
		Data: DataConfig{
			Dir:           getEnv("DATA_DIR", "data"),
			FaqFile:       getEnv("FAQ_FILE", "intent_data.json"),
			DialogFile:    getEnv("DIALOG_FILE", "dialog_tree.json"),
			RebuttalsFile: getEnv("REBUTTALS_FILE", "rebuttals.json"),
			RootNodeID:    getEnv("DIALOG_ROOT_NODE", "1.0"),
			Watch:         getEnvAsBool("DATA_WATCH", false),
		},
		Session: SessionConfig{
			Backend:    getEnv("SESSION_BACKEND", "memory"),
			TTL:        getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			MaxEntries: getEnvAsInt("SESSION_MAX_ENTRIES", 10000),
		},
		Backend: BackendConfig{
			LLMTimeout:         getEnvAsDuration("LLM_TIMEOUT", 30*time.Second),
			TranslateTimeout:   getEnvAsDuration("TRANSLATE_TIMEOUT", 10*time.Second),
			SpeechTimeout:      getEnvAsDuration("SPEECH_TIMEOUT", 30*time.Second),
			EmbeddingTimeout:   getEnvAsDuration("EMBEDDING_TIMEOUT", 15*time.Second),
			BreakerMinRequests: getEnvAsInt("BREAKER_MIN_REQUESTS", 5),
			BreakerCooldown:    getEnvAsDuration("BREAKER_COOLDOWN", 30*time.Second),
		},
		Admin: AdminConfig{
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
			JwtSecret:    getEnv("JWT_SECRET", ""),
			TokenTTL:     getEnvAsDuration("ADMIN_TOKEN_TTL", 12*time.Hour),
		},
		Telemetry: TelemetryConfig{
			OtelEnabled:  getEnvAsBool("OTEL_ENABLED", false),
			OtelEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "veena-assistant-backend"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(strValue, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
