package bootstrap

import (
	"context"
	"fmt"
	"log"

	"veena-assistant-be/internal/config"
	"veena-assistant-be/internal/controller"
	"veena-assistant-be/internal/middleware"
	"veena-assistant-be/internal/pkg/logger"
	"veena-assistant-be/internal/pkg/metrics"
	"veena-assistant-be/internal/repository/contract"
	"veena-assistant-be/internal/repository/implementation"
	"veena-assistant-be/internal/repository/memory"
	redisRepo "veena-assistant-be/internal/repository/redis"
	"veena-assistant-be/internal/service"
	"veena-assistant-be/pkg/ai/backend"
	"veena-assistant-be/pkg/ai/pipeline"
	"veena-assistant-be/pkg/database"
	"veena-assistant-be/pkg/embedding"
	"veena-assistant-be/pkg/embedding/jina"
	"veena-assistant-be/pkg/embedding/local"
	"veena-assistant-be/pkg/language"
	"veena-assistant-be/pkg/llm"
	"veena-assistant-be/pkg/llm/factory"
	"veena-assistant-be/pkg/llm/openai"
	pktNats "veena-assistant-be/pkg/nats"
	"veena-assistant-be/pkg/rag/dialog"
	"veena-assistant-be/pkg/rag/extraction"
	"veena-assistant-be/pkg/rag/knowledge"
	"veena-assistant-be/pkg/rag/response"
	"veena-assistant-be/pkg/rag/search"
	"veena-assistant-be/pkg/rag/session"
	"veena-assistant-be/pkg/speech"
	"veena-assistant-be/pkg/store"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AssistantController controller.IAssistantController
	AdminController     controller.IAdminController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	Knowledge       *knowledge.Registry
	Watcher         *knowledge.Watcher // nil unless DATA_WATCH=true

	Metrics     *metrics.Collector
	RateLimiter *middleware.RateLimiter
	Logger      logger.ILogger

	closers []func()
}

func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{}

	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	auditLogger := logger.NewIsolatedLogger(cfg.App.AuditLogFilePath)
	c.Logger = sysLogger
	c.Metrics = metrics.NewCollector("veena")
	c.RateLimiter = middleware.NewRateLimiter(cfg.App.RateLimitPerSecond, cfg.App.RateLimitBurst, sysLogger)

	guards := newGuards(cfg.Backend, c.Metrics)

	// 2. Database (optional)
	var db *gorm.DB
	if cfg.Database.Connection != "" {
		var err error
		db, err = database.NewGormDB(cfg.Database.Connection, !cfg.IsProduction())
		if err != nil {
			return nil, fmt.Errorf("database: %w", err)
		}
		log.Printf("[INFO] Database connected")
	}

	// 3. AI Providers
	llmProvider, err := newLLMProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	encoder, err := newEncoder(cfg)
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] Using Embedding Provider: %s (%s)", cfg.Ai.EmbeddingProvider, encoder.Model())

	// 4. Knowledge
	newStore, err := newVectorStore(cfg.Ai.FaqStore, db)
	if err != nil {
		return nil, err
	}
	c.Knowledge = knowledge.NewRegistry(knowledge.Sources{
		Dir:           cfg.Data.Dir,
		FaqFile:       cfg.Data.FaqFile,
		DialogFile:    cfg.Data.DialogFile,
		RebuttalsFile: cfg.Data.RebuttalsFile,
		Root:          dialog.NodeID(cfg.Data.RootNodeID),
	}, encoder, newStore, sysLogger)

	if cfg.Data.Watch {
		c.Watcher, err = knowledge.NewWatcher(c.Knowledge, knowledge.DefaultDebounce)
		if err != nil {
			return nil, fmt.Errorf("data watcher: %w", err)
		}
	}

	// 5. Sessions
	sessionStore, err := c.newSessionStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// 6. Language & Speech
	translator, err := newTranslator(ctx, cfg, llmProvider)
	if err != nil {
		return nil, err
	}

	speaker, audioFiles, err := newSpeaker(cfg)
	if err != nil {
		return nil, err
	}

	sessions := session.NewManager(sessionStore)
	orchestrator := pipeline.NewOrchestrator(pipeline.Deps{
		Knowledge:   c.Knowledge,
		Sessions:    sessions,
		Locker:      session.NewLocker(),
		Detector:    language.NewDetector(cfg.Language.Supported),
		Translator:  translator,
		Transcriber: newTranscriber(cfg),
		Speaker:     speaker,
		Extractor:   extraction.NewExtractor(llmProvider, guards.llm, sysLogger),
		Generator:   response.NewGenerator(llmProvider, guards.llm, sysLogger),
		Guards: pipeline.Guards{
			Translate: guards.translate,
			Speech:    guards.speech,
			Embedding: guards.embedding,
		},
		Observer: c.Metrics,
		TopK:     cfg.Ai.FaqTopK,
		Logger:   sysLogger,
	})

	// 7. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	var forwarder service.EventForwarder
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			forwarder = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	var snapshotRepo contract.CustomerSnapshotRepository
	if db != nil {
		snapshotRepo = implementation.NewCustomerSnapshotRepository(db)
	}

	// 8. Services
	publisherService := service.NewPublisherService(service.CustomerEventsTopic, pubSub)
	c.ConsumerService = service.NewConsumerService(pubSub, service.CustomerEventsTopic, auditLogger, sysLogger, snapshotRepo, forwarder)

	assistantService := service.NewAssistantService(orchestrator, c.Knowledge, publisherService, sysLogger)
	adminService := service.NewAdminService(cfg.Admin, c.Knowledge, sessions, publisherService, sysLogger)

	// 9. Controllers
	c.AssistantController = controller.NewAssistantController(assistantService, audioFiles)
	c.AdminController = controller.NewAdminController(adminService, cfg.Admin.JwtSecret)

	c.closers = append(c.closers, func() {
		_ = sysLogger.Sync()
		_ = auditLogger.Sync()
	})

	return c, nil
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	if c.Watcher != nil {
		c.Watcher.Stop()
	}
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

type guardSet struct {
	llm       *backend.Guard
	translate *backend.Guard
	speech    *backend.Guard
	embedding *backend.Guard
}

func newGuards(cfg config.BackendConfig, m *metrics.Collector) guardSet {
	guard := func(gc backend.GuardConfig) *backend.Guard {
		if cfg.BreakerMinRequests > 0 {
			gc.MinRequests = uint32(cfg.BreakerMinRequests)
		}
		if cfg.BreakerCooldown > 0 {
			gc.Cooldown = cfg.BreakerCooldown
		}
		gc.OnStateChange = m.BreakerChanged
		return backend.NewGuard(gc, m.BackendFailed)
	}

	return guardSet{
		llm:       guard(backend.DefaultGuardConfig("llm", cfg.LLMTimeout)),
		translate: guard(backend.DefaultGuardConfig("translate", cfg.TranslateTimeout)),
		speech:    guard(backend.DefaultGuardConfig("speech", cfg.SpeechTimeout)),
		embedding: guard(backend.DefaultGuardConfig("embedding", cfg.EmbeddingTimeout)),
	}
}

func newLLMProvider(ctx context.Context, cfg *config.Config) (llm.LLMProvider, error) {
	apiKey := ""
	switch cfg.Ai.LLMProvider {
	case "openai":
		apiKey = cfg.Keys.OpenAI
	case "groq":
		apiKey = cfg.Keys.Groq
	case "huggingface":
		apiKey = cfg.Keys.HuggingFace
	case "gemini":
		apiKey = cfg.Keys.GoogleGemini
	}

	provider, err := factory.NewLLMProvider(ctx, factory.Config{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		BaseURL:  firstNonEmpty(cfg.Ai.LLMBaseURL, ollamaURL(cfg)),
		APIKey:   apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("llm provider: %w", err)
	}
	return provider, nil
}

func ollamaURL(cfg *config.Config) string {
	if cfg.Ai.LLMProvider == "ollama" {
		return cfg.Ai.OllamaBaseURL
	}
	return ""
}

func newEncoder(cfg *config.Config) (embedding.EmbeddingProvider, error) {
	switch cfg.Ai.EmbeddingProvider {
	case "ollama", "":
		return embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)
	case "gemini":
		return embedding.NewGeminiProvider(cfg.Keys.GoogleGemini), nil
	case "jina":
		return jina.NewJinaProvider(cfg.Keys.Jina), nil
	case "local":
		return local.NewHashingProvider(local.DefaultDimension), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Ai.EmbeddingProvider)
	}
}

func newVectorStore(kind string, db *gorm.DB) (func() search.VectorStore, error) {
	switch kind {
	case "pgvector":
		if db == nil {
			return nil, fmt.Errorf("FAQ_STORE=pgvector needs DB_CONNECTION_STRING")
		}
		// One table backs every generation.
		repo := implementation.NewFaqVectorRepository(db)
		return func() search.VectorStore { return repo }, nil
	case "memory", "":
		return func() search.VectorStore { return search.NewFlatStore() }, nil
	default:
		return nil, fmt.Errorf("unsupported FAQ store: %s", kind)
	}
}

func (c *Container) newSessionStore(ctx context.Context, cfg *config.Config) (store.SessionStore, error) {
	if cfg.Session.Backend != "redis" {
		return memory.NewSessionRepository(cfg.Session.TTL, cfg.Session.MaxEntries), nil
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: %w", err)
	}
	c.closers = append(c.closers, func() { _ = rdb.Close() })

	return redisRepo.NewSessionRepository(rdb, cfg.Session.TTL), nil
}

func newTranslator(ctx context.Context, cfg *config.Config, llmProvider llm.LLMProvider) (language.Translator, error) {
	if cfg.Language.Translator == "google" && cfg.Keys.GoogleCloud != "" {
		t, err := language.NewGoogleTranslator(ctx, cfg.Keys.GoogleCloud)
		if err != nil {
			return nil, fmt.Errorf("google translator: %w", err)
		}
		return t, nil
	}
	if cfg.Language.Translator == "google" {
		log.Printf("[WARN] GOOGLE_CLOUD_API_KEY is empty, translating with the LLM")
	}
	return language.NewLLMTranslator(llmProvider), nil
}

func newTranscriber(cfg *config.Config) speech.Transcriber {
	if cfg.Speech.STTProvider != "whisper" {
		return nil
	}
	switch {
	case cfg.Keys.OpenAI != "":
		return speech.NewWhisperTranscriber(cfg.Keys.OpenAI, "", "")
	case cfg.Keys.Groq != "":
		return speech.NewWhisperTranscriber(cfg.Keys.Groq, openai.GroqBaseURL, "whisper-large-v3")
	default:
		log.Printf("[WARN] No Whisper credentials, audio input is disabled")
		return nil
	}
}

// newSpeaker returns a nil speaker when TTS is off. The local store is
// also returned so the audio route can serve it.
func newSpeaker(cfg *config.Config) (pipeline.Speaker, controller.AudioFiles, error) {
	var synth speech.Synthesizer
	switch cfg.Speech.TTSProvider {
	case "google":
		synth = speech.NewGoogleTTS()
	case "elevenlabs":
		synth = speech.NewElevenLabsTTS(cfg.Keys.ElevenLabs, cfg.Speech.ElevenLabsVoiceID)
	case "none", "":
		return nil, nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported TTS provider: %s", cfg.Speech.TTSProvider)
	}

	if cfg.Speech.AudioStore == "s3" {
		s3Store, err := speech.NewS3Store(cfg.Speech.S3Region, cfg.Speech.S3Bucket, "audio/")
		if err != nil {
			return nil, nil, fmt.Errorf("s3 audio store: %w", err)
		}
		return speech.NewSpeaker(synth, s3Store), nil, nil
	}

	localStore, err := speech.NewLocalStore(cfg.Speech.AudioDir, cfg.App.BaseURL)
	if err != nil {
		return nil, nil, err
	}
	return speech.NewSpeaker(synth, localStore), localStore, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
