package bootstrap

import (
	"context"
	"log"
	"time"

	"recruit-assist-be/internal/config"
	"recruit-assist-be/internal/controller"
	"recruit-assist-be/internal/pkg/logger"
	"recruit-assist-be/internal/pkg/mailer"
	"recruit-assist-be/internal/repository/contract"
	"recruit-assist-be/internal/repository/implementation"
	"recruit-assist-be/internal/repository/memory"
	"recruit-assist-be/internal/repository/redisstore"
	"recruit-assist-be/internal/service"
	"recruit-assist-be/internal/websocket"
	"recruit-assist-be/pkg/bus"
	"recruit-assist-be/pkg/knowledge"
	"recruit-assist-be/pkg/llm/factory"
	"recruit-assist-be/pkg/rag"

	pktNats "recruit-assist-be/pkg/nats"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController  controller.IChatController
	AgentController controller.IAgentController

	// WebSockets & Notification
	WebSocketHub    *websocket.Hub
	NotifierService *service.NotifierService

	// Shared infrastructure (exposed for main.go shutdown)
	EventBus *bus.Bus
	Logger   logger.ILogger
}

// NewContainer wires the whole assistant subsystem. db may be nil; handoff
// and relay state then live in process memory, which is fine for local runs
// and tests but loses the transcript on restart.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	var emailService mailer.IEmailService
	if cfg.SMTP.Host != "" {
		emailService = mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.Email,
			cfg.SMTP.SenderName,
		)
	}

	// 2. Event Bus
	eventBus := bus.New()

	// 3. Domain engines
	llmProvider, err := factory.NewProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.HuggingFaceAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	var docs []knowledge.Document
	if cfg.Chat.KnowledgeCorpusPath != "" {
		docs, err = knowledge.LoadFile(cfg.Chat.KnowledgeCorpusPath)
		if err != nil {
			// A broken corpus degrades to empty retrieval, never a crash.
			log.Printf("[WARN] Failed to load knowledge corpus from %s: %v", cfg.Chat.KnowledgeCorpusPath, err)
			docs = nil
		}
	} else {
		docs = knowledge.DefaultCorpus()
	}
	base := knowledge.New(docs)

	generator := rag.NewGenerator(base, llmProvider, time.Duration(cfg.Ai.TimeoutSeconds)*time.Second, sysLogger)

	// 3.5 Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		rdb = nil
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/alerts.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 4. Repositories
	sessionTTL := time.Duration(cfg.Chat.SessionTTLMinutes) * time.Minute
	var sessionRepo contract.SessionRepository
	if cfg.Chat.SessionStore == "redis" && rdb != nil {
		sessionRepo = redisstore.NewSessionRepository(rdb, sessionTTL)
		log.Printf("[INFO] Using Session Store: REDIS")
	} else {
		sessionRepo = memory.NewSessionRepository(sessionTTL)
		log.Printf("[INFO] Using Session Store: MEMORY")
	}

	var handoffRepo contract.HandoffRepository
	var relayRepo contract.RelayMessageRepository
	if db != nil {
		handoffRepo = implementation.NewHandoffRepository(db)
		relayRepo = implementation.NewRelayMessageRepository(db)
	} else {
		log.Printf("[WARN] No database configured, handoff/relay state is process-local")
		handoffRepo = memory.NewHandoffRepository()
		relayRepo = memory.NewRelayMessageRepository()
	}

	// 5. Services
	locks := service.NewChatLocks()
	sessionService := service.NewSessionService(sessionRepo)
	relayService := service.NewRelayService(relayRepo)
	handoffService := service.NewHandoffService(handoffRepo, relayService, sessionService, locks, eventBus, sysLogger)
	chatService := service.NewChatService(sessionService, relayService, handoffRepo, generator, locks, sysLogger)

	notifierService := service.NewNotifierService(eventBus, emailService, natsPub, wsHub, cfg.SMTP.AlertEmail, sysLogger)
	if err := notifierService.Start(context.Background()); err != nil {
		log.Printf("[WARN] Failed to start notifier: %v", err)
	}

	// 6. Controllers
	return &Container{
		ChatController:  controller.NewChatController(chatService, sessionService, handoffService, relayService),
		AgentController: controller.NewAgentController(handoffService, relayService, wsHub),
		WebSocketHub:    wsHub,
		NotifierService: notifierService,
		EventBus:        eventBus,
		Logger:          sysLogger,
	}
}
