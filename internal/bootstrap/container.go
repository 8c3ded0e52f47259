package bootstrap

import (
	"context"
	"log"
	"time"

	"careercoach-be/internal/config"
	"careercoach-be/internal/controller"
	"careercoach-be/internal/handler"
	"careercoach-be/internal/pkg/logger"
	"careercoach-be/internal/repository/memory"
	"careercoach-be/internal/repository/unitofwork"
	"careercoach-be/internal/service"
	"careercoach-be/internal/websocket"
	"careercoach-be/pkg/coach/policy"
	"careercoach-be/pkg/genai"

	pkgNats "careercoach-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	SessionController       controller.ISessionController
	DeepInterviewController controller.IDeepInterviewController
	MockInterviewController controller.IMockInterviewController
	SimulationController    controller.ISimulationController
	HomeController          controller.IHomeController
	ProjectController       controller.IProjectController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Generation Adapter
	// Without an API key every mode still works on its deterministic
	// fallbacks, so a missing key is a warning, not a fatal.
	var aiAdapter *genai.Adapter
	if cfg.Ai.GeminiAPIKey != "" {
		generator := genai.NewGeminiGenerator(cfg.Ai.GeminiAPIKey, cfg.Ai.GeminiModel)
		aiAdapter = genai.NewAdapter(generator, time.Duration(cfg.Ai.RequestTimeout)*time.Second)
		log.Printf("[INFO] Using Generation Provider: GEMINI (%s)", cfg.Ai.GeminiModel)
	} else {
		aiAdapter = genai.NewDisabledAdapter()
		log.Printf("[WARN] GOOGLE_GEMINI_API_KEY not set, generation disabled (fallback content only)")
	}

	// 4. Infrastructure
	// NATS
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis
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
	wsHub := websocket.NewHub(rdb, sysLogger)
	go wsHub.Run()

	publisherService := service.NewPublisherService(pubSub, cfg.App.SessionEventsTopic)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.SessionEventsTopic,
		wsHub,
		sysLogger,
	)

	// 5. Mode Policies
	deepPolicy := policy.NewDeepInterview(aiAdapter, cfg.Coach.DeepInterviewQuestions)
	mockPolicy := policy.NewMockInterview(cfg.Coach.MockInterviewQuestions)
	simPolicy := policy.NewJobSimulation(aiAdapter, cfg.Coach.SimulationMaxTurns)
	registry := policy.NewRegistry(deepPolicy, mockPolicy, simPolicy)

	// 6. Services
	sessionService := service.NewSessionService(uowFactory, registry, publisherService, natsPub, sysLogger)
	deepInterviewService := service.NewDeepInterviewService(sessionService, deepPolicy)
	mockInterviewService := service.NewMockInterviewService(sessionService, mockPolicy)
	simulationService := service.NewSimulationService(sessionService, simPolicy)
	homeService := service.NewHomeService(uowFactory, memory.NewDashboardCache(60*time.Second), sysLogger)
	projectService := service.NewProjectService(uowFactory, sysLogger)

	// Handler
	notifHandler := handler.NewNotificationHandler(natsPub, wsHub, sysLogger)

	return &Container{
		NotificationHandler:     notifHandler,
		WebSocketHub:            wsHub,
		SessionController:       controller.NewSessionController(sessionService),
		DeepInterviewController: controller.NewDeepInterviewController(deepInterviewService),
		MockInterviewController: controller.NewMockInterviewController(mockInterviewService),
		SimulationController:    controller.NewSimulationController(simulationService),
		HomeController:          controller.NewHomeController(homeService),
		ProjectController:       controller.NewProjectController(projectService),

		ConsumerService: consumerService,
	}
}
