package bootstrap

import (
	"context"
	"log"

	"pairprep-be/internal/config"
	"pairprep-be/internal/controller"
	"pairprep-be/internal/handler"
	"pairprep-be/internal/pkg/logger"
	"pairprep-be/internal/pkg/mailer"
	"pairprep-be/internal/repository/unitofwork"
	"pairprep-be/internal/service"
	"pairprep-be/internal/websocket"
	pktNats "pairprep-be/pkg/nats"
	"pairprep-be/pkg/stream"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// cleanupTopic is the in-process bus topic carrying rollback/teardown reports.
const cleanupTopic = "session.cleanup"

type Container struct {
	// Controllers
	SessionController controller.ISessionController
	AuthController    controller.IAuthController
	UserController    controller.IUserController
	ChatController    controller.IChatController

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

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		cfg.App.ClientURL,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// Messaging platform
	streamClient := stream.NewClient(cfg.Stream.APIKey, cfg.Stream.APISecret, cfg.Stream.BaseURL)

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
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
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Services
	publisherService := service.NewPublisherService(cleanupTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cleanupTopic,
		uowFactory,
		sysLogger,
	)

	var eventPublisher service.IEventPublisher
	if natsPub != nil {
		eventPublisher = natsPub
	}

	authService := service.NewAuthService(uowFactory, emailService, eventPublisher, cfg.App.JwtSecret, sysLogger)
	userService := service.NewUserService(uowFactory, eventPublisher, sysLogger)
	chatService := service.NewChatService(uowFactory, streamClient, cfg.Stream.APIKey)

	sessionService := service.NewSessionService(
		uowFactory,
		streamClient,
		eventPublisher,
		publisherService,
		sysLogger,
	)

	// Background consumers driven by NATS
	if natsSub != nil {
		syncService := service.NewSyncService(natsSub, streamClient, sysLogger)
		go syncService.Start()

		notifService := service.NewNotificationService(natsSub, wsHub, wsLogger)
		go notifService.Start()
	}

	// Handler
	notifHandler := handler.NewNotificationHandler(wsHub, cfg.App.JwtSecret, wsLogger)

	// 4. Controllers
	return &Container{
		SessionController: controller.NewSessionController(sessionService),
		AuthController:    controller.NewAuthController(authService),
		UserController:    controller.NewUserController(userService),
		ChatController:    controller.NewChatController(chatService),

		ConsumerService: consumerService,

		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,
	}
}
