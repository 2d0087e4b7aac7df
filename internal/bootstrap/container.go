package bootstrap

import (
	"context"
	"log"
	"time"

	"rap-for-money-be/internal/config"
	"rap-for-money-be/internal/controller"
	"rap-for-money-be/internal/handler"
	"rap-for-money-be/internal/metrics"
	"rap-for-money-be/internal/pkg/logger"
	"rap-for-money-be/internal/pkg/mailer"
	"rap-for-money-be/internal/repository/implementation"
	"rap-for-money-be/internal/repository/memory"
	"rap-for-money-be/internal/repository/unitofwork"
	"rap-for-money-be/internal/service"
	"rap-for-money-be/internal/signaling"
	"rap-for-money-be/internal/websocket"
	"rap-for-money-be/pkg/presence"

	pktNats "rap-for-money-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const trendingTopic = "trending.recompute"

type Container struct {
	// Controllers
	AuthController       controller.IAuthController
	UserController       controller.IUserController
	PostController       controller.IPostController
	CommentController    controller.ICommentController
	TipController        controller.ITipController
	LivestreamController controller.ILivestreamController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	Relay           *signaling.Relay
	Sweeper         *service.StreamExpirySweeper

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub

	Metrics *metrics.Metrics
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

	// Metrics & Signaling Relay
	m := metrics.New()
	relay := signaling.NewRelay(
		time.Duration(cfg.Stream.SignalRetentionSeconds)*time.Second,
		sysLogger,
		m,
	)

	hostCache := memory.NewHostCache()
	presenceTracker := presence.NewTracker(rdb)

	// 3. Services
	publisherService := service.NewPublisherService(trendingTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		trendingTopic,
		uowFactory,
		sysLogger,
	)

	authService := service.NewAuthService(uowFactory, emailService, natsPub, sysLogger)
	userService := service.NewUserService(uowFactory, hostCache, natsPub, sysLogger)
	postService := service.NewPostService(uowFactory, publisherService, natsPub, sysLogger)
	commentService := service.NewCommentService(uowFactory, publisherService, natsPub, sysLogger)
	tipService := service.NewTipService(uowFactory, publisherService, natsPub, sysLogger)

	livestreamService := service.NewLivestreamService(
		uowFactory,
		relay,
		hostCache,
		presenceTracker,
		natsPub,
		m,
		sysLogger,
		cfg.Stream,
	)
	// The relay gates publish and poll on live session state.
	relay.SetChecker(livestreamService)

	sweeper := service.NewStreamExpirySweeper(
		livestreamService,
		time.Duration(cfg.Stream.ExpirySweepSeconds)*time.Second,
		sysLogger,
	)

	// 3.5 Notification System Infrastructure
	notifRepo := implementation.NewNotificationRepository(db)
	notifService := service.NewNotificationService(notifRepo, natsSub, wsHub, wsLogger)

	// Start Service (Worker)
	if natsSub != nil {
		go notifService.Start()
	}

	// Handler
	notifHandler := handler.NewNotificationHandler(notifService, wsHub, wsLogger)

	// 4. Controllers
	return &Container{
		AuthController:       controller.NewAuthController(authService),
		UserController:       controller.NewUserController(userService, cfg.App.UploadDir),
		PostController:       controller.NewPostController(postService, cfg.App.UploadDir),
		CommentController:    controller.NewCommentController(commentService),
		TipController:        controller.NewTipController(tipService),
		LivestreamController: controller.NewLivestreamController(livestreamService),

		ConsumerService: consumerService,
		Relay:           relay,
		Sweeper:         sweeper,

		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,

		Metrics: m,
	}
}
