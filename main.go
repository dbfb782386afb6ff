package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"caretrust/app"
	"caretrust/config"
	"caretrust/cron"
	"caretrust/database"
	bookingRepo "caretrust/database/repository/booking"
	counterRepo "caretrust/database/repository/counter"
	incidentRepo "caretrust/database/repository/incident"
	"caretrust/database/repository/memstore"
	metricsRepo "caretrust/database/repository/metrics"
	notificationRepo "caretrust/database/repository/notification"
	rankingRepo "caretrust/database/repository/ranking"
	reviewRepo "caretrust/database/repository/review"
	userRepo "caretrust/database/repository/user"
	"caretrust/handlers"
	"caretrust/metrics"
	"caretrust/middleware"
	"caretrust/routes"
	"caretrust/services/escalation"
	"caretrust/services/tasks"
	"caretrust/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()
	metrics.Init()

	cfg := config.AppConfig
	if cfg.JWTSecret == "" {
		logger.Fatal("main: JWT_SECRET must be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// repositories.
	var (
		repos       app.Repositories
		mongoClient *mongo.Client
	)
	if config.InMemory() {
		logger.Warn("main: running with in-memory storage; data is lost on exit")
		repos = app.MemoryRepositories(memstore.New())
	} else {
		client, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("main: mongo unavailable", zap.Error(err))
		}
		mongoClient = client
		if err := utils.InitCache(); err != nil {
			logger.Fatal("main: redis unavailable", zap.Error(err))
		}
		repos, err = mongoRepositories(mongoClient.Database(cfg.DatabaseName), utils.CacheClient)
		if err != nil {
			logger.Fatal("main: mongo indexes unavailable", zap.Error(err))
		}
	}
	repos.Counter = selectCounter(cfg.CounterBackend, repos, mongoClient, logger)

	// services.
	opts := app.Options{
		WindowDays:    cfg.MetricsWindowDays,
		Workers:       cfg.MetricsWorkers,
		TaskTimeout:   cfg.MetricsTaskTimeout,
		SnapshotLimit: cfg.RollupSnapshotLimit,
		Pusher:        newPusher(ctx, cfg, logger),
		Logger:        logger,
	}
	var queueClient *asynq.Client
	if !config.InMemory() {
		queueClient = asynq.NewClient(cron.RedisQueueOpt())
		opts.Dispatcher = tasks.NewAsynqDispatcher(queueClient)
	}
	engine := app.Build(repos, opts)

	// background work.
	var (
		worker    *asynq.Server
		scheduler *asynq.Scheduler
	)
	if config.InMemory() {
		if _, err := cron.StartLocalScheduler(ctx, cfg.MetricsCron, func(ctx context.Context) {
			runCtx, cancel := context.WithTimeout(ctx, cfg.MetricsRunTimeout)
			defer cancel()
			_, _ = engine.Triggers.OnScheduledMetrics(runCtx)
		}, logger); err != nil {
			logger.Fatal("main: invalid metrics schedule", zap.Error(err))
		}
		utils.ReportInMemoryStore()
	} else {
		worker = cron.StartWorker(ctx, cron.RedisQueueOpt(), engine.Mux, cfg.WorkerConcurrency, logger)
		s, err := cron.StartScheduler(cron.RedisQueueOpt(), cfg.MetricsCron, cfg.MetricsRunTimeout, logger)
		if err != nil {
			logger.Fatal("main: scheduler failed to start", zap.Error(err))
		}
		scheduler = s
		utils.StartHealthMonitor(ctx, 60*time.Second, []*redis.Client{utils.CacheClient, utils.QueueClient}, mongoClient, logger)
	}

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin, logger))

	secret := []byte(cfg.JWTSecret)
	routes.RegisterRoutes(router, &handlers.HandlerBundle{
		Events:      handlers.NewEventHandler(engine.Triggers),
		Incidents:   handlers.NewIncidentHandler(engine.Incidents),
		Quality:     handlers.NewQualityHandler(engine.Quality),
		Admin:       handlers.NewAdminHandler(engine.Publisher, logger),
		AdminAuth:   middleware.JWTAuthAdminMiddleware(secret),
		ServiceAuth: middleware.JWTAuthMiddleware(secret, "admin", "service"),
	})

	// Start the HTTP server.
	srv := &http.Server{
		Addr:    "0.0.0.0:" + cfg.AppPort,
		Handler: router,
	}
	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	if scheduler != nil {
		scheduler.Shutdown()
	}
	if worker != nil {
		worker.Shutdown()
	}
	if queueClient != nil {
		queueClient.Close()
	}
	utils.CloseCache()
	if mongoClient != nil {
		_ = mongoClient.Disconnect(shutdownCtx)
	}
	logger.Info("main: server stopped gracefully")
}

func mongoRepositories(db *mongo.Database, cache *redis.Client) (app.Repositories, error) {
	reviews, err := reviewRepo.NewMongoReviewRepo(db)
	if err != nil {
		return app.Repositories{}, err
	}
	incidents, err := incidentRepo.NewMongoIncidentRepo(db)
	if err != nil {
		return app.Repositories{}, err
	}
	return app.Repositories{
		Users:         userRepo.NewMongoUserRepo(db),
		Bookings:      bookingRepo.NewMongoBookingRepo(db),
		Reviews:       reviews,
		Incidents:     incidents,
		Notifications: notificationRepo.NewMongoNotificationRepo(db),
		Metrics:       metricsRepo.NewMongoMetricsRepo(db),
		Counter:       counterRepo.NewMongoSequenceStore(db),
		Ranking:       rankingRepo.NewRedisRanking(cache),
	}, nil
}

// selectCounter picks the incident sequence backend named by COUNTER_BACKEND.
func selectCounter(backend string, repos app.Repositories, mongoClient *mongo.Client, logger *zap.Logger) counterRepo.SequenceStore {
	switch backend {
	case "redis":
		if utils.CacheClient == nil {
			if err := utils.InitCache(); err != nil {
				logger.Fatal("main: redis counter backend unavailable", zap.Error(err))
			}
		}
		return counterRepo.NewRedisSequenceStore(utils.CacheClient)
	case "memory":
		return memstore.NewSequenceStore()
	default:
		if mongoClient == nil {
			logger.Warn("main: mongo counter requested without mongo; using the in-memory counter")
		}
		return repos.Counter
	}
}

func newPusher(ctx context.Context, cfg config.Config, logger *zap.Logger) escalation.Pusher {
	if !cfg.PushEnabled {
		return escalation.NopPusher{}
	}
	client, err := utils.NewMessagingClient(ctx, cfg.FirebaseCredentialsFile)
	if err != nil {
		logger.Error("main: push disabled", zap.Error(err))
		return escalation.NopPusher{}
	}
	return escalation.NewFCMPusher(client)
}
