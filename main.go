package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"portfolio/config"
	"portfolio/cron"
	"portfolio/database"
	bookingRepo "portfolio/database/repository/booking"
	catalogRepo "portfolio/database/repository/catalog"
	memoryRepo "portfolio/database/repository/memory"
	purchaseRepo "portfolio/database/repository/purchase"
	"portfolio/handlers"
	"portfolio/middleware"
	"portfolio/routes"
	"portfolio/services/booking"
	"portfolio/services/notification"
	"portfolio/services/payment"
	"portfolio/services/purchase"
	"portfolio/services/storage"
	"portfolio/services/tasks"
	"portfolio/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type stores struct {
	bookings  bookingRepo.BookingRepository
	purchases purchaseRepo.PurchaseRepository
	catalog   catalogRepo.CatalogRepository
	mongo     *mongo.Client
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("main: invalid configuration: %v", err)
	}
	logger, err := utils.NewLogger(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("main: failed to build logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("main: failed to open storage", zap.Error(err))
	}

	// Redis backs the availability cache and the task queue. Outside
	// production the server degrades to no cache, no emails and an
	// in-process expiry sweep.
	var (
		cacheClient *redis.Client
		slotCache   booking.SlotCache
		dispatcher  *tasks.Dispatcher
		queue       *asynq.Client
	)
	cacheClient, err = utils.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisCacheDB)
	if err != nil {
		if cfg.IsProduction() {
			logger.Fatal("main: redis unavailable", zap.Error(err))
		}
		logger.Warn("redis unavailable, running without cache and background tasks", zap.Error(err))
		cacheClient = nil
	}
	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisQueueDB}
	if cacheClient != nil {
		slotCache = booking.NewRedisSlotCache(cacheClient, cfg.AvailabilityCacheTTL, logger)
		queue = asynq.NewClient(redisOpts)
		defer queue.Close()
		dispatcher = tasks.NewDispatcher(queue, logger)
		go cron.MonitorRedis(ctx, cacheClient, 30*time.Second, logger)
	}

	var (
		gateway  payment.OrderGateway
		webhooks payment.WebhookParser
	)
	if cfg.StripeKey != "" {
		stripeGateway := payment.NewStripeGateway(cfg.StripeKey, cfg.StripeWebhookSecret, cfg.GatewayTimeout, logger)
		gateway = stripeGateway
		if cfg.StripeWebhookSecret != "" {
			webhooks = stripeGateway
		}
	} else {
		if cfg.IsProduction() {
			logger.Fatal("main: STRIPE_KEY is required in production")
		}
		logger.Warn("STRIPE_KEY not set, using the local payment gateway")
		gateway = payment.NewLocalGateway()
	}
	verifier := payment.NewSignatureVerifier(cfg.PaymentKeySecret)

	var files purchase.FileLocator
	if cfg.CloudinaryURL != "" {
		cld, err := storage.NewCloudinaryFiles(cfg.CloudinaryURL)
		if err != nil {
			logger.Fatal("main: failed to initialize cloudinary", zap.Error(err))
		}
		files = cld
	}

	var owner notification.OwnerNotifier = notification.NoopOwnerNotifier{}
	if cfg.FirebaseCredentials != "" {
		fcm, err := notification.NewFCMOwnerNotifier(ctx, cfg.FirebaseCredentials, cfg.OwnerAlertTopic)
		if err != nil {
			logger.Error("owner push alerts disabled", zap.Error(err))
		} else {
			owner = fcm
		}
	}
	notifier := &notification.DefaultNotificationService{
		Mailer:   notification.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.EmailFrom),
		Owner:    owner,
		Location: cfg.Location(),
		Logger:   logger,
	}

	bookingSvc := booking.NewBookingService(booking.DefaultBookingService{
		Repo:     st.bookings,
		Catalog:  st.catalog,
		Gateway:  gateway,
		Verifier: verifier,
		Cache:    slotCache,
		Events:   bookingEvents(dispatcher),
		Policy: booking.Policy{
			Location:    cfg.Location(),
			MeetingLink: cfg.MeetingLink,
			PendingTTL:  cfg.PendingBookingTTL,
		},
		Logger: logger,
	})
	purchaseSvc := purchase.NewPurchaseService(purchase.DefaultPurchaseService{
		Repo:     st.purchases,
		Catalog:  st.catalog,
		Gateway:  gateway,
		Verifier: verifier,
		Files:    files,
		Events:   purchaseEvents(dispatcher),
		Policy: purchase.Policy{
			ClientURL:    cfg.ClientURL,
			LinkTTL:      cfg.DownloadLinkTTL,
			PurchaseTTL:  cfg.PurchaseTTL,
			MaxDownloads: cfg.MaxDownloads,
		},
		Logger: logger,
	})

	if dispatcher != nil {
		worker := cron.NewWorker(redisOpts, notifier, bookingSvc, logger)
		if err := worker.Start(); err != nil {
			logger.Fatal("main: failed to start task worker", zap.Error(err))
		}
		defer worker.Shutdown()
	} else {
		go cron.SweepPending(ctx, bookingSvc, cron.SweepInterval, logger)
	}

	health := &handlers.HealthHandler{Checks: map[string]handlers.HealthCheck{}}
	if st.mongo != nil {
		health.Checks["mongo"] = func(ctx context.Context) error { return st.mongo.Ping(ctx, nil) }
	}
	if cacheClient != nil {
		health.Checks["redis"] = func(ctx context.Context) error { return cacheClient.Ping(ctx).Err() }
	}

	hb := handlers.NewHandlerBundle([]byte(cfg.JWTSecret),
		handlers.NewBookingHandler(bookingSvc),
		handlers.NewPaymentHandler(purchaseSvc, bookingSvc, webhooks),
		health)

	router := gin.New()
	if err := middleware.TrustProxies(router, cfg.TrustedProxies); err != nil {
		logger.Fatal("main: failed to configure trusted proxies", zap.Error(err))
	}
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin, logger))
	routes.RegisterRoutes(router, hb, cfg.ClientURL)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr), zap.String("storage", cfg.StorageDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("main: server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	if st.mongo != nil {
		_ = st.mongo.Disconnect(shutdownCtx)
	}
	if cacheClient != nil {
		_ = cacheClient.Close()
	}
}

func openStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*stores, error) {
	if cfg.StorageDriver == "memory" {
		catalog := memoryRepo.NewCatalogStore()
		for _, svc := range cfg.Catalog.Services {
			catalog.PutService(svc)
		}
		for _, res := range cfg.Catalog.Resources {
			catalog.PutResource(res)
		}
		logger.Info("using in-memory storage",
			zap.Int("services", len(cfg.Catalog.Services)), zap.Int("resources", len(cfg.Catalog.Resources)))
		return &stores{
			bookings:  memoryRepo.NewBookingStore(),
			purchases: memoryRepo.NewPurchaseStore(),
			catalog:   catalog,
		}, nil
	}

	client, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.DatabaseName)
	bookings, err := bookingRepo.NewMongoBookingRepo(db)
	if err != nil {
		return nil, err
	}
	purchases, err := purchaseRepo.NewMongoPurchaseRepo(db)
	if err != nil {
		return nil, err
	}
	catalog, err := catalogRepo.NewMongoCatalogRepo(db)
	if err != nil {
		return nil, err
	}
	logger.Info("connected to mongo", zap.String("database", cfg.DatabaseName))
	return &stores{bookings: bookings, purchases: purchases, catalog: catalog, mongo: client}, nil
}

// bookingEvents and purchaseEvents keep a nil dispatcher from becoming a
// non-nil interface holding a nil pointer.
func bookingEvents(d *tasks.Dispatcher) booking.Events {
	if d == nil {
		return nil
	}
	return d
}

func purchaseEvents(d *tasks.Dispatcher) purchase.Events {
	if d == nil {
		return nil
	}
	return d
}
