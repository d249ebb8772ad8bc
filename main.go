package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campus-portal/internal/actions"
	"campus-portal/internal/analytics"
	analytics_api "campus-portal/internal/analytics/api"
	"campus-portal/internal/clock"
	"campus-portal/internal/config"
	"campus-portal/internal/database"
	event_db "campus-portal/internal/events/db"
	"campus-portal/internal/events/event_api"
	"campus-portal/internal/events/markup"
	events "campus-portal/internal/events/service"
	"campus-portal/internal/kafka"
	"campus-portal/internal/logger"
	"campus-portal/internal/metrics"
	"campus-portal/internal/notification"
	"campus-portal/internal/notification/notification_api"
	"campus-portal/internal/registration"
	registration_db "campus-portal/internal/registration/db"
	"campus-portal/internal/registration/pass"
	rediswrap "campus-portal/internal/registration/redis"
	"campus-portal/internal/registration/registration_api"
	"campus-portal/internal/scheduler"
	"campus-portal/internal/sse"
	"campus-portal/internal/utils"
	"campus-portal/internal/web"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun"
)

func verifyDatabase(ctx context.Context, cfg *config.Config, logger *logger.Logger) *bun.DB {
	var bunDB *bun.DB
	var err error
	maxRetries := 5

	for i := 0; i < maxRetries; i++ {
		logger.Info("DATABASE", fmt.Sprintf("Attempting to connect to %s (attempt %d/%d)", cfg.Database.Driver, i+1, maxRetries))
		bunDB, err = database.Open(cfg.Database)
		if err == nil {
			err = bunDB.PingContext(ctx)
		}
		if err == nil {
			break
		}

		logger.Error("DATABASE", fmt.Sprintf("Failed to connect to %s: %v", cfg.Database.Driver, err))
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		logger.Fatal("DATABASE", fmt.Sprintf("Failed to connect after %d attempts: %v", maxRetries, err))
	}

	if err := database.EnsureSchema(ctx, bunDB, cfg.Database.Driver); err != nil {
		logger.Fatal("DATABASE", fmt.Sprintf("Failed to prepare schema: %v", err))
	}
	logger.Info("DATABASE", fmt.Sprintf("✅ %s connection successful", cfg.Database.Driver))
	return bunDB
}

// seedCatalog replaces the stored catalog with the cards found in the markup file.
func seedCatalog(ctx context.Context, path string, db *event_db.DB, logger *logger.Logger) {
	f, err := os.Open(path)
	if err != nil {
		logger.Error("SEED", fmt.Sprintf("Failed to open %s: %v", path, err))
		return
	}
	defer f.Close()

	records, err := markup.ParseEvents(f)
	if err != nil {
		logger.Error("SEED", err.Error())
		return
	}
	if err := db.ReplaceEvents(ctx, records); err != nil {
		logger.Error("SEED", fmt.Sprintf("Failed to store events: %v", err))
		return
	}
	logger.Info("SEED", fmt.Sprintf("Loaded %d events from %s", len(records), path))
}

func connectRedis(ctx context.Context, cfg config.RedisConfig, logger *logger.Logger) *redis.Client {
	if !cfg.Enabled {
		logger.Info("REDIS", "Registration lock disabled")
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("REDIS", fmt.Sprintf("Redis unavailable at %s, continuing without registration lock: %v", cfg.Addr, err))
		client.Close()
		return nil
	}
	logger.Info("REDIS", fmt.Sprintf("✅ Redis connection successful to %s", cfg.Addr))
	return client
}

func connectKafka(cfg config.KafkaConfig, logger *logger.Logger) *kafka.Producer {
	if !cfg.Enabled {
		logger.Info("KAFKA", "Registration events disabled")
		return nil
	}
	if err := kafka.EnsureTopicsExist(cfg.Brokers, []string{cfg.Topics.RegistrationCompleted}); err != nil {
		logger.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
	} else {
		logger.Info("KAFKA", "Required topics ensured successfully")
	}
	return kafka.NewProducer(cfg.Brokers, cfg.Topics.RegistrationCompleted, logger)
}

func main() {
	logger := logger.NewLogger()
	defer logger.Close()

	logger.Info("APP", "Starting Campus Clubs Portal")

	if err := godotenv.Load(); err != nil {
		logger.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		logger.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()
	ctx := context.Background()
	clk := clock.NewSystem(cfg.Portal.Location())

	bunDB := verifyDatabase(ctx, cfg, logger)
	defer bunDB.Close()

	eventDB := &event_db.DB{Bun: bunDB}
	if cfg.Portal.EventsMarkupPath != "" {
		seedCatalog(ctx, cfg.Portal.EventsMarkupPath, eventDB, logger)
	}

	eventService := events.NewEventService(eventDB, clk, logger)
	if err := eventService.Load(ctx); err != nil {
		logger.Fatal("DATABASE", fmt.Sprintf("Failed to load event catalog: %v", err))
	}
	logger.Info("APP", fmt.Sprintf("Event catalog ready with %d events", len(eventService.Records())))

	sched := scheduler.New()

	emitter := sse.NewNotificationEmitter()
	emitter.OnClientCountChange(metrics.SetSSEClients)

	presenter := notification.NewPresenter(sched, emitter, clk, logger, cfg.Portal.NotificationTTL)
	actionService := actions.NewService(presenter, rand.New(rand.NewSource(time.Now().UnixNano())))

	simulator := registration.NewSimulator(
		eventService,
		&registration_db.DB{Bun: bunDB},
		presenter,
		sched,
		clk,
		logger,
		registration.Delays{
			Events:    cfg.Portal.EventRegistrationDelay,
			Dashboard: cfg.Portal.QuickRegistrationDelay,
		},
	)
	simulator.Passes = pass.NewGenerator(cfg.Portal.PassSecret)

	if redisClient := connectRedis(ctx, cfg.Redis, logger); redisClient != nil {
		defer redisClient.Close()
		simulator.Locker = rediswrap.NewLock(redisClient)
	}

	producer := connectKafka(cfg.Kafka, logger)
	if producer != nil {
		simulator.Publisher = producer
	}

	analyticsService := analytics.NewService(analytics.NewDB(bunDB), eventService)

	eventHandler := event_api.NewHandler(eventService, logger)
	registrationHandler := registration_api.NewHandler(simulator, logger)
	notificationHandler := notification_api.NewHandler(presenter, emitter, actionService, logger)
	analyticsHandler := analytics_api.NewHandler(analyticsService, logger)
	webHandler := web.NewHandler(eventService, analyticsService, simulator, actionService, presenter, logger)

	logger.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()
	r.Use(utils.RequestLogger(logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("OK", nil))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/events", func(r chi.Router) {
			eventHandler.RegisterRoutes(r)
			registrationHandler.RegisterRoutes(r)
		})
		logger.Info("ROUTER", "Event and registration routes registered under /api/events")

		r.Route("/registrations", registrationHandler.RegisterPassRoutes)
		notificationHandler.RegisterRoutes(r)
		analyticsHandler.RegisterRoutes(r)
		logger.Info("ROUTER", "Notification, action and analytics routes registered under /api")
	})

	webHandler.RegisterRoutes(r)

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("HTTP", fmt.Sprintf("🚀 Campus Clubs Portal running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	logger.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	logger.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	}
	sched.Stop()
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("KAFKA", fmt.Sprintf("Failed to close producer: %v", err))
		}
	}
	logger.Info("HTTP", "✅ Campus Clubs Portal shutdown complete")
}
