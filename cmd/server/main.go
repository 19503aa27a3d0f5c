package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trip-chat-service/configs"
	"trip-chat-service/internal/adapters/database"
	"trip-chat-service/internal/adapters/kafka"
	"trip-chat-service/internal/adapters/objectstore"
	redisadapter "trip-chat-service/internal/adapters/redis"
	"trip-chat-service/internal/api/handlers"
	"trip-chat-service/internal/api/routes"
	"trip-chat-service/internal/archive"
	"trip-chat-service/internal/auth"
	"trip-chat-service/internal/directmsg"
	"trip-chat-service/internal/groupmsg"
	"trip-chat-service/internal/notification"
	"trip-chat-service/internal/ratelimit"
	"trip-chat-service/internal/realtime"
)

func main() {
	cfg := configs.Load()

	slog.Info("Starting realtime chat service")

	rdb, err := redisadapter.NewClient(cfg.Redis.URL)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer rdb.Close()

	db, err := database.NewMySQLDB(
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
	)
	if err != nil {
		slog.Error("Failed to connect to MySQL", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		slog.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}

	// Archive sink, nil when Kafka is disabled
	var sink archive.Sink
	if cfg.Kafka.Enabled {
		producer, err := kafka.NewSyncProducer(cfg.Kafka.Brokers)
		if err != nil {
			slog.Error("Failed to connect to Kafka", "error", err)
			os.Exit(1)
		}
		defer producer.Close()
		sink = archive.NewPublisher(producer, cfg.Kafka.Topic)
	}

	var attachmentStore *objectstore.Client
	if cfg.Storage.Enabled {
		attachmentStore, err = objectstore.NewClient(
			cfg.Storage.Endpoint,
			cfg.Storage.AccessKey,
			cfg.Storage.SecretKey,
			cfg.Storage.Bucket,
		)
		if err != nil {
			slog.Error("Failed to connect to object storage", "error", err)
			os.Exit(1)
		}
	}

	// The connection layer is constructed before anything that can emit,
	// then installed in the registry exactly once.
	hub := realtime.NewHub(rdb)
	registry := notification.NewRegistry()
	registry.SetBroadcaster(hub)

	limiter := ratelimit.NewLimiter(ratelimit.NewGormStore(db), ratelimit.Config{
		MinuteLimit:   cfg.RateLimit.MinutePerUser,
		DailyLimit:    cfg.RateLimit.DailyPerUser,
		BlockDuration: time.Duration(cfg.RateLimit.BlockSeconds) * time.Second,
		DailyWindow:   time.Duration(cfg.RateLimit.DailyWindowMin) * time.Minute,
	})

	directService := directmsg.NewService(directmsg.NewRepository(db), hub, sink)
	groupService := groupmsg.NewService(
		groupmsg.NewRosterRepository(db),
		groupmsg.NewMessageRepository(db),
		hub,
		sink,
	)
	dispatcher := notification.NewDispatcher(notification.NewRepository(db), registry)

	hub.SetRouter(realtime.NewRouter(hub, directService, groupService, limiter))
	go hub.Run()

	authenticator := auth.NewAuthenticator(
		auth.NewTokenVerifier(cfg.JWT.Secret),
		auth.NewRevocationChecker(rdb),
	)

	upgrader := realtime.NewUpgrader(cfg.Server.AllowedOrigins)
	router := routes.NewRouter(
		cfg.Server.AllowedOrigins,
		authenticator,
		handlers.NewWebSocketHandler(hub, upgrader, cfg.RateLimit.ConnBurstPerSec),
		handlers.NewMessageHandler(directService, groupService),
		handlers.NewNotificationHandler(dispatcher),
		handlers.NewAttachmentHandler(attachmentStore),
	)
	router.SetupRoutes()

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		slog.Info("Server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	hub.Stop()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server stopped")
}
