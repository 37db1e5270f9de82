package main

import (
	"complaintdesk/backend/internal/api/handler"
	"complaintdesk/backend/internal/auth"
	"complaintdesk/backend/internal/complaint"
	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/covid"
	"complaintdesk/backend/internal/feed"
	"complaintdesk/backend/internal/localization"
	"complaintdesk/backend/internal/logger"
	"complaintdesk/backend/internal/storage"
	"complaintdesk/backend/internal/telegram"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, dotenv, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(cfg.LogLevel, cfg.Environment)
	defer log.Sync()

	if !dotenv {
		log.Warn("no .env file loaded, using process environment")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Storage
	db, err := storage.OpenPostgres(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal("database unavailable", zap.Error(err))
	}
	rdb, err := storage.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatal("redis unavailable", zap.Error(err))
	}
	if rdb == nil {
		log.Warn("REDIS_ADDR not set: statistics cache and cross-instance events disabled")
	}
	s := storage.NewStorageService(db, rdb)
	if err := s.Migrate(); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}
	log.Info("database connection established, migrations complete")

	localizer, err := localization.NewLocalizer(cfg.LocalesDir)
	if err != nil {
		log.Fatal("failed to load translations", zap.Error(err))
	}

	// 2. Live feed. With Redis, events arrive over pub/sub so every instance
	// sees them; without it the complaint service notifies the hub directly.
	hub := feed.NewHub(logger.WithComponent(log, "feed"))
	go hub.Run(ctx)

	var notifiers complaint.Notifiers
	if ps := s.SubscribeComplaintEvents(ctx); ps != nil {
		go hub.ListenRedis(ctx, ps)
	} else {
		notifiers = append(notifiers, hub)
	}

	// 3. Telegram
	var bot *telegram.BotService
	complaints := complaint.NewService(s, nil, logger.WithComponent(log, "complaint"))
	if cfg.TelegramToken != "" {
		api, err := telegram.NewBotAPI(cfg.TelegramToken)
		if err != nil {
			log.Fatal("failed to start telegram bot", zap.Error(err))
		}
		tgLog := logger.WithComponent(log, "telegram")
		if cfg.TelegramAdminChatID != 0 {
			notifier := telegram.NewNotifier(api, cfg.TelegramAdminChatID, cfg.TelegramLanguage, localizer, tgLog)
			go notifier.Run(ctx)
			notifiers = append(notifiers, notifier)
		}
		bot = telegram.NewBotService(api, complaints, localizer, cfg.TelegramAdminChatID, cfg.TelegramLanguage, tgLog)
	}
	if len(notifiers) > 0 {
		complaints.Notifier = notifiers
	}
	if bot != nil {
		go bot.Run(ctx)
	}

	// 4. HTTP
	stats := covid.NewService(
		covid.NewClient(cfg.StatsBaseURL, nil),
		s,
		cfg.StatsStaleTime,
		logger.WithComponent(log, "covid"),
	)
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	h := handler.NewHandler(s, complaints, stats, tokens, hub, logger.WithComponent(log, "http"))

	server := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        h.Router(),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("http shutdown failed", zap.Error(err))
		}
	}()

	log.Info("complaintdesk API listening", zap.String("addr", cfg.HTTPAddr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("http server failed", zap.Error(err))
	}
	<-hub.Done()
	if rdb != nil {
		rdb.Close()
	}
	log.Info("shutdown complete")
}
