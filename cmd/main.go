package main

import (
	"book_divination_tgbot/config"
	"book_divination_tgbot/data/db/postgres"
	redisClient "book_divination_tgbot/data/redis"
	"book_divination_tgbot/data/session"
	"book_divination_tgbot/internal/bancache"
	"book_divination_tgbot/internal/imggen"
	"book_divination_tgbot/internal/repository"
	"book_divination_tgbot/internal/scheduler"
	"book_divination_tgbot/internal/service/divination"
	"book_divination_tgbot/internal/tgbot"
	"book_divination_tgbot/internal/tokenizer"
	"book_divination_tgbot/internal/transport/telegram"
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	cfg := config.MustLoad()

	setupLogger(cfg)

	slog.Debug("config", slog.Any("cfg", cfg))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	postgresDb := postgres.NewPostgresClient(cfg)
	defer postgresDb.Close()

	postgresRepo := repository.NewPostgresRepo(postgresDb)

	redisClient := redisClient.MustInitRedis(cfg)
	defer redisClient.Close()

	redisSession := session.NewRedisSession(cfg, redisClient)

	banCache := bancache.MustInit(ctx, postgresRepo)

	sched := scheduler.New()
	sched.NewIntervalJob("refresh ban list", banCache.Refresh, cfg.Jobs.BansRefreshInterval, false)
	sched.Start()
	defer sched.Stop()

	sentenceTokenizer := tokenizer.NewSentenceTokenizer()

	quoteImage := imggen.New(cfg)

	divinationService := divination.New(cfg, postgresRepo, redisSession, sentenceTokenizer, quoteImage)

	tgController := telegram.NewController(cfg, divinationService, redisSession)

	tgBot := tgbot.New(cfg, tgController, redisSession, banCache)

	tgBot.Start()
	defer tgBot.Stop()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	<-interrupt
}

func setupLogger(cfg *config.Config) {
	var logLevel slog.Level

	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)
}
