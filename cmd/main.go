package main

import (
	"alumnihub/backend/internal/api/handler"
	"alumnihub/backend/internal/attachments"
	"alumnihub/backend/internal/auth"
	"alumnihub/backend/internal/config"
	"alumnihub/backend/internal/events"
	"alumnihub/backend/internal/livehub"
	"alumnihub/backend/internal/localization"
	"alumnihub/backend/internal/logging"
	"alumnihub/backend/internal/mailer"
	"alumnihub/backend/internal/mentorship"
	"alumnihub/backend/internal/messaging"
	"alumnihub/backend/internal/notify"
	"alumnihub/backend/internal/posts"
	"alumnihub/backend/internal/storage"
	"alumnihub/backend/internal/telegram"
	"alumnihub/backend/internal/users"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func setupDependencies(ctx context.Context, cfg *config.Config) (*gorm.DB, *redis.Client, error) {
	db, err := gorm.Open(postgres.Open(cfg.DBDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("postgres pool: %w", err)
	}
	if err := storage.RunMigrations(ctx, sqlDB); err != nil {
		return nil, nil, fmt.Errorf("migrations: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	return db, rdb, nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "no .env file, using the environment")
	}

	cfg, err := config.Load()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logging.NewLogger(cfg.Env)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, rdb, err := setupDependencies(ctx, cfg)
	if err != nil {
		return err
	}
	defer rdb.Close()
	store := storage.NewStorageService(db, rdb)
	log.Info("database and redis ready, migrations applied")

	loc, err := localization.Default()
	if err != nil {
		return fmt.Errorf("locales: %w", err)
	}
	templates, err := mailer.NewTemplates(cfg.FrontendURL)
	if err != nil {
		return fmt.Errorf("mail templates: %w", err)
	}

	dispatcher := notify.NewDispatcher(store, mailer.NewSender(cfg.Email, log), log, config.NotificationQueueSize)
	hub := livehub.NewHub(store, log)

	var bot *telegram.BotService
	if cfg.TelegramBotToken != "" {
		api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
		if err != nil {
			return fmt.Errorf("telegram: %w", err)
		}
		dispatcher.SetTelegram(telegram.NewSender(api))
		bot = telegram.NewBotService(api, store, loc, log)
	} else {
		log.Warn("TELEGRAM_BOT_TOKEN not set, telegram delivery disabled")
	}

	// A nil interface turns attachments off; never pass a nil *Presigner.
	var presigner messaging.Presigner
	if cfg.S3.Enabled() {
		p, err := attachments.NewPresigner(ctx, cfg.S3)
		if err != nil {
			return fmt.Errorf("s3: %w", err)
		}
		presigner = p
	}

	h := handler.NewHandler(handler.Services{
		Auth:          auth.NewService(store, dispatcher, templates, cfg.JWT, log),
		Mentorship:    mentorship.NewService(store, dispatcher, templates, loc, log),
		Messages:      messaging.NewService(store, dispatcher, presigner, loc, log),
		Notifications: notify.NewService(store),
		Posts:         posts.NewService(store, dispatcher, loc, log),
		Events:        events.NewService(store, dispatcher, loc, log),
		Users:         users.NewService(store, log),
		Hub:           hub,
	}, cfg.CORSOrigins, log)

	var wg sync.WaitGroup
	background := func(fn func(context.Context)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(ctx)
		}()
	}
	background(dispatcher.Run)
	background(hub.Run)
	if bot != nil {
		background(bot.Run)
	}

	server := &http.Server{
		Addr:           cfg.HTTP.Addr(),
		Handler:        h.NewRouter(),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		stop()
		wg.Wait()
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", "error", err)
	}
	wg.Wait()
	return nil
}
