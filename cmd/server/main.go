package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restaurant_backoffice/internal/app"
	"restaurant_backoffice/internal/domain/telegram"
	"restaurant_backoffice/internal/infra/config"
	idb "restaurant_backoffice/internal/infra/database"
	"restaurant_backoffice/internal/infra/httpapi"
	"restaurant_backoffice/internal/infra/logger"
	"restaurant_backoffice/internal/infra/scheduler"
	"restaurant_backoffice/internal/infra/supabase"
	itg "restaurant_backoffice/internal/infra/telegram"

	"gopkg.in/telebot.v3"
)

func main() {
	fmt.Println("Restaurant back office starting...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}

	logger.Init(cfg)
	mainLogger := logger.Get()
	mainLogger.Infof("Configuration loaded. LogLevel: %s, Environment: %s", cfg.LogLevel, cfg.Environment)

	// Initialize Database Connection
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		mainLogger.Fatalf("FATAL: Could not connect to database: %v", err)
	}
	defer db.Close()
	mainLogger.Info("Database connection established successfully.")

	// Initialize Repositories
	menuRepo := idb.NewPostgresDailyMenuRepository(db)
	catalogRepo := idb.NewPostgresCatalogRepository(db)
	blogRepo := idb.NewPostgresBlogRepository(db)
	entryRepo := idb.NewPostgresEntryRepository(db)
	userRepo := idb.NewPostgresUserRepository(db)
	usageRepo := idb.NewPostgresUsageRepository(db)
	mainLogger.Info("Repositories initialized.")

	// Initialize Supabase client (auth + storage)
	sb, err := supabase.NewClient(supabase.Config{
		ProjectURL: cfg.SupabaseURL,
		AnonKey:    cfg.SupabaseAnonKey,
		ServiceKey: cfg.SupabaseServiceKey,
	})
	if err != nil {
		mainLogger.Fatalf("FATAL: Could not create Supabase client: %v", err)
	}

	// Initialize Telegram Bot (optional)
	var notifier telegram.Client
	var bot *telebot.Bot
	if cfg.TelegramToken != "" {
		pref := telebot.Settings{
			Token:  cfg.TelegramToken,
			Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
			OnError: func(err error, c telebot.Context) {
				mainLogger.WithError(err).Error("Telebot error")
			},
		}
		bot, err = telebot.NewBot(pref)
		if err != nil {
			mainLogger.Fatalf("FATAL: Could not create Telegram bot: %v", err)
		}
		notifier = itg.NewTelebotAdapter(bot)
		mainLogger.Info("Telegram bot initialized.")
	} else {
		mainLogger.Warn("TELEGRAM_TOKEN not set, manager notifications disabled.")
	}

	// Initialize Services
	menuService := app.NewDailyMenuService(menuRepo, mainLogger)
	carryForwardService := app.NewCarryForwardService(menuRepo, notifier, cfg.ManagerTelegramID, mainLogger)
	catalogService := app.NewCatalogService(catalogRepo, mainLogger)
	blogService := app.NewBlogService(blogRepo, mainLogger)
	imageService := app.NewImageService(sb, usageRepo, mainLogger)
	entryService := app.NewEntryService(entryRepo)
	authService := app.NewAuthService(sb, userRepo, mainLogger)
	userService := app.NewUserService(userRepo, sb, mainLogger)
	mainLogger.Info("Services initialized.")

	// Register manager bot commands
	if bot != nil {
		itg.RegisterManagerHandlers(bot, menuService, cfg.ManagerTelegramID, mainLogger.WithField("component", "telegram"))
		go bot.Start()
		mainLogger.Info("Manager command handlers registered.")
	}

	// Start the daily reminder and carry-forward jobs
	menuScheduler := scheduler.NewMenuScheduler(
		carryForwardService,
		mainLogger,
		cfg.CronSpecMenuReminder,
		cfg.CronSpecCarryForward,
	)
	menuScheduler.Start()

	// Subscribe the catalog cache to realtime change events
	var realtime *supabase.RealtimeClient
	if cfg.RealtimeEnabled {
		realtime = supabase.NewRealtimeClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, mainLogger)
		realtime.SubscribeToTable("menu_items", func(ev supabase.ChangeEvent) {
			catalogService.ApplyMenuItemChange(changedRecord(ev))
		})
		realtime.SubscribeToTable("wines", func(ev supabase.ChangeEvent) {
			catalogService.ApplyWineChange(changedRecord(ev))
		})
		if err := realtime.Connect(context.Background()); err != nil {
			mainLogger.WithError(err).Warn("Realtime connection failed, catalog cache will reload on demand")
			realtime = nil
		} else {
			mainLogger.Info("Realtime subscriptions established.")
		}
	}

	// HTTP API
	authenticator := httpapi.NewAuthenticator(cfg.JWTSecret, userRepo, mainLogger)
	router := httpapi.NewRouter(httpapi.Handlers{
		Auth:      httpapi.NewAuthHandlers(authService),
		DailyMenu: httpapi.NewDailyMenuHandlers(menuService),
		Catalog:   httpapi.NewCatalogHandlers(catalogService),
		Blog:      httpapi.NewBlogHandlers(blogService),
		Images:    httpapi.NewImageHandlers(imageService),
		Entries:   httpapi.NewEntryHandlers(entryService),
		Users:     httpapi.NewUserHandlers(userService),
	}, authenticator, mainLogger)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		mainLogger.Infof("HTTP API listening on :%s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			mainLogger.Fatalf("FATAL: HTTP server failed: %v", err)
		}
	}()

	mainLogger.Info("Application setup complete.")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	mainLogger.Info("Shutting down application...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		mainLogger.WithError(err).Error("HTTP server shutdown failed")
	}
	menuScheduler.Stop()
	if realtime != nil {
		realtime.Close()
	}
	mainLogger.Info("Application shut down gracefully.")
}

// changedRecord picks the row payload that identifies the affected record:
// deletes only carry the old row.
func changedRecord(ev supabase.ChangeEvent) map[string]interface{} {
	if ev.Type == "DELETE" {
		return ev.Old
	}
	return ev.Record
}
