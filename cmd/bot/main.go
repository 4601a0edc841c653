package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"finbot/internal/domain/alert"
	"finbot/internal/domain/category"
	"finbot/internal/domain/goal"
	"finbot/internal/domain/insight"
	"finbot/internal/domain/openfinance"
	"finbot/internal/domain/transaction"
	"finbot/internal/domain/user"
	"finbot/internal/flow"
	"finbot/internal/infrastructure/firebase"
	insightclient "finbot/internal/infrastructure/insight"
	ofclient "finbot/internal/infrastructure/openfinance"
	"finbot/internal/infrastructure/postgres"
	"finbot/internal/infrastructure/telegram"
	"finbot/internal/interfaces/scheduler"
	"finbot/internal/shared/config"
	"finbot/internal/shared/middleware"
	"finbot/internal/shared/telemetry"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Init(ctx, telemetry.Config{
			ServiceName:  cfg.Telemetry.ServiceName,
			OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
			MetricsPort:  cfg.Telemetry.MetricsPort,
		})
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				log.Printf("Telemetry shutdown error: %v", err)
			}
		}()
	}

	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return err
	}
	defer db.Close()

	log.Println("Connected to database")

	userRepo := postgres.NewUserRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	goalRepo := postgres.NewGoalRepository(db)
	alertRepo := postgres.NewAlertRepository(db)

	var messenger alert.Messenger
	if cfg.Firebase.CredentialsFile != "" {
		fcm, err := firebase.NewClient(ctx, cfg.Firebase.CredentialsFile, alertRepo.DeactivateToken)
		if err != nil {
			return err
		}
		messenger = fcm
		log.Println("Push notifications enabled")
	} else {
		log.Println("FIREBASE_CREDENTIALS_FILE not set, push notifications disabled")
	}

	userService := user.NewService(userRepo)
	categoryService := category.NewService(categoryRepo)
	transactionService := transaction.NewService(transactionRepo)
	alertService := alert.NewService(alertRepo, messenger)
	goalService := goal.NewService(goalRepo, alertService)
	insightService := insight.NewService(
		transactionService,
		insightclient.NewClient(cfg.Insight.BaseURL, cfg.Insight.APIKey, cfg.Insight.Model),
	)

	registry := flow.NewRegistry(flow.Deps{
		Users:        userService,
		Categories:   categoryService,
		Transactions: transactionService,
		Goals:        goalService,
		Insights:     insightService,
	})

	bot := telegram.NewBot(cfg.Telegram.Token, cfg.Telegram.PollTimeout, registry)

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled && cfg.OpenFinance.ClientID != "" {
		syncStart, err := time.Parse("2006-01-02", cfg.OpenFinance.TransactionSyncStartDate)
		if err != nil {
			return err
		}

		syncService := openfinance.NewSyncService(
			ofclient.NewClient(cfg.OpenFinance.ClientID, cfg.OpenFinance.ClientSecret, cfg.OpenFinance.Sandbox),
			transactionRepo,
			syncStart,
		)

		sched, err = scheduler.New(scheduler.Config{
			ScheduleTimes: cfg.Scheduler.ScheduleTimes,
			WorkerCount:   cfg.Scheduler.WorkerCount,
			JobDelay:      cfg.Scheduler.JobDelay,
			QueueSize:     cfg.Scheduler.QueueSize,
			RunOnStartup:  cfg.Scheduler.RunOnStartup,
			JobProvider:   scheduler.SyncJobProvider(userRepo, syncService),
		})
		if err != nil {
			return err
		}

		sched.Start()
	} else {
		log.Println("Open finance sync disabled")
	}

	srv := newHealthServer(cfg.Server.Host + ":" + cfg.Server.Port)
	go func() {
		log.Printf("Health server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Health server error: %v", err)
		}
	}()

	go func() {
		if err := bot.Run(ctx); err != nil && ctx.Err() == nil {
			log.Printf("Bot stopped: %v", err)
		}
	}()

	log.Println("Bot started, waiting for updates")
	<-ctx.Done()

	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down health server: %v", err)
	}

	if sched != nil {
		sched.Shutdown(30 * time.Second)
	}

	log.Println("Stopped")
	return nil
}

func newHealthServer(addr string) *http.Server {
	startedAt := time.Now()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status":         "healthy",
			"uptime_seconds": int(time.Since(startedAt).Seconds()),
			"pid":            os.Getpid(),
		})
	})
	mux.Handle("/metrics", promhttp.Handler())

	return &http.Server{
		Addr:         addr,
		Handler:      middleware.Logging(middleware.Tracing(mux)),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
