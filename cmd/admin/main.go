package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"finbot/internal/domain/openfinance"
	ofclient "finbot/internal/infrastructure/openfinance"
	"finbot/internal/infrastructure/postgres"
	"finbot/internal/shared/config"
)

const usage = `Finbot Admin CLI - Management commands for the finance bot

Usage:
  admin <command> [options]

Commands:
  sync    Run an open finance import for one or more users

Examples:
  # Sync a specific user
  admin sync --user-id=1

  # Sync multiple users
  admin sync --user-id=1,2,3

  # Sync every active user
  admin sync --all

  # Run with a custom timeout
  admin sync --user-id=1 --timeout=5m`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "sync":
		runSync(os.Args[2:])
	case "help", "-h", "--help":
		fmt.Println(usage)
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		fmt.Println(usage)
		os.Exit(1)
	}
}

func runSync(args []string) {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)

	userIDStr := fs.String("user-id", "", "User ID(s) to sync (comma-separated for multiple)")
	allUsers := fs.Bool("all", false, "Sync all active users")
	timeoutStr := fs.String("timeout", "30m", "Timeout for the operation (e.g., 5m, 1h)")

	fs.Usage = func() {
		fmt.Println("Usage: admin sync [options]")
		fmt.Println("\nOptions:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *userIDStr == "" && !*allUsers {
		fmt.Println("Error: must specify --user-id or --all")
		fs.Usage()
		os.Exit(1)
	}

	timeout, err := time.ParseDuration(*timeoutStr)
	if err != nil {
		log.Fatalf("Invalid timeout format: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.OpenFinance.ClientID == "" {
		log.Fatal("OPENFINANCE_CLIENT_ID is not configured")
	}

	syncStart, err := time.Parse("2006-01-02", cfg.OpenFinance.TransactionSyncStartDate)
	if err != nil {
		log.Fatalf("Invalid OPENFINANCE_TRANSACTION_SYNC_START_DATE: %v", err)
	}

	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to database")

	userRepo := postgres.NewUserRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)

	syncService := openfinance.NewSyncService(
		ofclient.NewClient(cfg.OpenFinance.ClientID, cfg.OpenFinance.ClientSecret, cfg.OpenFinance.Sandbox),
		transactionRepo,
		syncStart,
	)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var userIDs []int64
	if *allUsers {
		userIDs, err = userRepo.ListActiveIDs(ctx)
		if err != nil {
			log.Fatalf("Failed to list users: %v", err)
		}
	} else {
		for _, part := range strings.Split(*userIDStr, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				log.Fatalf("Invalid user ID %q: %v", part, err)
			}
			userIDs = append(userIDs, id)
		}
	}

	if len(userIDs) == 0 {
		log.Println("No users to sync")
		return
	}

	log.Printf("Syncing %d user(s)", len(userIDs))

	failed := 0
	for _, id := range userIDs {
		result, err := syncService.SyncUser(ctx, id)
		if err != nil {
			log.Printf("User %d: sync failed: %v", id, err)
			failed++
			continue
		}
		if len(result.Errors) > 0 {
			failed++
		}
		fmt.Printf("User %d: accounts=%d found=%d created=%d skipped=%d errors=%d\n",
			id, result.Accounts, result.Found, result.Created, result.Skipped, len(result.Errors))
	}

	if failed > 0 {
		log.Printf("Completed with %d failed user(s)", failed)
		os.Exit(1)
	}
	log.Println("Completed successfully")
}
