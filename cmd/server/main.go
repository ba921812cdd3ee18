package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sheikh-saqib/account-ledger-system/internal/account"
	"github.com/sheikh-saqib/account-ledger-system/internal/config"
	"github.com/sheikh-saqib/account-ledger-system/internal/events/kafka"
	"github.com/sheikh-saqib/account-ledger-system/internal/interfaces"
	"github.com/sheikh-saqib/account-ledger-system/internal/ledger"
	"github.com/sheikh-saqib/account-ledger-system/internal/server"
	"github.com/sheikh-saqib/account-ledger-system/internal/storage/memory"
	"github.com/sheikh-saqib/account-ledger-system/internal/storage/postgres"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}

	var store interfaces.LedgerStore
	if cfg.PostgresDSN != "" {
		db, err := postgres.Open(cfg.PostgresDSN)
		if err != nil {
			logger.Error("connect postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		store = postgres.NewStore(db)
		logger.Info("using postgres store")
	} else {
		mem := memory.NewStore()
		// The engine never creates users, so the in-memory mode seeds
		// one to make the API usable out of the box.
		user := mem.PutUser("demo")
		store = mem
		logger.Info("using in-memory store", "seededUserId", user.ID)
	}

	var publisher interfaces.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kp := kafka.NewPublisher(cfg.KafkaBrokers)
		defer kp.Close()
		publisher = kp
		logger.Info("event publishing enabled", "brokers", cfg.KafkaBrokers)
	}

	accounts := account.NewService(store, nil)
	ledgerSvc := ledger.NewLedger(store, publisher, logger)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      server.New(accounts, ledgerSvc, logger).Router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	logger.Info("server stopped")
}
