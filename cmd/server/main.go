package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/mux"
	"github.com/zuri-labs/go-wallet-ledger/cmd/routes"
	"github.com/zuri-labs/go-wallet-ledger/internal/paystack"
	"github.com/zuri-labs/go-wallet-ledger/internal/wallet"
	"github.com/zuri-labs/go-wallet-ledger/pkg/config"
	"github.com/zuri-labs/go-wallet-ledger/pkg/database"
	"github.com/zuri-labs/go-wallet-ledger/pkg/events"
	"github.com/zuri-labs/go-wallet-ledger/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()

	database.Connect(cfg.DBUrl)

	redisClient := events.NewRedisClient(cfg)

	walletRepo := wallet.NewRepository(database.DB)
	gateway := paystack.NewClient(cfg.PaystackSecret, cfg.PaystackChannels, fmt.Sprintf("%s/api/wallet/deposit/callback", cfg.Host))
	walletService := wallet.NewService(walletRepo, gateway, wallet.Config{
		MinDepositAmount:  cfg.MinDepositAmount,
		MinTransferAmount: cfg.MinTransferAmount,
	})

	// start background worker
	worker := wallet.NewWebhookWorker(cfg, walletService, redisClient)
	worker.Start()

	r := mux.NewRouter()
	handler := routes.RegisterRoutes(r, cfg, redisClient, walletService)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("Server starting", logger.Fields{"port": cfg.Port, "env": cfg.Env})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Could not listen", logger.Fields{"port": cfg.Port, "error": err.Error()})
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	server.Shutdown(ctx)
	logger.Info("Server gracefully shut down")
}
