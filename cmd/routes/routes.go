package routes

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/zuri-labs/go-wallet-ledger/internal/auth"
	"github.com/zuri-labs/go-wallet-ledger/internal/key"
	"github.com/zuri-labs/go-wallet-ledger/internal/middleware"
	"github.com/zuri-labs/go-wallet-ledger/internal/user"
	"github.com/zuri-labs/go-wallet-ledger/internal/wallet"
	"github.com/zuri-labs/go-wallet-ledger/pkg/config"
	"github.com/zuri-labs/go-wallet-ledger/pkg/database"
	"github.com/zuri-labs/go-wallet-ledger/pkg/events"
	"github.com/zuri-labs/go-wallet-ledger/pkg/logger"
	"golang.org/x/time/rate"
)

func RegisterRoutes(r *mux.Router, cfg config.Config, redisClient *events.RedisClient, walletService wallet.Service) http.Handler {
	userRepo := user.NewRepository(database.DB)
	keyRepo := key.NewRepository(database.DB)

	authHandler := auth.NewHandler(cfg, userRepo, walletService)
	keyHandler := key.NewHandler(cfg, keyRepo)
	walletHandler := wallet.NewHandler(cfg, walletService, redisClient)

	r.Use(middleware.LoggingMiddleware)

	// per-IP limiter on the unauthenticated surface
	limiter := middleware.NewRateLimiter(rate.Limit(5), 10)

	authR := r.PathPrefix("/api/auth").Subrouter()
	authR.Use(limiter.Limit)
	authR.HandleFunc("/google", authHandler.GoogleLogin).Methods("GET")
	authR.HandleFunc("/google/callback", authHandler.GoogleCallback).Methods("GET")

	keysR := r.PathPrefix("/api/keys").Subrouter()
	keysR.Use(auth.JWTMiddleware(cfg, userRepo))
	keysR.HandleFunc("/create", keyHandler.CreateAPIKey).Methods("POST")
	keysR.HandleFunc("/rollover", keyHandler.RolloverAPIKey).Methods("POST")
	keysR.HandleFunc("/revoke", keyHandler.RevokeAPIKey).Methods("POST")
	keysR.HandleFunc("", keyHandler.ListAPIKeys).Methods("GET")

	walletR := r.PathPrefix("/api/wallet").Subrouter()

	walletR.Handle("/paystack/webhook", limiter.Limit(http.HandlerFunc(walletHandler.PaystackWebhook))).Methods("POST")

	pinR := walletR.PathPrefix("/pin").Subrouter()
	pinR.Use(auth.JWTMiddleware(cfg, userRepo))
	pinR.HandleFunc("", walletHandler.SetWalletPin).Methods("POST")

	opsR := walletR.PathPrefix("").Subrouter()
	opsR.Use(auth.UnifiedAuthMiddleware(cfg, userRepo, keyRepo))
	opsR.Handle("", auth.RequirePermission(string(key.PermissionRead))(http.HandlerFunc(walletHandler.GetWallet))).Methods("GET")
	opsR.Handle("/deposit", auth.RequirePermission(string(key.PermissionDeposit))(http.HandlerFunc(walletHandler.WalletDeposit))).Methods("POST")
	opsR.Handle("/deposit/{reference}/status", auth.RequirePermission(string(key.PermissionRead))(http.HandlerFunc(walletHandler.GetDepositStatus))).Methods("GET")
	opsR.Handle("/transfer", auth.RequirePermission(string(key.PermissionTransfer))(http.HandlerFunc(walletHandler.TransferFunds))).Methods("POST")
	opsR.Handle("/balance", auth.RequirePermission(string(key.PermissionRead))(http.HandlerFunc(walletHandler.GetWalletBalance))).Methods("GET")
	opsR.Handle("/transactions", auth.RequirePermission(string(key.PermissionRead))(http.HandlerFunc(walletHandler.GetTransactions))).Methods("GET")
	opsR.Handle("/transactions/{reference}", auth.RequirePermission(string(key.PermissionRead))(http.HandlerFunc(walletHandler.GetTransaction))).Methods("GET")

	if cfg.Env != "production" {

		r.HandleFunc("/swagger.yaml", func(w http.ResponseWriter, r *http.Request) {
			content, err := os.ReadFile("docs/swagger.yaml")
			if err != nil {
				logger.Error("Failed to read swagger.yaml", logger.Fields{"error": err.Error()})
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			baseURL := "/"
			modifiedContent := strings.Replace(string(content), "{{BASE_URL}}", baseURL, -1)
			modifiedContent = strings.Replace(modifiedContent, "{{MIN_DEPOSIT_AMOUNT}}", fmt.Sprintf("%d", cfg.MinDepositAmount), -1)
			modifiedContent = strings.Replace(modifiedContent, "{{MIN_TRANSFER_AMOUNT}}", fmt.Sprintf("%d", cfg.MinTransferAmount), -1)

			w.Header().Set("Content-Type", "application/yaml")
			w.Write([]byte(modifiedContent))
		})

		r.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
			httpSwagger.URL("/swagger.yaml"),
		))
		logger.Info("Swagger documentation enabled at /swagger/index.html")
	}

	corsObj := handlers.CORS(
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "x-api-key"}),
	)

	return corsObj(r)
}
