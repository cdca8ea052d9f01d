package wallet

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/zuri-labs/go-wallet-ledger/internal/paystack"
	"github.com/zuri-labs/go-wallet-ledger/internal/user"
	"github.com/zuri-labs/go-wallet-ledger/pkg/config"
	"github.com/zuri-labs/go-wallet-ledger/pkg/events"
	"github.com/zuri-labs/go-wallet-ledger/pkg/logger"
	"github.com/zuri-labs/go-wallet-ledger/pkg/utils"
	"golang.org/x/crypto/bcrypt"
)

type Handler struct {
	Config      config.Config
	Service     Service
	RedisClient *events.RedisClient
}

func NewHandler(cfg config.Config, service Service, redisClient *events.RedisClient) *Handler {
	return &Handler{Config: cfg, Service: service, RedisClient: redisClient}
}

type DepositRequest struct {
	Amount int64 `json:"amount"` // in Kobo
}

func (h *Handler) WalletDeposit(w http.ResponseWriter, r *http.Request) {
	usr, _ := r.Context().Value(utils.UserKey).(user.User)

	var req DepositRequest
	if status, err := utils.DecodeJSONBody(w, r, &req); err != nil {
		utils.BuildErrorResponse(w, status, "Invalid request", map[string]string{"error": err.Error()})
		return
	}

	tx, err := h.Service.InitiateDeposit(r.Context(), usr.ID, usr.Email, req.Amount)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	utils.BuildSuccessResponse(w, http.StatusCreated, "Deposit initialized", map[string]interface{}{
		"reference":         tx.Reference,
		"authorization_url": tx.AuthorizationURL,
		"amount":            tx.Amount,
		"status":            tx.Status,
	})
}

func (h *Handler) PaystackWebhook(w http.ResponseWriter, r *http.Request) {
	signature := r.Header.Get("x-paystack-signature")

	logger.Info("Webhook received", logger.Fields{"remote_addr": r.RemoteAddr})

	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Error("Webhook: Failed to read body", logger.Fields{"error": err.Error()})
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if !paystack.VerifyWebhookSignature(h.Config.PaystackSecret, body, signature) {
		logger.Error("Webhook: Signature mismatch", logger.Fields{"remote_addr": r.RemoteAddr})
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var event struct {
		Event string `json:"event"`
		Data  struct {
			Reference string `json:"reference"`
			Status    string `json:"status"`
			Amount    int64  `json:"amount"`
		} `json:"data"`
	}

	if err := json.Unmarshal(body, &event); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	switch event.Event {
	case "charge.success", "charge.failed":
		webhookEvent := events.WebhookEvent{
			Event:     event.Event,
			Reference: event.Data.Reference,
			Status:    event.Data.Status,
			Amount:    event.Data.Amount,
			Timestamp: time.Now(),
		}
		if err := h.RedisClient.PublishEvent(r.Context(), webhookEvent); err != nil {
			logger.Error("Webhook: Failed to enqueue event", logger.Fields{
				"reference": event.Data.Reference,
				"error":     err.Error(),
			})
			// Paystack redelivers on non-2xx, and confirmation is
			// idempotent, so failing here is safe
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	default:
		logger.Warn("Webhook: Ignoring event", logger.Fields{"event": event.Event})
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) GetWalletBalance(w http.ResponseWriter, r *http.Request) {
	usr, _ := r.Context().Value(utils.UserKey).(user.User)

	balance, err := h.Service.Balance(r.Context(), usr.ID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	utils.BuildSuccessResponse(w, http.StatusOK, "Wallet Balance", map[string]any{
		"balance": balance,
	})
}

func (h *Handler) GetWallet(w http.ResponseWriter, r *http.Request) {
	usr, _ := r.Context().Value(utils.UserKey).(user.User)

	wallet, err := h.Service.GetWallet(r.Context(), usr.ID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	utils.BuildSuccessResponse(w, http.StatusOK, "Wallet Details", wallet)
}

type SetPinRequest struct {
	Pin string `json:"pin"`
}

func (h *Handler) SetWalletPin(w http.ResponseWriter, r *http.Request) {
	usr, _ := r.Context().Value(utils.UserKey).(user.User)

	var req SetPinRequest
	if status, err := utils.DecodeJSONBody(w, r, &req); err != nil {
		utils.BuildErrorResponse(w, status, "Invalid request", map[string]string{"error": err.Error()})
		return
	}

	if len(req.Pin) != 4 {
		utils.BuildErrorResponse(w, http.StatusBadRequest, "PIN must be 4 digits", nil)
		return
	}

	hashedPin, err := bcrypt.GenerateFromPassword([]byte(req.Pin), bcrypt.DefaultCost)
	if err != nil {
		utils.BuildErrorResponse(w, http.StatusInternalServerError, "Failed to secure PIN", nil)
		return
	}

	if err := h.Service.SetPin(r.Context(), usr.ID, string(hashedPin)); err != nil {
		h.respondServiceError(w, err)
		return
	}

	utils.BuildSuccessResponse(w, http.StatusOK, "Transaction PIN updated", nil)
}

type TransferRequest struct {
	WalletNumber string `json:"wallet_number"`
	Amount       int64  `json:"amount"` // in Kobo
	Pin          string `json:"pin"`
}

func (h *Handler) TransferFunds(w http.ResponseWriter, r *http.Request) {
	usr, _ := r.Context().Value(utils.UserKey).(user.User)

	var req TransferRequest
	if status, err := utils.DecodeJSONBody(w, r, &req); err != nil {
		utils.BuildErrorResponse(w, status, "Invalid request", map[string]string{"error": err.Error()})
		return
	}

	senderWallet, err := h.Service.GetWallet(r.Context(), usr.ID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	if senderWallet.PinHash == "" {
		utils.BuildErrorResponse(w, http.StatusForbidden, "Transaction PIN not set", nil)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(senderWallet.PinHash), []byte(req.Pin)); err != nil {
		utils.BuildErrorResponse(w, http.StatusUnauthorized, "Invalid PIN", nil)
		return
	}

	tx, err := h.Service.Transfer(r.Context(), usr.ID, req.WalletNumber, req.Amount)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	utils.BuildSuccessResponse(w, http.StatusOK, "Transfer completed", map[string]interface{}{
		"reference": tx.Reference,
		"amount":    tx.Amount,
		"status":    tx.Status,
	})
}

func (h *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	usr, _ := r.Context().Value(utils.UserKey).(user.User)

	limit, offset := utils.GetPaginationDetails(r)

	txs, count, err := h.Service.History(r.Context(), usr.ID, limit, offset)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	utils.BuildSuccessResponse(w, http.StatusOK, "Transaction History", map[string]interface{}{
		"transactions": txs,
		"meta": map[string]interface{}{
			"total_items": count,
			"limit":       limit,
			"offset":      offset,
		},
	})
}

func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	usr, _ := r.Context().Value(utils.UserKey).(user.User)

	reference := mux.Vars(r)["reference"]

	tx, err := h.Service.TransactionByReference(r.Context(), usr.ID, reference)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	utils.BuildSuccessResponse(w, http.StatusOK, "Transaction retrieved", tx)
}

func (h *Handler) GetDepositStatus(w http.ResponseWriter, r *http.Request) {
	usr, _ := r.Context().Value(utils.UserKey).(user.User)

	reference := mux.Vars(r)["reference"]
	if reference == "" {
		utils.BuildErrorResponse(w, http.StatusBadRequest, "Invalid reference format", nil)
		return
	}

	tx, gatewayStatus, err := h.Service.RefreshStatus(r.Context(), usr.ID, reference)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	utils.BuildSuccessResponse(w, http.StatusOK, "Transaction status retrieved", map[string]interface{}{
		"reference":       tx.Reference,
		"status":          tx.Status,
		"amount":          tx.Amount,
		"paystack_status": gatewayStatus,
	})
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		utils.BuildErrorResponse(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, ErrInsufficientBalance):
		utils.BuildErrorResponse(w, http.StatusBadRequest, "Insufficient balance", nil)
	case errors.Is(err, ErrSelfTransfer):
		utils.BuildErrorResponse(w, http.StatusBadRequest, "Cannot transfer to self", nil)
	case errors.Is(err, ErrWalletNotFound):
		utils.BuildErrorResponse(w, http.StatusNotFound, "Wallet not found", nil)
	case errors.Is(err, ErrRecipientNotFound):
		utils.BuildErrorResponse(w, http.StatusNotFound, "Recipient wallet not found", nil)
	case errors.Is(err, ErrTransactionNotFound):
		utils.BuildErrorResponse(w, http.StatusNotFound, "Transaction not found", nil)
	case errors.Is(err, ErrDuplicateReference):
		utils.BuildErrorResponse(w, http.StatusConflict, "Duplicate transaction reference", nil)
	default:
		logger.Error("Wallet operation failed", logger.WithError(err))
		utils.BuildErrorResponse(w, http.StatusInternalServerError, "Something went wrong", nil)
	}
}
