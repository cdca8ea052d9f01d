package wallet

import (
	"context"
	"encoding/json"
	"time"

	"github.com/zuri-labs/go-wallet-ledger/pkg/config"
	"github.com/zuri-labs/go-wallet-ledger/pkg/events"
	"github.com/zuri-labs/go-wallet-ledger/pkg/logger"
)

// WebhookWorker drains the Redis webhook queue and applies each event to
// the ledger. ConfirmDeposit is idempotent, so retries and redeliveries are
// always safe.
type WebhookWorker struct {
	Config      config.Config
	Service     Service
	RedisClient *events.RedisClient
}

func NewWebhookWorker(cfg config.Config, service Service, redisClient *events.RedisClient) *WebhookWorker {
	return &WebhookWorker{Config: cfg, Service: service, RedisClient: redisClient}
}

func (w *WebhookWorker) Start() {
	logger.Info("Starting webhook worker...")
	go w.processEvents()
}

func (w *WebhookWorker) processEvents() {
	for {
		result, err := w.RedisClient.Client.BLPop(context.Background(), 5*time.Second, events.WebhookQueue).Result()
		if err != nil {
			continue
		}

		eventData := []byte(result[1])
		var event events.WebhookEvent
		if err := json.Unmarshal(eventData, &event); err != nil {
			logger.Error("WebhookWorker: Failed to unmarshal event", logger.Fields{"error": err.Error(), "data": string(eventData)})
			w.moveToDLQ(eventData)
			continue
		}

		w.handleEvent(event, eventData)
	}
}

func (w *WebhookWorker) handleEvent(event events.WebhookEvent, rawData []byte) {
	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		var err error
		switch event.Event {
		case "charge.success":
			var applied bool
			applied, err = w.Service.ConfirmDeposit(context.Background(), event.Reference)
			if err == nil && !applied {
				logger.Warn("WebhookWorker: Confirmation not applied", logger.Fields{"reference": event.Reference})
			}
		case "charge.failed":
			err = w.Service.MarkDepositFailed(context.Background(), event.Reference)
		default:
			logger.Warn("WebhookWorker: Unknown event type", logger.Fields{"event": event.Event, "reference": event.Reference})
			return
		}

		if err == nil {
			logger.Info("WebhookWorker: Successfully processed event", logger.Fields{"event": event.Event, "reference": event.Reference})
			return
		}

		logger.Warn("WebhookWorker: Failed to process event, retrying", logger.Fields{
			"event":     event.Event,
			"reference": event.Reference,
			"attempt":   i + 1,
			"error":     err.Error(),
		})
		time.Sleep(time.Duration(i+1) * time.Second)
	}

	logger.Error("WebhookWorker: Max retries exhausted, moving to DLQ", logger.Fields{"reference": event.Reference})
	w.moveToDLQ(rawData)
}

func (w *WebhookWorker) moveToDLQ(data []byte) {
	if err := w.RedisClient.PushToDLQ(context.Background(), data); err != nil {
		logger.Error("Worker: Failed to push to DLQ", logger.Fields{"error": err.Error()})
	}
}
