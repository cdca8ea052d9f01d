package paystack

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/zuri-labs/go-wallet-ledger/pkg/logger"
)

const baseURL = "https://api.paystack.co"

type Client struct {
	secret      string
	channels    []string
	callbackURL string
	http        *http.Client
}

func NewClient(secret string, channels []string, callbackURL string) *Client {
	return &Client{
		secret:      secret,
		channels:    channels,
		callbackURL: callbackURL,
		http:        &http.Client{Timeout: 10 * time.Second},
	}
}

// InitiatePayment initializes a Paystack transaction and returns the hosted
// authorization URL the payer completes the charge on.
func (c *Client) InitiatePayment(ctx context.Context, amountMinor int64, email, reference string) (string, error) {
	payload := map[string]interface{}{
		"email":        email,
		"amount":       amountMinor,
		"reference":    reference,
		"currency":     "NGN",
		"channels":     c.channels,
		"callback_url": c.callbackURL,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", baseURL+"/transaction/initialize", bytes.NewReader(jsonPayload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.secret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach paystack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		logger.Error("Paystack error", logger.Fields{
			"status_code": resp.StatusCode,
			"body":        string(respBody),
			"reference":   reference,
		})
		return "", fmt.Errorf("paystack returned status %d", resp.StatusCode)
	}

	var paystackResp struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
		Data    struct {
			AuthorizationURL string `json:"authorization_url"`
			Reference        string `json:"reference"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&paystackResp); err != nil {
		return "", fmt.Errorf("failed to parse paystack response: %w", err)
	}

	if !paystackResp.Status {
		return "", fmt.Errorf("paystack initialization failed: %s", paystackResp.Message)
	}

	return paystackResp.Data.AuthorizationURL, nil
}

// VerifyPayment returns Paystack's view of a transaction, e.g. "success",
// "failed" or "abandoned".
func (c *Client) VerifyPayment(ctx context.Context, reference string) (string, error) {
	url := fmt.Sprintf("%s/transaction/verify/%s", baseURL, reference)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.secret)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("paystack returned status %d", resp.StatusCode)
	}

	var result struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
		Data    struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}

	if !result.Status {
		return "", fmt.Errorf("paystack verification failed: %s", result.Message)
	}

	return result.Data.Status, nil
}

// VerifyWebhookSignature checks the x-paystack-signature header against the
// HMAC-SHA512 of the raw body.
func VerifyWebhookSignature(secret string, body []byte, signature string) bool {
	hash := hmac.New(sha512.New, []byte(secret))
	hash.Write(body)
	expected := hex.EncodeToString(hash.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
