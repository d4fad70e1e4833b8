// Package payments brokers orders with the external payment gateway and
// verifies the authenticity of its payment confirmations. It holds no state
// of its own.
package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ktkar/maintron/internal/logging"
	"github.com/ktkar/maintron/internal/shared"
)

// Order is the gateway's order object, returned to the caller verbatim.
type Order struct {
	ID        string `json:"id"`
	Entity    string `json:"entity"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Receipt   string `json:"receipt"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"created_at"`
}

type orderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// gatewayErrorBody is the error envelope the gateway returns on non-2xx.
type gatewayErrorBody struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

type Client struct {
	keyID      string
	keySecret  string
	baseURL    string
	httpClient *http.Client
	logger     logging.Logger
}

func NewClient(keyID, keySecret, baseURL string, logger logging.Logger) *Client {
	return &Client{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger.With("module", "payments"),
	}
}

// CreateOrder registers a payment order with the gateway. The amount is in
// major currency units and is converted to the gateway's minor unit (×100).
// Gateway failures surface as *shared.GatewayError. Order creation is not
// retried: it is not safe to retry blindly.
func (c *Client) CreateOrder(ctx context.Context, amount int64, currency string) (*Order, error) {

	if currency == "" {
		currency = "INR"
	}

	receipt := fmt.Sprintf("order_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])

	body, err := json.Marshal(orderRequest{
		Amount:   amount * 100,
		Currency: currency,
		Receipt:  receipt,
	})
	if err != nil {
		return nil, fmt.Errorf("error encoding order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error building order request: %w", err)
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &shared.GatewayError{StatusCode: 0, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading gateway response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := "order creation failed"
		var gwErr gatewayErrorBody
		if err := json.Unmarshal(raw, &gwErr); err == nil && gwErr.Error.Description != "" {
			msg = gwErr.Error.Description
		}
		c.logger.Warn(ctx, "gateway rejected order", "status", resp.StatusCode)
		return nil, &shared.GatewayError{StatusCode: resp.StatusCode, Message: msg}
	}

	order := &Order{}
	if err := json.Unmarshal(raw, order); err != nil {
		return nil, fmt.Errorf("error decoding gateway response: %w", err)
	}

	c.logger.Info(ctx, "order created", "order_id", order.ID, "amount", order.Amount, "currency", order.Currency)
	return order, nil
}
