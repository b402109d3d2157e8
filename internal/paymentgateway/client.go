package paymentgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	gatewaytypes "github.com/amala-code/new-admin-backend/internal/core/datamodel/gateway"
)

// Client talks to the Razorpay REST API with basic auth over the configured
// key pair. Every call carries an explicit timeout. There are no retries;
// failures surface to the caller in the same request cycle.
type Client struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
	logger     *slog.Logger
}

type Config struct {
	BaseURL        string
	KeyID          string
	KeySecret      string
	RequestTimeout time.Duration
}

func NewClient(config Config, logger *slog.Logger) *Client {
	timeout := config.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:   config.BaseURL,
		keyID:     config.KeyID,
		keySecret: config.KeySecret,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// KeyID exposes the public key id returned to checkout clients.
func (c *Client) KeyID() string {
	return c.keyID
}

// CreateOrder issues a create-order call and returns the gateway-assigned
// order.
func (c *Client) CreateOrder(ctx context.Context, req gatewaytypes.OrderRequest) (*gatewaytypes.Order, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order request: %w", err)
	}

	c.logger.Info("creating gateway order",
		"amount", req.Amount,
		"currency", req.Currency,
		"receipt", req.Receipt)

	var order gatewaytypes.Order
	if err := c.do(ctx, http.MethodPost, "/v1/orders", bytes.NewBuffer(body), &order); err != nil {
		return nil, err
	}

	c.logger.Info("gateway order created", "order_id", order.ID, "amount", order.Amount)
	return &order, nil
}

// FetchPayment retrieves payment details for a captured payment id.
func (c *Client) FetchPayment(ctx context.Context, paymentID string) (*gatewaytypes.Payment, error) {
	if paymentID == "" {
		return nil, fmt.Errorf("payment id is required")
	}

	var payment gatewaytypes.Payment
	path := "/v1/payments/" + url.PathEscape(paymentID)
	if err := c.do(ctx, http.MethodGet, path, nil, &payment); err != nil {
		return nil, err
	}

	c.logger.Info("gateway payment fetched",
		"payment_id", payment.ID,
		"amount", payment.Amount,
		"status", payment.Status)
	return &payment, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out interface{}) error {
	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}

	httpReq.SetBasicAuth(c.keyID, c.keySecret)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read gateway response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var apiErr gatewaytypes.APIError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error.Description != "" {
			c.logger.Error("gateway API error",
				"status", resp.StatusCode,
				"code", apiErr.Error.Code,
				"description", apiErr.Error.Description)
			return fmt.Errorf("gateway error %s: %s", apiErr.Error.Code, apiErr.Error.Description)
		}
		c.logger.Error("gateway API error", "status", resp.StatusCode, "response", string(respBody))
		return fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode gateway response: %w", err)
	}
	return nil
}
