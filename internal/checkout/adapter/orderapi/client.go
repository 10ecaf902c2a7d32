// Package orderapi is the HTTP client for the external order-creation API.
// The API surface itself is owned by the backend; this side only knows the
// create endpoint and the two response shapes it can come back with.
package orderapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"check-please/internal/checkout/app/core"
	"check-please/internal/checkout/domain/dto"
	"check-please/internal/xpkg/config"
	"check-please/internal/xpkg/logger"
)

var _ core.OrderCreator = (*Client)(nil)

type Client struct {
	baseURL    string
	httpClient *http.Client
	mylog      logger.Logger
}

func New(cfg config.OrderAPI, mylog logger.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
		mylog: mylog,
	}
}

// Create submits the order. A structured backend rejection comes back as
// *core.APIError with the backend's message verbatim; anything at the
// connection level is wrapped in core.ErrTransport.
func (c *Client) Create(ctx context.Context, sub dto.OrderSubmission) (dto.OrderConfirmation, error) {
	body, err := json.Marshal(sub)
	if err != nil {
		return dto.OrderConfirmation{}, fmt.Errorf("encode order submission: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/orders", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return dto.OrderConfirmation{}, fmt.Errorf("build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if sub.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+sub.BearerToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.mylog.Action("order_request_failed").Error("Order API unreachable", err)
		return dto.OrderConfirmation{}, fmt.Errorf("%w: %v", core.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return dto.OrderConfirmation{}, c.decodeError(resp)
	}

	var confirmation dto.OrderConfirmation
	if err := json.NewDecoder(resp.Body).Decode(&confirmation); err != nil {
		return dto.OrderConfirmation{}, fmt.Errorf("%w: decode confirmation: %v", core.ErrTransport, err)
	}

	c.mylog.Action("order_created").Info("Order accepted by backend",
		"order_number", confirmation.OrderNumber,
		"status", confirmation.Status,
	)
	return confirmation, nil
}

func (c *Client) decodeError(resp *http.Response) error {
	var apiErr core.APIError
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Message == "" {
		// No structured body, treat as a transport-level failure.
		c.mylog.Action("order_request_rejected").Warn("Order API returned unstructured error", "status_code", resp.StatusCode)
		return fmt.Errorf("%w: order api returned status %d", core.ErrTransport, resp.StatusCode)
	}
	if apiErr.Status == 0 {
		apiErr.Status = resp.StatusCode
	}
	return &apiErr
}
