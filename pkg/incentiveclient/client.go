/**
 * @description
 * This package provides a client for the external incentive service, which
 * computes a reward amount for a given transfer. The incentive service is an
 * enhancement, not a dependency the service is allowed to fail on: any
 * communication failure, timeout, non-2xx status, or malformed response is
 * absorbed and reported as a zero reward.
 */
package incentiveclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 3 * time.Second

// Client is a client for the incentive service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new incentive service client. The timeout bounds every
// quote call end to end; a non-positive value falls back to the default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// quoteRequest mirrors the inbound transfer event schema; the incentive
// service expects the same field names.
type quoteRequest struct {
	SenderID    int64 `json:"senderId"`
	RecipientID int64 `json:"recipientId"`
	Amount      int64 `json:"amount"`
}

type quoteResponse struct {
	Amount int64 `json:"amount"`
}

// Quote returns the reward amount for a transfer. It performs a single
// attempt and never returns an error: every failure mode degrades to a zero
// reward and is logged for observability only.
func (c *Client) Quote(ctx context.Context, senderID, recipientID, amount int64) int64 {
	reward, err := c.fetchQuote(ctx, senderID, recipientID, amount)
	if err != nil {
		log.Printf("level=warn component=incentive_client msg=\"quote failed; degrading to zero reward\" sender_id=%d recipient_id=%d amount=%d err=%v",
			senderID, recipientID, amount, err)
		return 0
	}
	if reward < 0 {
		log.Printf("level=warn component=incentive_client msg=\"negative reward in response; degrading to zero\" reward=%d", reward)
		return 0
	}
	return reward
}

func (c *Client) fetchQuote(ctx context.Context, senderID, recipientID, amount int64) (int64, error) {
	if c.baseURL == "" {
		return 0, fmt.Errorf("incentive service base url is empty")
	}

	url := fmt.Sprintf("%s/incentive", c.baseURL)

	body, err := json.Marshal(quoteRequest{
		SenderID:    senderID,
		RecipientID: recipientID,
		Amount:      amount,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to execute request to incentive service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("incentive service returned status %d", resp.StatusCode)
	}

	var response quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}

	return response.Amount, nil
}
