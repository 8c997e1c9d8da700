package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const defaultBaseURL = "https://graph.facebook.com/v18.0"

type Client struct {
	accessToken string
	baseURL     string
	logger      *slog.Logger
	client      *http.Client
}

func NewClient(accessToken string, logger *slog.Logger) *Client {
	return &Client{
		accessToken: accessToken,
		baseURL:     defaultBaseURL,
		logger:      logger,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SendTextMessage posts a plain text message to the Cloud API through the
// phone number the webhook notification was delivered for.
func (c *Client) SendTextMessage(ctx context.Context, phoneNumberID, to, body string) error {
	payload := SendMessageRequest{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             SendText{Body: body},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("WhatsApp API error: %d - %s", resp.StatusCode, string(respBody))
	}

	c.logger.Info("Message sent to WhatsApp", "to", to)
	return nil
}
