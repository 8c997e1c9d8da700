package inference

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

type GenerateRequest struct {
	Inputs     string     `json:"inputs"`
	Parameters Parameters `json:"parameters"`
	Options    Options    `json:"options"`
}

type Parameters struct {
	MaxLength   int     `json:"max_length"`
	Temperature float64 `json:"temperature"`
}

type Options struct {
	WaitForModel bool `json:"wait_for_model"`
}

type GenerateResult struct {
	GeneratedText string `json:"generated_text"`
}

type Client struct {
	apiToken string
	modelURL string
	logger   *slog.Logger
	client   *http.Client
}

func NewClient(apiToken, modelURL string, logger *slog.Logger) *Client {
	return &Client{
		apiToken: apiToken,
		modelURL: modelURL,
		logger:   logger,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// Generate runs the hosted text-generation model on prompt and returns the
// raw generated text of the first candidate.
func (c *Client) Generate(ctx context.Context, prompt, correlationID string) (string, error) {
	request := GenerateRequest{
		Inputs: prompt,
		Parameters: Parameters{
			MaxLength:   150,
			Temperature: 0.7,
		},
		Options: Options{WaitForModel: true},
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	c.logger.Info("Sending request to inference API", "correlation_id", correlationID, "model_url", c.modelURL)

	req, err := http.NewRequestWithContext(ctx, "POST", c.modelURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("inference API error: %d - %s", resp.StatusCode, string(body))
	}

	var results []GenerateResult
	if err := json.Unmarshal(body, &results); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(results) == 0 {
		return "", fmt.Errorf("no generations in response")
	}

	generated := results[0].GeneratedText
	c.logger.Info("Received response from inference API",
		"correlation_id", correlationID,
		"response_length", len(generated))

	return generated, nil
}
