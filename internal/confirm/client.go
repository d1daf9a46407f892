// Package confirm talks to the external text-generation service that writes
// appointment confirmation messages. The service speaks the Ollama generate
// API; any failure surfaces as ErrGeneratorUnavailable and the booking that
// triggered it stands regardless.
package confirm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var ErrGeneratorUnavailable = errors.New("confirmation generator unavailable")

// Config describes how to reach the generator.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

type Client struct {
	baseURL string
	model   string
	http    *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("confirm: base URL required")
	}
	model := cfg.Model
	if model == "" {
		model = "gemma:2b"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   model,
		http: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate asks the model for a formal confirmation message.
func (c *Client) Generate(ctx context.Context, patientName, doctor, timeOfDay, date string) (string, error) {
	prompt := fmt.Sprintf(
		"Write a formal appointment confirmation for patient %s with %s at %s on %s.",
		patientName, doctor, timeOfDay, date,
	)

	payload, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("confirm: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("confirm: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneratorUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrGeneratorUnavailable, err)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("%w: %s: %s", ErrGeneratorUnavailable, resp.Status, strings.TrimSpace(string(data)))
	}

	var out generateResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrGeneratorUnavailable, err)
	}
	return out.Response, nil
}
