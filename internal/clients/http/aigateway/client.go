// Package aigateway is a thin client for the third-party AI gateway exposing
// chat-completion and image-generation endpoints. The gateway's model choice
// and behavior are opaque to this service.
package aigateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client calls the AI gateway REST API with bearer authentication.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New builds a gateway client. Image generation can take a while, so the
// default timeout is generous compared to the vector store client.
func New(baseURL, apiKey string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("AI gateway base URL is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{baseURL: baseURL, apiKey: apiKey, httpClient: httpClient}, nil
}

// Complete sends a chat prompt and returns the generated text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	payload := struct {
		Prompt string `json:"prompt"`
	}{Prompt: prompt}
	var result struct {
		Text string `json:"text"`
	}
	if err := c.post(ctx, "/v1/chat", payload, &result); err != nil {
		return "", err
	}
	return result.Text, nil
}

// Generate renders an image from the prompt and returns the raw bytes.
func (c *Client) Generate(ctx context.Context, prompt string) ([]byte, error) {
	payload := struct {
		Prompt string `json:"prompt"`
	}{Prompt: prompt}
	var result struct {
		Image string `json:"image"`
	}
	if err := c.post(ctx, "/v1/images", payload, &result); err != nil {
		return nil, err
	}
	data, err := base64.StdEncoding.DecodeString(result.Image)
	if err != nil {
		return nil, fmt.Errorf("decode generated image: %w", err)
	}
	return data, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	if c == nil || c.httpClient == nil {
		return errors.New("AI gateway client not configured")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode AI gateway request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build AI gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call AI gateway: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("AI gateway %s: %s", path, responseMessage(resp))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode AI gateway response: %w", err)
	}
	return nil
}

func responseMessage(resp *http.Response) string {
	var body struct {
		Message string `json:"message"`
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil && json.Unmarshal(raw, &body) == nil && strings.TrimSpace(body.Message) != "" {
		return fmt.Sprintf("%s (%s)", body.Message, resp.Status)
	}
	return resp.Status
}
