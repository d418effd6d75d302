// Package vectorstore is a thin JSON client for the external vector index
// service. The index stores opaque text documents with metadata and supports
// similarity search plus deletion by metadata filter.
package vectorstore

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

// Document mirrors the index's wire representation.
type Document struct {
	ID       string            `json:"id"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Score    float64           `json:"score,omitempty"`
}

// Client calls the vector index REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New builds a client with sane defaults. The timeout on the supplied (or
// default) http.Client bounds every index call so a slow index cannot stall
// order placement.
func New(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("vector store base URL is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}, nil
}

// AddDocument pushes one document into the index.
func (c *Client) AddDocument(ctx context.Context, doc Document) error {
	if strings.TrimSpace(doc.ID) == "" {
		return errors.New("document id is required")
	}
	return c.post(ctx, "/documents", doc, nil)
}

// DeleteByMetadata removes every document whose metadata matches key=value.
func (c *Client) DeleteByMetadata(ctx context.Context, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("metadata key is required")
	}
	payload := struct {
		Filter map[string]string `json:"filter"`
	}{Filter: map[string]string{key: value}}
	return c.post(ctx, "/documents/delete", payload, nil)
}

// Search returns up to topK documents similar to the query, with scores at
// or above minScore.
func (c *Client) Search(ctx context.Context, query string, topK int, minScore float64) ([]Document, error) {
	payload := struct {
		Query    string  `json:"query"`
		TopK     int     `json:"topK"`
		MinScore float64 `json:"minScore"`
	}{Query: query, TopK: topK, MinScore: minScore}
	var result struct {
		Documents []Document `json:"documents"`
	}
	if err := c.post(ctx, "/search", payload, &result); err != nil {
		return nil, err
	}
	return result.Documents, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	if c == nil || c.httpClient == nil {
		return errors.New("vector store client not configured")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode vector store request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build vector store request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call vector store: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("vector store %s: %s", path, responseMessage(resp))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode vector store response: %w", err)
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
