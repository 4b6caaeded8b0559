package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/triotech/friday/internal/config"
	"github.com/triotech/friday/internal/conversation"
)

// apiClient talks to a running friday server over its local HTTP API.
// Each method wraps one endpoint and unwraps the response envelope so
// commands deal in answers, verdicts and confirmations, not JSON.
type apiClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

var newAPIClient = func() (*apiClient, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	return &apiClient{
		baseURL:    fmt.Sprintf("http://127.0.0.1:%d", cfg.Server.Port),
		token:      cfg.API.Token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// ask sends a knowledge-base query and returns the answer text.
func (c *apiClient) ask(ctx context.Context, query string) (string, error) {
	var result struct {
		Answer string `json:"answer"`
	}
	if err := c.call(ctx, "POST", "/query", map[string]string{"query": query}, &result); err != nil {
		return "", err
	}
	return result.Answer, nil
}

// classify submits a user message and returns the verdict and guidance.
func (c *apiClient) classify(ctx context.Context, message string) (verdict, guidance string, err error) {
	var result struct {
		Verdict  string `json:"verdict"`
		Guidance string `json:"guidance"`
	}
	if err := c.call(ctx, "POST", "/classify", map[string]string{"message": message}, &result); err != nil {
		return "", "", err
	}
	return result.Verdict, result.Guidance, nil
}

// createLead submits lead details and returns the server's user-facing
// message, which is a confirmation or a validation complaint.
func (c *apiClient) createLead(ctx context.Context, fields map[string]string) (string, error) {
	var result struct {
		Message string `json:"message"`
	}
	if err := c.call(ctx, "POST", "/leads", fields, &result); err != nil {
		return "", err
	}
	return result.Message, nil
}

// conversationLog fetches the current session's log file path and entries.
func (c *apiClient) conversationLog(ctx context.Context) (string, []conversation.Entry, error) {
	var result struct {
		Path         string               `json:"path"`
		Conversation []conversation.Entry `json:"conversation"`
	}
	if err := c.call(ctx, "GET", "/conversation", nil, &result); err != nil {
		return "", nil, err
	}
	return result.Path, result.Conversation, nil
}

func (c *apiClient) call(ctx context.Context, method, path string, body, out any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshalling request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("server not reachable, is friday running? (%w)", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("server returned %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(data))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
