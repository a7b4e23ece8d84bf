// Package client is the external-facing polling wrapper around the
// council API: create a session, wait for the deliberation to settle,
// and extract the final result.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultPollInterval spaces out status polls while waiting.
	DefaultPollInterval = 5 * time.Second
	// DefaultTimeout bounds a whole deliberation wait.
	DefaultTimeout = 5 * time.Minute
)

// Result kinds reported by Result.
const (
	KindFinalResult = "final_result"
	KindLastMessage = "last_message"
)

// Client talks to one council API server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the given base URL, e.g. "http://localhost:3001".
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Session is the creation response.
type Session struct {
	SessionID string `json:"sessionId"`
	Mode      string `json:"mode"`
	Topic     string `json:"topic"`
	Status    string `json:"status"`
}

// Summary is the pollable session view.
type Summary struct {
	SessionID    string    `json:"sessionId"`
	Mode         string    `json:"mode"`
	Topic        string    `json:"topic"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	MessageCount int       `json:"messageCount"`
	Consensus    string    `json:"consensus,omitempty"`
}

// Message is one transcript entry.
type Message struct {
	Councilor string    `json:"councilor"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Result is the extracted outcome of a deliberation.
type Result struct {
	Author  string `json:"author"`
	Content string `json:"content"`
	Kind    string `json:"type"`
}

// Health reports whether the council server responds on /health.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("health request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed: status %d", resp.StatusCode)
	}
	return nil
}

// CreateSession starts a deliberation. Single request, no retry.
func (c *Client) CreateSession(ctx context.Context, mode, topic string, councilors []string) (string, error) {
	payload := map[string]any{
		"mode":  mode,
		"topic": topic,
	}
	if len(councilors) > 0 {
		payload["councilors"] = councilors
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode session request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/session", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("session request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("create session: status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return "", fmt.Errorf("decode session response: %w", err)
	}
	if session.SessionID == "" {
		return "", fmt.Errorf("create session: response missing sessionId")
	}
	return session.SessionID, nil
}

// GetSession fetches the pollable summary for a session.
func (c *Client) GetSession(ctx context.Context, sessionID string) (Summary, error) {
	var summary Summary
	if err := c.getJSON(ctx, "/api/session/"+sessionID, &summary); err != nil {
		return Summary{}, err
	}
	return summary, nil
}

// Messages fetches the full transcript for a session.
func (c *Client) Messages(ctx context.Context, sessionID string) ([]Message, error) {
	var messages []Message
	if err := c.getJSON(ctx, "/api/session/"+sessionID+"/messages", &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// WaitForCompletion polls the session until it reaches a terminal status
// or timeout elapses. It returns true only for completed. Transient fetch
// errors re-poll rather than abort; a timeout of zero returns immediately.
func (c *Client) WaitForCompletion(ctx context.Context, sessionID string, timeout, pollInterval time.Duration) bool {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		summary, err := c.GetSession(ctx, sessionID)
		if err == nil {
			switch summary.Status {
			case "completed":
				return true
			case "failed":
				return false
			}
		}

		wait := pollInterval
		if remaining := time.Until(deadline); remaining < wait {
			wait = remaining
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(wait):
		}
	}
	return false
}

// Result extracts the deliberation outcome: the newest speaker message
// containing a terminal marker phrase, else the last message, else nil.
func (c *Client) Result(ctx context.Context, sessionID string) (*Result, error) {
	messages, err := c.Messages(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, nil
	}

	for i := len(messages) - 1; i >= 0; i-- {
		msg := messages[i]
		author := strings.ToLower(msg.Councilor)
		content := strings.ToLower(msg.Content)
		if strings.Contains(author, "speaker") &&
			(strings.Contains(content, "final ruling") || strings.Contains(content, "final prediction")) {
			return &Result{Author: msg.Councilor, Content: msg.Content, Kind: KindFinalResult}, nil
		}
	}

	last := messages[len(messages)-1]
	return &Result{Author: last.Councilor, Content: last.Content, Kind: KindLastMessage}, nil
}

// QuickDeliberate composes create, wait, and result extraction,
// short-circuiting at the first failing step.
func (c *Client) QuickDeliberate(ctx context.Context, topic, mode string, timeout time.Duration) (*Result, error) {
	sessionID, err := c.CreateSession(ctx, mode, topic, nil)
	if err != nil {
		return nil, err
	}

	if !c.WaitForCompletion(ctx, sessionID, timeout, DefaultPollInterval) {
		return nil, fmt.Errorf("session %s did not complete within %s", sessionID, timeout)
	}

	return c.Result(ctx, sessionID)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
