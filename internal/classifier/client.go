package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/campusdesk/campusdesk/pkg/formatting"
)

// Client is the HTTP implementation of System.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token(),
		http:    &http.Client{Timeout: cfg.Timeout()},
		logger:  logger.With("system", "classifier"),
	}
}

// Classify submits the complaint content for classification. The credential
// check happens before any network traffic so a misconfigured deployment
// fails fast with a config fault rather than an upstream 401.
func (c *Client) Classify(ctx context.Context, req Request) (*Result, error) {
	if c.token == "" {
		return nil, ErrMissingCredential
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode classification request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build classification request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResult, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrInvalidResult, err)
	}

	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case http.StatusPaymentRequired:
		return nil, ErrQuotaExceeded
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("classification request failed",
			"status", resp.StatusCode,
			"body", string(body),
		)
		return nil, fmt.Errorf("%w: status %d", ErrInvalidResult, resp.StatusCode)
	}

	// Upstream models occasionally wrap the JSON payload in a markdown
	// code fence; tolerate that.
	result, err := formatting.ParseJSON[Result](string(body))
	if err != nil {
		c.logger.Error("classification response unparseable", "body", string(body))
		return nil, fmt.Errorf("%w: %w", ErrInvalidResult, err)
	}

	if err := result.validate(); err != nil {
		c.logger.Error("classification response invalid", "error", err)
		return nil, err
	}

	return &result, nil
}
