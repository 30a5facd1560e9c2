package explain

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

const (
	defaultTimeout  = 60 * time.Second
	maxResponseSize = 1 << 20
)

// Client posts explanation requests to the service endpoint.
type Client struct {
	URL string
	// Token, when set, is sent as a bearer token.
	Token string

	HTTP *http.Client
	Log  *slog.Logger
}

// NewClient returns a client for the endpoint at url.
func NewClient(url, token string) *Client {
	return &Client{
		URL:   url,
		Token: token,
		HTTP:  &http.Client{Timeout: defaultTimeout},
		Log:   slog.Default(),
	}
}

// Explain requests an explanation and checks that all five sections are
// present and non-empty.
func (c *Client) Explain(ctx context.Context, req Request) (*Explanation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.Token)
	}

	c.Log.Debug("Requesting explanation", "url", c.URL, "topic", req.Topic, "level", req.Level.String())
	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("explanation request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var failure struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &failure) == nil && failure.Error != "" {
			return nil, fmt.Errorf("explanation service: %s (status %d)", failure.Error, resp.StatusCode)
		}
		return nil, fmt.Errorf("explanation service returned status %d", resp.StatusCode)
	}

	return decodeExplanation(data)
}

func decodeExplanation(data []byte) (*Explanation, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode explanation: %w", err)
	}
	if err := explanationValidator.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIncompleteExplanation, err)
	}
	var e Explanation
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decode explanation: %w", err)
	}
	return &e, nil
}
