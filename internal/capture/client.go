package capture

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"clauder/internal/conversation"
)

// MaxBodySize bounds the conversation document read from the host.
const MaxBodySize = 64 * 1024 * 1024

// Client re-fetches conversation trees from the host application.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new capture client
func NewClient(timeout time.Duration, userAgent string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
	}
}

// Fetch issues a GET for rawURL with the forwarded form of header and
// decodes the conversation it returns.
func (c *Client) Fetch(ctx context.Context, rawURL string, header http.Header) (*conversation.Conversation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header = ForwardHeaders(header)
	if req.Header.Get("User-Agent") == "" && c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("host returned status %d: %s", resp.StatusCode, string(body))
	}

	conv, err := conversation.Decode(io.LimitReader(resp.Body, MaxBodySize))
	if err != nil {
		return nil, err
	}
	return conv, nil
}
