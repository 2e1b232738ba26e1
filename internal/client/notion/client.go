package notion

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	go_json "github.com/goccy/go-json"

	"stravanotion/internal/retry"
	"stravanotion/internal/xhttp"
)

// apiVersion pins the Notion API revision this client speaks.
const apiVersion = "2022-06-28"

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	retry      retry.Policy
}

func New(token string, opts ...Option) *Client {
	const baseURL = "https://api.notion.com/v1"

	cfg := &clientConfig{
		baseURL: baseURL,
		logger:  slog.Default(),
		retry:   retry.DefaultPolicy(),
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	transport := &notionTransport{
		base:  xhttp.NewTransport(),
		token: token,
	}

	return &Client{
		baseURL:    cfg.baseURL,
		httpClient: &http.Client{Transport: transport, Timeout: cfg.timeout},
		logger:     cfg.logger,
		retry:      cfg.retry,
	}
}

type clientConfig struct {
	baseURL string
	logger  *slog.Logger
	retry   retry.Policy
	timeout time.Duration
}

type Option func(*clientConfig)

func WithBaseURL(baseURL string) Option {
	return func(cfg *clientConfig) { cfg.baseURL = baseURL }
}

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *clientConfig) { cfg.logger = logger }
}

func WithRetryPolicy(policy retry.Policy) Option {
	return func(cfg *clientConfig) { cfg.retry = policy }
}

func WithTimeout(d time.Duration) Option {
	return func(cfg *clientConfig) { cfg.timeout = d }
}

func (c *Client) do(ctx context.Context, method string, path string, payload any, result any) error {
	var body []byte
	if payload != nil {
		var err error
		body, err = go_json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
	}

	return retry.Do(ctx, c.retry, c.logger, method+" "+path, func(ctx context.Context) error {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("executing request: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode >= 400 {
			return parseAPIError(resp)
		}

		if result != nil && resp.StatusCode != http.StatusNoContent {
			respBody, err := io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("reading response: %w", err)
			}
			if err := go_json.NewDecoder(bytes.NewReader(respBody)).Decode(result); err != nil {
				return fmt.Errorf("decoding response: %w\nbody: %s", err, string(respBody))
			}
		}

		return nil
	})
}

type notionTransport struct {
	base  http.RoundTripper
	token string
}

var _ http.RoundTripper = (*notionTransport)(nil)

func (t *notionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+t.token)
	req.Header.Set("Notion-Version", apiVersion)
	req.Header.Set("Accept", "application/json")

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("round trip: %w", err)
	}
	return resp, nil
}
