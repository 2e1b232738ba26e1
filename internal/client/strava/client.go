package strava

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	go_json "github.com/goccy/go-json"
	"golang.org/x/oauth2"

	"stravanotion/internal/retry"
	"stravanotion/internal/xhttp"
)

type Client struct {
	Activity ActivityService
	Athlete  AthleteService
	Stream   StreamService

	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	retry      retry.Policy
}

func New(tokenSource oauth2.TokenSource, opts ...Option) *Client {
	const baseURL = "https://www.strava.com/api/v3"

	cfg := &clientConfig{
		baseURL: baseURL,
		logger:  slog.Default(),
		retry:   retry.DefaultPolicy(),
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	transport := &stravaTransport{
		base:        xhttp.NewTransport(),
		tokenSource: tokenSource,
	}

	c := &Client{
		baseURL:    cfg.baseURL,
		httpClient: &http.Client{Transport: transport, Timeout: cfg.timeout},
		logger:     cfg.logger,
		retry:      cfg.retry,
	}

	c.Activity = &activityService{client: c}
	c.Athlete = &athleteService{client: c}
	c.Stream = &streamService{client: c}

	return c
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

func (c *Client) do(ctx context.Context, method string, path string, query url.Values, result any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	return retry.Do(ctx, c.retry, c.logger, method+" "+path, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, method, u, nil)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
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
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("reading response: %w", err)
			}
			if err := go_json.NewDecoder(bytes.NewReader(body)).Decode(result); err != nil {
				return fmt.Errorf("decoding response: %w\nbody: %s", err, string(body))
			}
		}

		return nil
	})
}

type stravaTransport struct {
	base        http.RoundTripper
	tokenSource oauth2.TokenSource
}

var _ http.RoundTripper = (*stravaTransport)(nil)

func (t *stravaTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.tokenSource.Token()
	if err != nil {
		return nil, fmt.Errorf("getting token: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("round trip: %w", err)
	}
	return resp, nil
}
