// Package weather looks up historical conditions for an activity's start
// coordinate and time. WeatherAPI.com is used when an API key is configured
// (near-realtime history); the keyless Open-Meteo archive is the fallback,
// which trails real time by about two days.
package weather

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	go_json "github.com/goccy/go-json"

	"stravanotion/internal/retry"
	"stravanotion/internal/xhttp"
)

type Observation struct {
	TempF      float64
	Conditions string
	WindMPH    float64
	Humidity   float64
}

// Summary renders the observation as a single line for a text property,
// e.g. "72°F, clear, 5 mph wind, 65% humidity".
func (o *Observation) Summary() string {
	return fmt.Sprintf("%.0f°F, %s, %.0f mph wind, %.0f%% humidity",
		o.TempF, strings.ToLower(o.Conditions), o.WindMPH, o.Humidity)
}

type Client struct {
	apiKey         string
	weatherAPIBase string
	openMeteoBase  string
	httpClient     *http.Client
	logger         *slog.Logger
	retry          retry.Policy
}

func New(apiKey string, opts ...Option) *Client {
	cfg := &clientConfig{
		weatherAPIBase: "https://api.weatherapi.com/v1/history.json",
		openMeteoBase:  "https://archive-api.open-meteo.com/v1/archive",
		logger:         slog.Default(),
		retry:          retry.DefaultPolicy(),
		timeout:        30 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Client{
		apiKey:         apiKey,
		weatherAPIBase: cfg.weatherAPIBase,
		openMeteoBase:  cfg.openMeteoBase,
		httpClient:     xhttp.NewHTTPClient(xhttp.WithTimeout(cfg.timeout)),
		logger:         cfg.logger,
		retry:          cfg.retry,
	}
}

type clientConfig struct {
	weatherAPIBase string
	openMeteoBase  string
	logger         *slog.Logger
	retry          retry.Policy
	timeout        time.Duration
}

type Option func(*clientConfig)

func WithBaseURLs(weatherAPI, openMeteo string) Option {
	return func(cfg *clientConfig) {
		cfg.weatherAPIBase = weatherAPI
		cfg.openMeteoBase = openMeteo
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *clientConfig) { cfg.logger = logger }
}

func WithTimeout(d time.Duration) Option {
	return func(cfg *clientConfig) { cfg.timeout = d }
}

// Get returns the observation closest to the given start time, or nil when
// no data is available. Lookup failures are soft: weather is contextual
// decoration, never worth failing a record over.
func (c *Client) Get(ctx context.Context, lat, lng float64, start time.Time) (*Observation, error) {
	if c.apiKey != "" {
		return c.getWeatherAPI(ctx, lat, lng, start)
	}
	return c.getOpenMeteo(ctx, lat, lng, start)
}

func (c *Client) getWeatherAPI(ctx context.Context, lat, lng float64, start time.Time) (*Observation, error) {
	query := make(url.Values)
	query.Set("key", c.apiKey)
	query.Set("q", fmt.Sprintf("%f,%f", lat, lng))
	query.Set("dt", start.Format("2006-01-02"))

	var resp struct {
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
		Forecast struct {
			ForecastDay []struct {
				Hour []struct {
					Time      string  `json:"time"`
					TempF     float64 `json:"temp_f"`
					WindMPH   float64 `json:"wind_mph"`
					Humidity  float64 `json:"humidity"`
					Condition struct {
						Text string `json:"text"`
					} `json:"condition"`
				} `json:"hour"`
			} `json:"forecastday"`
		} `json:"forecast"`
	}

	if err := c.get(ctx, c.weatherAPIBase, query, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("weatherapi: %s", resp.Error.Message)
	}
	if len(resp.Forecast.ForecastDay) == 0 || len(resp.Forecast.ForecastDay[0].Hour) == 0 {
		return nil, nil
	}

	hours := resp.Forecast.ForecastDay[0].Hour
	wantHour := start.Hour()
	best := 0
	bestDiff := 24
	for i, h := range hours {
		t, err := time.Parse("2006-01-02 15:04", h.Time)
		if err != nil {
			continue
		}
		diff := wantHour - t.Hour()
		if diff < 0 {
			diff = -diff
		}
		if diff < bestDiff {
			bestDiff = diff
			best = i
		}
	}

	h := hours[best]
	return &Observation{
		TempF:      h.TempF,
		Conditions: h.Condition.Text,
		WindMPH:    h.WindMPH,
		Humidity:   h.Humidity,
	}, nil
}

func (c *Client) getOpenMeteo(ctx context.Context, lat, lng float64, start time.Time) (*Observation, error) {
	date := start.Format("2006-01-02")

	query := make(url.Values)
	query.Set("latitude", fmt.Sprintf("%f", lat))
	query.Set("longitude", fmt.Sprintf("%f", lng))
	query.Set("start_date", date)
	query.Set("end_date", date)
	query.Set("hourly", "temperature_2m,weathercode,windspeed_10m,relativehumidity_2m")
	query.Set("temperature_unit", "fahrenheit")
	query.Set("windspeed_unit", "mph")

	var resp struct {
		Reason string `json:"reason"`
		Hourly struct {
			Temperature []float64 `json:"temperature_2m"`
			WeatherCode []int     `json:"weathercode"`
			WindSpeed   []float64 `json:"windspeed_10m"`
			Humidity    []float64 `json:"relativehumidity_2m"`
		} `json:"hourly"`
	}

	if err := c.get(ctx, c.openMeteoBase, query, &resp); err != nil {
		return nil, err
	}
	if resp.Reason != "" {
		return nil, fmt.Errorf("open-meteo: %s", resp.Reason)
	}

	temps := resp.Hourly.Temperature
	codes := resp.Hourly.WeatherCode
	if len(temps) == 0 || len(codes) == 0 {
		return nil, nil
	}

	hour := start.Hour()
	if hour >= len(temps) {
		hour = len(temps) - 1
	}

	obs := &Observation{
		TempF:      temps[hour],
		Conditions: weathercodeText(codes[min(hour, len(codes)-1)]),
	}
	if hour < len(resp.Hourly.WindSpeed) {
		obs.WindMPH = resp.Hourly.WindSpeed[hour]
	}
	if hour < len(resp.Hourly.Humidity) {
		obs.Humidity = resp.Hourly.Humidity[hour]
	}
	return obs, nil
}

func (c *Client) get(ctx context.Context, base string, query url.Values, result any) error {
	u := base + "?" + query.Encode()

	return retry.Do(ctx, c.retry, c.logger, "GET "+base, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("executing request: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode >= 400 {
			body, _ := io.ReadAll(resp.Body)
			return &apiError{statusCode: resp.StatusCode, body: string(body)}
		}

		return go_json.NewDecoder(resp.Body).Decode(result)
	})
}

type apiError struct {
	statusCode int
	body       string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("weather api: %d %s", e.statusCode, e.body)
}

func (e *apiError) Retryable() bool {
	return e.statusCode == http.StatusTooManyRequests || e.statusCode >= 500
}

func (e *apiError) RateLimited() bool {
	return e.statusCode == http.StatusTooManyRequests
}

// weathercodeText maps WMO weather interpretation codes to short labels.
func weathercodeText(code int) string {
	switch code {
	case 0:
		return "Clear"
	case 1:
		return "Partly cloudy"
	case 2, 3:
		return "Cloudy"
	case 45, 48:
		return "Fog"
	case 51, 53, 55:
		return "Drizzle"
	case 61, 63, 65:
		return "Rain"
	case 71, 73, 75:
		return "Snow"
	case 80, 81, 82:
		return "Rain showers"
	case 85, 86:
		return "Snow showers"
	case 95, 96, 99:
		return "Thunderstorm"
	default:
		return "Unknown"
	}
}
