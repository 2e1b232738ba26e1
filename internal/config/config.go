package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	StravaClientID     string `env:"STRAVA_CLIENT_ID,required"`
	StravaClientSecret string `env:"STRAVA_CLIENT_SECRET,required"`
	StravaRefreshToken string `env:"STRAVA_REFRESH_TOKEN,required"`

	NotionToken        string `env:"NOTION_TOKEN,required"`
	WorkoutsDatabaseID string `env:"NOTION_DATABASE_ID,required"`

	// Optional targets. Empty means the corresponding sync path is skipped.
	DailySummaryDatabaseID   string `env:"NOTION_DAILY_SUMMARY_DATABASE_ID"`
	AthleteMetricsDatabaseID string `env:"NOTION_ATHLETE_METRICS_DATABASE_ID"`

	AthleteName   string `env:"ATHLETE_NAME" envDefault:"Athlete"`
	WeatherAPIKey string `env:"WEATHER_API_KEY"`

	SyncDays         int           `env:"SYNC_DAYS" envDefault:"30"`
	FailureThreshold float64       `env:"FAILURE_THRESHOLD" envDefault:"0.2"`
	HTTPTimeout      time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`

	StatsDBPath string `env:"RUN_STATS_DB" envDefault:"stats/run_stats.db"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
}

func Read() (Config, error) {
	return env.ParseAs[Config]()
}
