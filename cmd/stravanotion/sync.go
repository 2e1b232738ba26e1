package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"stravanotion/internal/client/notion"
	"stravanotion/internal/client/strava"
	"stravanotion/internal/client/weather"
	"stravanotion/internal/config"
	"stravanotion/internal/runstats"
	"stravanotion/internal/syncer"
	"stravanotion/internal/xslog"
)

// notionWriteDelay paces writes to stay inside Notion's rate limits.
const notionWriteDelay = 100 * time.Millisecond

func runSync(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Read()
	if err != nil {
		return fmt.Errorf("reading configuration: %w", err)
	}
	if days, _ := cmd.Flags().GetInt("days"); days > 0 {
		cfg.SyncDays = days
	}
	if threshold, _ := cmd.Flags().GetFloat64("failure-threshold"); threshold >= 0 {
		cfg.FailureThreshold = threshold
	}

	level, err := xslog.Parse(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := xslog.NewLogger(os.Stderr, level)
	slog.SetDefault(logger)

	ctx := cmd.Context()

	// Fetching the first access token up front turns a bad credential into
	// an immediate, clearly-attributed failure instead of a mid-run one.
	tokenSource := strava.NewTokenSource(ctx, cfg.StravaClientID, cfg.StravaClientSecret, cfg.StravaRefreshToken)
	if _, err := tokenSource.Token(); err != nil {
		return fmt.Errorf("refreshing Strava credentials: %w", err)
	}

	stravaClient := strava.New(tokenSource,
		strava.WithLogger(logger),
		strava.WithTimeout(cfg.HTTPTimeout),
	)
	notionClient := notion.New(cfg.NotionToken,
		notion.WithLogger(logger),
		notion.WithTimeout(cfg.HTTPTimeout),
	)
	weatherClient := weather.New(cfg.WeatherAPIKey,
		weather.WithLogger(logger),
		weather.WithTimeout(cfg.HTTPTimeout),
	)
	if cfg.WeatherAPIKey == "" {
		logger.Info("no weather API key; using the Open-Meteo archive (about two days behind)")
	}

	service := syncer.NewService(stravaClient, weatherClient, syncer.NewNotionStore(notionClient), syncer.Config{
		WorkoutsDatabaseID: cfg.WorkoutsDatabaseID,
		DailyDatabaseID:    cfg.DailySummaryDatabaseID,
		AthleteDatabaseID:  cfg.AthleteMetricsDatabaseID,
		AthleteName:        cfg.AthleteName,
		Days:               cfg.SyncDays,
		FailureThreshold:   cfg.FailureThreshold,
		WriteDelay:         notionWriteDelay,
	}, syncer.WithServiceLogger(logger))

	report, runErr := service.Run(ctx)
	if report != nil {
		recordRun(ctx, cfg.StatsDBPath, logger, report)
	}
	return runErr
}

// recordRun persists the outcome to the stats sink. Sink failures are
// logged, never surfaced: statistics must not fail an otherwise good run.
func recordRun(ctx context.Context, path string, logger *slog.Logger, report *syncer.Report) {
	store, err := runstats.Open(path, logger)
	if err != nil {
		logger.Warn("stats sink unavailable", xslog.Error(err))
		return
	}
	defer func() { _ = store.Close() }()

	run := &runstats.Run{
		StartedAt:       report.StartedAt,
		Fetched:         report.Workouts.Fetched,
		Created:         report.Workouts.Created,
		Updated:         report.Workouts.Updated,
		Failed:          report.Workouts.Failed,
		DailyEnabled:    report.DailyEnabled,
		DailyDays:       report.DailyDays,
		DailyFailed:     report.DailyFailed,
		AthleteEnabled:  report.AthleteEnabled,
		AthleteUpserted: report.AthleteUpserted,
		Warnings:        report.Warnings,
	}
	if err := store.Record(ctx, run); err != nil {
		logger.Warn("recording run statistics failed", xslog.Error(err))
	}
}
