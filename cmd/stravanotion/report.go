package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"stravanotion/internal/config"
	"stravanotion/internal/runstats"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize recent sync runs",
		RunE:  runReport,
	}
	cmd.Flags().Int("limit", 14, "how many runs to show")
	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Read()
	if err != nil {
		return fmt.Errorf("reading configuration: %w", err)
	}
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := runstats.Open(cfg.StatsDBPath, slog.Default())
	if err != nil {
		return fmt.Errorf("opening stats database: %w", err)
	}
	defer func() { _ = store.Close() }()

	runs, err := store.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}
	writeReport(cmd.OutOrStdout(), runs)
	return nil
}

func writeReport(w io.Writer, runs []runstats.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No recorded runs yet.")
		return
	}

	var fetched, created, updated, failed int
	fmt.Fprintf(w, "Last %d sync runs:\n\n", len(runs))
	for _, run := range runs {
		fetched += run.Fetched
		created += run.Created
		updated += run.Updated
		failed += run.Failed

		line := fmt.Sprintf("  %s  fetched %3d  created %3d  updated %3d  failed %3d",
			run.StartedAt.Format("2006-01-02 15:04"),
			run.Fetched, run.Created, run.Updated, run.Failed,
		)
		if run.DailyEnabled {
			line += fmt.Sprintf("  daily %d/%d", run.DailyDays-run.DailyFailed, run.DailyDays)
		}
		if run.AthleteEnabled && run.AthleteUpserted {
			line += "  athlete ok"
		}
		fmt.Fprintln(w, line)

		for _, warning := range run.Warnings {
			fmt.Fprintf(w, "      warning: %s\n", warning)
		}
	}

	fmt.Fprintf(w, "\nTotals: fetched %d, created %d, updated %d, failed %d\n",
		fetched, created, updated, failed)
	if fetched > 0 && failed > 0 {
		fmt.Fprintf(w, "Failure rate: %.1f%%\n", float64(failed)/float64(fetched)*100)
	}
	fmt.Fprint(w, strings.Repeat("-", 60)+"\n")
}
