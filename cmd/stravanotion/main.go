package main

import (
	"context"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"stravanotion/internal/version"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:     "stravanotion",
		Short:   "Sync Strava activities into Notion",
		Version: version.Get(),
		RunE:    runSync,
	}
	rootCmd.Flags().Int("days", 0, "override the sync window in days")
	rootCmd.Flags().Float64("failure-threshold", -1, "override the tolerated failure fraction (0.0-1.0)")

	rootCmd.AddCommand(reportCmd())

	if err := fang.Execute(context.Background(), rootCmd, fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM)); err != nil {
		os.Exit(1)
	}
}
