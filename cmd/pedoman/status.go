package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/ternarybob/pedoman/internal/app"
	"github.com/ternarybob/pedoman/internal/httpclient"
	"github.com/ternarybob/pedoman/internal/models"
	"github.com/ternarybob/pedoman/internal/services/cache"
	"github.com/ternarybob/pedoman/internal/services/status"
)

func (c *cli) pollOnce(cmd *cobra.Command, target status.Target) (status.Snapshot, error) {
	backend, err := app.NewBackend(c.config, c.logger)
	if err != nil {
		return status.Snapshot{}, err
	}
	monitor := status.NewMonitor(backend, cache.NewService(0, c.logger), nil, c.logger)
	err = monitor.PollNow(cmd.Context(), target)
	return monitor.Snapshot(), err
}

func (c *cli) healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show backend health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := c.pollOnce(cmd, status.TargetHealth)
			if err != nil {
				return fmt.Errorf("%s", httpclient.UserMessage(err, "Gagal memuat status sistem"))
			}

			health := snap.Health
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Status:  %s\n", models.HealthLabel(health.Status))
			fmt.Fprintf(out, "Versi:   %s\n", health.Version)
			fmt.Fprintf(out, "Uptime:  %s (sejak health check)\n", models.FormatUptime(health.Timestamp.Time, time.Now()))
			for _, service := range health.Services {
				fmt.Fprintf(out, "  %-20s %s\n", models.ServiceLabel(service.Key), models.ServiceStatusLabel(service.Value))
			}
			return nil
		},
	}
}

func (c *cli) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show vector store statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := c.pollOnce(cmd, status.TargetStats)
			if err != nil {
				return fmt.Errorf("%s", httpclient.UserMessage(err, "Gagal memuat statistik"))
			}

			stats := snap.Stats
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total Dokumen: %d\n", stats.VectorStore.TotalDocuments)
			fmt.Fprintf(out, "Total Chunks:  %d\n", stats.TotalChunks())
			fmt.Fprintf(out, "Collection:    %s\n", stats.VectorStore.CollectionName)
			fmt.Fprintf(out, "Gemini API:    %s\n", models.ServiceStatusLabel(stats.GeminiConnection))
			fmt.Fprintf(out, "Namespaces:    %d\n", len(stats.AvailableNamespaces))

			highest := stats.MaxNamespaceCount()
			for _, ns := range stats.VectorStore.NamespaceDistribution {
				fmt.Fprintf(out, "  %-20s %6d  %5.1f%%\n", models.NamespaceLabel(ns.Key), ns.Value, models.BarPercent(ns.Value, highest))
			}
			return nil
		},
	}
}
