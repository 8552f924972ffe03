package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/user/perf-insights/internal/adapter/chromedp_collector"
	"github.com/user/perf-insights/internal/entity"
	"github.com/user/perf-insights/internal/usecase"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Load a page in headless Chrome and analyze it",
	RunE:  runCollect,
}

var (
	collectURL      string
	collectThrottle string
	collectLevel    string
	collectTimeout  time.Duration
)

func init() {
	collectCmd.Flags().StringVarP(&collectURL, "url", "u", "", "Page URL to collect (required)")
	collectCmd.Flags().StringVar(&collectThrottle, "throttle", entity.ThrottleNone, "Network throttling: none, slow-3g, fast-3g or regular-4g")
	collectCmd.Flags().StringVarP(&collectLevel, "level", "l", "", "Suggestion level: basic, intermediate or advanced")
	collectCmd.Flags().DurationVar(&collectTimeout, "timeout", 60*time.Second, "Page load timeout")

	if err := collectCmd.MarkFlagRequired("url"); err != nil {
		panic(fmt.Sprintf("failed to mark url flag as required: %v", err))
	}

	rootCmd.AddCommand(collectCmd)
}

func runCollect(cmd *cobra.Command, _ []string) error {
	if !entity.ValidThrottling(collectThrottle) {
		return fmt.Errorf("unknown throttling preset %q", collectThrottle)
	}

	log := newLogger()
	defer func() { _ = log.Sync() }()

	collector := chromedp_collector.NewChromedpCollector(1, collectTimeout, log)
	defer collector.Close()

	snap, err := collector.Collect(cmd.Context(), collectURL, collectThrottle)
	if err != nil {
		return fmt.Errorf("collection failed: %w", err)
	}

	report, err := newAnalyzer(log).Analyze(cmd.Context(), usecase.AnalyzeInput{
		URL:       snap.URL,
		Metrics:   &snap.Metrics,
		Resources: snap.Resources,
		Level:     collectLevel,
	})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	return writeJSON(cmd.OutOrStdout(), report)
}
