// Command perfctl analyzes page performance data from the command line,
// without the API server or its stores.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/user/perf-insights/internal/detector"
	"github.com/user/perf-insights/internal/entity"
	"github.com/user/perf-insights/internal/usecase"
	"github.com/user/perf-insights/pkg/logger"
	"github.com/user/perf-insights/pkg/metrics"
)

var (
	logLevel   string
	outputFile string
)

var rootCmd = &cobra.Command{
	Use:           "perfctl",
	Short:         "Detect page performance bottlenecks",
	Long:          "perfctl runs the bottleneck detectors over page metrics and resources, read from a JSON file or collected live in headless Chrome.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "out", "o", "", "Write the report to this file instead of stdout")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger() *zap.Logger {
	return logger.NewWithWriter(logger.Options{Level: logLevel, Format: "console"}, zapcore.Lock(os.Stderr))
}

// newAnalyzer builds an analyzer that computes reports without storing them.
func newAnalyzer(log *zap.Logger) usecase.Analyzer {
	metrics.Init()
	engine := detector.NewEngine(log, detector.WithRecorder(metrics.DetectorRecorder{}))
	return usecase.NewAnalyzer(engine, usecase.FixedSettings(entity.DefaultSettings()), nil, nil, 0, log)
}
