package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/user/perf-insights/internal/usecase"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze metrics and resources from a JSON file",
	Long: `Reads a JSON document with "metrics" and "resources" (or an array of them)
and prints the analysis report. Use "-" to read from stdin.`,
	RunE: runAnalyze,
}

var (
	analyzeInputFile string
	analyzeLevel     string
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeInputFile, "input", "i", "", "Path to the input JSON file (required)")
	analyzeCmd.Flags().StringVarP(&analyzeLevel, "level", "l", "", "Suggestion level: basic, intermediate or advanced")

	if err := analyzeCmd.MarkFlagRequired("input"); err != nil {
		panic(fmt.Sprintf("failed to mark input flag as required: %v", err))
	}

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	raw, err := readInput(cmd.InOrStdin(), analyzeInputFile)
	if err != nil {
		return err
	}
	inputs, batch, err := parseInputs(raw)
	if err != nil {
		return err
	}
	for i := range inputs {
		if analyzeLevel != "" {
			inputs[i].Level = analyzeLevel
		}
	}

	log := newLogger()
	defer func() { _ = log.Sync() }()
	analyzer := newAnalyzer(log)

	reports, err := analyzer.AnalyzeBatch(cmd.Context(), inputs)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	if batch {
		return writeJSON(cmd.OutOrStdout(), reports)
	}
	return writeJSON(cmd.OutOrStdout(), reports[0])
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return data, nil
}

// parseInputs accepts a single object or an array of objects. batch reports
// which form was given.
func parseInputs(raw []byte) (inputs []usecase.AnalyzeInput, batch bool, err error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &inputs); err != nil {
			return nil, false, fmt.Errorf("failed to parse input JSON: %w", err)
		}
		if len(inputs) == 0 {
			return nil, false, fmt.Errorf("input array is empty")
		}
		return inputs, true, nil
	}

	var single usecase.AnalyzeInput
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return nil, false, fmt.Errorf("failed to parse input JSON: %w", err)
	}
	return []usecase.AnalyzeInput{single}, false, nil
}
