package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// writeJSON prints v as indented JSON to w, or to --out when it is set.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	data = append(data, '\n')

	if outputFile != "" {
		if err := os.WriteFile(outputFile, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outputFile, err)
		}
		return nil
	}
	_, err = w.Write(data)
	return err
}
