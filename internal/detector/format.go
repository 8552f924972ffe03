package detector

import (
	"fmt"
	"math"
)

// FormatSize renders a byte count for display: bytes below 1 KB, kilobytes
// with one decimal below 1 MB, megabytes with two decimals above.
func FormatSize(bytes int64) string {
	switch {
	case bytes < kb:
		return fmt.Sprintf("%d B", bytes)
	case bytes < mb:
		return fmt.Sprintf("%.1f KB", float64(bytes)/kb)
	default:
		return fmt.Sprintf("%.2f MB", float64(bytes)/mb)
	}
}

func formatMillis(ms float64) string {
	return fmt.Sprintf("%dms", int64(math.Round(ms)))
}
