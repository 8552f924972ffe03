// Package detector implements the heuristic bottleneck detectors and the
// engine that runs them over a page's metrics and resources.
package detector

import (
	"github.com/user/perf-insights/internal/entity"
)

// Detector inspects page data for one category of bottleneck. Implementations
// are pure: they never modify their inputs and return nil when nothing is found.
type Detector interface {
	Name() string
	Category() entity.Category
	Detect(metrics *entity.MetricsRecord, resources []entity.ResourceRecord) []entity.Bottleneck
}

const kb = 1024

const mb = 1024 * kb

const articleBase = "https://web.dev/articles/"

func article(slug string) string {
	return articleBase + slug
}

func suggest(text, slug string) entity.Suggestion {
	return entity.Suggestion{Text: text, Link: article(slug)}
}

// suggestions copies s so that no two bottlenecks share a backing array.
func suggestions(s ...entity.Suggestion) []entity.Suggestion {
	out := make([]entity.Suggestion, len(s))
	copy(out, s)
	return out
}

func newBottleneck(
	category entity.Category,
	title, description string,
	severity entity.Severity,
	resources []entity.ResourceRecord,
	s ...entity.Suggestion,
) entity.Bottleneck {
	affected := make([]entity.ResourceRecord, len(resources))
	copy(affected, resources)
	return entity.Bottleneck{
		Category:    category,
		Title:       title,
		Description: description,
		Severity:    severity,
		Resources:   affected,
		Suggestions: suggestions(s...),
	}
}

// countSeverity is high when more than two resources are affected.
func countSeverity(n int) entity.Severity {
	if n > 2 {
		return entity.SeverityHigh
	}
	return entity.SeverityMedium
}
