package detector

import (
	"fmt"

	"github.com/user/perf-insights/internal/entity"
	"github.com/user/perf-insights/internal/resource"
)

const (
	maxStylesheets     = 4
	largeStylesheetMax = 50 * kb
)

var suggestPurgeUnCSS = suggest("Remove unused CSS using tools like PurgeCSS or UnCSS.", "unused-css")

// CSS flags stylesheet bloat and stylesheet sprawl.
type CSS struct{}

func (CSS) Name() string { return "css" }

func (CSS) Category() entity.Category { return entity.CategoryUnoptimizedCSS }

func (d CSS) Detect(metrics *entity.MetricsRecord, resources []entity.ResourceRecord) []entity.Bottleneck {
	if metrics == nil || len(resources) == 0 {
		return nil
	}
	styles := resource.FilterByType(resources, entity.ResourceStylesheet)
	if len(styles) == 0 {
		return nil
	}

	var found []entity.Bottleneck
	cat := d.Category()

	switch total := resource.TotalSize(styles); {
	case total > styleSizeThreshold.high:
		found = append(found, newBottleneck(cat,
			"Large Total CSS Size",
			fmt.Sprintf("The total CSS size is %s, which is significantly larger than the recommended size of 75 KB.", FormatSize(total)),
			entity.SeverityHigh, styles,
			suggestPurgeUnCSS, suggestMinifyCSS, suggestCriticalCSS, suggestCSSFramework,
		))
	case total > styleSizeThreshold.medium:
		found = append(found, newBottleneck(cat,
			"Moderate Total CSS Size",
			fmt.Sprintf("The total CSS size is %s, which is larger than the recommended size of 75 KB.", FormatSize(total)),
			entity.SeverityMedium, styles,
			suggestPurgeUnCSS, suggestMinifyCSS, suggestCriticalCSS,
		))
	}

	if len(styles) > maxStylesheets {
		found = append(found, newBottleneck(cat,
			"Too Many CSS Files",
			fmt.Sprintf("The page loads %d CSS files, which increases HTTP requests and parsing time.", len(styles)),
			entity.SeverityMedium, styles,
			suggest("Consolidate CSS files to reduce HTTP requests.", "reduce-network-payloads-using-text-compression"),
			suggest("Use CSS preprocessors or build tools to combine stylesheets.", "extract-critical-css"),
			suggest("Consider using CSS-in-JS or CSS Modules for component-based styling.", "extract-critical-css"),
		))
	}

	var large []entity.ResourceRecord
	for _, s := range styles {
		if s.Bytes() > largeStylesheetMax {
			large = append(large, s)
		}
	}
	if len(large) > 0 {
		found = append(found, newBottleneck(cat,
			"Large CSS Files",
			fmt.Sprintf("%d CSS files are larger than 50 KB, which can slow down parsing and rendering.", len(large)),
			entity.SeverityMedium, large,
			suggestPurgeUnCSS, suggestMinifyCSS,
			suggest("Split large CSS files into smaller, more focused stylesheets.", "extract-critical-css"),
			suggest("Optimize CSS selectors for better performance.", "extract-critical-css"),
		))
	}

	return found
}
