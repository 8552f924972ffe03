package detector

import (
	"fmt"

	"github.com/user/perf-insights/internal/entity"
	"github.com/user/perf-insights/internal/resource"
)

type sizeThreshold struct {
	high   int64
	medium int64
}

var (
	totalPageThreshold  = sizeThreshold{high: 3 * mb, medium: 1536 * kb}
	scriptSizeThreshold = sizeThreshold{high: 500 * kb, medium: 250 * kb}
	styleSizeThreshold  = sizeThreshold{high: 150 * kb, medium: 75 * kb}
)

// A single resource above its type's limit is reported as large.
var individualLimits = map[entity.ResourceType]int64{
	entity.ResourceScript:     500 * kb,
	entity.ResourceStylesheet: 150 * kb,
	entity.ResourceImage:      200 * kb,
	entity.ResourceFont:       100 * kb,
}

const defaultIndividualLimit = 200 * kb

var (
	suggestTextCompression = suggest("Compress text resources (HTML, CSS, JavaScript) using Gzip or Brotli.", "reduce-network-payloads-using-text-compression")
	suggestImageOptimize   = suggest("Optimize images by using modern formats, proper compression, and appropriate dimensions.", "use-imagemin-to-compress-images")
	suggestPageSplitting   = suggest("Implement code splitting for JavaScript to load only what is needed.", "reduce-javascript-payloads-with-code-splitting")
	suggestRemoveUnused    = suggest("Remove unused CSS and JavaScript code.", "unused-javascript")

	suggestJSSplitting  = suggest("Implement code splitting to load JavaScript only when needed.", "reduce-javascript-payloads-with-code-splitting")
	suggestTreeShaking  = suggest("Remove unused JavaScript code using tree shaking.", "remove-unused-code")
	suggestMinifyJS     = suggest("Minify JavaScript files to reduce their size.", "reduce-network-payloads-using-text-compression")
	suggestSmallerLibs  = suggest("Consider using smaller JavaScript libraries or alternatives.", "commonjs-larger-bundles")
	suggestPurgeCSS     = suggest("Remove unused CSS using tools like PurgeCSS.", "unused-css")
	suggestMinifyCSS    = suggest("Minify CSS files to reduce their size.", "reduce-network-payloads-using-text-compression")
	suggestCSSFramework = suggest("Consider using CSS frameworks more selectively or with tree-shaking.", "extract-critical-css")
	suggestCriticalCSS  = suggest("Split CSS into critical and non-critical styles.", "extract-critical-css")
)

// ResourceSize flags heavy pages and heavy script or style payloads.
type ResourceSize struct{}

func (ResourceSize) Name() string { return "resource_size" }

func (ResourceSize) Category() entity.Category { return entity.CategoryResourceSize }

func (d ResourceSize) Detect(metrics *entity.MetricsRecord, resources []entity.ResourceRecord) []entity.Bottleneck {
	if metrics == nil || len(resources) == 0 {
		return nil
	}

	var found []entity.Bottleneck
	cat := d.Category()

	total := metrics.TransferSize
	if total <= 0 {
		total = resource.TotalSize(resources)
	}
	switch {
	case total > totalPageThreshold.high:
		found = append(found, newBottleneck(cat,
			"Large Total Page Size",
			fmt.Sprintf("The total page size is %s, which is significantly larger than the recommended size of 1.5 MB.", FormatSize(total)),
			entity.SeverityHigh, resources,
			suggestTextCompression, suggestImageOptimize, suggestPageSplitting, suggestRemoveUnused,
		))
	case total > totalPageThreshold.medium:
		found = append(found, newBottleneck(cat,
			"Moderate Total Page Size",
			fmt.Sprintf("The total page size is %s, which is larger than the recommended size of 1.5 MB.", FormatSize(total)),
			entity.SeverityMedium, resources,
			suggestTextCompression, suggestImageOptimize, suggestPageSplitting,
		))
	}

	scripts := resource.FilterByType(resources, entity.ResourceScript)
	scriptSize := resource.TotalSize(scripts)
	switch {
	case scriptSize > scriptSizeThreshold.high:
		found = append(found, newBottleneck(cat,
			"Large JavaScript Payload",
			fmt.Sprintf("The total JavaScript size is %s, which is significantly larger than the recommended size of 250 KB.", FormatSize(scriptSize)),
			entity.SeverityHigh, scripts,
			suggestJSSplitting, suggestTreeShaking, suggestMinifyJS, suggestSmallerLibs,
		))
	case scriptSize > scriptSizeThreshold.medium && len(scripts) > 0:
		found = append(found, newBottleneck(cat,
			"Moderate JavaScript Payload",
			fmt.Sprintf("The total JavaScript size is %s, which is larger than the recommended size of 250 KB.", FormatSize(scriptSize)),
			entity.SeverityMedium, scripts,
			suggestJSSplitting, suggestTreeShaking, suggestMinifyJS,
		))
	}

	styles := resource.FilterByType(resources, entity.ResourceStylesheet)
	styleSize := resource.TotalSize(styles)
	switch {
	case styleSize > styleSizeThreshold.high:
		found = append(found, newBottleneck(cat,
			"Large CSS Payload",
			fmt.Sprintf("The total CSS size is %s, which is significantly larger than the recommended size of 75 KB.", FormatSize(styleSize)),
			entity.SeverityHigh, styles,
			suggestPurgeCSS, suggestMinifyCSS, suggestCSSFramework, suggestCriticalCSS,
		))
	case styleSize > styleSizeThreshold.medium && len(styles) > 0:
		found = append(found, newBottleneck(cat,
			"Moderate CSS Payload",
			fmt.Sprintf("The total CSS size is %s, which is larger than the recommended size of 75 KB.", FormatSize(styleSize)),
			entity.SeverityMedium, styles,
			suggestPurgeCSS, suggestMinifyCSS, suggestCriticalCSS,
		))
	}

	var large []entity.ResourceRecord
	for _, r := range resources {
		limit, ok := individualLimits[resource.ResolveType(r)]
		if !ok {
			limit = defaultIndividualLimit
		}
		if r.Bytes() > limit {
			large = append(large, r)
		}
	}
	if len(large) > 0 {
		found = append(found, newBottleneck(cat,
			"Large Individual Resources",
			fmt.Sprintf("%d resources are larger than recommended size thresholds.", len(large)),
			entity.SeverityMedium, large,
			suggest("Compress large text resources using Gzip or Brotli.", "reduce-network-payloads-using-text-compression"),
			suggestImageOptimize,
			suggest("Consider lazy loading large resources that are not immediately needed.", "lazy-loading"),
		))
	}

	return found
}
