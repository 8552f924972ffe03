package detector

import (
	"fmt"

	"github.com/user/perf-insights/internal/entity"
	"github.com/user/perf-insights/internal/resource"
)

// Scripts slower than this are assumed to block rendering.
const slowScriptMillis = 100.0

var (
	suggestPreload     = suggest("Consider using the preload link type to prioritize critical resources.", "preload-critical-assets")
	suggestFontDisplay = suggest("Use the font-display CSS property to control how fonts are displayed while loading.", "font-display")
)

// BlockingResources flags stylesheets, scripts and fonts that hold up first paint.
type BlockingResources struct{}

func (BlockingResources) Name() string { return "blocking_resources" }

func (BlockingResources) Category() entity.Category { return entity.CategoryBlockingResources }

func (d BlockingResources) Detect(metrics *entity.MetricsRecord, resources []entity.ResourceRecord) []entity.Bottleneck {
	if metrics == nil || len(resources) == 0 {
		return nil
	}

	var found []entity.Bottleneck
	cat := d.Category()

	// Every stylesheet is treated as render-blocking.
	if css := resource.FilterByType(resources, entity.ResourceStylesheet); len(css) > 0 {
		found = append(found, newBottleneck(cat,
			"Render-Blocking CSS",
			fmt.Sprintf("%d CSS resources are blocking rendering, which delays the First Contentful Paint.", len(css)),
			countSeverity(len(css)), css,
			suggest("Inline critical CSS directly in the HTML to reduce render-blocking.", "extract-critical-css"),
			suggest("Use media queries to make CSS non-render-blocking.", "defer-non-critical-css"),
			suggest("Load non-critical CSS asynchronously.", "defer-non-critical-css"),
			suggestPreload,
		))
	}

	var js []entity.ResourceRecord
	for _, r := range resource.FilterByType(resources, entity.ResourceScript) {
		if scriptBlocks(r) {
			js = append(js, r)
		}
	}
	if len(js) > 0 {
		found = append(found, newBottleneck(cat,
			"Render-Blocking JavaScript",
			fmt.Sprintf("%d JavaScript resources are blocking rendering, which delays the First Contentful Paint.", len(js)),
			countSeverity(len(js)), js,
			suggest("Add async or defer attributes to non-critical script tags.", "efficiently-load-third-party-javascript"),
			suggest("Move script tags to the end of the body.", "efficiently-load-third-party-javascript"),
			suggestPreload,
			suggest("Use dynamic imports for JavaScript modules that are not immediately needed.", "reduce-javascript-payloads-with-code-splitting"),
		))
	}

	if fcp := metrics.FCP(); fcp > 0 {
		var early []entity.ResourceRecord
		for _, r := range resource.FilterByType(resources, entity.ResourceFont) {
			if start, ok := r.Start(); ok && start > 0 && start < fcp {
				early = append(early, r)
			}
		}
		if len(early) > 0 {
			found = append(found, newBottleneck(cat,
				"Font Loading Issues",
				fmt.Sprintf("%d font resources may be blocking rendering or causing layout shifts.", len(early)),
				entity.SeverityMedium, early,
				suggestFontDisplay,
				suggest("Preload important font files to improve loading performance.", "preload-critical-assets"),
				suggest("Consider using system fonts or variable fonts to reduce the number of font files.", "variable-fonts"),
				suggest("Self-host fonts instead of using third-party font services for better control.", "font-best-practices"),
			))
		}
	}

	return found
}

// scriptBlocks reports whether a script likely blocks rendering. Without a
// known load time, the script is assumed to block.
func scriptBlocks(r entity.ResourceRecord) bool {
	if r.IsRenderBlocking {
		return true
	}
	if total, ok := r.TotalTime(); ok && total > 0 {
		return total > slowScriptMillis
	}
	return true
}
