// Package suggestion holds the per-category remediation catalog and trims
// suggestion lists to the configured verbosity level.
package suggestion

import (
	"fmt"

	"github.com/user/perf-insights/internal/entity"
)

const linkBase = "https://web.dev/articles/"

func s(text, slug string) entity.Suggestion {
	return entity.Suggestion{Text: text, Link: linkBase + slug}
}

// Entries are ordered most to least broadly applicable; levels keep a prefix.
var catalog = map[entity.Category][]entity.Suggestion{
	entity.CategoryNetworkLatency: {
		s("Use a Content Delivery Network (CDN) to serve static assets from locations closer to your users.", "content-delivery-networks"),
		s("Optimize server response time by improving server-side code, database queries, and server configuration.", "optimize-ttfb"),
		s("Implement HTTP/2 or HTTP/3 to improve connection efficiency.", "performance-http2"),
		s("Use DNS prefetching for domains you will connect to.", "preconnect-and-dns-prefetch"),
		s("Implement server-side caching to improve response times for repeat visitors.", "http-cache"),
		s("Consider using a service worker to cache resources and provide offline functionality.", "service-workers-cache-storage"),
	},
	entity.CategoryResourceSize: {
		s("Compress text resources (HTML, CSS, JavaScript) using Gzip or Brotli.", "reduce-network-payloads-using-text-compression"),
		s("Minify HTML, CSS, and JavaScript to remove unnecessary characters.", "reduce-network-payloads-using-text-compression"),
		s("Implement code splitting for JavaScript to load only what is needed.", "reduce-javascript-payloads-with-code-splitting"),
		s("Remove unused CSS and JavaScript code using tools like PurgeCSS and tree shaking.", "unused-javascript"),
		s("Optimize images by using modern formats, proper compression, and appropriate dimensions.", "use-imagemin-to-compress-images"),
		s("Use responsive images with srcset to serve different sizes based on the device.", "serve-responsive-images"),
	},
	entity.CategoryBlockingResources: {
		s("Inline critical CSS directly in the HTML to reduce render-blocking.", "extract-critical-css"),
		s("Add async or defer attributes to non-critical script tags.", "efficiently-load-third-party-javascript"),
		s("Use media queries to make CSS non-render-blocking.", "defer-non-critical-css"),
		s("Load non-critical CSS asynchronously.", "defer-non-critical-css"),
		s("Consider using the preload link type to prioritize critical resources.", "preload-critical-assets"),
		s("Move script tags to the end of the body.", "efficiently-load-third-party-javascript"),
	},
	entity.CategoryUnoptimizedImages: {
		s("Compress images using tools like ImageOptim, TinyPNG, or Squoosh.", "use-imagemin-to-compress-images"),
		s("Convert images to WebP format for better compression and quality.", "serve-images-webp"),
		s("Resize images to appropriate dimensions for their display size.", "serve-responsive-images"),
		s("Use responsive images with srcset to serve different sizes based on the device.", "serve-responsive-images"),
		s("Implement lazy loading for images below the fold.", "lazy-loading-images"),
		s("Consider using AVIF format for even better compression.", "compress-images-avif"),
	},
	entity.CategoryInefficientJS: {
		s("Break up long tasks into smaller, asynchronous tasks.", "optimize-long-tasks"),
		s("Implement code splitting to load JavaScript only when needed.", "reduce-javascript-payloads-with-code-splitting"),
		s("Remove unused JavaScript code using tree shaking.", "remove-unused-code"),
		s("Defer or lazy load non-critical JavaScript.", "efficiently-load-third-party-javascript"),
		s("Use web workers for CPU-intensive tasks to avoid blocking the main thread.", "off-main-thread"),
		s("Optimize JavaScript execution by avoiding layout thrashing and other performance issues.", "optimize-long-tasks"),
	},
	entity.CategoryUnoptimizedCSS: {
		s("Remove unused CSS using tools like PurgeCSS or UnCSS.", "unused-css"),
		s("Minify CSS files to reduce their size.", "reduce-network-payloads-using-text-compression"),
		s("Split CSS into critical and non-critical styles.", "extract-critical-css"),
		s("Optimize CSS selectors for better performance.", "extract-critical-css"),
		s("Consolidate CSS files to reduce HTTP requests.", "reduce-network-payloads-using-text-compression"),
		s("Consider using CSS frameworks more selectively or with tree-shaking.", "extract-critical-css"),
	},
	entity.CategoryFontLoading: {
		s("Use the font-display CSS property to control how fonts are displayed while loading.", "font-display"),
		s("Preload important font files to improve loading performance.", "preload-critical-assets"),
		s("Use font subsetting to include only the characters you need.", "reduce-webfont-size"),
		s("Consider using variable fonts to reduce the number of font files.", "variable-fonts"),
		s("Self-host fonts instead of using third-party font services for better control.", "font-best-practices"),
		s("Use modern font formats like WOFF2 for better compression.", "reduce-webfont-size"),
	},
	entity.CategoryThirdPartyScripts: {
		s("Evaluate the necessity of each third-party script and remove unnecessary ones.", "efficiently-load-third-party-javascript"),
		s("Load third-party scripts asynchronously or defer their loading.", "efficiently-load-third-party-javascript"),
		s("Use resource hints like dns-prefetch and preconnect for third-party domains.", "preconnect-and-dns-prefetch"),
		s("Consider using a tag management system to better control third-party scripts.", "efficiently-load-third-party-javascript"),
		s("Consider self-hosting critical third-party scripts for better control.", "efficiently-load-third-party-javascript"),
		s("Implement a performance budget to limit the impact of third-party scripts.", "performance-budgets-101"),
	},
}

func init() {
	if err := validateCatalog(catalog); err != nil {
		panic(err)
	}
}

func validateCatalog(c map[entity.Category][]entity.Suggestion) error {
	for _, cat := range entity.Categories {
		if len(c[cat]) == 0 {
			return fmt.Errorf("suggestion catalog: no entries for category %q", cat)
		}
	}
	if len(c) != len(entity.Categories) {
		return fmt.Errorf("suggestion catalog: %d categories, want %d", len(c), len(entity.Categories))
	}
	return nil
}

// ForCategory returns a copy of the catalog entries for cat, or nil if the
// category is unknown.
func ForCategory(cat entity.Category) []entity.Suggestion {
	entries, ok := catalog[cat]
	if !ok {
		return nil
	}
	out := make([]entity.Suggestion, len(entries))
	copy(out, entries)
	return out
}
