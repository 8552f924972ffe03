package detector

import (
	"fmt"

	"github.com/user/perf-insights/internal/entity"
	"github.com/user/perf-insights/internal/resource"
)

const (
	tbtHigh   = 300.0
	tbtMedium = 100.0

	maxScriptFiles       = 15
	maxThirdPartyScripts = 5
)

var (
	suggestLongTasks      = suggest("Break up long tasks into smaller, asynchronous tasks.", "optimize-long-tasks")
	suggestUnusedJS       = suggest("Reduce JavaScript execution time by removing unused code.", "remove-unused-code")
	suggestDeferJS        = suggest("Defer or lazy load non-critical JavaScript.", "efficiently-load-third-party-javascript")
	suggestEvaluateThirdP = suggest("Evaluate the necessity of each third-party script and remove unnecessary ones.", "efficiently-load-third-party-javascript")
	suggestAsyncThirdP    = suggest("Load third-party scripts asynchronously or defer their loading.", "efficiently-load-third-party-javascript")
	suggestHintsThirdP    = suggest("Use resource hints like dns-prefetch and preconnect for third-party domains.", "preconnect-and-dns-prefetch")
	suggestSelfHostThirdP = suggest("Consider self-hosting critical third-party scripts for better control.", "efficiently-load-third-party-javascript")
)

// JavaScript flags main-thread blocking and script sprawl.
type JavaScript struct{}

func (JavaScript) Name() string { return "javascript" }

func (JavaScript) Category() entity.Category { return entity.CategoryInefficientJS }

// Detect checks total blocking time even when no resources were captured.
func (d JavaScript) Detect(metrics *entity.MetricsRecord, resources []entity.ResourceRecord) []entity.Bottleneck {
	if metrics == nil {
		return nil
	}

	var found []entity.Bottleneck
	cat := d.Category()

	switch tbt := metrics.TBT(); {
	case tbt > tbtHigh:
		found = append(found, newBottleneck(cat,
			"High JavaScript Execution Time",
			fmt.Sprintf("The page has a Total Blocking Time of %s, which significantly impacts interactivity.", formatMillis(tbt)),
			entity.SeverityHigh, nil,
			suggestLongTasks, suggestUnusedJS, suggestDeferJS,
			suggest("Use web workers for CPU-intensive tasks to avoid blocking the main thread.", "off-main-thread"),
		))
	case tbt > tbtMedium:
		found = append(found, newBottleneck(cat,
			"Moderate JavaScript Execution Time",
			fmt.Sprintf("The page has a Total Blocking Time of %s, which impacts interactivity.", formatMillis(tbt)),
			entity.SeverityMedium, nil,
			suggestLongTasks, suggestUnusedJS, suggestDeferJS,
		))
	}

	scripts := resource.FilterByType(resources, entity.ResourceScript)
	if len(scripts) == 0 {
		return found
	}

	if len(scripts) > maxScriptFiles {
		found = append(found, newBottleneck(cat,
			"Too Many JavaScript Files",
			fmt.Sprintf("The page loads %d JavaScript files, which can increase HTTP requests and parsing time.", len(scripts)),
			entity.SeverityMedium, scripts,
			suggest("Consolidate JavaScript files to reduce HTTP requests.", "reduce-network-payloads-using-text-compression"),
			suggest("Use module bundlers like Webpack or Rollup to combine scripts.", "commonjs-larger-bundles"),
			suggest("Implement code splitting to load only necessary JavaScript.", "reduce-javascript-payloads-with-code-splitting"),
		))
	}

	thirdParty := resource.ThirdParty(scripts, resource.MainDomain(resources))
	if len(thirdParty) > maxThirdPartyScripts {
		found = append(found, newBottleneck(cat,
			"Too Many Third-Party Scripts",
			fmt.Sprintf("The page loads %d third-party scripts, which can impact performance and security.", len(thirdParty)),
			entity.SeverityMedium, thirdParty,
			suggestEvaluateThirdP, suggestAsyncThirdP, suggestHintsThirdP, suggestSelfHostThirdP,
		))
	}

	return found
}
