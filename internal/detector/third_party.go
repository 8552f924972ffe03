package detector

import (
	"fmt"
	"strings"

	"github.com/user/perf-insights/internal/entity"
	"github.com/user/perf-insights/internal/resource"
)

const (
	thirdPartyCountHigh   = 10
	thirdPartyCountMedium = 5
	thirdPartySlowMillis  = 500.0
	maxScriptsPerCategory = 3
)

var thirdPartySize = sizeThreshold{high: 500 * kb, medium: 250 * kb}

type scriptCategory struct {
	name     string
	keywords []string
}

// Checked in order; the first category with a matching keyword wins.
var scriptCategories = []scriptCategory{
	{"analytics", []string{"google-analytics", "analytics", "gtm", "segment", "mixpanel", "hotjar"}},
	{"advertising", []string{"adsense", "adwords", "doubleclick", "advertising", "ads"}},
	{"social", []string{"facebook", "twitter", "linkedin", "instagram", "pinterest", "social"}},
	{"chat", []string{"intercom", "drift", "zendesk", "livechat", "chat"}},
	{"marketing", []string{"hubspot", "marketo", "mailchimp", "marketing"}},
}

const otherScriptCategory = "other"

// ThirdPartyScripts flags the cost of scripts served from other domains.
type ThirdPartyScripts struct{}

func (ThirdPartyScripts) Name() string { return "third_party_scripts" }

func (ThirdPartyScripts) Category() entity.Category { return entity.CategoryThirdPartyScripts }

func (d ThirdPartyScripts) Detect(metrics *entity.MetricsRecord, resources []entity.ResourceRecord) []entity.Bottleneck {
	if metrics == nil || len(resources) == 0 {
		return nil
	}
	mainDomain := resource.MainDomain(resources)
	if mainDomain == "" {
		return nil
	}
	scripts := resource.ThirdParty(resource.FilterByType(resources, entity.ResourceScript), mainDomain)
	if len(scripts) == 0 {
		return nil
	}

	var found []entity.Bottleneck
	cat := d.Category()

	if n := len(scripts); n > thirdPartyCountMedium {
		severity := entity.SeverityMedium
		if n > thirdPartyCountHigh {
			severity = entity.SeverityHigh
		}
		found = append(found, newBottleneck(cat,
			"Too Many Third-Party Scripts",
			fmt.Sprintf("The page loads %d third-party scripts, which can significantly impact performance, privacy, and security.", n),
			severity, scripts,
			suggestEvaluateThirdP,
			suggest("Consolidate third-party scripts from the same provider.", "efficiently-load-third-party-javascript"),
			suggestAsyncThirdP,
			suggest("Consider using tag management systems to better control third-party scripts.", "efficiently-load-third-party-javascript"),
		))
	}

	switch size := resource.TotalSize(scripts); {
	case size > thirdPartySize.high:
		found = append(found, newBottleneck(cat,
			"Large Third-Party Scripts",
			fmt.Sprintf("The total size of third-party scripts is %s, which significantly impacts page load performance.", FormatSize(size)),
			entity.SeverityHigh, scripts,
			suggestEvaluateThirdP, suggestAsyncThirdP, suggestHintsThirdP, suggestSelfHostThirdP,
		))
	case size > thirdPartySize.medium:
		found = append(found, newBottleneck(cat,
			"Moderate Third-Party Scripts Size",
			fmt.Sprintf("The total size of third-party scripts is %s, which impacts page load performance.", FormatSize(size)),
			entity.SeverityMedium, scripts,
			suggestEvaluateThirdP, suggestAsyncThirdP, suggestHintsThirdP,
		))
	}

	var slow []entity.ResourceRecord
	for _, s := range scripts {
		if total, _ := s.TotalTime(); total > thirdPartySlowMillis {
			slow = append(slow, s)
		}
	}
	if len(slow) > 0 {
		found = append(found, newBottleneck(cat,
			"Slow-Loading Third-Party Scripts",
			fmt.Sprintf("%d third-party scripts take more than %dms to load, which significantly impacts page performance.", len(slow), int(thirdPartySlowMillis)),
			entity.SeverityHigh, slow,
			suggest("Evaluate the necessity of these slow-loading scripts and consider alternatives.", "efficiently-load-third-party-javascript"),
			suggest("Load these scripts asynchronously or defer their loading.", "efficiently-load-third-party-javascript"),
			suggest("Use resource hints like preconnect for these third-party domains.", "preconnect-and-dns-prefetch"),
			suggest("Consider lazy loading these scripts only when needed.", "efficiently-load-third-party-javascript"),
		))
	}

	grouped := categorizeScripts(scripts)
	for _, c := range scriptCategories {
		group := grouped[c.name]
		if len(group) <= maxScriptsPerCategory {
			continue
		}
		found = append(found, newBottleneck(cat,
			fmt.Sprintf("Multiple %s Scripts", capitalize(c.name)),
			fmt.Sprintf("The page loads %d different %s scripts, which may be redundant and impact performance.", len(group), c.name),
			entity.SeverityMedium, group,
			suggest(fmt.Sprintf("Evaluate the necessity of multiple %s scripts and consolidate where possible.", c.name), "efficiently-load-third-party-javascript"),
			suggest("Consider using a tag management system to better control these scripts.", "efficiently-load-third-party-javascript"),
			suggest(fmt.Sprintf("Load non-critical %s scripts asynchronously or defer their loading.", c.name), "efficiently-load-third-party-javascript"),
		))
	}

	return found
}

// categorizeScripts buckets scripts by the first keyword category their URL
// matches. Unmatched scripts, and scripts without a URL, land in "other".
func categorizeScripts(scripts []entity.ResourceRecord) map[string][]entity.ResourceRecord {
	out := make(map[string][]entity.ResourceRecord)
	for _, s := range scripts {
		name := scriptCategoryOf(s.URL)
		out[name] = append(out[name], s)
	}
	return out
}

func scriptCategoryOf(rawURL string) string {
	if rawURL == "" {
		return otherScriptCategory
	}
	u := strings.ToLower(rawURL)
	for _, c := range scriptCategories {
		for _, kw := range c.keywords {
			if strings.Contains(u, kw) {
				return c.name
			}
		}
	}
	return otherScriptCategory
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
