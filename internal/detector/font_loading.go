package detector

import (
	"fmt"

	"github.com/user/perf-insights/internal/entity"
	"github.com/user/perf-insights/internal/resource"
)

var fontSizeThreshold = sizeThreshold{high: 100 * kb, medium: 50 * kb}

const maxFontFiles = 4

var (
	suggestSubsetting   = suggest("Use font subsetting to include only the characters you need.", "reduce-webfont-size")
	suggestVariableFont = suggest("Consider using variable fonts to reduce the number of font files.", "variable-fonts")
	suggestWOFF2        = suggest("Use modern font formats like WOFF2 for better compression.", "reduce-webfont-size")
	suggestFontSwap     = suggest("Implement font-display: swap to prevent font blocking.", "font-display")
)

// FontLoading flags heavy, numerous, third-party and late web fonts.
type FontLoading struct{}

func (FontLoading) Name() string { return "font_loading" }

func (FontLoading) Category() entity.Category { return entity.CategoryFontLoading }

func (d FontLoading) Detect(metrics *entity.MetricsRecord, resources []entity.ResourceRecord) []entity.Bottleneck {
	if metrics == nil || len(resources) == 0 {
		return nil
	}
	fonts := resource.FilterByType(resources, entity.ResourceFont)
	if len(fonts) == 0 {
		return nil
	}

	var found []entity.Bottleneck
	cat := d.Category()

	switch total := resource.TotalSize(fonts); {
	case total > fontSizeThreshold.high:
		found = append(found, newBottleneck(cat,
			"Large Font Files",
			fmt.Sprintf("The total size of font files is %s, which is significantly larger than the recommended size of 50 KB.", FormatSize(total)),
			entity.SeverityHigh, fonts,
			suggestSubsetting, suggestVariableFont,
			suggest("Optimize font files using tools like fonttools or glyphhanger.", "reduce-webfont-size"),
			suggestWOFF2,
		))
	case total > fontSizeThreshold.medium:
		found = append(found, newBottleneck(cat,
			"Moderate Font Size",
			fmt.Sprintf("The total size of font files is %s, which is larger than the recommended size of 50 KB.", FormatSize(total)),
			entity.SeverityMedium, fonts,
			suggestSubsetting, suggestVariableFont, suggestWOFF2,
		))
	}

	if len(fonts) > maxFontFiles {
		found = append(found, newBottleneck(cat,
			"Too Many Font Files",
			fmt.Sprintf("The page loads %d font files, which increases HTTP requests and can impact performance.", len(fonts)),
			entity.SeverityMedium, fonts,
			suggest("Reduce the number of font families and weights used on the page.", "font-best-practices"),
			suggestVariableFont,
			suggest("Use system fonts for less important text to reduce the number of custom fonts.", "font-best-practices"),
		))
	}

	if thirdParty := resource.ThirdParty(fonts, resource.MainDomain(resources)); len(thirdParty) > 0 {
		found = append(found, newBottleneck(cat,
			"Third-Party Font Services",
			fmt.Sprintf("The page loads %d fonts from third-party services, which can introduce additional latency.", len(thirdParty)),
			entity.SeverityMedium, thirdParty,
			suggest("Consider self-hosting fonts instead of using third-party font services.", "font-best-practices"),
			suggest("Use resource hints like preconnect for third-party font domains.", "preconnect-and-dns-prefetch"),
			suggestFontSwap,
		))
	}

	if fcp := metrics.FCP(); fcp > 0 {
		var late []entity.ResourceRecord
		for _, f := range fonts {
			if start, ok := f.Start(); ok && start > 0 && start > fcp {
				late = append(late, f)
			}
		}
		if len(late) > 0 {
			found = append(found, newBottleneck(cat,
				"Late-Loading Fonts",
				fmt.Sprintf("%d fonts are loaded after the First Contentful Paint, which can cause layout shifts.", len(late)),
				entity.SeverityMedium, late,
				suggest("Preload critical fonts to ensure they load early.", "preload-critical-assets"),
				suggestFontSwap,
				suggest("Use the Font Loading API to control font loading behavior.", "optimize-webfont-loading"),
				suggest("Consider using system fonts or font fallbacks that closely match your custom fonts.", "font-best-practices"),
			))
		}
	}

	return found
}
