package detector

import (
	"fmt"

	"github.com/user/perf-insights/internal/entity"
	"github.com/user/perf-insights/internal/resource"
	"github.com/user/perf-insights/pkg/utils"
)

var imageSizeThreshold = sizeThreshold{high: 200 * kb, medium: 100 * kb}

var modernImageFormats = map[string]bool{
	"webp": true,
	"avif": true,
}

// UnoptimizedImages flags heavy images and legacy image formats.
type UnoptimizedImages struct{}

func (UnoptimizedImages) Name() string { return "unoptimized_images" }

func (UnoptimizedImages) Category() entity.Category { return entity.CategoryUnoptimizedImages }

func (d UnoptimizedImages) Detect(metrics *entity.MetricsRecord, resources []entity.ResourceRecord) []entity.Bottleneck {
	if metrics == nil || len(resources) == 0 {
		return nil
	}
	images := resource.FilterByType(resources, entity.ResourceImage)
	if len(images) == 0 {
		return nil
	}

	var found []entity.Bottleneck
	cat := d.Category()

	var large, midsize, legacy []entity.ResourceRecord
	for _, img := range images {
		switch size := img.Bytes(); {
		case size > imageSizeThreshold.high:
			large = append(large, img)
		case size > imageSizeThreshold.medium:
			midsize = append(midsize, img)
		}
		if img.URL != "" && !modernImageFormats[utils.FileExtension(img.URL)] {
			legacy = append(legacy, img)
		}
	}

	if len(large) > 0 {
		found = append(found, newBottleneck(cat,
			"Large Images",
			fmt.Sprintf("%d images are larger than %s, with a total size of %s.",
				len(large), FormatSize(imageSizeThreshold.high), FormatSize(resource.TotalSize(large))),
			countSeverity(len(large)), large,
			suggest("Compress images using tools like ImageOptim, TinyPNG, or Squoosh.", "use-imagemin-to-compress-images"),
			suggest("Resize images to appropriate dimensions for their display size.", "serve-responsive-images"),
			suggest("Use responsive images with srcset to serve different sizes based on the device.", "serve-responsive-images"),
			suggest("Implement lazy loading for images below the fold.", "lazy-loading-images"),
		))
	}

	if len(legacy) > 0 {
		found = append(found, newBottleneck(cat,
			"Non-Modern Image Formats",
			fmt.Sprintf("%d images are using older formats instead of modern formats like WebP or AVIF, which offer better compression.", len(legacy)),
			entity.SeverityMedium, legacy,
			suggest("Convert images to WebP format for better compression and quality.", "serve-images-webp"),
			suggest("Consider using AVIF format for even better compression.", "compress-images-avif"),
			suggest("Use the picture element with multiple sources to provide fallbacks for older browsers.", "serve-responsive-images"),
		))
	}

	// Images already reported as large are not repeated here.
	if len(midsize) > 0 {
		found = append(found, newBottleneck(cat,
			"Potentially Unoptimized Images",
			fmt.Sprintf("%d images may not be fully optimized and could be further compressed without significant quality loss.", len(midsize)),
			entity.SeverityLow, midsize,
			suggest("Use tools like ImageOptim, TinyPNG, or Squoosh to optimize images.", "use-imagemin-to-compress-images"),
			suggest("Adjust compression quality settings to find the right balance between size and quality.", "compress-images"),
			suggest("Remove unnecessary metadata from images.", "optimize-cls"),
		))
	}

	return found
}
