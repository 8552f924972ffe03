package detector

import (
	"fmt"

	"github.com/user/perf-insights/internal/entity"
	"github.com/user/perf-insights/internal/resource"
)

// Waiting-time thresholds for the main document and individual resources.
const (
	ttfbHigh   = 600.0
	ttfbMedium = 300.0
)

var (
	suggestCDN              = suggest("Consider using a Content Delivery Network (CDN) to reduce latency.", "content-delivery-networks")
	suggestServerProcessing = suggest("Optimize server-side processing to reduce response time.", "optimize-ttfb")
	suggestServerCaching    = suggest("Implement server-side caching to improve response times.", "http-cache")
)

// NetworkLatency flags slow server responses.
type NetworkLatency struct{}

func (NetworkLatency) Name() string { return "network_latency" }

func (NetworkLatency) Category() entity.Category { return entity.CategoryNetworkLatency }

func (d NetworkLatency) Detect(metrics *entity.MetricsRecord, resources []entity.ResourceRecord) []entity.Bottleneck {
	if metrics == nil || len(resources) == 0 {
		return nil
	}

	var found []entity.Bottleneck

	if docs := resource.FilterByType(resources, entity.ResourceDocument); len(docs) > 0 {
		main := docs[0]
		ttfb := main.Waiting()
		switch {
		case ttfb > ttfbHigh:
			found = append(found, newBottleneck(d.Category(),
				"Slow Server Response Time",
				fmt.Sprintf("The server took %s to respond with the first byte of data, which is significantly higher than the recommended threshold of 200ms.", formatMillis(ttfb)),
				entity.SeverityHigh,
				[]entity.ResourceRecord{main},
				suggestCDN, suggestServerProcessing, suggestServerCaching,
			))
		case ttfb > ttfbMedium:
			found = append(found, newBottleneck(d.Category(),
				"Moderate Server Response Time",
				fmt.Sprintf("The server took %s to respond with the first byte of data, which is higher than the recommended threshold of 200ms.", formatMillis(ttfb)),
				entity.SeverityMedium,
				[]entity.ResourceRecord{main},
				suggestCDN, suggestServerProcessing,
			))
		}
	}

	var slow []entity.ResourceRecord
	for _, r := range resources {
		if r.Waiting() > ttfbHigh {
			slow = append(slow, r)
		}
	}
	if len(slow) > 0 {
		found = append(found, newBottleneck(d.Category(),
			"Slow Resource Response Times",
			fmt.Sprintf("%d resources have high waiting times, indicating potential server or network latency issues.", len(slow)),
			entity.SeverityMedium,
			slow,
			suggest("Consider using a Content Delivery Network (CDN) for static resources.", "content-delivery-networks"),
			suggest("Implement HTTP/2 or HTTP/3 to improve connection efficiency.", "performance-http2"),
			suggest("Reduce the number of different domains serving resources to minimize DNS lookups.", "reduce-network-payloads-using-text-compression"),
		))
	}

	return found
}
