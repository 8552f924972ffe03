package resource

import "github.com/user/perf-insights/internal/entity"

const kb = 1024

// Estimated share of a resource's load time spent waiting for the first byte
// when only start and end times are known.
const (
	waitingShare     = 0.3
	downloadingShare = 0.7
)

// Normalize returns a copy of r with its type resolved, a timing breakdown
// derived when missing, and stylesheets marked render-blocking. Script
// blocking is left to the source, which knows about async and defer.
func Normalize(r entity.ResourceRecord) entity.ResourceRecord {
	out := r
	if out.Size < 0 {
		out.Size = 0
	}
	out.Type = ResolveType(r)
	if out.TimingBreakdown == nil {
		tb := TimingBreakdown(r)
		out.TimingBreakdown = &tb
	}
	if out.Type == entity.ResourceStylesheet {
		out.IsRenderBlocking = true
	}
	return out
}

// NormalizeAll normalizes every resource into a new slice.
func NormalizeAll(resources []entity.ResourceRecord) []entity.ResourceRecord {
	out := make([]entity.ResourceRecord, len(resources))
	for i, r := range resources {
		out[i] = Normalize(r)
	}
	return out
}

// TimingBreakdown derives a breakdown from the start and end times. Without
// both, the raw duration (if any) becomes the total with no split.
func TimingBreakdown(r entity.ResourceRecord) entity.TimingBreakdown {
	if r.StartTime == nil || r.EndTime == nil {
		var total float64
		if r.Duration != nil && *r.Duration > 0 {
			total = *r.Duration
		}
		return entity.TimingBreakdown{Total: total}
	}
	total := *r.EndTime - *r.StartTime
	if total < 0 {
		total = 0
	}
	return entity.TimingBreakdown{
		Total:       total,
		Waiting:     total * waitingShare,
		Downloading: total * downloadingShare,
	}
}

// SizeMetrics reports whether a resource is large for its type.
type SizeMetrics struct {
	Size      int64 `json:"size"`
	IsLarge   bool  `json:"is_large"`
	Threshold int64 `json:"threshold"`
}

var largeThresholds = map[entity.ResourceType]int64{
	entity.ResourceDocument:   100 * kb,
	entity.ResourceStylesheet: 50 * kb,
	entity.ResourceScript:     100 * kb,
	entity.ResourceImage:      200 * kb,
	entity.ResourceFont:       50 * kb,
}

// SizeClass classifies r against the per-type size threshold.
func SizeClass(r entity.ResourceRecord) SizeMetrics {
	threshold, ok := largeThresholds[ResolveType(r)]
	if !ok {
		threshold = 100 * kb
	}
	size := r.Bytes()
	return SizeMetrics{Size: size, IsLarge: size > threshold, Threshold: threshold}
}

// BackfillMetrics fills request count and transfer size from resources when
// the metrics source did not report them.
func BackfillMetrics(m entity.MetricsRecord, resources []entity.ResourceRecord) entity.MetricsRecord {
	if m.RequestCount <= 0 {
		m.RequestCount = len(resources)
	}
	if m.TransferSize <= 0 {
		m.TransferSize = TotalSize(resources)
	}
	return m
}
