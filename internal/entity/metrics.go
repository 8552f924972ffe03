package entity

// MetricsRecord holds page-level timings in milliseconds. A nil timing means
// the browser never reported it.
type MetricsRecord struct {
	PageLoadTime           *float64 `json:"page_load_time,omitempty"`
	DOMContentLoaded       *float64 `json:"dom_content_loaded,omitempty"`
	FirstContentfulPaint   *float64 `json:"first_contentful_paint,omitempty"`
	LargestContentfulPaint *float64 `json:"largest_contentful_paint,omitempty"`
	TimeToInteractive      *float64 `json:"time_to_interactive,omitempty"`
	TotalBlockingTime      *float64 `json:"total_blocking_time,omitempty"`
	RequestCount           int      `json:"request_count"`
	TransferSize           int64    `json:"transfer_size"`
}

// IsEmpty reports whether the record carries no data at all.
func (m *MetricsRecord) IsEmpty() bool {
	if m == nil {
		return true
	}
	return m.PageLoadTime == nil &&
		m.DOMContentLoaded == nil &&
		m.FirstContentfulPaint == nil &&
		m.LargestContentfulPaint == nil &&
		m.TimeToInteractive == nil &&
		m.TotalBlockingTime == nil &&
		m.RequestCount <= 0 &&
		m.TransferSize <= 0
}

// TBT returns total blocking time, zero when absent.
func (m *MetricsRecord) TBT() float64 {
	if m == nil || m.TotalBlockingTime == nil {
		return 0
	}
	return *m.TotalBlockingTime
}

// FCP returns first contentful paint, zero when absent.
func (m *MetricsRecord) FCP() float64 {
	if m == nil || m.FirstContentfulPaint == nil {
		return 0
	}
	return *m.FirstContentfulPaint
}

// Metric names used for ratings and display toggles.
const (
	MetricPageLoad         = "page_load"
	MetricDOMContentLoaded = "dom_content_loaded"
	MetricFCP              = "fcp"
	MetricLCP              = "lcp"
	MetricTTI              = "tti"
	MetricTBT              = "tbt"
)

// Rating classifies a metric value against its thresholds.
type Rating string

const (
	RatingGood             Rating = "good"
	RatingNeedsImprovement Rating = "needs-improvement"
	RatingPoor             Rating = "poor"
)

type metricThreshold struct {
	good   float64
	medium float64
}

var metricThresholds = map[string]metricThreshold{
	MetricPageLoad:         {good: 2000, medium: 4000},
	MetricDOMContentLoaded: {good: 1500, medium: 3000},
	MetricFCP:              {good: 1800, medium: 3000},
	MetricLCP:              {good: 2500, medium: 4000},
	MetricTTI:              {good: 3500, medium: 7500},
	MetricTBT:              {good: 200, medium: 600},
}

// MetricRating is the rated value of a single metric.
type MetricRating struct {
	Value  float64 `json:"value"`
	Rating Rating  `json:"rating"`
}

// Rate classifies value for the named metric. Unknown metrics are rated good.
func Rate(metric string, value float64) Rating {
	th, ok := metricThresholds[metric]
	if !ok {
		return RatingGood
	}
	switch {
	case value <= th.good:
		return RatingGood
	case value <= th.medium:
		return RatingNeedsImprovement
	default:
		return RatingPoor
	}
}

// Ratings rates every reported metric enabled in show.
func (m *MetricsRecord) Ratings(show MetricToggles) map[string]MetricRating {
	out := make(map[string]MetricRating)
	if m == nil {
		return out
	}
	add := func(name string, enabled bool, v *float64) {
		if !enabled || v == nil {
			return
		}
		out[name] = MetricRating{Value: *v, Rating: Rate(name, *v)}
	}
	add(MetricPageLoad, show.PageLoad, m.PageLoadTime)
	add(MetricDOMContentLoaded, show.DOMContentLoaded, m.DOMContentLoaded)
	add(MetricFCP, show.FCP, m.FirstContentfulPaint)
	add(MetricLCP, show.LCP, m.LargestContentfulPaint)
	add(MetricTTI, show.TTI, m.TimeToInteractive)
	add(MetricTBT, show.TBT, m.TotalBlockingTime)
	return out
}

// Float is a helper for building optional metric values.
func Float(v float64) *float64 {
	return &v
}
