package chromedp_collector

import "github.com/user/perf-insights/internal/entity"

// Tasks longer than this count toward total blocking time.
const longTaskMillis = 50.0

// Added to each script's share of the TTI estimate.
const perScriptDelayMillis = 50.0

// observerScript runs before any page script and buffers LCP and long tasks.
const observerScript = `(() => {
  const state = { lcp: 0, longTasks: [] };
  window.__perfInsights = state;
  try {
    new PerformanceObserver((list) => {
      for (const e of list.getEntries()) state.lcp = e.startTime;
    }).observe({ type: 'largest-contentful-paint', buffered: true });
  } catch (e) {}
  try {
    new PerformanceObserver((list) => {
      for (const e of list.getEntries()) state.longTasks.push(e.duration);
    }).observe({ type: 'longtask', buffered: true });
  } catch (e) {}
})();`

// timingScript reads navigation, paint and observer results after load.
const timingScript = `(() => {
  const nav = performance.getEntriesByType('navigation')[0];
  const paint = performance.getEntriesByName('first-contentful-paint')[0];
  const state = window.__perfInsights || { lcp: 0, longTasks: [] };
  return {
    dom_content_loaded: nav ? nav.domContentLoadedEventEnd : 0,
    load: nav ? nav.loadEventEnd : 0,
    fcp: paint ? paint.startTime : 0,
    lcp: state.lcp,
    long_tasks: state.longTasks,
  };
})()`

type pageTimings struct {
	DOMContentLoaded float64   `json:"dom_content_loaded"`
	Load             float64   `json:"load"`
	FCP              float64   `json:"fcp"`
	LCP              float64   `json:"lcp"`
	LongTasks        []float64 `json:"long_tasks"`
}

// buildMetrics converts raw page timings into a metrics record. Timings the
// browser did not report stay nil.
func buildMetrics(t pageTimings, resources []entity.ResourceRecord) entity.MetricsRecord {
	m := entity.MetricsRecord{
		PageLoadTime:           positive(t.Load),
		DOMContentLoaded:       positive(t.DOMContentLoaded),
		FirstContentfulPaint:   positive(t.FCP),
		LargestContentfulPaint: positive(t.LCP),
		TotalBlockingTime:      positive(totalBlockingTime(t.LongTasks)),
		RequestCount:           len(resources),
	}
	var scripts int
	for _, r := range resources {
		m.TransferSize += r.Bytes()
		if r.Type == entity.ResourceScript {
			scripts++
		}
	}
	if m.DOMContentLoaded != nil {
		m.TimeToInteractive = entity.Float(*m.DOMContentLoaded + float64(scripts)*perScriptDelayMillis)
	}
	return m
}

// totalBlockingTime sums the portion of each long task above the threshold.
func totalBlockingTime(durations []float64) float64 {
	var total float64
	for _, d := range durations {
		if d > longTaskMillis {
			total += d - longTaskMillis
		}
	}
	return total
}

func positive(v float64) *float64 {
	if v <= 0 {
		return nil
	}
	return entity.Float(v)
}
