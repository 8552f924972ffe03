package chromedp_collector

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"

	"github.com/user/perf-insights/internal/entity"
)

type requestEntry struct {
	seq      int
	url      string
	kind     network.ResourceType
	mimeType string
	size     float64
	start    time.Time
	end      time.Time
	finished bool
	failed   bool
}

// networkRecorder turns CDP network events of a single page load into
// resource records. Handlers may be called from chromedp's event goroutine.
type networkRecorder struct {
	mu        sync.Mutex
	requests  map[network.RequestID]*requestEntry
	navStart  time.Time
	nextSeq   int
	documents int
}

func newNetworkRecorder() *networkRecorder {
	return &networkRecorder{requests: make(map[network.RequestID]*requestEntry)}
}

func (r *networkRecorder) handle(ev interface{}) {
	switch ev := ev.(type) {
	case *network.EventRequestWillBeSent:
		r.onRequest(ev)
	case *network.EventResponseReceived:
		r.onResponse(ev)
	case *network.EventLoadingFinished:
		r.onFinished(ev)
	case *network.EventLoadingFailed:
		r.onFailed(ev)
	}
}

func (r *networkRecorder) onRequest(ev *network.EventRequestWillBeSent) {
	if ev.Request == nil || strings.HasPrefix(ev.Request.URL, "data:") {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var ts time.Time
	if ev.Timestamp != nil {
		ts = ev.Timestamp.Time()
	}
	if ev.Type == network.ResourceTypeDocument && r.documents == 0 {
		r.navStart = ts
		r.documents++
	}

	// Redirects reuse the request id; keep the first start and the final URL.
	if entry, ok := r.requests[ev.RequestID]; ok {
		entry.url = ev.Request.URL
		return
	}
	r.requests[ev.RequestID] = &requestEntry{
		seq:   r.nextSeq,
		url:   ev.Request.URL,
		kind:  ev.Type,
		start: ts,
	}
	r.nextSeq++
}

func (r *networkRecorder) onResponse(ev *network.EventResponseReceived) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.requests[ev.RequestID]
	if !ok || ev.Response == nil {
		return
	}
	entry.mimeType = ev.Response.MimeType
	if ev.Response.EncodedDataLength > entry.size {
		entry.size = ev.Response.EncodedDataLength
	}
	if entry.kind == "" {
		entry.kind = ev.Type
	}
}

func (r *networkRecorder) onFinished(ev *network.EventLoadingFinished) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.requests[ev.RequestID]
	if !ok {
		return
	}
	entry.finished = true
	if ev.EncodedDataLength > 0 {
		entry.size = ev.EncodedDataLength
	}
	if ev.Timestamp != nil {
		entry.end = ev.Timestamp.Time()
	}
}

func (r *networkRecorder) onFailed(ev *network.EventLoadingFailed) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.requests[ev.RequestID]; ok {
		entry.failed = true
		if ev.Timestamp != nil {
			entry.end = ev.Timestamp.Time()
		}
	}
}

// resources returns one record per finished request in request order, with
// times in milliseconds relative to the main document request.
func (r *networkRecorder) resources() []entity.ResourceRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := make([]*requestEntry, 0, len(r.requests))
	for _, e := range r.requests {
		if e.finished && !e.failed {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	base := r.navStart
	if base.IsZero() && len(entries) > 0 {
		base = entries[0].start
	}

	out := make([]entity.ResourceRecord, 0, len(entries))
	for _, e := range entries {
		rec := entity.ResourceRecord{
			URL:      e.url,
			Type:     resourceType(e.kind),
			Size:     int64(e.size),
			MimeType: e.mimeType,
		}
		if !e.start.IsZero() && !e.end.IsZero() && !base.IsZero() {
			start := millisSince(base, e.start)
			end := millisSince(base, e.end)
			if end < start {
				end = start
			}
			dur := end - start
			rec.StartTime, rec.EndTime, rec.Duration = &start, &end, &dur
		}
		out = append(out, rec)
	}
	return out
}

func millisSince(base, t time.Time) float64 {
	return float64(t.Sub(base).Microseconds()) / 1000
}

// resourceType maps the browser's resource type onto ours. Unmapped types
// are left empty so classification falls back to MIME type and extension.
func resourceType(t network.ResourceType) entity.ResourceType {
	switch t {
	case network.ResourceTypeDocument:
		return entity.ResourceDocument
	case network.ResourceTypeStylesheet:
		return entity.ResourceStylesheet
	case network.ResourceTypeScript:
		return entity.ResourceScript
	case network.ResourceTypeImage:
		return entity.ResourceImage
	case network.ResourceTypeFont:
		return entity.ResourceFont
	case network.ResourceTypeXHR, network.ResourceTypeFetch:
		return entity.ResourceXHR
	case network.ResourceTypeMedia:
		return entity.ResourceMedia
	}
	return ""
}
