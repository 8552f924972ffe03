package chromedp_collector

import (
	"testing"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/perf-insights/internal/entity"
	"github.com/user/perf-insights/internal/repository"
)

func at(base time.Time, ms int) *cdp.MonotonicTime {
	ts := cdp.MonotonicTime(base.Add(time.Duration(ms) * time.Millisecond))
	return &ts
}

func TestNetworkRecorderBuildsResources(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rec := newNetworkRecorder()

	events := []interface{}{
		&network.EventRequestWillBeSent{RequestID: "1", Type: network.ResourceTypeDocument,
			Request: &network.Request{URL: "https://example.com/"}, Timestamp: at(base, 0)},
		&network.EventResponseReceived{RequestID: "1", Type: network.ResourceTypeDocument,
			Response: &network.Response{MimeType: "text/html", EncodedDataLength: 300}},
		&network.EventRequestWillBeSent{RequestID: "2", Type: network.ResourceTypeScript,
			Request: &network.Request{URL: "https://example.com/app.js"}, Timestamp: at(base, 40)},
		&network.EventRequestWillBeSent{RequestID: "3", Type: network.ResourceTypeImage,
			Request: &network.Request{URL: "https://cdn.example.net/missing.png"}, Timestamp: at(base, 45)},
		&network.EventRequestWillBeSent{RequestID: "4", Type: network.ResourceTypeImage,
			Request: &network.Request{URL: "data:image/png;base64,AAAA"}, Timestamp: at(base, 46)},
		&network.EventLoadingFinished{RequestID: "1", EncodedDataLength: 5120, Timestamp: at(base, 120)},
		&network.EventResponseReceived{RequestID: "2", Type: network.ResourceTypeScript,
			Response: &network.Response{MimeType: "application/javascript"}},
		&network.EventLoadingFailed{RequestID: "3", Timestamp: at(base, 60)},
		&network.EventLoadingFinished{RequestID: "2", EncodedDataLength: 90000, Timestamp: at(base, 290)},
	}
	for _, ev := range events {
		rec.handle(ev)
	}

	got := rec.resources()
	require.Len(t, got, 2)

	doc := got[0]
	assert.Equal(t, "https://example.com/", doc.URL)
	assert.Equal(t, entity.ResourceDocument, doc.Type)
	assert.EqualValues(t, 5120, doc.Size)
	assert.Equal(t, "text/html", doc.MimeType)
	require.NotNil(t, doc.StartTime)
	assert.InDelta(t, 0, *doc.StartTime, 0.001)
	assert.InDelta(t, 120, *doc.Duration, 0.001)

	script := got[1]
	assert.Equal(t, entity.ResourceScript, script.Type)
	assert.EqualValues(t, 90000, script.Size)
	assert.InDelta(t, 40, *script.StartTime, 0.001)
	assert.InDelta(t, 290, *script.EndTime, 0.001)
	assert.InDelta(t, 250, *script.Duration, 0.001)
}

func TestNetworkRecorderKeepsRedirectTarget(t *testing.T) {
	t.Parallel()

	base := time.Now()
	rec := newNetworkRecorder()
	rec.handle(&network.EventRequestWillBeSent{RequestID: "1", Type: network.ResourceTypeDocument,
		Request: &network.Request{URL: "http://example.com/"}, Timestamp: at(base, 0)})
	rec.handle(&network.EventRequestWillBeSent{RequestID: "1", Type: network.ResourceTypeDocument,
		Request: &network.Request{URL: "https://example.com/"}, Timestamp: at(base, 30)})
	rec.handle(&network.EventLoadingFinished{RequestID: "1", EncodedDataLength: 10, Timestamp: at(base, 80)})

	got := rec.resources()
	require.Len(t, got, 1)
	assert.Equal(t, "https://example.com/", got[0].URL)
	assert.InDelta(t, 80, *got[0].Duration, 0.001)
}

func TestResourceTypeMapping(t *testing.T) {
	t.Parallel()

	assert.Equal(t, entity.ResourceXHR, resourceType(network.ResourceTypeFetch))
	assert.Equal(t, entity.ResourceFont, resourceType(network.ResourceTypeFont))
	assert.Equal(t, entity.ResourceType(""), resourceType(network.ResourceTypeOther))
}

func TestBuildMetrics(t *testing.T) {
	t.Parallel()

	resources := []entity.ResourceRecord{
		{Type: entity.ResourceDocument, Size: 1000},
		{Type: entity.ResourceScript, Size: 2000},
		{Type: entity.ResourceScript, Size: 3000},
	}
	m := buildMetrics(pageTimings{
		DOMContentLoaded: 800,
		Load:             1900,
		FCP:              600,
		LongTasks:        []float64{30, 120, 250},
	}, resources)

	require.NotNil(t, m.TotalBlockingTime)
	assert.InDelta(t, 270, *m.TotalBlockingTime, 0.001)
	require.NotNil(t, m.TimeToInteractive)
	assert.InDelta(t, 900, *m.TimeToInteractive, 0.001)
	assert.Nil(t, m.LargestContentfulPaint)
	assert.Equal(t, 3, m.RequestCount)
	assert.EqualValues(t, 6000, m.TransferSize)

	empty := buildMetrics(pageTimings{LongTasks: []float64{40}}, nil)
	assert.Nil(t, empty.TotalBlockingTime)
	assert.Nil(t, empty.TimeToInteractive)
	assert.Nil(t, empty.PageLoadTime)
}

func TestProfile(t *testing.T) {
	t.Parallel()

	_, enabled, err := Profile("")
	require.NoError(t, err)
	assert.False(t, enabled)

	_, enabled, err = Profile(entity.ThrottleNone)
	require.NoError(t, err)
	assert.False(t, enabled)

	p, enabled, err := Profile(entity.ThrottleSlow3G)
	require.NoError(t, err)
	assert.True(t, enabled)
	assert.Equal(t, 400.0, p.LatencyMillis)
	assert.InDelta(t, 64000, p.Download, 0.001)

	p, _, err = Profile(entity.ThrottleRegular4G)
	require.NoError(t, err)
	assert.Greater(t, p.Download, p.Upload)

	_, _, err = Profile("dial-up")
	assert.ErrorIs(t, err, repository.ErrUnknownThrottling)
	for _, preset := range []string{entity.ThrottleSlow3G, entity.ThrottleFast3G, entity.ThrottleRegular4G} {
		assert.True(t, entity.ValidThrottling(preset))
		_, enabled, err := Profile(preset)
		assert.NoError(t, err)
		assert.True(t, enabled)
	}

	_, err = throttleAction("dial-up")
	assert.Error(t, err)
}

func TestRenderBlockingScripts(t *testing.T) {
	t.Parallel()

	html := `<html><head>
		<script src="/js/sync.js"></script>
		<script async src="/js/async.js"></script>
		<script defer src="/js/defer.js"></script>
		<script type="module" src="/js/mod.js"></script>
		<script src="https://cdn.example.net/lib.js"></script>
		<script>inline()</script>
	</head><body><script src="/js/footer.js"></script></body></html>`

	got, err := renderBlockingScripts("https://example.com/page/", html)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{
		"https://example.com/js/sync.js": true,
		"https://cdn.example.net/lib.js": true,
	}, got)

	resources := []entity.ResourceRecord{
		{URL: "https://example.com/js/sync.js", Type: entity.ResourceScript},
		{URL: "https://example.com/js/async.js", Type: entity.ResourceScript},
		{URL: "https://cdn.example.net/lib.js", Type: entity.ResourceImage},
	}
	applyHints(resources, got)
	assert.True(t, resources[0].IsRenderBlocking)
	assert.False(t, resources[1].IsRenderBlocking)
	assert.False(t, resources[2].IsRenderBlocking)
}

func TestUserAgents(t *testing.T) {
	t.Parallel()

	ua := newUserAgents([]string{"only"}, 1)
	assert.Equal(t, "only", ua.next())

	def := newUserAgents(nil, 7)
	assert.Contains(t, defaultUserAgents, def.next())
}
