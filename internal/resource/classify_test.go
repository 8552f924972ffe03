package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/user/perf-insights/internal/entity"
)

func TestResolveType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   entity.ResourceRecord
		want entity.ResourceType
	}{
		{"explicit type wins", entity.ResourceRecord{Type: entity.ResourceFont, URL: "https://a.com/x.js"}, entity.ResourceFont},
		{"other falls through to mime", entity.ResourceRecord{Type: entity.ResourceOther, MimeType: "text/css"}, entity.ResourceStylesheet},
		{"unknown type falls through", entity.ResourceRecord{Type: "weird", URL: "https://a.com/x.png"}, entity.ResourceImage},
		{"mime with charset", entity.ResourceRecord{MimeType: "text/html; charset=utf-8"}, entity.ResourceDocument},
		{"mime prefix media", entity.ResourceRecord{MimeType: "video/mp4"}, entity.ResourceMedia},
		{"mime beats extension", entity.ResourceRecord{MimeType: "application/json", URL: "https://a.com/data.js"}, entity.ResourceXHR},
		{"extension with query", entity.ResourceRecord{URL: "https://a.com/app.js?v=2"}, entity.ResourceScript},
		{"extension with fragment", entity.ResourceRecord{URL: "https://a.com/f.woff2#x"}, entity.ResourceFont},
		{"uppercase extension", entity.ResourceRecord{URL: "https://a.com/PHOTO.JPEG"}, entity.ResourceImage},
		{"html extension", entity.ResourceRecord{URL: "https://a.com/index.htm"}, entity.ResourceDocument},
		{"no hints", entity.ResourceRecord{URL: "https://a.com/api/items"}, entity.ResourceOther},
		{"empty record", entity.ResourceRecord{}, entity.ResourceOther},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ResolveType(tt.in))
		})
	}
}

func TestMainDomain(t *testing.T) {
	t.Parallel()

	t.Run("uses the document resource", func(t *testing.T) {
		resources := []entity.ResourceRecord{
			{URL: "https://cdn.other.com/app.js", Type: entity.ResourceScript},
			{URL: "https://example.com/", Type: entity.ResourceDocument},
		}
		assert.Equal(t, "example.com", MainDomain(resources))
	})

	t.Run("falls back to the first resource", func(t *testing.T) {
		resources := []entity.ResourceRecord{
			{URL: "https://static.example.com/a.css", Type: entity.ResourceStylesheet},
			{URL: "https://other.com/b.js", Type: entity.ResourceScript},
		}
		assert.Equal(t, "static.example.com", MainDomain(resources))
	})

	t.Run("falls back when the document url is malformed", func(t *testing.T) {
		resources := []entity.ResourceRecord{
			{URL: "https://first.com/a.css"},
			{URL: "::not a url", Type: entity.ResourceDocument},
		}
		assert.Equal(t, "first.com", MainDomain(resources))
	})

	t.Run("empty when nothing parses", func(t *testing.T) {
		assert.Equal(t, "", MainDomain([]entity.ResourceRecord{{URL: "not-a-url"}}))
		assert.Equal(t, "", MainDomain(nil))
	})
}

func TestIsThirdParty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		main string
		want bool
	}{
		{"subdomain is first party", "https://cdn.example.com/a.js", "example.com", false},
		{"same host is first party", "https://example.com/a.js", "example.com", false},
		{"suffix without dot is third party", "https://notexample.com/a.js", "example.com", true},
		{"other domain", "https://www.google-analytics.com/ga.js", "example.com", true},
		{"malformed url", "::bad", "example.com", false},
		{"relative url", "/static/a.js", "example.com", false},
		{"empty url", "", "example.com", false},
		{"empty main domain", "https://other.com/a.js", "", false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsThirdParty(entity.ResourceRecord{URL: tt.url}, tt.main))
		})
	}
}

func TestSizeHelpers(t *testing.T) {
	t.Parallel()

	resources := []entity.ResourceRecord{
		{URL: "https://a.com/a.js", Size: 100},
		{URL: "https://a.com/b.js", Size: 50},
		{URL: "https://a.com/c.css", Size: 30},
		{URL: "https://a.com/d.png", Size: -10},
	}

	assert.Equal(t, int64(180), TotalSize(resources))
	assert.Len(t, FilterByType(resources, entity.ResourceScript), 2)
	assert.Empty(t, FilterByType(resources, entity.ResourceFont))

	totals := TotalSizeByType(resources)
	assert.Equal(t, int64(150), totals[entity.ResourceScript])
	assert.Equal(t, int64(30), totals[entity.ResourceStylesheet])
	assert.Equal(t, int64(0), totals[entity.ResourceImage])

	groups := GroupByType(resources)
	assert.Len(t, groups, 3)
	assert.Len(t, groups[entity.ResourceImage], 1)
}
