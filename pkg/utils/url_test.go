package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashURL(t *testing.T) {
	a := HashURL("https://example.com")
	assert.Len(t, a, 64)
	assert.Equal(t, a, HashURL("https://example.com"))
	assert.NotEqual(t, a, HashURL("https://example.org"))
}

func TestToAbsoluteURL(t *testing.T) {
	base, err := url.Parse("https://example.com/blog/post.html")
	require.NoError(t, err)

	abs, err := ToAbsoluteURL(base, "../static/app.js")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/static/app.js", abs)
}

func TestHostname(t *testing.T) {
	tests := []struct {
		in   string
		host string
		ok   bool
	}{
		{"https://CDN.Example.com/a.js", "cdn.example.com", true},
		{"https://example.com:8443/", "example.com", true},
		{"", "", false},
		{"relative/path.png", "", false},
		{"http://[::1", "", false},
	}
	for _, tt := range tests {
		host, ok := Hostname(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.host, host, tt.in)
	}
}

func TestFileExtension(t *testing.T) {
	tests := map[string]string{
		"https://example.com/img/photo.JPG":           "jpg",
		"https://example.com/app.js?v=3":              "js",
		"https://example.com/font.woff2#iefix":        "woff2",
		"https://example.com/":                        "",
		"https://example.com/archive.tar.gz?download": "gz",
		"style.css":                    "css",
		"https://example.com":          "",
		"https://cdn.example.com?x=1":  "",
		"https://cdn.example.com#main": "",
	}
	for in, want := range tests {
		assert.Equal(t, want, FileExtension(in), in)
	}
}
