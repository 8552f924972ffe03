package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"path"
	"strings"
)

// HashURL creates a SHA256 hash of a string.
// This is useful for creating consistent, safe keys for Redis.
func HashURL(rawURL string) string {
	h := sha256.New()
	h.Write([]byte(rawURL))
	return hex.EncodeToString(h.Sum(nil))
}

// ToAbsoluteURL converts a relative URL to an absolute URL given a base URL.
func ToAbsoluteURL(base *url.URL, relative string) (string, error) {
	relURL, err := url.Parse(relative)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(relURL).String(), nil
}

// Hostname returns the lowercased host of an absolute URL.
// ok is false when the URL does not parse or has no host.
func Hostname(rawURL string) (host string, ok bool) {
	if rawURL == "" {
		return "", false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	host = strings.ToLower(u.Hostname())
	return host, host != ""
}

// FileExtension returns the lowercased extension of the URL path without the
// leading dot. Query strings and fragments are ignored, and a URL with a host
// but no path has no extension.
func FileExtension(rawURL string) string {
	p := rawURL
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if u, err := url.Parse(p); err == nil && (u.Host != "" || u.Path != "") {
		p = u.Path
	}
	ext := path.Ext(p)
	if ext == "" {
		return ""
	}
	return strings.ToLower(ext[1:])
}
