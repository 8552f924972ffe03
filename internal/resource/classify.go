// Package resource holds the resource helpers shared by every detector:
// type resolution, main-domain discovery, third-party checks and size totals.
package resource

import (
	"strings"

	"github.com/user/perf-insights/internal/entity"
	"github.com/user/perf-insights/pkg/utils"
)

type mimeRule struct {
	prefix string
	typ    entity.ResourceType
}

// Checked in order; the first matching prefix wins.
var mimeRules = []mimeRule{
	{"text/html", entity.ResourceDocument},
	{"application/xhtml+xml", entity.ResourceDocument},
	{"text/css", entity.ResourceStylesheet},
	{"application/javascript", entity.ResourceScript},
	{"text/javascript", entity.ResourceScript},
	{"application/x-javascript", entity.ResourceScript},
	{"image/jpeg", entity.ResourceImage},
	{"image/png", entity.ResourceImage},
	{"image/gif", entity.ResourceImage},
	{"image/webp", entity.ResourceImage},
	{"image/svg+xml", entity.ResourceImage},
	{"image/avif", entity.ResourceImage},
	{"font/woff", entity.ResourceFont},
	{"font/woff2", entity.ResourceFont},
	{"font/ttf", entity.ResourceFont},
	{"font/otf", entity.ResourceFont},
	{"application/json", entity.ResourceXHR},
	{"application/xml", entity.ResourceXHR},
	{"text/xml", entity.ResourceXHR},
	{"audio/", entity.ResourceMedia},
	{"video/", entity.ResourceMedia},
}

var extensionTypes = map[string]entity.ResourceType{
	"css":   entity.ResourceStylesheet,
	"js":    entity.ResourceScript,
	"jpg":   entity.ResourceImage,
	"jpeg":  entity.ResourceImage,
	"png":   entity.ResourceImage,
	"gif":   entity.ResourceImage,
	"webp":  entity.ResourceImage,
	"svg":   entity.ResourceImage,
	"avif":  entity.ResourceImage,
	"woff":  entity.ResourceFont,
	"woff2": entity.ResourceFont,
	"ttf":   entity.ResourceFont,
	"otf":   entity.ResourceFont,
	"json":  entity.ResourceXHR,
	"xml":   entity.ResourceXHR,
	"mp3":   entity.ResourceMedia,
	"mp4":   entity.ResourceMedia,
	"webm":  entity.ResourceMedia,
	"ogg":   entity.ResourceMedia,
	"html":  entity.ResourceDocument,
	"htm":   entity.ResourceDocument,
}

// ResolveType returns the resource's effective type. An explicit type other
// than "other" wins, then the MIME type, then the URL extension.
func ResolveType(r entity.ResourceRecord) entity.ResourceType {
	if r.Type != "" && r.Type != entity.ResourceOther && r.Type.Valid() {
		return r.Type
	}
	mime := strings.ToLower(strings.TrimSpace(r.MimeType))
	if mime != "" {
		for _, rule := range mimeRules {
			if strings.HasPrefix(mime, rule.prefix) {
				return rule.typ
			}
		}
	}
	if t, ok := extensionTypes[utils.FileExtension(r.URL)]; ok {
		return t
	}
	return entity.ResourceOther
}

// MainDomain returns the hostname of the page's main document, falling back
// to the first resource. It returns "" when no hostname can be determined.
func MainDomain(resources []entity.ResourceRecord) string {
	if len(resources) == 0 {
		return ""
	}
	for _, r := range resources {
		if ResolveType(r) == entity.ResourceDocument {
			if host, ok := utils.Hostname(r.URL); ok {
				return host
			}
			break
		}
	}
	host, _ := utils.Hostname(resources[0].URL)
	return host
}

// IsThirdParty reports whether r is served from outside mainDomain.
// Subdomains of mainDomain are first-party. Unparseable URLs are never
// third-party.
func IsThirdParty(r entity.ResourceRecord, mainDomain string) bool {
	if r.URL == "" || mainDomain == "" {
		return false
	}
	host, ok := utils.Hostname(r.URL)
	if !ok {
		return false
	}
	mainDomain = strings.ToLower(mainDomain)
	if host == mainDomain || strings.HasSuffix(host, "."+mainDomain) {
		return false
	}
	return true
}

// FilterByType returns the resources whose resolved type is t.
func FilterByType(resources []entity.ResourceRecord, t entity.ResourceType) []entity.ResourceRecord {
	var out []entity.ResourceRecord
	for _, r := range resources {
		if ResolveType(r) == t {
			out = append(out, r)
		}
	}
	return out
}

// ThirdParty returns the resources served from outside mainDomain.
func ThirdParty(resources []entity.ResourceRecord, mainDomain string) []entity.ResourceRecord {
	var out []entity.ResourceRecord
	for _, r := range resources {
		if IsThirdParty(r, mainDomain) {
			out = append(out, r)
		}
	}
	return out
}

// TotalSize sums the sizes of resources, ignoring negative values.
func TotalSize(resources []entity.ResourceRecord) int64 {
	var total int64
	for _, r := range resources {
		total += r.Bytes()
	}
	return total
}

// GroupByType buckets resources by resolved type.
func GroupByType(resources []entity.ResourceRecord) map[entity.ResourceType][]entity.ResourceRecord {
	groups := make(map[entity.ResourceType][]entity.ResourceRecord)
	for _, r := range resources {
		t := ResolveType(r)
		groups[t] = append(groups[t], r)
	}
	return groups
}

// TotalSizeByType sums sizes per resolved type.
func TotalSizeByType(resources []entity.ResourceRecord) map[entity.ResourceType]int64 {
	totals := make(map[entity.ResourceType]int64)
	for _, r := range resources {
		totals[ResolveType(r)] += r.Bytes()
	}
	return totals
}
