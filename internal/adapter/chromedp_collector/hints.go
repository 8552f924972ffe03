package chromedp_collector

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/user/perf-insights/internal/entity"
	"github.com/user/perf-insights/pkg/utils"
)

// renderBlockingScripts returns the absolute URLs of classic scripts in the
// document head that load without async or defer.
func renderBlockingScripts(pageURL, html string) (map[string]bool, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool)
	doc.Find("head script[src]").Each(func(_ int, s *goquery.Selection) {
		if _, async := s.Attr("async"); async {
			return
		}
		if _, deferred := s.Attr("defer"); deferred {
			return
		}
		if typ, _ := s.Attr("type"); strings.EqualFold(strings.TrimSpace(typ), "module") {
			return
		}
		src, _ := s.Attr("src")
		abs, err := utils.ToAbsoluteURL(base, strings.TrimSpace(src))
		if err != nil || abs == "" {
			return
		}
		out[abs] = true
	})
	return out, nil
}

// applyHints marks scripts found in blocking as render-blocking.
func applyHints(resources []entity.ResourceRecord, blocking map[string]bool) {
	if len(blocking) == 0 {
		return
	}
	for i := range resources {
		if resources[i].Type == entity.ResourceScript && blocking[resources[i].URL] {
			resources[i].IsRenderBlocking = true
		}
	}
}
