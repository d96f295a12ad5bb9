package linkcheck

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// extractHTMLLinks pulls checkable targets out of rendered documentation.
// Same-page fragments and non-fetchable schemes are left alone.
func extractHTMLLinks(r io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	var links []string
	doc.Find("a[href], link[href], img[src], script[src]").Each(func(_ int, s *goquery.Selection) {
		attr := "href"
		switch goquery.NodeName(s) {
		case "img", "script":
			attr = "src"
		}
		v, ok := s.Attr(attr)
		if !ok {
			return
		}
		v = strings.TrimSpace(v)
		if v == "" || strings.HasPrefix(v, "#") {
			return
		}
		if strings.HasPrefix(v, "mailto:") ||
			strings.HasPrefix(v, "javascript:") ||
			strings.HasPrefix(v, "data:") ||
			strings.HasPrefix(v, "tel:") {
			return
		}
		links = append(links, v)
	})
	return links, nil
}
