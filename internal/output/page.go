package output

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// pageTitle extracts the <title> of a cached HTML page, or "" when the body
// has none.
func pageTitle(body string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")
}
