// Package content reduces fetched markup to the subset worth sending to
// the extraction model.
package content

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	// mainContentSelector targets regions that usually carry product data.
	mainContentSelector = "#main, #content, .product, .products, main, article"

	// minMainContentLength is the threshold below which the main-content
	// region is considered too thin and the full body is used instead.
	minMainContentLength = 500
)

// strippedElements never carry product data and waste model input budget.
const strippedElements = "script, style, nav, footer, iframe, noscript"

// Reduce strips boilerplate elements, prefers a main-content region when
// it is substantial enough, and truncates to maxBytes (0 = unlimited).
func Reduce(html string, maxBytes int) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	doc.Find(strippedElements).Remove()

	selected, err := doc.Find(mainContentSelector).First().Html()
	if err != nil || len(selected) <= minMainContentLength {
		selected, err = doc.Find("body").Html()
		if err != nil {
			return "", err
		}
	}

	return truncate(selected, maxBytes), nil
}

func truncate(s string, maxBytes int) string {
	if maxBytes <= 0 || len(s) <= maxBytes {
		return s
	}
	return s[:maxBytes]
}
