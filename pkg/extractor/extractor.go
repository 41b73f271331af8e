package extractor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrParseFailed is returned by Parse when the body cannot be read as HTML.
var ErrParseFailed = errors.New("html parse failed")

// Extractor handles link extraction from HTML
type Extractor struct {
	selector string
}

// New creates a new Extractor instance
func New() *Extractor {
	return &Extractor{selector: "a[href]"}
}

// Parse returns the href values of all anchors in htmlBody, each distinct
// value once, in document order.
func (e *Extractor) Parse(htmlBody string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlBody))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailed, err)
	}

	var links []string
	seen := make(map[string]bool)
	doc.Find(e.selector).Each(func(_ int, s *goquery.Selection) {
		href := s.AttrOr("href", "")
		if !seen[href] {
			seen[href] = true
			links = append(links, href)
		}
	})
	return links, nil
}

// ExtractLinks is Parse with parse failures treated as "no links".
func (e *Extractor) ExtractLinks(htmlBody string) []string {
	links, err := e.Parse(htmlBody)
	if err != nil || links == nil {
		return []string{}
	}
	return links
}
