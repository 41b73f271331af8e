package crawler

import (
	"context"
	"time"
)

// PageFetcher retrieves the body of a page
type PageFetcher interface {
	FetchPage(ctx context.Context, url string) (string, error)
}

// LinkExtractor returns the raw href values found in an HTML body
type LinkExtractor interface {
	ExtractLinks(htmlBody string) []string
}

// LinkFilter turns raw hrefs into in-scope absolute URLs and tells file
// links apart from pages
type LinkFilter interface {
	Filter(links []string, root string) []string
	IsFile(url string) bool
}

// Options contains configuration for the crawler
type Options struct {
	MinDelay             time.Duration // lower bound of the pause after each page
	MaxDelay             time.Duration // upper bound of the pause after each page
	ShareDiscoveredFiles bool          // one discovered-files set across all roots
}
