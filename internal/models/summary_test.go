package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunSummaryAddCrawl(t *testing.T) {
	var s RunSummary
	s.AddCrawl(nil)
	assert.Empty(t, s.Roots)

	s.AddCrawl(&CrawlResult{
		Roots: []RootResult{{Root: "https://www.lskysd.ca", FilesFound: 2}},
		Files: []DiscoveredFile{{URL: "https://files.edl.io/a.pdf"}, {URL: "https://files.edl.io/b.pdf"}},
	})
	assert.Len(t, s.Roots, 1)
	assert.Equal(t, 2, s.FilesFound)
}

func TestBatchResultFilenameHints(t *testing.T) {
	b := &BatchResult{Records: []DownloadRecord{
		{ContentDisposition: []string{"inline", "attachment"}},
		{},
		{ContentDisposition: []string{"inline; filename=a.pdf"}},
	}}
	assert.Equal(t, 3, b.FilenameHints())
}
