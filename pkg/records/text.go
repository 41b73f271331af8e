package records

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/amosWeiskopf/sitearchiver/internal/models"
)

// Artifacts names the per-run output files.
type Artifacts struct {
	CrawledURLs   string
	Downloadables string
	Log           string
	Filenames     string
}

// NewArtifacts builds the timestamped artifact names inside dir.
func NewArtifacts(dir, timestampFormat string, now time.Time) Artifacts {
	stamp := now.Format(timestampFormat)
	return Artifacts{
		CrawledURLs:   filepath.Join(dir, fmt.Sprintf("scraper-crawledurls-%s.txt", stamp)),
		Downloadables: filepath.Join(dir, fmt.Sprintf("scraper-downloadables-%s.txt", stamp)),
		Log:           filepath.Join(dir, fmt.Sprintf("scraper-log-%s.txt", stamp)),
		Filenames:     filepath.Join(dir, fmt.Sprintf("downloader-filenames-%s.txt", stamp)),
	}
}

// TextSink writes one line per record to the plain-text artifacts.
type TextSink struct {
	files Artifacts
}

// NewTextSink creates a TextSink over files. Nothing is created until the
// first record arrives.
func NewTextSink(files Artifacts) *TextSink {
	return &TextSink{files: files}
}

// ResetCrawlFiles removes crawled-URL and downloadables files left over from
// an earlier run with the same name.
func (s *TextSink) ResetCrawlFiles() error {
	for _, path := range []string{s.files.CrawledURLs, s.files.Downloadables} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", path, err)
		}
	}
	return nil
}

func (s *TextSink) RecordVisited(url string) error {
	return AppendLine(s.files.CrawledURLs, url)
}

func (s *TextSink) RecordDownloadable(file models.DiscoveredFile) error {
	return AppendLine(s.files.Downloadables, file.URL)
}

// RecordDownload writes one tab-separated line per Content-Disposition value.
func (s *TextSink) RecordDownload(rec models.DownloadRecord) error {
	for _, cd := range rec.ContentDisposition {
		if err := AppendLine(s.files.Filenames, fmt.Sprintf("%s\t%s\t%s", rec.URL, rec.LocalPath, cd)); err != nil {
			return err
		}
	}
	return nil
}

func (s *TextSink) Close() error { return nil }
