// Package downloader fetches discovered files one at a time into a local
// tree that mirrors their URL paths.
package downloader

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/amosWeiskopf/sitearchiver/internal/models"
	"github.com/amosWeiskopf/sitearchiver/pkg/layout"
	"github.com/amosWeiskopf/sitearchiver/pkg/records"
)

// Kind classifies a failed download.
type Kind int

const (
	// FetchFailed covers network errors and non-2xx responses.
	FetchFailed Kind = iota
	// FileSystemFailed covers directory creation and file writes.
	FileSystemFailed
)

func (k Kind) String() string {
	switch k {
	case FetchFailed:
		return "fetch"
	case FileSystemFailed:
		return "filesystem"
	default:
		return "unknown"
	}
}

// DownloadError is returned by Download for a single failed URL.
type DownloadError struct {
	Kind Kind
	URL  string
	Err  error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download %s (%s): %v", e.URL, e.Kind, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// Getter issues a GET and returns a 2xx response with its body unread.
type Getter interface {
	Get(ctx context.Context, url string) (*http.Response, error)
}

// Downloader saves files under a root directory and records the filename
// hints the server sends back.
type Downloader struct {
	root   string
	getter Getter
	sink   records.DownloadSink
	logger logrus.FieldLogger
	out    io.Writer
}

// New creates a Downloader writing below root. Progress lines go to out.
func New(root string, getter Getter, sink records.DownloadSink, logger logrus.FieldLogger, out io.Writer) *Downloader {
	if out == nil {
		out = io.Discard
	}
	return &Downloader{
		root:   root,
		getter: getter,
		sink:   sink,
		logger: logger,
		out:    out,
	}
}

// Download fetches url into its mirrored path below the root, replacing
// any existing file.
func (d *Downloader) Download(ctx context.Context, url string) (models.DownloadRecord, error) {
	rec := models.DownloadRecord{URL: url}

	dir, target, err := layout.Target(d.root, url)
	if err != nil {
		return rec, &DownloadError{Kind: FileSystemFailed, URL: url, Err: err}
	}
	rec.LocalPath = target

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return rec, &DownloadError{Kind: FileSystemFailed, URL: url, Err: err}
	}

	resp, err := d.getter.Get(ctx, url)
	if err != nil {
		return rec, &DownloadError{Kind: FetchFailed, URL: url, Err: err}
	}
	defer resp.Body.Close()

	n, err := writeFile(target, resp.Body)
	if err != nil {
		return rec, &DownloadError{Kind: FileSystemFailed, URL: url, Err: err}
	}
	rec.Bytes = n

	rec.ContentDisposition = resp.Header.Values("Content-Disposition")
	rec.SuggestedName = SuggestedName(rec.ContentDisposition)

	if err := d.sink.RecordDownload(rec); err != nil {
		d.logger.WithError(err).WithField("url", url).Error("Failed to record filename")
	}

	fmt.Fprintf(d.out, "%s => %s\n", url, target)
	return rec, nil
}

// DownloadAll downloads urls in order. A failed URL is logged and the
// batch moves on; only a done ctx stops it early.
func (d *Downloader) DownloadAll(ctx context.Context, urls []string) *models.BatchResult {
	result := &models.BatchResult{}
	for _, url := range urls {
		if ctx.Err() != nil {
			d.logger.WithError(ctx.Err()).Warn("Download batch interrupted")
			break
		}
		result.Attempted++

		rec, err := d.Download(ctx, url)
		if err != nil {
			failure := models.DownloadFailure{URL: url, Kind: FetchFailed.String(), Error: err.Error()}
			var de *DownloadError
			if errors.As(err, &de) {
				failure.Kind = de.Kind.String()
			}
			d.logger.WithError(err).WithField("url", url).Error("Download failed")
			result.Failures = append(result.Failures, failure)
			continue
		}
		result.Records = append(result.Records, rec)
	}
	return result
}

// writeFile replaces target with the contents of r. A partial file is
// removed on error.
func writeFile(target string, r io.Reader) (int64, error) {
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return 0, err
	}
	f, err := os.Create(target)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(target)
		return n, err
	}
	return n, nil
}

// SuggestedName returns the first filename carried by the given
// Content-Disposition values, preferring filename* over filename.
func SuggestedName(values []string) string {
	for _, v := range values {
		_, params, err := mime.ParseMediaType(v)
		if err != nil {
			continue
		}
		// ParseMediaType decodes filename* into the filename key.
		if name := params["filename"]; name != "" {
			return name
		}
	}
	return ""
}

// LoadURLList reads one URL per line from path. Blank lines and repeats
// are skipped.
func LoadURLList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open url file: %w", err)
	}
	defer f.Close()

	var urls []string
	seen := make(map[string]bool)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || seen[line] {
			continue
		}
		seen[line] = true
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read url file: %w", err)
	}
	return urls, nil
}
