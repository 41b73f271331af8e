package records

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amosWeiskopf/sitearchiver/internal/models"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestNewArtifacts(t *testing.T) {
	now := time.Date(2019, 8, 15, 17, 55, 0, 0, time.UTC)
	files := NewArtifacts("out", "2006-01-02-1504", now)

	assert.Equal(t, filepath.Join("out", "scraper-crawledurls-2019-08-15-1755.txt"), files.CrawledURLs)
	assert.Equal(t, filepath.Join("out", "scraper-downloadables-2019-08-15-1755.txt"), files.Downloadables)
	assert.Equal(t, filepath.Join("out", "scraper-log-2019-08-15-1755.txt"), files.Log)
	assert.Equal(t, filepath.Join("out", "downloader-filenames-2019-08-15-1755.txt"), files.Filenames)
}

func TestTextSink(t *testing.T) {
	dir := t.TempDir()
	files := NewArtifacts(dir, "stamp", time.Now())
	sink := NewTextSink(files)

	require.NoError(t, sink.RecordVisited("https://example.org"))
	require.NoError(t, sink.RecordVisited("https://example.org/a"))
	require.NoError(t, sink.RecordDownloadable(models.DiscoveredFile{URL: "https://files.edl.io/a.pdf"}))
	require.NoError(t, sink.RecordDownload(models.DownloadRecord{
		URL:                "https://files.edl.io/x/I%20Can.docx",
		LocalPath:          "download/x/I Can.docx",
		ContentDisposition: []string{"inline; filename*=UTF-8''I%20Can.docx", "attachment"},
	}))
	// No header, no mapping line.
	require.NoError(t, sink.RecordDownload(models.DownloadRecord{URL: "https://files.edl.io/b.pdf", LocalPath: "download/b.pdf"}))

	assert.Equal(t, []string{"https://example.org", "https://example.org/a"}, readLines(t, files.CrawledURLs))
	assert.Equal(t, []string{"https://files.edl.io/a.pdf"}, readLines(t, files.Downloadables))
	assert.Equal(t, []string{
		"https://files.edl.io/x/I%20Can.docx\tdownload/x/I Can.docx\tinline; filename*=UTF-8''I%20Can.docx",
		"https://files.edl.io/x/I%20Can.docx\tdownload/x/I Can.docx\tattachment",
	}, readLines(t, files.Filenames))
}

func TestTextSinkResetCrawlFiles(t *testing.T) {
	dir := t.TempDir()
	files := NewArtifacts(dir, "stamp", time.Now())
	sink := NewTextSink(files)

	require.NoError(t, sink.RecordVisited("https://old.example.org"))
	require.NoError(t, sink.ResetCrawlFiles())
	_, err := os.Stat(files.CrawledURLs)
	assert.True(t, os.IsNotExist(err))

	// Missing files are fine.
	require.NoError(t, sink.ResetCrawlFiles())
}

func TestAppendFileCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "log.txt")

	require.NoError(t, AppendLine(path, "one"))
	require.NoError(t, AppendLine(path, "two"))
	assert.Equal(t, []string{"one", "two"}, readLines(t, path))
}

func TestSQLiteSink(t *testing.T) {
	sink, err := OpenSQLite(filepath.Join(t.TempDir(), "archive.db"), "run-1", "archive")
	require.NoError(t, err)
	defer sink.Close()

	require.NoError(t, sink.RecordVisited("https://example.org"))
	file := models.DiscoveredFile{SourceURL: "https://example.org", URL: "https://files.edl.io/a.pdf", LocalPath: "a.pdf"}
	require.NoError(t, sink.RecordDownloadable(file))
	require.NoError(t, sink.RecordDownloadable(file))
	require.NoError(t, sink.RecordDownload(models.DownloadRecord{
		URL:                "https://files.edl.io/a.pdf",
		LocalPath:          "download/a.pdf",
		ContentDisposition: []string{"inline; filename=\"Report.pdf\""},
		SuggestedName:      "Report.pdf",
		Bytes:              42,
	}))

	var count int
	require.NoError(t, sink.db.QueryRow(`SELECT COUNT(*) FROM visited WHERE run_id = ?`, "run-1").Scan(&count))
	assert.Equal(t, 1, count)
	require.NoError(t, sink.db.QueryRow(`SELECT COUNT(*) FROM downloadables WHERE run_id = ?`, "run-1").Scan(&count))
	assert.Equal(t, 1, count)

	var name string
	var size int64
	require.NoError(t, sink.db.QueryRow(`SELECT suggested_name, bytes FROM downloads WHERE url = ?`, "https://files.edl.io/a.pdf").Scan(&name, &size))
	assert.Equal(t, "Report.pdf", name)
	assert.Equal(t, int64(42), size)
}

func TestSQLiteSinkDuplicateRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.db")
	first, err := OpenSQLite(path, "run-1", "crawl")
	require.NoError(t, err)
	require.NoError(t, first.Close())

	_, err = OpenSQLite(path, "run-1", "crawl")
	assert.Error(t, err)
}

type failingSink struct {
	calls int
}

func (f *failingSink) RecordVisited(string) error {
	f.calls++
	return errors.New("disk full")
}

func (f *failingSink) RecordDownloadable(models.DiscoveredFile) error {
	f.calls++
	return errors.New("disk full")
}

func (f *failingSink) RecordDownload(models.DownloadRecord) error {
	f.calls++
	return nil
}

func (f *failingSink) Close() error { return nil }

func TestMultiAttemptsEverySink(t *testing.T) {
	dir := t.TempDir()
	files := NewArtifacts(dir, "stamp", time.Now())
	failing := &failingSink{}
	sink := Multi(failing, NewTextSink(files))

	err := sink.RecordVisited("https://example.org")
	assert.EqualError(t, err, "disk full")
	assert.Equal(t, []string{"https://example.org"}, readLines(t, files.CrawledURLs))

	require.NoError(t, sink.RecordDownload(models.DownloadRecord{URL: "u", LocalPath: "p"}))
	assert.Equal(t, 2, failing.calls)
	require.NoError(t, sink.Close())
}
