// Package records persists the crawl and download output artifacts.
package records

import (
	"errors"

	"github.com/amosWeiskopf/sitearchiver/internal/models"
)

// CrawlSink receives crawler output as it is produced.
type CrawlSink interface {
	RecordVisited(url string) error
	RecordDownloadable(file models.DiscoveredFile) error
}

// DownloadSink receives one record per downloaded file.
type DownloadSink interface {
	RecordDownload(rec models.DownloadRecord) error
}

// Sink is a CrawlSink and DownloadSink that owns resources.
type Sink interface {
	CrawlSink
	DownloadSink
	Close() error
}

type multiSink []Sink

// Multi fans every record out to all sinks. All sinks are attempted; their
// errors are joined.
func Multi(sinks ...Sink) Sink {
	return multiSink(sinks)
}

func (m multiSink) RecordVisited(url string) error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.RecordVisited(url))
	}
	return errors.Join(errs...)
}

func (m multiSink) RecordDownloadable(file models.DiscoveredFile) error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.RecordDownloadable(file))
	}
	return errors.Join(errs...)
}

func (m multiSink) RecordDownload(rec models.DownloadRecord) error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.RecordDownload(rec))
	}
	return errors.Join(errs...)
}

func (m multiSink) Close() error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}
