package crawler

import (
	"context"
	"errors"
	"math/rand"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/amosWeiskopf/sitearchiver/internal/models"
	"github.com/amosWeiskopf/sitearchiver/pkg/layout"
	"github.com/amosWeiskopf/sitearchiver/pkg/records"
)

// ErrNoRoots is returned when there is nothing to crawl.
var ErrNoRoots = errors.New("no urls to scrape")

// Crawler walks each root breadth-first, one page at a time.
type Crawler struct {
	opts      Options
	fetcher   PageFetcher
	extractor LinkExtractor
	filter    LinkFilter
	sink      records.CrawlSink
	logger    logrus.FieldLogger
	sleep     func(ctx context.Context, d time.Duration) error
}

// New creates a Crawler. Visited pages and discovered files are streamed
// to sink as they happen.
func New(opts Options, fetcher PageFetcher, extractor LinkExtractor, filter LinkFilter, sink records.CrawlSink, logger logrus.FieldLogger) *Crawler {
	return &Crawler{
		opts:      opts,
		fetcher:   fetcher,
		extractor: extractor,
		filter:    filter,
		sink:      sink,
		logger:    logger,
		sleep:     sleepContext,
	}
}

// SanitizeRootURL adds an https scheme when none is present and strips
// trailing slashes.
func SanitizeRootURL(input string) string {
	working := strings.TrimSpace(input)
	if working == "" {
		return ""
	}
	lower := strings.ToLower(working)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		working = "https://" + working
	}
	return strings.TrimRight(working, "/")
}

// SanitizeRoots sanitizes inputs and drops hostless entries and
// duplicates, keeping the first occurrence.
func SanitizeRoots(inputs []string) []string {
	var roots []string
	seen := make(map[string]bool)
	for _, input := range inputs {
		root := SanitizeRootURL(input)
		if u, err := url.Parse(root); err != nil || u.Host == "" || seen[root] {
			continue
		}
		seen[root] = true
		roots = append(roots, root)
	}
	return roots
}

// Crawl visits every reachable page of each root in turn. It stops early
// only when ctx is done.
func (c *Crawler) Crawl(ctx context.Context, roots []string) (*models.CrawlResult, error) {
	if len(roots) == 0 {
		return nil, ErrNoRoots
	}

	result := &models.CrawlResult{StartedAt: time.Now()}
	defer func() { result.Duration = time.Since(result.StartedAt) }()

	files := models.NewFileSet()
	for i, root := range roots {
		if i > 0 && !c.opts.ShareDiscoveredFiles {
			result.Files = append(result.Files, files.Files()...)
			files = models.NewFileSet()
		}

		rootResult, err := c.crawlRoot(ctx, i+1, root, files)
		result.Roots = append(result.Roots, rootResult)
		if err != nil {
			result.Files = append(result.Files, files.Files()...)
			return result, err
		}
	}
	result.Files = append(result.Files, files.Files()...)
	return result, nil
}

func (c *Crawler) crawlRoot(ctx context.Context, index int, root string, files *models.FileSet) (models.RootResult, error) {
	job := models.NewCrawlJob(root)
	rootResult := models.RootResult{Root: root}
	log := c.logger.WithField("root", root)

	for {
		if err := ctx.Err(); err != nil {
			rootResult.Visited = job.Visited()
			return rootResult, err
		}

		pageURL, ok := job.Next()
		if !ok {
			break
		}
		pageLog := log.WithField("url", pageURL)

		if err := c.sink.RecordVisited(pageURL); err != nil {
			pageLog.WithError(err).Error("Failed to record visited url")
			rootResult.Errors++
		}
		log.Infof("Crawling %q (%d/%d)...", pageURL, index, job.Pending()+1)

		body, err := c.fetcher.FetchPage(ctx, pageURL)
		if err != nil {
			pageLog.WithError(err).Warn("Fetch failed")
			rootResult.Errors++
		}

		for _, link := range c.filter.Filter(c.extractor.ExtractLinks(body), root) {
			if c.filter.IsFile(link) {
				c.addFile(pageLog, files, &rootResult, pageURL, link)
				continue
			}
			if job.Enqueue(link) {
				pageLog.Debugf("> Adding site to queue: %s", link)
			}
		}

		pageLog.Debugf("Finished crawling %s", pageURL)

		if err := c.sleep(ctx, c.delay()); err != nil {
			rootResult.Visited = job.Visited()
			return rootResult, err
		}
	}

	rootResult.Visited = job.Visited()
	log.Info("Crawl complete.")
	log.Infof("Visited %d urls.", len(rootResult.Visited))
	log.Infof("Found %d files.", files.Len())
	return rootResult, nil
}

func (c *Crawler) addFile(log logrus.FieldLogger, files *models.FileSet, rootResult *models.RootResult, pageURL, link string) {
	rel, err := layout.RelativePath(link)
	if err != nil {
		log.WithError(err).Debug("No local path for file url")
	}
	file := models.DiscoveredFile{SourceURL: pageURL, URL: link, LocalPath: rel}
	if !files.Add(file) {
		return
	}
	rootResult.FilesFound++
	log.Debugf("> Found file: %s", link)
	if err := c.sink.RecordDownloadable(file); err != nil {
		log.WithError(err).Error("Failed to record downloadable")
		rootResult.Errors++
	}
}

// delay picks the politeness pause in [MinDelay, MaxDelay].
func (c *Crawler) delay() time.Duration {
	if c.opts.MaxDelay <= c.opts.MinDelay {
		return c.opts.MinDelay
	}
	spread := int64(c.opts.MaxDelay - c.opts.MinDelay)
	return c.opts.MinDelay + time.Duration(rand.Int63n(spread+1))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
