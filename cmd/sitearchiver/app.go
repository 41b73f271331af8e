package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/amosWeiskopf/sitearchiver/internal/config"
	"github.com/amosWeiskopf/sitearchiver/internal/logging"
	"github.com/amosWeiskopf/sitearchiver/internal/models"
	"github.com/amosWeiskopf/sitearchiver/pkg/crawler"
	"github.com/amosWeiskopf/sitearchiver/pkg/downloader"
	"github.com/amosWeiskopf/sitearchiver/pkg/extractor"
	"github.com/amosWeiskopf/sitearchiver/pkg/fetcher"
	"github.com/amosWeiskopf/sitearchiver/pkg/filter"
	"github.com/amosWeiskopf/sitearchiver/pkg/records"
	"github.com/amosWeiskopf/sitearchiver/pkg/reporter"
)

// app is the wiring shared by every subcommand of a single run.
type app struct {
	cfg       *config.Config
	command   string
	runID     string
	startedAt time.Time
	files     records.Artifacts
	text      *records.TextSink
	sink      records.Sink
	client    *fetcher.Client
	log       logrus.FieldLogger
	out       io.Writer
}

func newApp(cmd *cobra.Command, command string) (*app, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	a := &app{
		cfg:       cfg,
		command:   command,
		runID:     uuid.NewString(),
		startedAt: time.Now(),
		out:       cmd.OutOrStdout(),
	}
	a.files = records.NewArtifacts(cfg.Output.Dir, cfg.Output.TimestampFormat, a.startedAt)

	logger, err := logging.New(logging.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Console: a.out,
		File:    a.files.Log,
	})
	if err != nil {
		return nil, err
	}
	a.log = logger.WithFields(logrus.Fields{"run": a.runID, "command": command})

	a.text = records.NewTextSink(a.files)
	sinks := []records.Sink{a.text}
	if cfg.Storage.Type == "sqlite" {
		manifest, err := records.OpenSQLite(cfg.Storage.Path, a.runID, command)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, manifest)
	}
	a.sink = records.Multi(sinks...)

	a.client = fetcher.New(fetcher.Options{
		UserAgent:         cfg.Crawler.UserAgent,
		Timeout:           cfg.Crawler.Timeout,
		RequestsPerSecond: cfg.Crawler.RequestsPerSecond,
	})
	return a, nil
}

// applyFlags lets command-line flags override the loaded configuration.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Logging.Level = "debug"
	}
	if v, _ := cmd.Flags().GetString("report"); v != "" {
		cfg.Output.ReportPath = v
	}
	if v, _ := cmd.Flags().GetString("format"); v != "" {
		cfg.Output.ReportFormat = v
	}
	if v, _ := cmd.Flags().GetString("files-domain"); v != "" {
		cfg.Crawler.FilesDomain = v
	}
	if v, _ := cmd.Flags().GetString("dir"); v != "" {
		cfg.Downloader.Directory = v
	}
}

func (a *app) close() {
	if err := a.sink.Close(); err != nil {
		a.log.WithError(err).Error("Failed to close records")
	}
}

func (a *app) newSummary() *models.RunSummary {
	return &models.RunSummary{
		RunID:     a.runID,
		Command:   a.command,
		StartedAt: a.startedAt,
	}
}

// crawl sanitizes the configured and given roots and crawls them.
func (a *app) crawl(ctx context.Context, args []string) (*models.CrawlResult, error) {
	inputs := make([]string, 0, len(a.cfg.Crawler.Roots)+len(args))
	inputs = append(inputs, a.cfg.Crawler.Roots...)
	inputs = append(inputs, args...)

	roots := crawler.SanitizeRoots(inputs)
	if len(roots) == 0 {
		fmt.Fprintln(a.out, "No urls to scrape!")
		return nil, crawler.ErrNoRoots
	}

	if err := a.text.ResetCrawlFiles(); err != nil {
		return nil, err
	}

	c := crawler.New(
		crawler.Options{
			MinDelay:             a.cfg.Crawler.MinDelay,
			MaxDelay:             a.cfg.Crawler.MaxDelay,
			ShareDiscoveredFiles: a.cfg.Crawler.ShareDiscoveredFiles,
		},
		a.client,
		extractor.New(),
		filter.New(filter.Options{
			FilesDomain:       a.cfg.Crawler.FilesDomain,
			Blacklist:         a.cfg.Crawler.Blacklist,
			IncludeSubdomains: a.cfg.Crawler.IncludeSubdomains,
		}),
		a.sink,
		a.log,
	)

	result, err := c.Crawl(ctx, roots)
	if errors.Is(err, context.Canceled) {
		a.log.Warn("Crawl interrupted")
	}
	return result, err
}

// download fetches urls into the configured download directory.
func (a *app) download(ctx context.Context, urls []string) *models.BatchResult {
	if len(urls) == 0 {
		a.log.Info("No files to download!")
		return &models.BatchResult{}
	}
	a.log.Infof("Found %d urls to download", len(urls))

	d := downloader.New(a.cfg.Downloader.Directory, a.client, a.sink, a.log, a.out)
	result := d.DownloadAll(ctx, urls)
	a.log.Infof("Downloaded %d of %d files.", len(result.Records), result.Attempted)
	return result
}

// finish stamps the summary and writes the report when one was asked for.
func (a *app) finish(summary *models.RunSummary) error {
	summary.FinishedAt = time.Now()
	for _, path := range []string{a.files.CrawledURLs, a.files.Downloadables, a.files.Filenames, a.files.Log} {
		if _, err := os.Stat(path); err == nil {
			summary.Artifacts = append(summary.Artifacts, path)
		}
	}

	if a.cfg.Output.ReportPath == "" {
		return nil
	}

	report, err := reporter.New().GenerateReport(summary, a.cfg.Output.ReportFormat)
	if err != nil {
		return fmt.Errorf("report generation failed: %w", err)
	}
	if dir := filepath.Dir(a.cfg.Output.ReportPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	if err := os.WriteFile(a.cfg.Output.ReportPath, []byte(report), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	a.log.Infof("Report saved to %s", a.cfg.Output.ReportPath)
	return nil
}
