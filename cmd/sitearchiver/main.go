package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amosWeiskopf/sitearchiver/internal/models"
	"github.com/amosWeiskopf/sitearchiver/pkg/downloader"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "sitearchiver",
	Short: "SiteArchiver - crawl a school site and mirror its hosted files",
	Long: `SiteArchiver walks every page reachable from the given root URLs,
collects the links that point at the file-hosting domain, and downloads
those files into a directory tree that mirrors their URL paths.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
}

var crawlCmd = &cobra.Command{
	Use:   "crawl [ROOT...]",
	Short: "Crawl sites and list the downloadable files they link to",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "crawl")
		if err != nil {
			return err
		}
		defer a.close()

		summary := a.newSummary()
		result, crawlErr := a.crawl(cmd.Context(), args)
		summary.AddCrawl(result)
		if err := a.finish(summary); err != nil {
			return err
		}
		return crawlErr
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download [URL_LIST_FILE]",
	Short: "Download every URL listed in a file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "download")
		if err != nil {
			return err
		}
		defer a.close()

		path := a.cfg.Downloader.InputFile
		if len(args) == 1 {
			path = args[0]
		}
		a.log.WithField("file", path).Info("Opening url file")
		urls, err := downloader.LoadURLList(path)
		if err != nil {
			return err
		}

		summary := a.newSummary()
		summary.Downloads = a.download(cmd.Context(), urls)
		if err := a.finish(summary); err != nil {
			return err
		}
		return cmd.Context().Err()
	},
}

var archiveCmd = &cobra.Command{
	Use:   "archive [ROOT...]",
	Short: "Crawl sites, then download the files they link to",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "archive")
		if err != nil {
			return err
		}
		defer a.close()

		summary := a.newSummary()
		result, err := a.crawl(cmd.Context(), args)
		summary.AddCrawl(result)
		if err != nil {
			if ferr := a.finish(summary); ferr != nil {
				return ferr
			}
			return err
		}

		// Roots crawled without a shared file set can report the same file twice.
		files := models.NewFileSet()
		for _, f := range result.Files {
			files.Add(f)
		}
		summary.Downloads = a.download(cmd.Context(), files.URLs())
		if err := a.finish(summary); err != nil {
			return err
		}
		return cmd.Context().Err()
	},
}

func init() {
	for _, cmd := range []*cobra.Command{crawlCmd, downloadCmd, archiveCmd} {
		cmd.Flags().String("report", "", "Write a run summary report to this file")
		cmd.Flags().String("format", "", "Report format (json, html, markdown)")
	}
	crawlCmd.Flags().String("files-domain", "", "Domain that hosts downloadable files")
	archiveCmd.Flags().String("files-domain", "", "Domain that hosts downloadable files")
	downloadCmd.Flags().String("dir", "", "Download directory")
	archiveCmd.Flags().String("dir", "", "Download directory")

	// Add commands to root
	rootCmd.AddCommand(crawlCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(archiveCmd)

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "Config file path")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable verbose output")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
