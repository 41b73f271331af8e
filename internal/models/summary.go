package models

import "time"

// RunSummary is the data behind the end-of-run report.
type RunSummary struct {
	RunID      string       `json:"run_id"`
	Command    string       `json:"command"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Roots      []RootResult `json:"roots,omitempty"`
	FilesFound int          `json:"files_found"`
	Downloads  *BatchResult `json:"downloads,omitempty"`
	Artifacts  []string     `json:"artifacts"`
}

// AddCrawl copies the per-root results of a crawl into the summary. A nil
// result is ignored.
func (s *RunSummary) AddCrawl(result *CrawlResult) {
	if result == nil {
		return
	}
	s.Roots = append(s.Roots, result.Roots...)
	s.FilesFound += len(result.Files)
}
