package models

import "time"

// CrawlJob is the BFS state for a single root URL: a FIFO frontier and the
// set of URLs already dequeued. A URL enters the job at most once.
type CrawlJob struct {
	Root string

	frontier []string
	visited  []string
	seen     map[string]struct{}
}

// NewCrawlJob creates a job whose frontier holds only root.
func NewCrawlJob(root string) *CrawlJob {
	job := &CrawlJob{
		Root: root,
		seen: make(map[string]struct{}),
	}
	job.Enqueue(root)
	return job
}

// Enqueue appends url to the frontier unless it is already queued or visited.
func (j *CrawlJob) Enqueue(url string) bool {
	if _, ok := j.seen[url]; ok {
		return false
	}
	j.seen[url] = struct{}{}
	j.frontier = append(j.frontier, url)
	return true
}

// Next dequeues the front of the frontier and records it as visited.
func (j *CrawlJob) Next() (string, bool) {
	if len(j.frontier) == 0 {
		return "", false
	}
	url := j.frontier[0]
	j.frontier[0] = ""
	j.frontier = j.frontier[1:]
	j.visited = append(j.visited, url)
	return url, true
}

// Pending returns the number of URLs still waiting in the frontier.
func (j *CrawlJob) Pending() int {
	return len(j.frontier)
}

// Visited returns the dequeued URLs in visit order.
func (j *CrawlJob) Visited() []string {
	out := make([]string, len(j.visited))
	copy(out, j.visited)
	return out
}

// DiscoveredFile is a link that points at the file-hosting domain.
type DiscoveredFile struct {
	SourceURL string `json:"source_url,omitempty"`
	URL       string `json:"url"`
	LocalPath string `json:"local_path"`
}

// FileSet keeps discovered files unique by URL, in discovery order.
type FileSet struct {
	files []DiscoveredFile
	index map[string]struct{}
}

// NewFileSet returns an empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{index: make(map[string]struct{})}
}

// Add stores f unless a file with the same URL is already present.
func (s *FileSet) Add(f DiscoveredFile) bool {
	if _, ok := s.index[f.URL]; ok {
		return false
	}
	s.index[f.URL] = struct{}{}
	s.files = append(s.files, f)
	return true
}

func (s *FileSet) Len() int { return len(s.files) }

// Files returns a copy of the stored files.
func (s *FileSet) Files() []DiscoveredFile {
	out := make([]DiscoveredFile, len(s.files))
	copy(out, s.files)
	return out
}

// URLs returns the file URLs in discovery order.
func (s *FileSet) URLs() []string {
	out := make([]string, 0, len(s.files))
	for _, f := range s.files {
		out = append(out, f.URL)
	}
	return out
}

// RootResult summarises the crawl of one root URL.
type RootResult struct {
	Root       string   `json:"root"`
	Visited    []string `json:"visited"`
	FilesFound int      `json:"files_found"`
	Errors     int      `json:"errors"`
}

// CrawlResult contains the results of a crawl operation
type CrawlResult struct {
	Roots     []RootResult     `json:"roots"`
	Files     []DiscoveredFile `json:"files"`
	StartedAt time.Time        `json:"started_at"`
	Duration  time.Duration    `json:"duration"`
}

// TotalVisited returns the number of pages visited across all roots.
func (r *CrawlResult) TotalVisited() int {
	n := 0
	for _, root := range r.Roots {
		n += len(root.Visited)
	}
	return n
}
