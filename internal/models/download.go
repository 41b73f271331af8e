package models

// DownloadRecord describes one fetched file and the filename hints the
// server returned for it.
type DownloadRecord struct {
	URL                string   `json:"url"`
	LocalPath          string   `json:"local_path"`
	ContentDisposition []string `json:"content_disposition,omitempty"`
	SuggestedName      string   `json:"suggested_name,omitempty"`
	Bytes              int64    `json:"bytes"`
}

// DownloadFailure records a URL the batch could not fetch or store.
type DownloadFailure struct {
	URL   string `json:"url"`
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

// BatchResult is the outcome of a download batch.
type BatchResult struct {
	Attempted int               `json:"attempted"`
	Records   []DownloadRecord  `json:"records"`
	Failures  []DownloadFailure `json:"failures"`
}

// FilenameHints counts the Content-Disposition values seen in the batch.
func (b *BatchResult) FilenameHints() int {
	n := 0
	for _, r := range b.Records {
		n += len(r.ContentDisposition)
	}
	return n
}
