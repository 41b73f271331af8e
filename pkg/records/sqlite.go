package records

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/glebarez/sqlite"

	"github.com/amosWeiskopf/sitearchiver/internal/models"
)

// SQLiteSink stores every record of a run in a SQLite manifest.
type SQLiteSink struct {
	db    *sql.DB
	runID string
	now   func() time.Time
}

// OpenSQLite opens (or creates) the manifest at dbPath and registers runID.
func OpenSQLite(dbPath, runID, command string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open manifest %s: %w", dbPath, err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			command TEXT NOT NULL,
			started_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS visited (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			url TEXT NOT NULL,
			visited_at TEXT NOT NULL,
			FOREIGN KEY(run_id) REFERENCES runs(id)
		);

		CREATE TABLE IF NOT EXISTS downloadables (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			url TEXT NOT NULL,
			source_url TEXT,
			local_path TEXT,
			UNIQUE(run_id, url),
			FOREIGN KEY(run_id) REFERENCES runs(id)
		);

		CREATE TABLE IF NOT EXISTS downloads (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			url TEXT NOT NULL,
			local_path TEXT NOT NULL,
			content_disposition TEXT,
			suggested_name TEXT,
			bytes INTEGER,
			downloaded_at TEXT NOT NULL,
			FOREIGN KEY(run_id) REFERENCES runs(id)
		);

		CREATE INDEX IF NOT EXISTS idx_visited_run_id ON visited(run_id);
		CREATE INDEX IF NOT EXISTS idx_downloads_url ON downloads(url);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create manifest schema: %w", err)
	}

	s := &SQLiteSink{db: db, runID: runID, now: time.Now}
	if _, err := db.Exec(`INSERT INTO runs (id, command, started_at) VALUES (?, ?, ?)`,
		runID, command, s.timestamp()); err != nil {
		db.Close()
		return nil, fmt.Errorf("register run %s: %w", runID, err)
	}
	return s, nil
}

func (s *SQLiteSink) timestamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}

func (s *SQLiteSink) RecordVisited(url string) error {
	_, err := s.db.Exec(`INSERT INTO visited (run_id, url, visited_at) VALUES (?, ?, ?)`,
		s.runID, url, s.timestamp())
	if err != nil {
		return fmt.Errorf("record visited %s: %w", url, err)
	}
	return nil
}

func (s *SQLiteSink) RecordDownloadable(file models.DiscoveredFile) error {
	_, err := s.db.Exec(`INSERT OR IGNORE INTO downloadables (run_id, url, source_url, local_path) VALUES (?, ?, ?, ?)`,
		s.runID, file.URL, file.SourceURL, file.LocalPath)
	if err != nil {
		return fmt.Errorf("record downloadable %s: %w", file.URL, err)
	}
	return nil
}

func (s *SQLiteSink) RecordDownload(rec models.DownloadRecord) error {
	_, err := s.db.Exec(`INSERT INTO downloads (run_id, url, local_path, content_disposition, suggested_name, bytes, downloaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.runID, rec.URL, rec.LocalPath, strings.Join(rec.ContentDisposition, "\n"), rec.SuggestedName, rec.Bytes, s.timestamp())
	if err != nil {
		return fmt.Errorf("record download %s: %w", rec.URL, err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
