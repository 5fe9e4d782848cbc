package domain

// LibraryRecord maps a podcast title to its feed URL
type LibraryRecord struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// LibraryRepository persists previously used feeds
type LibraryRepository interface {
	// List returns all records ordered by title
	List() ([]LibraryRecord, error)

	// Save inserts or replaces the record with the same title
	Save(record LibraryRecord) error

	// Remove deletes a record by title, reporting whether it existed
	Remove(title string) (bool, error)

	// FindByURL returns the record for a feed URL, or nil if not present
	FindByURL(url string) (*LibraryRecord, error)
}

// HistoryRepository persists per-entry download outcomes
type HistoryRepository interface {
	// Create stores a new outcome
	Create(download *EpisodeDownload) error

	// FindByRun returns the outcomes of one run in processing order
	FindByRun(runID string) ([]*EpisodeDownload, error)

	// FindRecent returns the most recent outcomes, newest first
	FindRecent(limit int) ([]*EpisodeDownload, error)

	// FindByStatus returns the most recent outcomes with status, newest first
	FindByStatus(status DownloadStatus, limit int) ([]*EpisodeDownload, error)

	// GetStats returns aggregate counts by status
	GetStats() (*DownloadStats, error)
}

// DownloadStats represents download statistics
type DownloadStats struct {
	Total     int64 `json:"total"`
	Succeeded int64 `json:"succeeded"`
	Failed    int64 `json:"failed"`
	Skipped   int64 `json:"skipped"`
	Runs      int64 `json:"runs"`
	Bytes     int64 `json:"bytes"`
}
