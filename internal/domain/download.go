package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DownloadStatus represents the outcome of one entry in a download run
type DownloadStatus string

const (
	StatusPending   DownloadStatus = "pending"
	StatusSucceeded DownloadStatus = "succeeded"
	StatusFailed    DownloadStatus = "failed"
	StatusSkipped   DownloadStatus = "skipped"
)

// ParseDownloadStatus validates a status name
func ParseDownloadStatus(s string) (DownloadStatus, bool) {
	switch status := DownloadStatus(strings.ToLower(strings.TrimSpace(s))); status {
	case StatusPending, StatusSucceeded, StatusFailed, StatusSkipped:
		return status, true
	default:
		return "", false
	}
}

// Skip reasons
const (
	SkipNoEnclosure = "no_enclosure"
	SkipDuplicate   = "duplicate"
)

// DownloadTarget is where one entry's media is fetched from and written to
type DownloadTarget struct {
	SourceURL string `json:"source_url"`
	LocalPath string `json:"local_path"`
}

// EpisodeDownload records what happened to one selected entry
type EpisodeDownload struct {
	ID           string         `json:"id" gorm:"primaryKey"`
	RunID        string         `json:"run_id" gorm:"not null;index"`
	FeedURL      string         `json:"feed_url,omitempty" gorm:"index"`
	EpisodeTitle string         `json:"episode_title"`
	SourceURL    string         `json:"source_url,omitempty"`
	FilePath     string         `json:"file_path,omitempty"`
	Status       DownloadStatus `json:"status" gorm:"not null;index"`
	SkipReason   string         `json:"skip_reason,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
	Bytes        int64          `json:"bytes"`
	Attempts     int            `json:"attempts" gorm:"default:0"`
	CreatedAt    time.Time      `json:"created_at" gorm:"autoCreateTime"`
	CompletedAt  *time.Time     `json:"completed_at,omitempty"`
}

// TableName specifies the table name for GORM
func (EpisodeDownload) TableName() string {
	return "episode_downloads"
}

// NewEpisodeDownload creates a pending record for an entry of a run
func NewEpisodeDownload(runID, feedURL string, entry FeedEntry) *EpisodeDownload {
	return &EpisodeDownload{
		ID:           uuid.New().String(),
		RunID:        runID,
		FeedURL:      feedURL,
		EpisodeTitle: entry.Title,
		SourceURL:    entry.SourceURL(),
		Status:       StatusPending,
		CreatedAt:    time.Now(),
	}
}

// MarkSucceeded marks the entry as written to filePath
func (d *EpisodeDownload) MarkSucceeded(filePath string, bytes int64) {
	d.Status = StatusSucceeded
	d.FilePath = filePath
	d.Bytes = bytes
	d.ErrorMessage = ""
	d.complete()
}

// MarkFailed marks the entry as failed
func (d *EpisodeDownload) MarkFailed(err error) {
	d.Status = StatusFailed
	if err != nil {
		d.ErrorMessage = err.Error()
	}
	d.complete()
}

// MarkSkipped marks the entry as skipped
func (d *EpisodeDownload) MarkSkipped(reason string) {
	d.Status = StatusSkipped
	d.SkipReason = reason
	d.complete()
}

// IsTerminal checks if the entry has an outcome
func (d *EpisodeDownload) IsTerminal() bool {
	return d.Status == StatusSucceeded || d.Status == StatusFailed || d.Status == StatusSkipped
}

func (d *EpisodeDownload) complete() {
	now := time.Now()
	d.CompletedAt = &now
}

// RunSummary aggregates the outcomes of one download invocation
type RunSummary struct {
	RunID      string             `json:"run_id"`
	FeedURL    string             `json:"feed_url,omitempty"`
	Folder     string             `json:"folder"`
	Skipped    int                `json:"skipped"`
	Succeeded  int                `json:"succeeded"`
	Failed     int                `json:"failed"`
	Outcomes   []*EpisodeDownload `json:"outcomes"`
	StartedAt  time.Time          `json:"started_at"`
	FinishedAt time.Time          `json:"finished_at"`
}

// NewRunSummary starts a summary for a new run
func NewRunSummary(feedURL, folder string) *RunSummary {
	return &RunSummary{
		RunID:     uuid.New().String(),
		FeedURL:   feedURL,
		Folder:    folder,
		Outcomes:  make([]*EpisodeDownload, 0),
		StartedAt: time.Now(),
	}
}

// Record adds a terminal outcome to the summary
func (s *RunSummary) Record(d *EpisodeDownload) {
	if !d.IsTerminal() {
		return
	}
	switch d.Status {
	case StatusSucceeded:
		s.Succeeded++
	case StatusFailed:
		s.Failed++
	case StatusSkipped:
		s.Skipped++
	}
	s.Outcomes = append(s.Outcomes, d)
}

// Finish stamps the end of the run
func (s *RunSummary) Finish() {
	s.FinishedAt = time.Now()
}

// Total returns the number of recorded outcomes
func (s *RunSummary) Total() int {
	return s.Skipped + s.Succeeded + s.Failed
}

// HasFailures reports whether any entry failed
func (s *RunSummary) HasFailures() bool {
	return s.Failed > 0
}
