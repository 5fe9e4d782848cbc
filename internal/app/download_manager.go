package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yourusername/podgrab-go/internal/domain"
)

const (
	copyBufferSize = 8192
	partialSuffix  = ".part"
)

// DownloadManager turns selected entries into files on disk, one at a time.
// A failing entry is recorded in the run summary and never stops the queue.
type DownloadManager struct {
	transfer domain.Transferer
	history  domain.HistoryRepository
	notifier domain.Notifier
	config   *domain.HTTPConfig
	logger   *zap.Logger
}

// NewDownloadManager creates a new download manager.
// history and notifier are optional.
func NewDownloadManager(
	transfer domain.Transferer,
	history domain.HistoryRepository,
	notifier domain.Notifier,
	config *domain.HTTPConfig,
	logger *zap.Logger,
) *DownloadManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config == nil {
		config = &domain.DefaultConfig().HTTP
	}
	return &DownloadManager{
		transfer: transfer,
		history:  history,
		notifier: notifier,
		config:   config,
		logger:   logger,
	}
}

// DownloadEpisodes downloads every selected entry into folder.
// The only error returned is *domain.FolderCreateError, in which case no entry
// was attempted; per-entry failures are reported through the summary.
func (dm *DownloadManager) DownloadEpisodes(
	ctx context.Context,
	feedURL string,
	selected []domain.FeedEntry,
	folder string,
	progress domain.ProgressFunc,
) (*domain.RunSummary, error) {
	if err := EnsureFolder(folder); err != nil {
		dm.logger.Error("Cannot create download folder", zap.String("path", folder), zap.Error(err))
		return nil, err
	}

	if progress == nil {
		progress = func(received, total int64, label string) {}
	}

	summary := domain.NewRunSummary(feedURL, folder)
	seen := make(map[string]bool, len(selected))

	dm.logger.Info("Starting download run",
		zap.String("run_id", summary.RunID),
		zap.String("feed_url", feedURL),
		zap.String("folder", folder),
		zap.Int("episodes", len(selected)))

	for _, entry := range selected {
		record := domain.NewEpisodeDownload(summary.RunID, feedURL, entry)

		switch {
		case ctx.Err() != nil:
			record.MarkFailed(ctx.Err())
		case !entry.Downloadable():
			record.MarkSkipped(domain.SkipNoEnclosure)
			dm.logger.Debug("Skipping entry without enclosure", zap.String("episode", entry.Title))
		case seen[entry.SourceURL()]:
			record.MarkSkipped(domain.SkipDuplicate)
			dm.logger.Debug("Skipping duplicate entry", zap.String("episode", entry.Title))
		default:
			seen[entry.SourceURL()] = true
			dm.processEntry(ctx, record, ResolveTarget(entry, folder), progress)
		}

		summary.Record(record)
		dm.saveHistory(record)
	}

	summary.Finish()

	dm.logger.Info("Download run finished",
		zap.String("run_id", summary.RunID),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
		zap.Int("skipped", summary.Skipped))

	if dm.notifier != nil {
		dm.notifier.NotifyRunCompleted(summary)
	}

	return summary, nil
}

// processEntry downloads one entry with retries and marks the record
func (dm *DownloadManager) processEntry(
	ctx context.Context,
	record *domain.EpisodeDownload,
	target domain.DownloadTarget,
	progress domain.ProgressFunc,
) {
	label := filepath.Base(target.LocalPath)

	var lastErr error
	for attempt := 0; attempt <= dm.config.MaxRetries; attempt++ {
		if attempt > 0 {
			dm.logger.Info("Retrying download",
				zap.String("episode", record.EpisodeTitle),
				zap.Int("attempt", attempt),
				zap.Int("max_retries", dm.config.MaxRetries))

			select {
			case <-time.After(dm.config.RetryDelay):
			case <-ctx.Done():
				record.MarkFailed(ctx.Err())
				return
			}
		}

		record.Attempts++
		written, err := dm.transferOnce(ctx, target, label, progress)
		if err == nil {
			record.MarkSucceeded(target.LocalPath, written)
			dm.logger.Info("Download completed",
				zap.String("episode", record.EpisodeTitle),
				zap.String("path", target.LocalPath),
				zap.Int64("bytes", written))
			return
		}

		lastErr = err
		dm.logger.Warn("Download attempt failed",
			zap.String("episode", record.EpisodeTitle),
			zap.String("url", target.SourceURL),
			zap.Int("attempt", attempt),
			zap.Error(err))

		if !retryable(ctx, err) {
			break
		}
	}

	record.MarkFailed(lastErr)
	dm.logger.Error("Download failed",
		zap.String("episode", record.EpisodeTitle),
		zap.String("url", target.SourceURL),
		zap.Error(lastErr))
}

// transferOnce streams target.SourceURL into target.LocalPath.
// Bytes land in a ".part" file that is renamed into place only once complete.
func (dm *DownloadManager) transferOnce(
	ctx context.Context,
	target domain.DownloadTarget,
	label string,
	progress domain.ProgressFunc,
) (int64, error) {
	headers := http.Header{}
	headers.Set("User-Agent", dm.config.UserAgent)

	resp, err := dm.transfer.StreamGet(ctx, target.SourceURL, headers)
	if err != nil {
		return 0, &domain.TransferError{URL: target.SourceURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, &domain.TransferError{URL: target.SourceURL, StatusCode: resp.StatusCode}
	}

	partPath := target.LocalPath + partialSuffix
	file, err := os.Create(partPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}

	total := resp.TotalSize
	if total < 0 {
		total = domain.UnknownSize
	}
	progress(0, total, label)

	reader := &progressReader{reader: resp.Body, total: total, label: label, report: progress}
	written, copyErr := io.CopyBuffer(file, reader, make([]byte, copyBufferSize))
	if copyErr == nil {
		copyErr = file.Sync()
	}
	closeErr := file.Close()

	if copyErr != nil {
		os.Remove(partPath)
		return written, &domain.TransferError{URL: target.SourceURL, Err: copyErr}
	}
	if closeErr != nil {
		os.Remove(partPath)
		return written, fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Rename(partPath, target.LocalPath); err != nil {
		os.Remove(partPath)
		return written, fmt.Errorf("failed to move file into place: %w", err)
	}

	return written, nil
}

func (dm *DownloadManager) saveHistory(record *domain.EpisodeDownload) {
	if dm.history == nil {
		return
	}
	if err := dm.history.Create(record); err != nil {
		dm.logger.Warn("Failed to record download history",
			zap.String("episode", record.EpisodeTitle),
			zap.Error(err))
	}
}

// retryable reports whether another attempt could succeed.
// Only remote failures are retried.
func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	// local file errors repeat on every attempt
	var transferErr *domain.TransferError
	if !errors.As(err, &transferErr) {
		return false
	}
	if transferErr.StatusCode != 0 {
		return transferErr.StatusCode >= 500 || transferErr.StatusCode == http.StatusTooManyRequests
	}
	return true
}

// EnsureFolder creates folder and its parents if missing
func EnsureFolder(folder string) error {
	if err := os.MkdirAll(folder, 0755); err != nil {
		return &domain.FolderCreateError{Path: folder, Err: err}
	}
	return nil
}

// ResolveTarget derives where an entry's first enclosure is saved
func ResolveTarget(entry domain.FeedEntry, folder string) domain.DownloadTarget {
	source := entry.SourceURL()
	return domain.DownloadTarget{
		SourceURL: source,
		LocalPath: filepath.Join(folder, FileNameFromURL(source)),
	}
}

// FileNameFromURL returns the basename of the URL path, without query or fragment
func FileNameFromURL(rawURL string) string {
	var name string
	if parsed, err := url.Parse(rawURL); err == nil {
		name = path.Base(parsed.Path)
	} else {
		trimmed := rawURL
		if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
			trimmed = trimmed[:i]
		}
		name = path.Base(trimmed)
	}

	name = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == 0 {
			return '_'
		}
		return r
	}, name)

	if name == "" || name == "." || name == ".." || name == "/" || name == "_" {
		name = "episode-" + uuid.New().String()[:8]
	}
	return name
}

// progressReader reports cumulative bytes read from the body
type progressReader struct {
	reader   io.Reader
	received int64
	total    int64
	label    string
	report   domain.ProgressFunc
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if n > 0 {
		r.received += int64(n)
		r.report(r.received, r.total, r.label)
	}
	return n, err
}
