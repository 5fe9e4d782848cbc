package handlers

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/podgrab-go/internal/app"
	"github.com/yourusername/podgrab-go/internal/domain"
	"go.uber.org/zap"
)

const defaultHistoryLimit = 50

// DownloadHandler handles download-related HTTP requests
type DownloadHandler struct {
	feeds       domain.FeedSource
	selector    *app.EpisodeSelector
	downloadMgr *app.DownloadManager
	history     domain.HistoryRepository
	folder      string
	logger      *zap.Logger
}

// NewDownloadHandler creates a new download handler
func NewDownloadHandler(
	feeds domain.FeedSource,
	selector *app.EpisodeSelector,
	downloadMgr *app.DownloadManager,
	history domain.HistoryRepository,
	folder string,
	logger *zap.Logger,
) *DownloadHandler {
	return &DownloadHandler{
		feeds:       feeds,
		selector:    selector,
		downloadMgr: downloadMgr,
		history:     history,
		folder:      folder,
		logger:      logger,
	}
}

// StartDownloadRequest represents a request to download episodes of a feed
type StartDownloadRequest struct {
	FeedURL string `json:"feed_url" binding:"required"`
	Query   string `json:"query" binding:"required"`
	// Folder is relative to the configured download folder
	Folder  string `json:"folder,omitempty"`
}

var errFolderOutsideRoot = errors.New("folder must be a relative path inside the download folder")

// resolveFolder places a requested folder under root.
// Absolute paths and paths climbing out of root are rejected.
func resolveFolder(root, requested string) (string, error) {
	if requested == "" {
		return root, nil
	}
	if !filepath.IsLocal(requested) {
		return "", errFolderOutsideRoot
	}
	return filepath.Join(root, requested), nil
}

// StartDownload handles POST /api/v1/downloads.
// The run is processed synchronously and the summary returned.
func (h *DownloadHandler) StartDownload(c *gin.Context) {
	var req StartDownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	folder, err := resolveFolder(h.folder, req.Folder)
	if err != nil {
		h.logger.Warn("Rejected download folder", zap.String("folder", req.Folder))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	feed, err := h.feeds.Fetch(ctx, req.FeedURL)
	if err != nil {
		h.logger.Warn("Failed to load feed", zap.String("feed_url", req.FeedURL), zap.Error(err))
		writeError(c, err)
		return
	}

	selected, err := h.selector.Select(feed.Entries, req.Query)
	if err != nil {
		writeError(c, err)
		return
	}

	summary, err := h.downloadMgr.DownloadEpisodes(ctx, feed.URL, selected, folder, nil)
	if err != nil {
		h.logger.Error("Download run failed", zap.String("feed_url", feed.URL), zap.Error(err))
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ListDownloads handles GET /api/v1/downloads
func (h *DownloadHandler) ListDownloads(c *gin.Context) {
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = parsed
	}

	var (
		downloads []*domain.EpisodeDownload
		err       error
	)
	if raw := c.Query("status"); raw != "" {
		status, ok := domain.ParseDownloadStatus(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status must be one of pending, succeeded, failed, skipped"})
			return
		}
		downloads, err = h.history.FindByStatus(status, limit)
	} else {
		downloads, err = h.history.FindRecent(limit)
	}
	if err != nil {
		h.logger.Error("Failed to list downloads", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, downloads)
}

// GetRun handles GET /api/v1/downloads/runs/:run_id
func (h *DownloadHandler) GetRun(c *gin.Context) {
	runID := c.Param("run_id")

	downloads, err := h.history.FindByRun(runID)
	if err != nil {
		h.logger.Error("Failed to load run", zap.String("run_id", runID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(downloads) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}

	c.JSON(http.StatusOK, downloads)
}

// GetStats handles GET /api/v1/downloads/stats
func (h *DownloadHandler) GetStats(c *gin.Context) {
	stats, err := h.history.GetStats()
	if err != nil {
		h.logger.Error("Failed to get stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}
