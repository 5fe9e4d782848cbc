package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/podgrab-go/internal/app"
	"github.com/yourusername/podgrab-go/internal/domain"
	"go.uber.org/zap"
)

// EpisodeHandler lists the entries of a feed
type EpisodeHandler struct {
	feeds  domain.FeedSource
	logger *zap.Logger
}

// NewEpisodeHandler creates a new episode handler
func NewEpisodeHandler(feeds domain.FeedSource, logger *zap.Logger) *EpisodeHandler {
	return &EpisodeHandler{
		feeds:  feeds,
		logger: logger,
	}
}

// EpisodeListResponse is the labelled display window of a feed
type EpisodeListResponse struct {
	URL      string                `json:"url"`
	Title    string                `json:"title"`
	Total    int                   `json:"total"`
	Episodes []domain.LabeledEntry `json:"episodes"`
	All      []domain.FeedEntry    `json:"all,omitempty"`
}

// ListEpisodes handles GET /api/v1/episodes?url=...
func (h *EpisodeHandler) ListEpisodes(c *gin.Context) {
	feedURL := c.Query("url")
	if feedURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url query parameter is required"})
		return
	}

	feed, err := h.feeds.Fetch(c.Request.Context(), feedURL)
	if err != nil {
		h.logger.Warn("Failed to load feed", zap.String("feed_url", feedURL), zap.Error(err))
		writeError(c, err)
		return
	}

	response := EpisodeListResponse{
		URL:      feed.URL,
		Title:    feed.Title,
		Total:    len(feed.Entries),
		Episodes: app.LabelEntries(feed.Entries),
	}
	if all, _ := strconv.ParseBool(c.Query("all")); all {
		response.All = feed.Entries
	}

	c.JSON(http.StatusOK, response)
}
