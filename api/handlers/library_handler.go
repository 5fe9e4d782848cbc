package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/podgrab-go/internal/domain"
	"go.uber.org/zap"
)

// LibraryHandler handles podcast library requests
type LibraryHandler struct {
	library domain.LibraryRepository
	logger  *zap.Logger
}

// NewLibraryHandler creates a new library handler
func NewLibraryHandler(library domain.LibraryRepository, logger *zap.Logger) *LibraryHandler {
	return &LibraryHandler{
		library: library,
		logger:  logger,
	}
}

// AddLibraryRequest represents a request to save a feed
type AddLibraryRequest struct {
	Title string `json:"title" binding:"required"`
	URL   string `json:"url" binding:"required"`
}

// ListLibrary handles GET /api/v1/library
func (h *LibraryHandler) ListLibrary(c *gin.Context) {
	records, err := h.library.List()
	if err != nil {
		h.logger.Error("Failed to list library", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, records)
}

// AddToLibrary handles POST /api/v1/library
func (h *LibraryHandler) AddToLibrary(c *gin.Context) {
	var req AddLibraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record := domain.LibraryRecord{Title: req.Title, URL: req.URL}
	if err := h.library.Save(record); err != nil {
		h.logger.Error("Failed to save library record", zap.String("title", req.Title), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, record)
}

// RemoveFromLibrary handles DELETE /api/v1/library/:title
func (h *LibraryHandler) RemoveFromLibrary(c *gin.Context) {
	title := c.Param("title")

	removed, err := h.library.Remove(title)
	if err != nil {
		h.logger.Error("Failed to remove library record", zap.String("title", title), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "podcast not found in library"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "podcast removed from library"})
}
