package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/podgrab-go/internal/domain"
)

// statusFor maps domain failures onto HTTP status codes.
// Folder creation and storage failures are 500.
func statusFor(err error) int {
	switch {
	case domain.IsFeedFetchFailed(err):
		return http.StatusBadGateway
	case domain.IsEmptySelection(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
