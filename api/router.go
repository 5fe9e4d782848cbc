package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/podgrab-go/api/handlers"
	"github.com/yourusername/podgrab-go/api/middleware"
	"github.com/yourusername/podgrab-go/internal/app"
	"github.com/yourusername/podgrab-go/internal/domain"
)

// Dependencies holds what the HTTP API serves from
type Dependencies struct {
	Feeds       domain.FeedSource
	Library     domain.LibraryRepository
	History     domain.HistoryRepository
	Selector    *app.EpisodeSelector
	DownloadMgr *app.DownloadManager
	Folder      string
}

// SetupRouter sets up the HTTP router
func SetupRouter(deps Dependencies, log *zap.Logger) *gin.Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if deps.Selector == nil {
		deps.Selector = app.NewEpisodeSelector()
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(deps.History)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		libraryHandler := handlers.NewLibraryHandler(deps.Library, log)
		library := v1.Group("/library")
		{
			library.GET("", libraryHandler.ListLibrary)
			library.POST("", libraryHandler.AddToLibrary)
			library.DELETE("/:title", libraryHandler.RemoveFromLibrary)
		}

		episodeHandler := handlers.NewEpisodeHandler(deps.Feeds, log)
		v1.GET("/episodes", episodeHandler.ListEpisodes)

		downloadHandler := handlers.NewDownloadHandler(
			deps.Feeds, deps.Selector, deps.DownloadMgr, deps.History, deps.Folder, log)
		downloads := v1.Group("/downloads")
		{
			downloads.POST("", downloadHandler.StartDownload)
			downloads.GET("", downloadHandler.ListDownloads)
			downloads.GET("/stats", downloadHandler.GetStats)
			downloads.GET("/runs/:run_id", downloadHandler.GetRun)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"error": "not found"})
	})

	return router
}
