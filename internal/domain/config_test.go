package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.NotNil(t, config)
	assert.Equal(t, "podcasts", config.DownloadFolder)
	assert.Equal(t, "podcast_library.json", config.LibraryPath)
	assert.Equal(t, "podgrab.db", config.HistoryPath)
	assert.Equal(t, "PodGrabber/1.0", config.HTTP.UserAgent)
	assert.Equal(t, 2, config.HTTP.MaxRetries)
	assert.Equal(t, 2*time.Second, config.HTTP.RetryDelay)
	assert.Equal(t, 10*time.Minute, config.Feed.CacheTTL)
	assert.Equal(t, "localhost", config.Server.Host)
	assert.Equal(t, 8080, config.Server.Port)
	assert.False(t, config.Notification.Enabled)
	assert.Equal(t, "warn", config.Logging.Level)
	assert.Equal(t, "stderr", config.Logging.OutputPath)
}
