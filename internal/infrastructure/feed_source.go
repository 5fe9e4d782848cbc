package infrastructure

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/yourusername/podgrab-go/internal/domain"
)

// defaultFeedTimeout bounds a feed fetch when no HTTP timeout is configured
const defaultFeedTimeout = 30 * time.Second

// FeedSource implements domain.FeedSource with gofeed, caching parsed feeds by URL
type FeedSource struct {
	parser *gofeed.Parser
	cache  *cache.Cache
	logger *zap.Logger
}

// NewFeedSource creates a feed source. A zero cache TTL disables caching.
func NewFeedSource(httpConfig *domain.HTTPConfig, feedConfig *domain.FeedConfig, logger *zap.Logger) *FeedSource {
	if logger == nil {
		logger = zap.NewNop()
	}

	timeout := httpConfig.Timeout
	if timeout <= 0 {
		timeout = defaultFeedTimeout
	}

	parser := gofeed.NewParser()
	parser.UserAgent = httpConfig.UserAgent
	parser.Client = &http.Client{Timeout: timeout}

	var feedCache *cache.Cache
	if feedConfig != nil && feedConfig.CacheTTL > 0 {
		feedCache = cache.New(feedConfig.CacheTTL, 2*feedConfig.CacheTTL)
	}

	return &FeedSource{
		parser: parser,
		cache:  feedCache,
		logger: logger,
	}
}

// Fetch retrieves and parses the feed at feedURL
func (s *FeedSource) Fetch(ctx context.Context, feedURL string) (*domain.Feed, error) {
	feedURL = strings.TrimSpace(feedURL)
	if feedURL == "" {
		return nil, &domain.FeedFetchError{URL: feedURL, Err: errors.New("empty feed URL")}
	}

	if s.cache != nil {
		if cached, ok := s.cache.Get(feedURL); ok {
			s.logger.Debug("Feed cache hit", zap.String("feed_url", feedURL))
			return cached.(*domain.Feed), nil
		}
	}

	parsed, err := s.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		s.logger.Warn("Failed to fetch feed", zap.String("feed_url", feedURL), zap.Error(err))
		return nil, &domain.FeedFetchError{URL: feedURL, Err: err}
	}

	feed := translateFeed(feedURL, parsed)

	s.logger.Info("Fetched feed",
		zap.String("feed_url", feedURL),
		zap.String("title", feed.Title),
		zap.Int("entries", len(feed.Entries)))

	if s.cache != nil {
		s.cache.Set(feedURL, feed, cache.DefaultExpiration)
	}
	return feed, nil
}

// Invalidate drops a cached feed
func (s *FeedSource) Invalidate(feedURL string) {
	if s.cache != nil {
		s.cache.Delete(feedURL)
	}
}

// translateFeed maps a gofeed feed onto domain entries, keeping feed order
func translateFeed(feedURL string, parsed *gofeed.Feed) *domain.Feed {
	title := strings.TrimSpace(parsed.Title)
	if title == "" {
		title = domain.UnknownPodcastTitle
	}

	entries := make([]domain.FeedEntry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		entry := domain.FeedEntry{
			Title:      strings.TrimSpace(item.Title),
			Enclosures: make([]domain.EnclosureRef, 0, len(item.Enclosures)),
		}
		for _, enclosure := range item.Enclosures {
			if enclosure == nil || strings.TrimSpace(enclosure.URL) == "" {
				continue
			}
			length, _ := strconv.ParseInt(strings.TrimSpace(enclosure.Length), 10, 64)
			entry.Enclosures = append(entry.Enclosures, domain.EnclosureRef{
				URL:    strings.TrimSpace(enclosure.URL),
				Type:   enclosure.Type,
				Length: length,
			})
		}
		entries = append(entries, entry)
	}

	return &domain.Feed{
		URL:     feedURL,
		Title:   title,
		Entries: entries,
	}
}
