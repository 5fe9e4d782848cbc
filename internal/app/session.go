package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/yourusername/podgrab-go/internal/domain"
)

// Session prompt answers
const (
	AnswerQuit  = "q"
	AnswerYes   = "y"
	AnswerNo    = "n"
	ActionStart = "start"
	ActionQuit  = "quit"
)

const selectionHelp = `Enter letters for specific episodes (e.g., A, B), 'all' for all episodes,
'first' for the first episode, 'last' for the last episode,
a number for a specific number of recent episodes, or enter a keyword to filter by title.`

// errQuit ends the session from any prompt
var errQuit = errors.New("session quit")

// ProgressSink renders transfer progress during an interactive run
type ProgressSink interface {
	Update(received, total int64, label string)
	Finish()
}

// SessionConfig wires the collaborators of an interactive session
type SessionConfig struct {
	In       io.Reader
	Out      io.Writer
	Feeds    domain.FeedSource
	Library  domain.LibraryRepository
	Selector *EpisodeSelector
	Manager  *DownloadManager
	Folder   string
	Progress ProgressSink
	Logger   *zap.Logger
}

// Session runs the prompt loop: pick a feed, pick episodes, download, optionally save the feed
type Session struct {
	in       *bufio.Reader
	out      io.Writer
	feeds    domain.FeedSource
	library  domain.LibraryRepository
	selector *EpisodeSelector
	manager  *DownloadManager
	folder   string
	progress ProgressSink
	logger   *zap.Logger
}

// NewSession creates a new interactive session
func NewSession(cfg SessionConfig) *Session {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Selector == nil {
		cfg.Selector = NewEpisodeSelector()
	}
	return &Session{
		in:       bufio.NewReader(cfg.In),
		out:      cfg.Out,
		feeds:    cfg.Feeds,
		library:  cfg.Library,
		selector: cfg.Selector,
		manager:  cfg.Manager,
		folder:   cfg.Folder,
		progress: cfg.Progress,
		logger:   cfg.Logger,
	}
}

// Run loops until the user quits, input ends, or ctx is cancelled
func (s *Session) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		again, err := s.turn(ctx)
		if errors.Is(err, errQuit) {
			s.println("Exiting PodGrabber. Goodbye!")
			return nil
		}
		if err != nil {
			return err
		}
		if !again {
			s.println("Thank you for using PodGrabber. Goodbye!")
			return nil
		}
	}
}

// turn runs one feed cycle and reports whether the user wants another
func (s *Session) turn(ctx context.Context) (bool, error) {
	feedURL, known, err := s.selectFeed()
	if err != nil {
		return false, err
	}

	feed, err := s.feeds.Fetch(ctx, feedURL)
	if err != nil {
		if domain.IsFeedFetchFailed(err) {
			s.printf("Could not load feed: %v\n", err)
			return true, nil
		}
		return false, err
	}

	selected, err := s.selectEpisodes(feed)
	if err != nil {
		return false, err
	}

	if len(selected) > 0 {
		if err := s.download(ctx, feed, selected); err != nil {
			return false, err
		}
	}

	if !known {
		if err := s.offerSave(feed); err != nil {
			return false, err
		}
	}

	action, err := s.prompt("Would you like to start again or quit PodGrabber? (start/quit): ", ActionStart, ActionQuit)
	if err != nil {
		return false, err
	}
	if action != ActionStart {
		return false, nil
	}

	// the next turn may return to this feed and should see new episodes
	s.feeds.Invalidate(feed.URL)
	return true, nil
}

// selectFeed offers the library, if any, and returns the chosen feed URL
func (s *Session) selectFeed() (string, bool, error) {
	records, err := s.library.List()
	if err != nil {
		return "", false, fmt.Errorf("failed to load library: %w", err)
	}

	if len(records) == 0 {
		feedURL, err := s.promptNonEmpty("Enter the podcast RSS feed URL: ")
		return feedURL, false, err
	}

	s.println("Select a podcast from your library or enter a new RSS feed URL:")
	for i, record := range records {
		s.printf("%d. %s\n", i+1, record.Title)
	}

	choice, err := s.promptNonEmpty("Your choice (or enter a new URL): ")
	if err != nil {
		return "", false, err
	}

	if n, convErr := strconv.Atoi(choice); convErr == nil && n >= 1 && n <= len(records) {
		return records[n-1].URL, true, nil
	}

	existing, err := s.library.FindByURL(choice)
	if err != nil {
		return "", false, fmt.Errorf("failed to look up library: %w", err)
	}
	return choice, existing != nil, nil
}

// selectEpisodes shows the display window and applies the user's query
func (s *Session) selectEpisodes(feed *domain.Feed) ([]domain.FeedEntry, error) {
	s.printf("\nAvailable episodes from %s:\n", feed.Title)
	for _, labeled := range LabelEntries(feed.Entries) {
		s.printf("%s.) %s\n", labeled.Label, labeled.Entry.Title)
	}
	s.println(selectionHelp)

	query, err := s.promptNonEmpty("Your choice: ")
	if err != nil {
		return nil, err
	}

	mode, selected, err := s.selector.SelectWithMode(feed.Entries, query)
	if err != nil {
		if domain.IsEmptySelection(err) {
			s.println("The feed has no episodes to choose from.")
			return nil, nil
		}
		return nil, err
	}

	s.logger.Debug("Episodes selected",
		zap.String("feed_url", feed.URL),
		zap.String("mode", mode),
		zap.Int("count", len(selected)))

	if len(selected) == 0 {
		s.println("No episodes matched your selection.")
	}
	return selected, nil
}

func (s *Session) download(ctx context.Context, feed *domain.Feed, selected []domain.FeedEntry) error {
	var progress domain.ProgressFunc
	if s.progress != nil {
		progress = s.progress.Update
	}

	summary, err := s.manager.DownloadEpisodes(ctx, feed.URL, selected, s.folder, progress)
	if s.progress != nil {
		s.progress.Finish()
	}
	if err != nil {
		if domain.IsFolderCreateFailed(err) {
			s.printf("Cannot download: %v\n", err)
			return nil
		}
		return err
	}

	PrintSummary(s.out, summary)
	return nil
}

func (s *Session) offerSave(feed *domain.Feed) error {
	answer, err := s.prompt("Do you want to save this RSS feed in the Library? (y/n): ", AnswerYes, AnswerNo)
	if err != nil {
		return err
	}
	if answer != AnswerYes {
		return nil
	}

	if err := s.library.Save(domain.LibraryRecord{Title: feed.Title, URL: feed.URL}); err != nil {
		s.printf("Could not save to library: %v\n", err)
		return nil
	}
	s.println("Saved to library.")
	return nil
}

// prompt reads one answer, re-prompting until it is one of valid
func (s *Session) prompt(message string, valid ...string) (string, error) {
	for {
		answer, err := s.readLine(message)
		if err != nil {
			return "", err
		}
		lowered := strings.ToLower(answer)
		for _, v := range valid {
			if lowered == v {
				return lowered, nil
			}
		}
		s.println("Invalid input. Please try again.")
	}
}

// promptNonEmpty reads one answer, re-prompting on blank input
func (s *Session) promptNonEmpty(message string) (string, error) {
	for {
		answer, err := s.readLine(message)
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
	}
}

// readLine prints message and returns the trimmed reply. "q" and end of input quit.
func (s *Session) readLine(message string) (string, error) {
	s.printf("%s", message)
	line, err := s.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			s.println("")
			return "", errQuit
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	answer := strings.TrimSpace(line)
	if strings.EqualFold(answer, AnswerQuit) {
		return "", errQuit
	}
	return answer, nil
}

func (s *Session) printf(format string, args ...interface{}) {
	fmt.Fprintf(s.out, format, args...)
}

func (s *Session) println(line string) {
	fmt.Fprintln(s.out, line)
}

// PrintSummary writes one line per outcome followed by the run totals
func PrintSummary(out io.Writer, summary *domain.RunSummary) {
	for _, outcome := range summary.Outcomes {
		switch outcome.Status {
		case domain.StatusSucceeded:
			fmt.Fprintf(out, "Downloaded %s\n", outcome.FilePath)
		case domain.StatusSkipped:
			fmt.Fprintf(out, "Skipped %s (%s)\n", outcome.EpisodeTitle, outcome.SkipReason)
		case domain.StatusFailed:
			fmt.Fprintf(out, "Failed %s: %s\n", outcome.EpisodeTitle, outcome.ErrorMessage)
		}
	}
	fmt.Fprintf(out, "Done: %d downloaded, %d skipped, %d failed.\n",
		summary.Succeeded, summary.Skipped, summary.Failed)
}
