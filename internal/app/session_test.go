package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/podgrab-go/internal/domain"
)

type fakeFeedSource struct {
	feeds       map[string]*domain.Feed
	fetched     []string
	invalidated []string
}

func (f *fakeFeedSource) Invalidate(feedURL string) {
	f.invalidated = append(f.invalidated, feedURL)
}

func (f *fakeFeedSource) Fetch(ctx context.Context, feedURL string) (*domain.Feed, error) {
	f.fetched = append(f.fetched, feedURL)
	feed, ok := f.feeds[feedURL]
	if !ok {
		return nil, &domain.FeedFetchError{URL: feedURL, Err: errors.New("404 Not Found")}
	}
	return feed, nil
}

type memoryLibrary struct {
	entries map[string]string
}

func newMemoryLibrary(entries map[string]string) *memoryLibrary {
	if entries == nil {
		entries = map[string]string{}
	}
	return &memoryLibrary{entries: entries}
}

func (l *memoryLibrary) List() ([]domain.LibraryRecord, error) {
	records := make([]domain.LibraryRecord, 0, len(l.entries))
	for title, url := range l.entries {
		records = append(records, domain.LibraryRecord{Title: title, URL: url})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Title < records[j].Title })
	return records, nil
}

func (l *memoryLibrary) Save(record domain.LibraryRecord) error {
	l.entries[record.Title] = record.URL
	return nil
}

func (l *memoryLibrary) Remove(title string) (bool, error) {
	_, ok := l.entries[title]
	delete(l.entries, title)
	return ok, nil
}

func (l *memoryLibrary) FindByURL(url string) (*domain.LibraryRecord, error) {
	for title, u := range l.entries {
		if u == url {
			return &domain.LibraryRecord{Title: title, URL: u}, nil
		}
	}
	return nil, nil
}

type recordingSink struct {
	updates  int
	finished int
}

func (s *recordingSink) Update(received, total int64, label string) { s.updates++ }
func (s *recordingSink) Finish()                                      { s.finished++ }

const testFeedURL = "https://example.com/feed.xml"

func sessionFixture(t *testing.T, input string, library *memoryLibrary) (*Session, *bytes.Buffer, *fakeTransfer, string) {
	t.Helper()
	folder := filepath.Join(t.TempDir(), "podcasts")

	transfer := newFakeTransfer()
	transfer.on("https://cdn.example.com/ep1.mp3", &fakeResponse{body: []byte("one")})
	transfer.on("https://cdn.example.com/ep2.mp3", &fakeResponse{body: []byte("two")})

	feeds := &fakeFeedSource{feeds: map[string]*domain.Feed{
		testFeedURL: {
			URL:   testFeedURL,
			Title: "Test Cast",
			Entries: []domain.FeedEntry{
				entryWith("Episode 2", "https://cdn.example.com/ep2.mp3"),
				entryWith("Episode 1", "https://cdn.example.com/ep1.mp3"),
			},
		},
	}}

	out := &bytes.Buffer{}
	session := NewSession(SessionConfig{
		In:      strings.NewReader(input),
		Out:     out,
		Feeds:   feeds,
		Library: library,
		Manager: NewDownloadManager(transfer, nil, nil, &domain.HTTPConfig{UserAgent: "PodGrabber/1.0"}, nil),
		Folder:  folder,
	})
	return session, out, transfer, folder
}

func entryWith(title, url string) domain.FeedEntry {
	return domain.FeedEntry{Title: title, Enclosures: []domain.EnclosureRef{{URL: url}}}
}

func TestSession_NewFeedDownloadAndSave(t *testing.T) {
	library := newMemoryLibrary(nil)
	input := strings.Join([]string{testFeedURL, "a", "y", "quit"}, "\n") + "\n"
	session, out, _, folder := sessionFixture(t, input, library)

	require.NoError(t, session.Run(context.Background()))

	data, err := os.ReadFile(filepath.Join(folder, "ep2.mp3"))
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	assert.Equal(t, testFeedURL, library.entries["Test Cast"])

	output := out.String()
	assert.Contains(t, output, "A.) Episode 2")
	assert.Contains(t, output, "B.) Episode 1")
	assert.Contains(t, output, "Done: 1 downloaded, 0 skipped, 0 failed.")
	assert.Contains(t, output, "Saved to library.")
	assert.Contains(t, output, "Thank you for using PodGrabber. Goodbye!")
}

func TestSession_LibraryChoiceSkipsSavePrompt(t *testing.T) {
	library := newMemoryLibrary(map[string]string{"Test Cast": testFeedURL})
	input := strings.Join([]string{"1", "all", "quit"}, "\n") + "\n"
	session, out, transfer, folder := sessionFixture(t, input, library)

	require.NoError(t, session.Run(context.Background()))

	assert.Len(t, transfer.calls, 2)
	assert.FileExists(t, filepath.Join(folder, "ep1.mp3"))
	assert.FileExists(t, filepath.Join(folder, "ep2.mp3"))
	assert.Contains(t, out.String(), "1. Test Cast")
	assert.NotContains(t, out.String(), "save this RSS feed")
}

func TestSession_NumberOutOfRangeIsTreatedAsURL(t *testing.T) {
	library := newMemoryLibrary(map[string]string{"Test Cast": testFeedURL})
	input := strings.Join([]string{"0", "q"}, "\n") + "\n"
	session, out, _, _ := sessionFixture(t, input, library)

	require.NoError(t, session.Run(context.Background()))

	assert.Contains(t, out.String(), "Could not load feed")
	assert.Contains(t, out.String(), "Exiting PodGrabber. Goodbye!")
}

func TestSession_FeedFetchFailureRestartsTurn(t *testing.T) {
	library := newMemoryLibrary(nil)
	input := strings.Join([]string{"https://bad.example.com/feed", testFeedURL, "first", "n", "quit"}, "\n") + "\n"
	session, out, transfer, _ := sessionFixture(t, input, library)

	require.NoError(t, session.Run(context.Background()))

	assert.Contains(t, out.String(), "Could not load feed")
	assert.Equal(t, []string{"https://cdn.example.com/ep2.mp3"}, transfer.calls)
	assert.Empty(t, library.entries)
}

func TestSession_InvalidAnswersReprompt(t *testing.T) {
	library := newMemoryLibrary(map[string]string{"Test Cast": testFeedURL})
	input := strings.Join([]string{"1", "", "nothing-matches", "maybe", "QUIT"}, "\n") + "\n"
	session, out, transfer, _ := sessionFixture(t, input, library)

	require.NoError(t, session.Run(context.Background()))

	assert.Empty(t, transfer.calls)
	assert.Contains(t, out.String(), "No episodes matched your selection.")
	assert.Contains(t, out.String(), "Invalid input. Please try again.")
	assert.Contains(t, out.String(), "Thank you for using PodGrabber. Goodbye!")
}

func TestSession_StartLoopsAgain(t *testing.T) {
	library := newMemoryLibrary(map[string]string{"Test Cast": testFeedURL})
	input := strings.Join([]string{"1", "B", "start", "1", "A", "quit"}, "\n") + "\n"
	session, _, transfer, _ := sessionFixture(t, input, library)

	require.NoError(t, session.Run(context.Background()))

	assert.Equal(t, []string{"https://cdn.example.com/ep1.mp3", "https://cdn.example.com/ep2.mp3"}, transfer.calls)

	feeds := session.feeds.(*fakeFeedSource)
	assert.Equal(t, []string{testFeedURL}, feeds.invalidated)
	assert.Equal(t, []string{testFeedURL, testFeedURL}, feeds.fetched)
}

func TestSession_QuitAndEndOfInput(t *testing.T) {
	session, out, _, _ := sessionFixture(t, "Q\n", newMemoryLibrary(nil))
	require.NoError(t, session.Run(context.Background()))
	assert.Contains(t, out.String(), "Exiting PodGrabber. Goodbye!")

	session, _, _, _ = sessionFixture(t, "", newMemoryLibrary(nil))
	assert.NoError(t, session.Run(context.Background()))
}

func TestSession_CancelledContext(t *testing.T) {
	session, _, _, _ := sessionFixture(t, testFeedURL+"\n", newMemoryLibrary(nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, session.Run(ctx), context.Canceled)
}

func TestSession_ProgressSinkFinished(t *testing.T) {
	library := newMemoryLibrary(map[string]string{"Test Cast": testFeedURL})
	input := strings.Join([]string{"1", "a,b", "quit"}, "\n") + "\n"
	session, _, _, _ := sessionFixture(t, input, library)
	sink := &recordingSink{}
	session.progress = sink

	require.NoError(t, session.Run(context.Background()))

	assert.Greater(t, sink.updates, 0)
	assert.Equal(t, 1, sink.finished)
}

func TestPrintSummary(t *testing.T) {
	summary := domain.NewRunSummary(testFeedURL, "podcasts")
	ok := domain.NewEpisodeDownload(summary.RunID, testFeedURL, entryWith("One", "https://x/1.mp3"))
	ok.MarkSucceeded("podcasts/1.mp3", 10)
	skipped := domain.NewEpisodeDownload(summary.RunID, testFeedURL, domain.FeedEntry{Title: "Notes"})
	skipped.MarkSkipped(domain.SkipNoEnclosure)
	failed := domain.NewEpisodeDownload(summary.RunID, testFeedURL, entryWith("Two", "https://x/2.mp3"))
	failed.MarkFailed(&domain.TransferError{URL: "https://x/2.mp3", StatusCode: 500})
	summary.Record(ok)
	summary.Record(skipped)
	summary.Record(failed)

	out := &bytes.Buffer{}
	PrintSummary(out, summary)

	assert.Equal(t, "Downloaded podcasts/1.mp3\n"+
		"Skipped Notes (no_enclosure)\n"+
		"Failed Two: transfer failed for https://x/2.mp3: status 500\n"+
		"Done: 1 downloaded, 1 skipped, 1 failed.\n", out.String())
}
