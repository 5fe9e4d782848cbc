package domain

// DisplayWindowSize is the number of leading entries eligible for letter labels
const DisplayWindowSize = 10

// UnknownPodcastTitle is used when a feed carries no title of its own
const UnknownPodcastTitle = "Unknown Podcast"

// EnclosureRef references a downloadable media file attached to an entry
type EnclosureRef struct {
	URL    string `json:"url"`
	Type   string `json:"type,omitempty"`
	Length int64  `json:"length,omitempty"`
}

// FeedEntry is one episode of a feed
type FeedEntry struct {
	Title      string         `json:"title"`
	Enclosures []EnclosureRef `json:"enclosures"`
}

// Downloadable reports whether the entry has at least one enclosure
func (e FeedEntry) Downloadable() bool {
	return len(e.Enclosures) > 0
}

// SourceURL returns the URL of the first enclosure, or "" when there is none
func (e FeedEntry) SourceURL() string {
	if !e.Downloadable() {
		return ""
	}
	return e.Enclosures[0].URL
}

// Feed is the parsed form of a podcast feed
type Feed struct {
	URL     string      `json:"url"`
	Title   string      `json:"title"`
	Entries []FeedEntry `json:"entries"`
}

// LabeledEntry pairs a display letter with an entry of the display window.
// Labels only have meaning for one selection prompt over one feed.
type LabeledEntry struct {
	Label string    `json:"label"`
	Entry FeedEntry `json:"entry"`
}

// LabelFor returns the label for the i-th entry of the display window
func LabelFor(i int) string {
	return string(rune('A' + i))
}
