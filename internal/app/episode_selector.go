package app

import (
	"math"
	"strconv"
	"strings"

	"github.com/yourusername/podgrab-go/internal/domain"
)

// Selection keywords, matched case-insensitively
const (
	KeywordAll   = "all"
	KeywordFirst = "first"
	KeywordLast  = "last"
)

// labelSeparator splits a letter list such as "A, C, D"
const labelSeparator = ","

// matcher handles a query or passes it on to the next matcher in the chain
type matcher struct {
	name  string
	match func(view *selectionView, query string) (selected []domain.FeedEntry, handled bool, err error)
}

// selectionView is the per-prompt index of a feed: the full entry list plus
// the labelled display window.
type selectionView struct {
	entries []domain.FeedEntry
	window  []domain.FeedEntry
}

func newSelectionView(entries []domain.FeedEntry) *selectionView {
	size := len(entries)
	if size > domain.DisplayWindowSize {
		size = domain.DisplayWindowSize
	}
	return &selectionView{entries: entries, window: entries[:size]}
}

// lookup resolves a label (case-insensitive) to its entry in the display window
func (v *selectionView) lookup(label string) (domain.FeedEntry, bool) {
	label = strings.ToUpper(strings.TrimSpace(label))
	if len(label) != 1 {
		return domain.FeedEntry{}, false
	}
	offset := int(label[0]) - 'A'
	if offset < 0 || offset >= len(v.window) {
		return domain.FeedEntry{}, false
	}
	return v.window[offset], true
}

// EpisodeSelector translates a selection query into the entries to download.
// Interpretations are tried in a fixed order and the first one that handles
// the query wins: single label, label list, "all", "first", "last", a count,
// and finally a title keyword filter.
type EpisodeSelector struct {
	matchers []matcher
}

// NewEpisodeSelector creates a selector with the standard precedence chain
func NewEpisodeSelector() *EpisodeSelector {
	return &EpisodeSelector{
		matchers: []matcher{
			{name: "label", match: matchSingleLabel},
			{name: "label_list", match: matchLabelList},
			{name: KeywordAll, match: matchAll},
			{name: KeywordFirst, match: matchFirst},
			{name: KeywordLast, match: matchLast},
			{name: "count", match: matchCount},
			{name: "title", match: matchTitle},
		},
	}
}

// LabelEntries labels the display window of entries A, B, C, ...
func LabelEntries(entries []domain.FeedEntry) []domain.LabeledEntry {
	view := newSelectionView(entries)
	labeled := make([]domain.LabeledEntry, len(view.window))
	for i, entry := range view.window {
		labeled[i] = domain.LabeledEntry{Label: domain.LabelFor(i), Entry: entry}
	}
	return labeled
}

// Select returns the entries chosen by query, in selection order.
// An empty result is not an error; domain.ErrEmptySelection is returned only
// when "first" or "last" is asked of an empty feed.
func (s *EpisodeSelector) Select(entries []domain.FeedEntry, query string) ([]domain.FeedEntry, error) {
	_, selected, err := s.SelectWithMode(entries, query)
	return selected, err
}

// SelectWithMode is Select that also names the interpretation that handled the query
func (s *EpisodeSelector) SelectWithMode(entries []domain.FeedEntry, query string) (string, []domain.FeedEntry, error) {
	view := newSelectionView(entries)
	query = strings.TrimSpace(query)

	for _, m := range s.matchers {
		selected, handled, err := m.match(view, query)
		if !handled {
			continue
		}
		if selected == nil {
			selected = []domain.FeedEntry{}
		}
		return m.name, selected, err
	}
	return "", []domain.FeedEntry{}, nil
}

func matchSingleLabel(view *selectionView, query string) ([]domain.FeedEntry, bool, error) {
	entry, ok := view.lookup(query)
	if !ok {
		return nil, false, nil
	}
	return []domain.FeedEntry{entry}, true, nil
}

func matchLabelList(view *selectionView, query string) ([]domain.FeedEntry, bool, error) {
	if !strings.Contains(query, labelSeparator) {
		return nil, false, nil
	}
	var selected []domain.FeedEntry
	for _, token := range strings.Split(query, labelSeparator) {
		if entry, ok := view.lookup(token); ok {
			selected = append(selected, entry)
		}
	}
	return selected, true, nil
}

func matchAll(view *selectionView, query string) ([]domain.FeedEntry, bool, error) {
	if !strings.EqualFold(query, KeywordAll) {
		return nil, false, nil
	}
	return append([]domain.FeedEntry(nil), view.entries...), true, nil
}

func matchFirst(view *selectionView, query string) ([]domain.FeedEntry, bool, error) {
	if !strings.EqualFold(query, KeywordFirst) {
		return nil, false, nil
	}
	if len(view.entries) == 0 {
		return nil, true, domain.ErrEmptySelection
	}
	return []domain.FeedEntry{view.entries[0]}, true, nil
}

func matchLast(view *selectionView, query string) ([]domain.FeedEntry, bool, error) {
	if !strings.EqualFold(query, KeywordLast) {
		return nil, false, nil
	}
	if len(view.entries) == 0 {
		return nil, true, domain.ErrEmptySelection
	}
	return []domain.FeedEntry{view.entries[len(view.entries)-1]}, true, nil
}

func matchCount(view *selectionView, query string) ([]domain.FeedEntry, bool, error) {
	if !isDigits(query) {
		return nil, false, nil
	}
	n, err := strconv.Atoi(query)
	if err != nil {
		// only digits, so the value overflowed int
		n = math.MaxInt
	}
	if n > len(view.entries) {
		n = len(view.entries)
	}
	return append([]domain.FeedEntry(nil), view.entries[:n]...), true, nil
}

func matchTitle(view *selectionView, query string) ([]domain.FeedEntry, bool, error) {
	keyword := strings.ToLower(query)
	var selected []domain.FeedEntry
	for _, entry := range view.entries {
		if strings.Contains(strings.ToLower(entry.Title), keyword) {
			selected = append(selected, entry)
		}
	}
	return selected, true, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
