package infrastructure

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/podgrab-go/internal/domain"
)

func TestJSONLibrary_MissingFileIsEmpty(t *testing.T) {
	library := NewJSONLibrary(filepath.Join(t.TempDir(), "podcast_library.json"))

	records, err := library.List()
	require.NoError(t, err)
	assert.Empty(t, records)

	found, err := library.FindByURL("https://example.com/feed.xml")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestJSONLibrary_SaveListSorted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "podcast_library.json")
	library := NewJSONLibrary(path)

	require.NoError(t, library.Save(domain.LibraryRecord{Title: "Zebra Talk", URL: "https://z.example.com/rss"}))
	require.NoError(t, library.Save(domain.LibraryRecord{Title: "Apple Hour", URL: "https://a.example.com/rss"}))

	records, err := library.List()
	require.NoError(t, err)
	assert.Equal(t, []domain.LibraryRecord{
		{Title: "Apple Hour", URL: "https://a.example.com/rss"},
		{Title: "Zebra Talk", URL: "https://z.example.com/rss"},
	}, records)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var onDisk map[string]string
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, map[string]string{
		"Apple Hour": "https://a.example.com/rss",
		"Zebra Talk": "https://z.example.com/rss",
	}, onDisk)
	assert.Contains(t, string(data), "\n    \"Apple Hour\"")
}

func TestJSONLibrary_SaveKeepsFileReadable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	path := filepath.Join(t.TempDir(), "podcast_library.json")
	library := NewJSONLibrary(path)

	require.NoError(t, library.Save(domain.LibraryRecord{Title: "Apple Hour", URL: "https://a.example.com/rss"}))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	removed, err := library.Remove("Apple Hour")
	require.NoError(t, err)
	require.True(t, removed)
	info, err = os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestJSONLibrary_SaveReplacesByTitle(t *testing.T) {
	library := NewJSONLibrary(filepath.Join(t.TempDir(), "lib.json"))

	require.NoError(t, library.Save(domain.LibraryRecord{Title: "Show", URL: "https://old.example.com"}))
	require.NoError(t, library.Save(domain.LibraryRecord{Title: "Show", URL: "https://new.example.com"}))

	records, err := library.List()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "https://new.example.com", records[0].URL)
}

func TestJSONLibrary_SaveRejectsEmpty(t *testing.T) {
	library := NewJSONLibrary(filepath.Join(t.TempDir(), "lib.json"))

	assert.Error(t, library.Save(domain.LibraryRecord{Title: " ", URL: "https://x"}))
	assert.Error(t, library.Save(domain.LibraryRecord{Title: "X", URL: ""}))
}

func TestJSONLibrary_Remove(t *testing.T) {
	library := NewJSONLibrary(filepath.Join(t.TempDir(), "lib.json"))
	require.NoError(t, library.Save(domain.LibraryRecord{Title: "Show", URL: "https://example.com"}))

	removed, err := library.Remove("Show")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = library.Remove("Show")
	require.NoError(t, err)
	assert.False(t, removed)

	records, err := library.List()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestJSONLibrary_FindByURL(t *testing.T) {
	library := NewJSONLibrary(filepath.Join(t.TempDir(), "lib.json"))
	require.NoError(t, library.Save(domain.LibraryRecord{Title: "Show", URL: "https://example.com/feed"}))

	found, err := library.FindByURL("https://example.com/feed")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Show", found.Title)
}

func TestJSONLibrary_ReadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Case Sensitive Title": "https://example.com/a"}`), 0644))

	records, err := NewJSONLibrary(path).List()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Case Sensitive Title", records[0].Title)
}

func TestJSONLibrary_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.json")
	require.NoError(t, os.WriteFile(path, []byte(`not json`), 0644))

	_, err := NewJSONLibrary(path).List()
	assert.Error(t, err)
}
