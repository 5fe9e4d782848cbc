package infrastructure

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/yourusername/podgrab-go/internal/domain"
)

const libraryFileMode os.FileMode = 0644

// JSONLibrary implements LibraryRepository as a JSON object mapping titles to feed URLs
type JSONLibrary struct {
	path string
	mu   sync.Mutex
}

// NewJSONLibrary creates a library backed by path. The file is created on first save.
func NewJSONLibrary(path string) *JSONLibrary {
	return &JSONLibrary{path: path}
}

// List returns all records ordered by title
func (l *JSONLibrary) List() ([]domain.LibraryRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.load()
	if err != nil {
		return nil, err
	}
	return toRecords(entries), nil
}

// Save inserts or replaces the record with the same title
func (l *JSONLibrary) Save(record domain.LibraryRecord) error {
	title := strings.TrimSpace(record.Title)
	url := strings.TrimSpace(record.URL)
	if title == "" {
		return errors.New("library title must not be empty")
	}
	if url == "" {
		return errors.New("library URL must not be empty")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.load()
	if err != nil {
		return err
	}
	entries[title] = url
	return l.store(entries)
}

// Remove deletes a record by title
func (l *JSONLibrary) Remove(title string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.load()
	if err != nil {
		return false, err
	}
	if _, ok := entries[title]; !ok {
		return false, nil
	}
	delete(entries, title)
	return true, l.store(entries)
}

// FindByURL returns the record for a feed URL, or nil if not present
func (l *JSONLibrary) FindByURL(url string) (*domain.LibraryRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.load()
	if err != nil {
		return nil, err
	}
	for _, record := range toRecords(entries) {
		if record.URL == url {
			found := record
			return &found, nil
		}
	}
	return nil, nil
}

func (l *JSONLibrary) load() (map[string]string, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read library: %w", err)
	}

	entries := map[string]string{}
	if len(strings.TrimSpace(string(data))) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse library %s: %w", l.path, err)
	}
	return entries, nil
}

func (l *JSONLibrary) store(entries map[string]string) error {
	data, err := json.MarshalIndent(entries, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode library: %w", err)
	}

	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create library directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".library-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp library file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write library: %w", err)
	}
	// CreateTemp opens with 0600
	if err := tmp.Chmod(libraryFileMode); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set library permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write library: %w", err)
	}
	if err := os.Rename(tmpPath, l.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace library: %w", err)
	}
	return nil
}

func toRecords(entries map[string]string) []domain.LibraryRecord {
	records := make([]domain.LibraryRecord, 0, len(entries))
	for title, url := range entries {
		records = append(records, domain.LibraryRecord{Title: title, URL: url})
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Title < records[j].Title
	})
	return records
}
