package handlers

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveFolder(t *testing.T) {
	root := filepath.Join(t.TempDir(), "podcasts")

	tests := []struct {
		name      string
		requested string
		want      string
		wantErr   bool
	}{
		{"default", "", root, false},
		{"nested", "shows/daily", filepath.Join(root, "shows", "daily"), false},
		{"cleaned", "shows/../daily", filepath.Join(root, "daily"), false},
		{"parent", "..", "", true},
		{"climbs out", "shows/../../other", "", true},
		{"absolute", filepath.Join(t.TempDir(), "other"), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveFolder(root, tt.requested)
			if tt.wantErr {
				assert.ErrorIs(t, err, errFolderOutsideRoot)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
