package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add reviews index", "add_reviews_index"},
		{"Add-Reviews-Index", "add_reviews_index"},
		{"ADD__REVIEWS", "add_reviews"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "special_chars"},
		{"_leading and trailing_", "leading_and_trailing"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	t.Run("first migration is version 000001", func(t *testing.T) {
		mf, err := CreateMigration(dir, "create store schema", "tables")
		require.NoError(t, err)
		assert.Equal(t, "000001", mf.Version)
		assert.FileExists(t, mf.UpPath)
		assert.FileExists(t, mf.DownPath)

		content, err := os.ReadFile(mf.UpPath)
		require.NoError(t, err)
		assert.Contains(t, string(content), "create_store_schema (up)")
		assert.Contains(t, string(content), "-- tables")
	})

	t.Run("next migration follows the highest version", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "000007_manual.up.sql"), nil, 0o644))

		mf, err := CreateMigration(dir, "add index", "")
		require.NoError(t, err)
		assert.Equal(t, "000008", mf.Version)
		assert.Equal(t, filepath.Join(dir, "000008_add_index.down.sql"), mf.DownPath)
	})

	t.Run("unusable name is rejected", func(t *testing.T) {
		_, err := CreateMigration(dir, "!!!", "")
		assert.Error(t, err)
	})
}

func TestListMigrations(t *testing.T) {
	t.Run("missing directory is empty", func(t *testing.T) {
		migrations, err := ListMigrations(filepath.Join(t.TempDir(), "absent"))
		require.NoError(t, err)
		assert.Empty(t, migrations)
	})

	t.Run("lists up files sorted", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{"000002_b.up.sql", "000002_b.down.sql", "000001_a.up.sql", "notes.txt"} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
		}

		migrations, err := ListMigrations(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"000001_a", "000002_b"}, migrations)
	})
}
