package database

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A NUMERIC(p, s) column would round results computed at full decimal precision,
// so a stored transaction could differ from the response that produced it.
var scaledNumeric = regexp.MustCompile(`(?i)\bNUMERIC\s*\(\s*\d+\s*,\s*\d+\s*\)`)

func TestMigrations_NumericColumnsAreUnscaled(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "..", "migrations", "*.up.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, f := range files {
		body, err := os.ReadFile(f)
		require.NoError(t, err)
		assert.Falsef(t, scaledNumeric.Match(body), "%s declares a scaled NUMERIC column", filepath.Base(f))
	}
}
